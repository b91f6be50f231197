package iobject

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Schema is an ordered list of members. Order matters: positional data
// entries are matched to members in declaration order. A compiled Schema is
// read-only and safe to share between goroutines.
type Schema struct {
	names    []string
	defs     map[string]*MemberDef
	registry *Registry
}

// MemberDef describes one schema member.
type MemberDef struct {
	Name       string
	Type       string // Registered type name
	Optional   bool   // name? ; an absent value yields Default
	Nullable   bool   // null is accepted
	Default    any
	HasDefault bool
	Min        *float64 // number/int lower bound
	Max        *float64 // number/int upper bound
	MinLen     *int     // string/array length lower bound
	MaxLen     *int     // string/array length upper bound
	Pattern    *regexp.Regexp
	Choices    []any
	Schema     *Schema    // For Type == "object"
	Elem       *MemberDef // For Type == "array"
	Pos        Position   // Source position of the declaration
}

func newSchema(registry *Registry) *Schema {
	return &Schema{
		defs:     make(map[string]*MemberDef),
		registry: registry,
	}
}

func (s *Schema) add(def *MemberDef) error {
	if _, exists := s.defs[def.Name]; exists {
		return schemaError(CodeDuplicateMember, def.Pos, "member %q is declared more than once", def.Name)
	}
	s.names = append(s.names, def.Name)
	s.defs[def.Name] = def
	return nil
}

// ============================================================
// Schema Methods
// ============================================================

// Names returns member names in declaration order.
func (s *Schema) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Get returns a member definition by name.
func (s *Schema) Get(name string) *MemberDef {
	if s == nil {
		return nil
	}
	return s.defs[name]
}

// Len returns the number of members.
func (s *Schema) Len() int {
	if s == nil {
		return 0
	}
	return len(s.names)
}

// Members returns member definitions in declaration order.
func (s *Schema) Members() []*MemberDef {
	out := make([]*MemberDef, len(s.names))
	for i, name := range s.names {
		out[i] = s.defs[name]
	}
	return out
}

// String renders the schema in the member syntax it was compiled from.
func (s *Schema) String() string {
	parts := make([]string, len(s.names))
	for i, name := range s.names {
		parts[i] = s.defs[name].String()
	}
	return strings.Join(parts, ", ")
}

// ============================================================
// MemberDef Methods
// ============================================================

// String renders the member as "name?: {type, ...}".
func (d *MemberDef) String() string {
	name := d.Name
	if d.Optional {
		name += "?"
	}
	if name == "" {
		return d.typeString()
	}
	return name + ": " + d.typeString()
}

func (d *MemberDef) typeString() string {
	var base string
	switch {
	case d.Type == "object" && d.Schema != nil:
		base = "{" + d.Schema.String() + "}"
	case d.Type == "array" && d.Elem != nil && d.Elem.Type != "any":
		base = "[" + d.Elem.typeString() + "]"
	default:
		base = d.Type
	}

	var attrs []string
	if d.Nullable {
		attrs = append(attrs, "null: true")
	}
	if d.HasDefault {
		attrs = append(attrs, "default: "+formatScalar(d.Default))
	}
	if d.Min != nil {
		attrs = append(attrs, "min: "+strconv.FormatFloat(*d.Min, 'g', -1, 64))
	}
	if d.Max != nil {
		attrs = append(attrs, "max: "+strconv.FormatFloat(*d.Max, 'g', -1, 64))
	}
	if d.MinLen != nil {
		attrs = append(attrs, "minLen: "+strconv.Itoa(*d.MinLen))
	}
	if d.MaxLen != nil {
		attrs = append(attrs, "maxLen: "+strconv.Itoa(*d.MaxLen))
	}
	if d.Pattern != nil {
		attrs = append(attrs, "pattern: "+strconv.Quote(d.Pattern.String()))
	}
	if len(d.Choices) > 0 {
		choices := make([]string, len(d.Choices))
		for i, c := range d.Choices {
			choices[i] = formatScalar(c)
		}
		attrs = append(attrs, "choices: ["+strings.Join(choices, ", ")+"]")
	}

	if len(attrs) == 0 {
		return base
	}
	if strings.HasPrefix(base, "{") {
		return "{object, schema: " + base + ", " + strings.Join(attrs, ", ") + "}"
	}
	return "{" + base + ", " + strings.Join(attrs, ", ") + "}"
}

// inChoices reports whether v equals one of the configured choices.
func (d *MemberDef) inChoices(v any) bool {
	for _, c := range d.Choices {
		if c == v {
			return true
		}
	}
	return false
}

func formatScalar(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		return strconv.Quote(x)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}
