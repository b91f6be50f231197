package iobject

import (
	"math"
	"regexp"
	"strings"
)

// ============================================================
// Schema Compilation
// ============================================================

// CompileSchema compiles a bare schema text such as
// "name, age?: {number, min: 0}" using the default registry.
func CompileSchema(text string) (*Schema, error) {
	return DefaultRegistry.CompileSchema(text)
}

// CompileHeader compiles the header region of a parse tree using the default
// registry.
func CompileHeader(header Node) (*Schema, error) {
	return DefaultRegistry.CompileHeader(header)
}

// CompileSchema compiles a bare schema text against the types of r.
func (r *Registry) CompileSchema(text string) (*Schema, error) {
	tokens, err := Tokenize(text)
	if err != nil {
		return nil, err
	}
	header, err := buildHeader(tokens)
	if err != nil {
		return nil, err
	}
	if header == nil {
		return nil, schemaErrorNoPos(CodeInvalidSchema, "schema text does not declare any member")
	}
	return r.CompileHeader(header)
}

// CompileHeader compiles a header node against the types of r.
func (r *Registry) CompileHeader(header Node) (*Schema, error) {
	switch h := header.(type) {
	case nil:
		return nil, schemaErrorNoPos(CodeInvalidSchema, "missing schema header")
	case *ObjectNode:
		c := &compiler{registry: r}
		return c.compileObject(unwrapRecord(h))
	default:
		return nil, schemaError(CodeInvalidSchema, header.Pos(), "a schema must be a record of members, found %s", header.Kind())
	}
}

// compiler turns header nodes into member definitions.
type compiler struct {
	registry *Registry
}

func (c *compiler) compileObject(obj *ObjectNode) (*Schema, error) {
	schema := newSchema(c.registry)
	for _, child := range obj.Children {
		def, err := c.compileMember(child, obj.Pos())
		if err != nil {
			return nil, err
		}
		if err := schema.add(def); err != nil {
			return nil, err
		}
	}
	return schema, nil
}

// compileMember compiles "name", "name?" or "name: <type>".
func (c *compiler) compileMember(node Node, parent Position) (*MemberDef, error) {
	switch n := node.(type) {
	case nil:
		return nil, schemaError(CodeInvalidMemberDef, parent, "empty member declaration")

	case *ScalarNode:
		def, err := newMember(n.Token)
		if err != nil {
			return nil, err
		}
		def.Type = TypeAny.String()
		return def, nil

	case *KeyValNode:
		def, err := newMember(n.KeyToken)
		if err != nil {
			return nil, err
		}
		if err := c.compileType(def, n.Value); err != nil {
			return nil, err
		}
		return def, nil

	default:
		return nil, schemaError(CodeInvalidMemberDef, node.Pos(), "expected a member name, found %s", node.Kind())
	}
}

func newMember(tok Token) (*MemberDef, error) {
	name, ok := tok.Value.(string)
	if tok.Kind != TokenString || !ok {
		return nil, schemaError(CodeInvalidMemberDef, tok.Pos, "member name must be a string, found %s %q", tok.Kind, tok.Raw)
	}

	def := &MemberDef{Pos: tok.Pos}
	if strings.HasSuffix(name, "?") {
		def.Optional = true
		name = strings.TrimSuffix(name, "?")
	}
	if name == "" {
		return nil, schemaError(CodeInvalidMemberDef, tok.Pos, "member name is empty")
	}
	def.Name = name
	return def, nil
}

// compileType fills def from a type node: a type name, an array schema, a
// member-def object or a nested object schema.
func (c *compiler) compileType(def *MemberDef, node Node) error {
	switch n := node.(type) {
	case *ScalarNode:
		name, ok := n.Token.Value.(string)
		if n.Token.Kind != TokenString || !ok {
			return schemaError(CodeInvalidMemberDef, n.Pos(), "expected a type name, found %s %q", n.Token.Kind, n.Token.Raw)
		}
		return c.setType(def, name, n.Pos())

	case *ArrayNode:
		def.Type = TypeArray.String()
		elem, err := c.compileElem(n)
		if err != nil {
			return err
		}
		def.Elem = elem
		return nil

	case *ObjectNode:
		if c.isMemberDef(n) {
			return c.compileMemberDef(def, n)
		}
		nested, err := c.compileObject(n)
		if err != nil {
			return err
		}
		def.Type = TypeObject.String()
		def.Schema = nested
		return nil

	case nil:
		return schemaErrorNoPos(CodeInvalidMemberDef, "missing type for member %q", def.Name)

	default:
		return schemaError(CodeInvalidMemberDef, node.Pos(), "unexpected %s in member %q", node.Kind(), def.Name)
	}
}

func (c *compiler) setType(def *MemberDef, name string, pos Position) error {
	if !c.registry.Has(name) {
		return schemaError(CodeUnknownType, pos, "unknown type %q", name)
	}
	def.Type = name
	return nil
}

// compileElem compiles the element of an array schema: [] or [T].
func (c *compiler) compileElem(arr *ArrayNode) (*MemberDef, error) {
	elem := &MemberDef{Type: TypeAny.String(), Pos: arr.Pos()}
	switch len(arr.Children) {
	case 0:
		return elem, nil
	case 1:
		if arr.Children[0] == nil {
			return elem, nil
		}
		if err := c.compileType(elem, arr.Children[0]); err != nil {
			return nil, err
		}
		return elem, nil
	default:
		return nil, schemaError(CodeInvalidMemberDef, arr.Pos(), "an array schema takes a single element type, found %d", len(arr.Children))
	}
}

// isMemberDef reports whether obj is a {type, ...} definition rather than a
// nested object schema.
func (c *compiler) isMemberDef(obj *ObjectNode) bool {
	if len(obj.Children) == 0 {
		return false
	}
	switch first := obj.Children[0].(type) {
	case nil:
		// {, true, 10}: type left for inference
		return true
	case *ScalarNode:
		name, ok := first.Token.Value.(string)
		return ok && first.Token.Kind == TokenString && c.registry.Has(name)
	}
	return false
}

// compileMemberDef compiles {type, nullable, default, attr: value, ...}.
func (c *compiler) compileMemberDef(def *MemberDef, obj *ObjectNode) error {
	positional := 0
	for _, child := range obj.Children {
		switch n := child.(type) {
		case *KeyValNode:
			if err := c.applyAttribute(def, n); err != nil {
				return err
			}
			continue

		case nil:
			positional++
			continue
		}

		switch positional {
		case 0:
			if err := c.compileType(def, child); err != nil {
				return err
			}
		case 1:
			nullable, err := boolAttribute(def, "null", child)
			if err != nil {
				return err
			}
			def.Nullable = nullable
		case 2:
			def.Default = defaultValue(child)
			def.HasDefault = true
		default:
			return schemaError(CodeInvalidMemberDef, child.Pos(), "unexpected positional attribute in member %q", def.Name)
		}
		positional++
	}

	if def.Type == "" {
		def.Type = inferType(def)
	}
	if def.Type == TypeArray.String() && def.Elem == nil {
		def.Elem = &MemberDef{Type: TypeAny.String(), Pos: def.Pos}
	}
	return nil
}

func (c *compiler) applyAttribute(def *MemberDef, kv *KeyValNode) error {
	switch kv.Key {
	case "type":
		return c.compileType(def, kv.Value)

	case "optional":
		v, err := boolAttribute(def, kv.Key, kv.Value)
		def.Optional = v
		return err

	case "null", "nullable":
		v, err := boolAttribute(def, kv.Key, kv.Value)
		def.Nullable = v
		return err

	case "default":
		def.Default = defaultValue(kv.Value)
		def.HasDefault = true
		return nil

	case "min", "max":
		v, err := numberAttribute(def, kv.Key, kv.Value)
		if err != nil {
			return err
		}
		if kv.Key == "min" {
			def.Min = &v
		} else {
			def.Max = &v
		}
		return nil

	case "minLen", "maxLen":
		v, err := numberAttribute(def, kv.Key, kv.Value)
		if err != nil {
			return err
		}
		if v < 0 || v != math.Trunc(v) {
			return schemaError(CodeInvalidMemberDef, kv.Value.Pos(), "%s of member %q must be a non-negative integer", kv.Key, def.Name)
		}
		n := int(v)
		if kv.Key == "minLen" {
			def.MinLen = &n
		} else {
			def.MaxLen = &n
		}
		return nil

	case "pattern":
		s, ok := kv.Value.(*ScalarNode)
		if !ok || s.Token.Kind != TokenString {
			return schemaError(CodeInvalidMemberDef, kv.Value.Pos(), "pattern of member %q must be a string", def.Name)
		}
		re, err := regexp.Compile(s.Token.Text())
		if err != nil {
			return schemaError(CodeInvalidMemberDef, s.Pos(), "invalid pattern for member %q: %v", def.Name, err)
		}
		def.Pattern = re
		return nil

	case "choices":
		arr, ok := kv.Value.(*ArrayNode)
		if !ok {
			return schemaError(CodeInvalidMemberDef, kv.Value.Pos(), "choices of member %q must be an array", def.Name)
		}
		choices := make([]any, 0, len(arr.Children))
		for _, item := range arr.Children {
			s, ok := item.(*ScalarNode)
			if !ok {
				return schemaError(CodeInvalidMemberDef, arr.Pos(), "choices of member %q must be scalar values", def.Name)
			}
			choices = append(choices, s.Value())
		}
		def.Choices = choices
		return nil

	case "schema":
		return c.compileNested(def, kv.Value)
	}

	return schemaError(CodeInvalidMemberDef, kv.KeyToken.Pos, "unknown attribute %q in member %q", kv.Key, def.Name)
}

// compileNested handles the schema attribute of object and array members.
func (c *compiler) compileNested(def *MemberDef, node Node) error {
	switch def.Type {
	case TypeObject.String():
		obj, ok := node.(*ObjectNode)
		if !ok {
			return schemaError(CodeInvalidMemberDef, node.Pos(), "schema of object member %q must be an object", def.Name)
		}
		nested, err := c.compileObject(obj)
		if err != nil {
			return err
		}
		def.Schema = nested
		return nil

	case TypeArray.String():
		if arr, ok := node.(*ArrayNode); ok {
			elem, err := c.compileElem(arr)
			if err != nil {
				return err
			}
			def.Elem = elem
			return nil
		}
		elem := &MemberDef{Pos: node.Pos()}
		if err := c.compileType(elem, node); err != nil {
			return err
		}
		def.Elem = elem
		return nil
	}

	return schemaError(CodeInvalidMemberDef, node.Pos(), "schema attribute requires an object or array member, %q is %s", def.Name, def.Type)
}

func boolAttribute(def *MemberDef, attr string, node Node) (bool, error) {
	s, ok := node.(*ScalarNode)
	if !ok || s.Token.Kind != TokenBoolean {
		return false, schemaError(CodeInvalidMemberDef, node.Pos(), "%s of member %q must be a boolean", attr, def.Name)
	}
	return s.Token.Value.(bool), nil
}

func numberAttribute(def *MemberDef, attr string, node Node) (float64, error) {
	s, ok := node.(*ScalarNode)
	if !ok || s.Token.Kind != TokenNumber {
		return 0, schemaError(CodeInvalidMemberDef, node.Pos(), "%s of member %q must be a number", attr, def.Name)
	}
	return s.Token.Value.(float64), nil
}

func defaultValue(node Node) any {
	if s, ok := node.(*ScalarNode); ok {
		return s.Value()
	}
	return ToValue(node)
}

// inferType derives the type of a member declared without one.
func inferType(def *MemberDef) string {
	if !def.HasDefault {
		return TypeAny.String()
	}
	switch def.Default.(type) {
	case float64:
		return TypeNumber.String()
	case bool:
		return TypeBool.String()
	case string:
		return TypeString.String()
	}
	return TypeAny.String()
}
