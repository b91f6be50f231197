package iobject

import (
	"fmt"
	"sort"
	"sync"
)

// TypeDef validates and converts the data node of one member. Every built-in
// and user-defined type implements it. node is nil when the data omits the
// member.
type TypeDef interface {
	TypeName() string
	Process(key string, node Node, def *MemberDef) (any, error)
}

// TypeKind enumerates the built-in types.
type TypeKind uint8

const (
	TypeAny TypeKind = iota
	TypeString
	TypeEmail
	TypeURL
	TypeNumber
	TypeInt
	TypeBool
	TypeDate
	TypeTime
	TypeDateTime
	TypeArray
	TypeObject
)

// String returns the registered type name.
func (k TypeKind) String() string {
	switch k {
	case TypeAny:
		return "any"
	case TypeString:
		return "string"
	case TypeEmail:
		return "email"
	case TypeURL:
		return "url"
	case TypeNumber:
		return "number"
	case TypeInt:
		return "int"
	case TypeBool:
		return "bool"
	case TypeDate:
		return "date"
	case TypeTime:
		return "time"
	case TypeDateTime:
		return "datetime"
	case TypeArray:
		return "array"
	case TypeObject:
		return "object"
	default:
		return "unknown"
	}
}

// Registry maps type names to TypeDefs. Registration is expected to happen
// before the registry is used for concurrent validation.
type Registry struct {
	mu    sync.RWMutex
	types map[string]TypeDef
}

// DefaultRegistry holds the built-in types and is used by the package-level
// functions.
var DefaultRegistry = NewRegistry()

// NewRegistry creates a registry populated with the built-in types.
func NewRegistry() *Registry {
	r := &Registry{types: make(map[string]TypeDef)}
	for k := TypeAny; k <= TypeObject; k++ {
		r.types[k.String()] = builtinTypeDef(k, r)
	}
	return r
}

func builtinTypeDef(k TypeKind, r *Registry) TypeDef {
	switch k {
	case TypeString:
		return stringDef{}
	case TypeEmail:
		return emailDef{}
	case TypeURL:
		return urlDef{}
	case TypeNumber:
		return numberDef{}
	case TypeInt:
		return intDef{}
	case TypeBool:
		return boolDef{}
	case TypeDate, TypeTime, TypeDateTime:
		return dateTimeDef{kind: k}
	case TypeArray:
		return arrayDef{registry: r}
	case TypeObject:
		return objectDef{registry: r}
	default:
		return anyDef{}
	}
}

// Register adds or replaces the type registered under name.
func (r *Registry) Register(name string, td TypeDef) error {
	if name == "" {
		return fmt.Errorf("iobject: register: empty type name")
	}
	if td == nil {
		return fmt.Errorf("iobject: register %q: nil TypeDef", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.types[name] = td
	return nil
}

// Get returns the TypeDef registered under name.
func (r *Registry) Get(name string) (TypeDef, error) {
	r.mu.RLock()
	td, ok := r.types[name]
	r.mu.RUnlock()

	if !ok {
		return nil, schemaErrorNoPos(CodeUnknownType, "unknown type %q", name)
	}
	return td, nil
}

// Has reports whether a type is registered under name.
func (r *Registry) Has(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.types[name]
	return ok
}

// Names returns the registered type names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.types))
	for name := range r.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Register adds a type to the default registry.
func Register(name string, td TypeDef) error {
	return DefaultRegistry.Register(name, td)
}

// GetTypeDef returns a type from the default registry.
func GetTypeDef(name string) (TypeDef, error) {
	return DefaultRegistry.Get(name)
}
