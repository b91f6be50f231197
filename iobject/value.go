package iobject

import (
	"bytes"
	"encoding/json"
	"strconv"

	"gopkg.in/yaml.v3"
)

type undefined struct{}

// Undefined is returned by TypeDef.Process for an optional member that is
// absent and has no default. Objects omit members whose value is Undefined.
var Undefined any = undefined{}

// Object is an ordered set of fields, the result of processing an object
// node. Fields keep schema (or source) order.
type Object struct {
	keys   []string
	values map[string]any
}

// NewObject creates an empty object.
func NewObject() *Object {
	return &Object{values: make(map[string]any)}
}

// Set adds or replaces a field. New keys are appended.
func (o *Object) Set(key string, v any) {
	if _, exists := o.values[key]; !exists {
		o.keys = append(o.keys, key)
	}
	o.values[key] = v
}

// Get returns a field value.
func (o *Object) Get(key string) (any, bool) {
	v, ok := o.values[key]
	return v, ok
}

// Keys returns field names in order.
func (o *Object) Keys() []string {
	out := make([]string, len(o.keys))
	copy(out, o.keys)
	return out
}

// Len returns the number of fields.
func (o *Object) Len() int {
	return len(o.keys)
}

// Map converts the object, and every nested object, to plain maps.
func (o *Object) Map() map[string]any {
	out := make(map[string]any, len(o.keys))
	for _, k := range o.keys {
		out[k] = plain(o.values[k])
	}
	return out
}

func plain(v any) any {
	switch x := v.(type) {
	case *Object:
		return x.Map()
	case []any:
		out := make([]any, len(x))
		for i, item := range x {
			out[i] = plain(item)
		}
		return out
	default:
		return v
	}
}

// MarshalJSON encodes the object with its fields in order.
func (o *Object) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(o.values[k])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalYAML encodes the object as a YAML mapping with its fields in order.
func (o *Object) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, k := range o.keys {
		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}
		valNode := &yaml.Node{}
		if err := valNode.Encode(o.values[k]); err != nil {
			return nil, err
		}
		node.Content = append(node.Content, keyNode, valNode)
	}
	return node, nil
}

// ============================================================
// Schemaless Conversion
// ============================================================

// ToValue converts a node to Go values without a schema. Keyed entries are
// stored under their key, positional entries under their index.
func ToValue(node Node) any {
	switch n := node.(type) {
	case nil:
		return nil
	case *ScalarNode:
		return n.Value()
	case *KeyValNode:
		return ToValue(n.Value)
	case *ArrayNode:
		out := make([]any, len(n.Children))
		for i, child := range n.Children {
			out[i] = ToValue(child)
		}
		return out
	case *CollectionNode:
		out := make([]any, len(n.Records))
		for i, rec := range n.Records {
			out[i] = DataValue(rec)
		}
		return out
	case *ObjectNode:
		obj := NewObject()
		for i, child := range n.Children {
			switch c := child.(type) {
			case nil:
			case *KeyValNode:
				obj.Set(c.Key, ToValue(c.Value))
			default:
				obj.Set(strconv.Itoa(i), ToValue(c))
			}
		}
		return obj
	}
	return nil
}

// DataValue converts a data region without a schema. A root record holding a
// single positional value yields that value.
func DataValue(node Node) any {
	if inner := singleValue(node); inner != nil {
		return ToValue(inner)
	}
	return ToValue(node)
}

// singleValue returns the only entry of an unbraced record, if it is
// positional.
func singleValue(node Node) Node {
	obj, ok := node.(*ObjectNode)
	if !ok || obj.Braced || len(obj.Children) != 1 {
		return nil
	}
	if _, keyed := obj.Children[0].(*KeyValNode); keyed {
		return nil
	}
	return obj.Children[0]
}

// withPos attaches pos to a position-less *Error.
func withPos(err error, pos Position) error {
	e, ok := err.(*Error)
	if !ok || e.HasPos {
		return err
	}
	cp := *e
	cp.Pos = pos
	cp.HasPos = true
	return &cp
}
