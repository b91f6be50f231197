package iobject

import "fmt"

// ============================================================
// array
// ============================================================

// arrayDef validates [T] members; every element is processed with the
// element definition.
type arrayDef struct {
	registry *Registry
}

func (arrayDef) TypeName() string { return TypeArray.String() }

func (d arrayDef) Process(key string, node Node, def *MemberDef) (any, error) {
	if v, done, err := commonCheck(key, node, def); done {
		return v, err
	}

	arr, ok := node.(*ArrayNode)
	if !ok {
		return nil, validationError(CodeInvalidValue, node.Pos(), "%q must be an array, found %s", key, node.Kind())
	}
	if def.Elem == nil {
		panic(fmt.Sprintf("iobject: array member %q has no element definition", key))
	}

	td, err := d.registry.Get(def.Elem.Type)
	if err != nil {
		return nil, withPos(err, def.Elem.Pos)
	}
	if err := checkLength(key, arr.Pos(), len(arr.Children), def); err != nil {
		return nil, err
	}

	out := make([]any, len(arr.Children))
	for i, child := range arr.Children {
		v, err := td.Process(fmt.Sprintf("%s[%d]", key, i), child, def.Elem)
		if err != nil {
			return nil, withPos(err, arr.Pos())
		}
		if v == Undefined {
			v = nil
		}
		out[i] = v
	}
	return out, nil
}

// ============================================================
// object
// ============================================================

// objectDef validates {..} members against their nested schema. Without a
// nested schema the object is converted as is.
type objectDef struct {
	registry *Registry
}

func (objectDef) TypeName() string { return TypeObject.String() }

func (d objectDef) Process(key string, node Node, def *MemberDef) (any, error) {
	if v, done, err := commonCheck(key, node, def); done {
		return v, err
	}

	obj, ok := node.(*ObjectNode)
	if !ok {
		return nil, validationError(CodeInvalidValue, node.Pos(), "%q must be an object, found %s", key, node.Kind())
	}
	if def.Schema == nil {
		return ToValue(obj), nil
	}
	return processObject(d.registry, def.Schema, obj)
}

// processObject resolves every schema member against obj, by position first
// and by key when the positional slot is keyed or missing. The key index is
// built at most once and lives only for this call.
func processObject(reg *Registry, schema *Schema, obj *ObjectNode) (*Object, error) {
	var index map[string]Node
	lookup := func(name string) Node {
		if index == nil {
			index = make(map[string]Node)
			for _, child := range obj.Children {
				if kv, ok := child.(*KeyValNode); ok {
					index[kv.Key] = kv.Value
				}
			}
		}
		return index[name]
	}

	out := NewObject()
	for i, name := range schema.names {
		def := schema.defs[name]
		td, err := reg.Get(def.Type)
		if err != nil {
			return nil, withPos(err, def.Pos)
		}

		var item Node
		if i < len(obj.Children) {
			item = obj.Children[i]
		}
		if _, keyed := item.(*KeyValNode); keyed || i >= len(obj.Children) {
			item = lookup(name)
		}

		v, err := td.Process(name, item, def)
		if err != nil {
			return nil, withPos(err, obj.Pos())
		}
		if v == Undefined {
			continue
		}
		out.Set(name, v)
	}
	return out, nil
}

// ============================================================
// Schema Application
// ============================================================

// Apply validates a data region against the schema. A record yields an
// *Object and a collection yields one *Object (or nil) per record.
func (s *Schema) Apply(node Node) (any, error) {
	reg := s.registry
	if reg == nil {
		reg = DefaultRegistry
	}

	switch n := node.(type) {
	case nil:
		return nil, nil

	case *ObjectNode:
		return processObject(reg, s, s.unwrapData(n))

	case *CollectionNode:
		out := make([]any, len(n.Records))
		for i, rec := range n.Records {
			if rec == nil {
				continue
			}
			obj, ok := rec.(*ObjectNode)
			if !ok {
				return nil, validationError(CodeInvalidValue, rec.Pos(), "record %d must be an object, found %s", i, rec.Kind())
			}
			v, err := processObject(reg, s, s.unwrapData(obj))
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	}

	return nil, validationError(CodeInvalidValue, node.Pos(), "data must be a record or a collection, found %s", node.Kind())
}

// unwrapRecord turns a root record holding only a braced object, such as
// "{a, b}", into that object.
func unwrapRecord(obj *ObjectNode) *ObjectNode {
	if obj.Braced || len(obj.Children) != 1 {
		return obj
	}
	if inner, ok := obj.Children[0].(*ObjectNode); ok {
		return inner
	}
	return obj
}

// unwrapData unwraps a braced data record unless the schema's only member
// takes an object, in which case the braced object is that member's value.
func (s *Schema) unwrapData(obj *ObjectNode) *ObjectNode {
	if len(s.names) == 1 {
		switch s.defs[s.names[0]].Type {
		case TypeObject.String(), TypeAny.String():
			return obj
		}
	}
	return unwrapRecord(obj)
}
