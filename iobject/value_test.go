package iobject

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestObjectOrder(t *testing.T) {
	obj := NewObject()
	obj.Set("z", 1.0)
	obj.Set("a", "x")
	obj.Set("z", 2.0)

	assert.Equal(t, []string{"z", "a"}, obj.Keys())
	assert.Equal(t, 2, obj.Len())
	v, ok := obj.Get("z")
	assert.True(t, ok)
	assert.Equal(t, 2.0, v)

	keys := obj.Keys()
	keys[0] = "changed"
	assert.Equal(t, []string{"z", "a"}, obj.Keys())
}

func TestObjectMarshalJSON(t *testing.T) {
	inner := NewObject()
	inner.Set("b", true)
	inner.Set("a", nil)

	obj := NewObject()
	obj.Set("name", "Alice")
	obj.Set("inner", inner)
	obj.Set("list", []any{1.0, inner})

	data, err := json.Marshal(obj)
	require.NoError(t, err)
	assert.Equal(t, `{"name":"Alice","inner":{"b":true,"a":null},"list":[1,{"b":true,"a":null}]}`, string(data))
}

func TestObjectMarshalYAML(t *testing.T) {
	inner := NewObject()
	inner.Set("z", 1.0)
	inner.Set("a", "x")

	obj := NewObject()
	obj.Set("name", "Alice")
	obj.Set("inner", inner)

	data, err := yaml.Marshal(obj)
	require.NoError(t, err)
	assert.Equal(t, "name: Alice\ninner:\n    z: 1\n    a: x\n", string(data))
}

func TestToValue(t *testing.T) {
	tree, err := ParseText("a, b: 2, [x, {c: N}]")
	require.NoError(t, err)

	v := ToValue(tree.Data)
	obj, ok := v.(*Object)
	require.True(t, ok)
	assert.Equal(t, []string{"0", "b", "2"}, obj.Keys())
	assert.Equal(t, map[string]any{
		"0": "a",
		"b": 2.0,
		"2": []any{"x", map[string]any{"c": nil}},
	}, obj.Map())
}

func TestDataValue(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want any
	}{
		{"single value", "42", 42.0},
		{"single array", "[1, 2]", []any{1.0, 2.0}},
		{"empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tree, err := ParseText(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, DataValue(tree.Data))
		})
	}

	tree, err := ParseText("~ a ~ b, c")
	require.NoError(t, err)
	list, ok := DataValue(tree.Data).([]any)
	require.True(t, ok)
	require.Len(t, list, 2)
	assert.Equal(t, "a", list[0])
	assert.Equal(t, map[string]any{"0": "b", "1": "c"}, list[1].(*Object).Map())

	// A single keyed entry stays an object.
	tree, err = ParseText("a: 1")
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": 1.0}, DataValue(tree.Data).(*Object).Map())
}

func TestWithPos(t *testing.T) {
	pos := Position{Line: 3, Column: 2, Offset: 9}

	err := withPos(schemaErrorNoPos(CodeUnknownType, "unknown type %q", "x"), pos)
	var ioErr *Error
	require.ErrorAs(t, err, &ioErr)
	assert.True(t, ioErr.HasPos)
	assert.Equal(t, pos, ioErr.Pos)

	// Errors that already carry a position keep it.
	orig := validationError(CodeInvalidType, Position{Line: 1, Column: 1}, "bad")
	assert.Same(t, orig, withPos(orig, pos))
}
