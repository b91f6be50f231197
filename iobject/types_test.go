package iobject

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// apply compiles schemaText and validates dataText against it.
func apply(t *testing.T, schemaText, dataText string) (any, error) {
	t.Helper()
	schema, err := CompileSchema(schemaText)
	require.NoError(t, err)
	tree, err := ParseText(dataText)
	require.NoError(t, err)
	return schema.Apply(tree.Data)
}

// applyObject is apply for a single record.
func applyObject(t *testing.T, schemaText, dataText string) *Object {
	t.Helper()
	v, err := apply(t, schemaText, dataText)
	require.NoError(t, err)
	obj, ok := v.(*Object)
	require.True(t, ok, "got %T", v)
	return obj
}

func requireCode(t *testing.T, err error, code ErrorCode) *Error {
	t.Helper()
	require.Error(t, err)
	var ioErr *Error
	require.True(t, errors.As(err, &ioErr), "got %T: %v", err, err)
	require.Equal(t, code, ioErr.Code, ioErr.Error())
	return ioErr
}

func TestNumberRange(t *testing.T) {
	const schema = "n: {number, min: 10, max: 20}"
	tests := []struct {
		in   string
		code ErrorCode
	}{
		{"9", CodeInvalidMinValue},
		{"10", ""},
		{"20", ""},
		{"21", CodeInvalidMaxValue},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			v, err := apply(t, schema, tt.in)
			if tt.code != "" {
				requireCode(t, err, tt.code)
				return
			}
			require.NoError(t, err)
			got, _ := v.(*Object).Get("n")
			assert.Equal(t, tt.in, fmt.Sprint(got))
		})
	}
}

func TestNumberRangeMessage(t *testing.T) {
	_, err := apply(t, "n: {number, min: 10}", "9")
	ioErr := requireCode(t, err, CodeInvalidMinValue)
	assert.Equal(t, KindValidation, ioErr.Kind)
	assert.Equal(t, `"n" must be greater than or equal to 10, currently it is 9`, ioErr.Message)
	assert.Equal(t, Position{Line: 1, Column: 1, Offset: 0}, ioErr.Pos)
}

func TestNumberInvalidType(t *testing.T) {
	_, err := apply(t, "a, n: number", "x, abc")
	ioErr := requireCode(t, err, CodeInvalidType)
	assert.Equal(t, Position{Line: 1, Column: 4, Offset: 3}, ioErr.Pos)

	_, err = apply(t, "n: number", `"12"`)
	requireCode(t, err, CodeInvalidType)

	_, err = apply(t, "n: number", "[1]")
	requireCode(t, err, CodeInvalidType)
}

func TestIntType(t *testing.T) {
	obj := applyObject(t, "n: int", "-42")
	v, _ := obj.Get("n")
	assert.Equal(t, int64(-42), v)

	_, err := apply(t, "n: int", "3.5")
	requireCode(t, err, CodeInvalidType)

	_, err = apply(t, "n: {int, max: 5}", "6")
	requireCode(t, err, CodeInvalidMaxValue)
}

func TestRequiredMember(t *testing.T) {
	_, err := apply(t, "a, b", "1")
	ioErr := requireCode(t, err, CodeValueRequired)
	assert.True(t, errors.Is(err, ErrValueRequired))
	assert.True(t, ioErr.HasPos, "missing members are reported at their record")
	assert.Equal(t, Position{Line: 1, Column: 1, Offset: 0}, ioErr.Pos)

	_, err = apply(t, "a, b", "1,")
	requireCode(t, err, CodeValueRequired)
}

func TestOptionalMember(t *testing.T) {
	obj := applyObject(t, "a, b?: {number, default: 7}", "1")
	b, ok := obj.Get("b")
	require.True(t, ok)
	assert.Equal(t, 7.0, b)

	obj = applyObject(t, "a, b?: number", "1")
	_, ok = obj.Get("b")
	assert.False(t, ok)
	assert.Equal(t, []string{"a"}, obj.Keys())

	// An explicit empty slot is absent too.
	obj = applyObject(t, "a?: {string, default: none}, b", ", 2")
	a, _ := obj.Get("a")
	assert.Equal(t, "none", a)
}

func TestNullable(t *testing.T) {
	_, err := apply(t, "a: number", "N")
	ioErr := requireCode(t, err, CodeNullNotAllowed)
	assert.Equal(t, Position{Line: 1, Column: 1, Offset: 0}, ioErr.Pos)

	obj := applyObject(t, "a: {number, true}", "null")
	v, ok := obj.Get("a")
	require.True(t, ok)
	assert.Nil(t, v)

	obj = applyObject(t, "a: {string, null: true}", "N")
	v, _ = obj.Get("a")
	assert.Nil(t, v)
}

func TestChoices(t *testing.T) {
	const schema = "c: {string, choices: [red, green]}, n?: {number, choices: [1, 2]}"

	obj := applyObject(t, schema, "green, 2")
	c, _ := obj.Get("c")
	assert.Equal(t, "green", c)

	_, err := apply(t, schema, "blue")
	ioErr := requireCode(t, err, CodeValueNotInChoices)
	assert.Equal(t, `"c" must be one of ["red", "green"], currently it is "blue"`, ioErr.Message)

	_, err = apply(t, schema, "red, 3")
	requireCode(t, err, CodeValueNotInChoices)
}

func TestStringType(t *testing.T) {
	const schema = `code: {string, minLen: 2, maxLen: 4, pattern: "^[A-Z]+$"}`

	obj := applyObject(t, schema, "ABC")
	v, _ := obj.Get("code")
	assert.Equal(t, "ABC", v)

	_, err := apply(t, schema, "A")
	requireCode(t, err, CodeInvalidMinLength)

	_, err = apply(t, schema, "ABCDE")
	requireCode(t, err, CodeInvalidMaxLength)

	_, err = apply(t, schema, "AbC")
	requireCode(t, err, CodeInvalidPattern)

	_, err = apply(t, schema, "12")
	requireCode(t, err, CodeInvalidType)

	// Length counts characters, not bytes.
	obj = applyObject(t, "s: {string, maxLen: 2}", "éé")
	v, _ = obj.Get("s")
	assert.Equal(t, "éé", v)
}

func TestEmailAndURL(t *testing.T) {
	obj := applyObject(t, "e: email, u: url", `alice@example.com, "https://example.com/docs"`)
	e, _ := obj.Get("e")
	u, _ := obj.Get("u")
	assert.Equal(t, "alice@example.com", e)
	assert.Equal(t, "https://example.com/docs", u)

	_, err := apply(t, "e: email", "alice")
	requireCode(t, err, CodeInvalidValue)

	_, err = apply(t, "e: email", `"Alice <alice@example.com>"`)
	requireCode(t, err, CodeInvalidValue)

	_, err = apply(t, "u: url", "example.com")
	requireCode(t, err, CodeInvalidValue)
}

func TestBoolType(t *testing.T) {
	obj := applyObject(t, "a: bool, b: bool", "T, false")
	assert.Equal(t, map[string]any{"a": true, "b": false}, obj.Map())

	_, err := apply(t, "a: bool", "1")
	requireCode(t, err, CodeInvalidType)
}

func TestDateTimeTypes(t *testing.T) {
	obj := applyObject(t, "d: date, y: date, t: time, dt: datetime",
		`2020-12-20, 2020, "18:20:30", 20200412T084346.619Z`)

	d, _ := obj.Get("d")
	assert.Equal(t, time.Date(2020, 12, 20, 0, 0, 0, 0, time.UTC), d)

	y, _ := obj.Get("y")
	assert.Equal(t, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), y)

	tm, _ := obj.Get("t")
	assert.Equal(t, time.Date(1900, 1, 1, 18, 20, 30, 0, time.UTC), tm)

	dt, _ := obj.Get("dt")
	assert.Equal(t, time.Date(2020, 4, 12, 8, 43, 46, 619000000, time.UTC), dt)

	_, err := apply(t, "d: date", "2020-13-01")
	requireCode(t, err, CodeInvalidValue)

	_, err = apply(t, "d: date", "true")
	requireCode(t, err, CodeInvalidType)

	_, err = apply(t, "dt: datetime", "2020-12-20")
	requireCode(t, err, CodeInvalidValue)
}

func TestAnyType(t *testing.T) {
	obj := applyObject(t, "x, y", "[1, {a: 2}], hello")

	x, _ := obj.Get("x")
	arr, ok := x.([]any)
	require.True(t, ok)
	require.Len(t, arr, 2)
	assert.Equal(t, 1.0, arr[0])
	inner, ok := arr[1].(*Object)
	require.True(t, ok)
	assert.Equal(t, map[string]any{"a": 2.0}, inner.Map())
}

func TestArrayType(t *testing.T) {
	obj := applyObject(t, "tags: [string]", "[a, b, c]")
	tags, _ := obj.Get("tags")
	assert.Equal(t, []any{"a", "b", "c"}, tags)

	_, err := apply(t, "tags: [string]", "a")
	requireCode(t, err, CodeInvalidValue)

	_, err = apply(t, "tags: [string]", "{a}")
	requireCode(t, err, CodeInvalidValue)

	_, err = apply(t, "tags: [string]", "[a, 1]")
	ioErr := requireCode(t, err, CodeInvalidType)
	assert.Equal(t, Position{Line: 1, Column: 5, Offset: 4}, ioErr.Pos)

	_, err = apply(t, "tags: {array, maxLen: 2}", "[1, 2, 3]")
	requireCode(t, err, CodeInvalidMaxLength)

	_, err = apply(t, "tags: [number]", "[1, , 3]")
	ioErr = requireCode(t, err, CodeValueRequired)
	assert.Equal(t, Position{Line: 1, Column: 1, Offset: 0}, ioErr.Pos)

	obj = applyObject(t, "tags: [{number, true}]", "[1, N]")
	tags, _ = obj.Get("tags")
	assert.Equal(t, []any{1.0, nil}, tags)
}

func TestArrayOfObjects(t *testing.T) {
	obj := applyObject(t, "points: [{x: number, y: number}]", "[{1, 2}, {y: 4, x: 3}]")

	points, _ := obj.Get("points")
	list, ok := points.([]any)
	require.True(t, ok)
	require.Len(t, list, 2)
	assert.Equal(t, map[string]any{"x": 1.0, "y": 2.0}, list[0].(*Object).Map())
	assert.Equal(t, map[string]any{"x": 3.0, "y": 4.0}, list[1].(*Object).Map())
}

func TestArrayWithoutElementPanics(t *testing.T) {
	tree, err := ParseText("[1]")
	require.NoError(t, err)
	arr := tree.Data.(*ObjectNode).Children[0]

	td := arrayDef{registry: DefaultRegistry}
	assert.Panics(t, func() {
		_, _ = td.Process("a", arr, &MemberDef{Name: "a", Type: "array"})
	})
}

func TestObjectType(t *testing.T) {
	obj := applyObject(t, "name, address: {street, city}", "Alice, {Main St, Pune}")
	assert.Equal(t, []string{"name", "address"}, obj.Keys())

	address, _ := obj.Get("address")
	assert.Equal(t, map[string]any{"street": "Main St", "city": "Pune"}, address.(*Object).Map())

	_, err := apply(t, "address: {street, city}", "Main St")
	requireCode(t, err, CodeInvalidValue)

	// Missing nested members are reported at the nested object.
	_, err = apply(t, "name, address: {street, city}", "Alice, {Main St}")
	ioErr := requireCode(t, err, CodeValueRequired)
	assert.Equal(t, Position{Line: 1, Column: 8, Offset: 7}, ioErr.Pos)

	obj = applyObject(t, "id, meta: object", "1, {a: 1, 2}")
	meta, _ := obj.Get("meta")
	assert.Equal(t, map[string]any{"a": 1.0, "1": 2.0}, meta.(*Object).Map())
}

func TestPositionalAndKeyedAgree(t *testing.T) {
	const schema = "name, age: {number, min: 0}, active?: {bool, default: true}, address: {city, zip?: int}"

	positional := applyObject(t, schema, "Alice, 30, F, {Pune, 411001}")
	keyed := applyObject(t, schema, "address: {zip: 411001, city: Pune}, active: F, age: 30, name: Alice")
	mixed := applyObject(t, schema, "Alice, 30, address: {Pune, 411001}, active: F")

	if diff := cmp.Diff(positional.Map(), keyed.Map()); diff != "" {
		t.Errorf("keyed record mismatch (-positional +keyed):\n%s", diff)
	}
	if diff := cmp.Diff(positional.Map(), mixed.Map()); diff != "" {
		t.Errorf("mixed record mismatch (-positional +mixed):\n%s", diff)
	}
	assert.Equal(t, positional.Keys(), keyed.Keys(), "fields follow schema order")
}

func TestKeyIndexIsPerCall(t *testing.T) {
	schema, err := CompileSchema("a, b")
	require.NoError(t, err)

	tests := []struct {
		in   string
		want map[string]any
	}{
		{"b: 1, a: 2", map[string]any{"a": 2.0, "b": 1.0}},
		{"b: 5, a: 6", map[string]any{"a": 6.0, "b": 5.0}},
		{"a: 9, b: 8", map[string]any{"a": 9.0, "b": 8.0}},
		{"7, b: 3", map[string]any{"a": 7.0, "b": 3.0}},
	}

	for _, tt := range tests {
		tree, err := ParseText(tt.in)
		require.NoError(t, err)
		v, err := schema.Apply(tree.Data)
		require.NoError(t, err)
		assert.Equal(t, tt.want, v.(*Object).Map(), tt.in)
	}
}

func TestApplyCollection(t *testing.T) {
	v, err := apply(t, "name, age: number", "~ Alice, 30\n~ Bob, 25\n~ age: 41, name: Carol")
	require.NoError(t, err)

	list, ok := v.([]any)
	require.True(t, ok)
	require.Len(t, list, 3)
	assert.Equal(t, map[string]any{"name": "Carol", "age": 41.0}, list[2].(*Object).Map())

	v, err = apply(t, "name", "a ~ ~ b")
	require.NoError(t, err)
	list = v.([]any)
	require.Len(t, list, 3)
	assert.Nil(t, list[1])

	_, err = apply(t, "name, age: number", "~ Alice, 30\n~ Bob, old")
	ioErr := requireCode(t, err, CodeInvalidType)
	assert.Equal(t, 2, ioErr.Pos.Line)
}

func TestApplyBracedRecord(t *testing.T) {
	obj := applyObject(t, "name, age: number", "{Alice, 30}")
	assert.Equal(t, map[string]any{"name": "Alice", "age": 30.0}, obj.Map())
}

func TestApplyBracedRecordSingleObjectMember(t *testing.T) {
	tests := []struct {
		name   string
		schema string
		data   string
		want   map[string]any
	}{
		{
			name:   "nested schema",
			schema: "addr: {street, city}",
			data:   "{Main, NYC}",
			want:   map[string]any{"addr": map[string]any{"street": "Main", "city": "NYC"}},
		},
		{
			name:   "object type",
			schema: "meta: object",
			data:   "{x: 1}",
			want:   map[string]any{"meta": map[string]any{"x": 1.0}},
		},
		{
			name:   "any type",
			schema: "meta",
			data:   "{x: 1}",
			want:   map[string]any{"meta": map[string]any{"x": 1.0}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			obj := applyObject(t, tt.schema, tt.data)
			assert.Equal(t, tt.want, obj.Map())
		})
	}
}

func TestApplyCollectionSingleObjectMember(t *testing.T) {
	v, err := apply(t, "addr: {street, city}", "~ {Main, NYC}\n~ {Elm, LA}")
	require.NoError(t, err)
	records, ok := v.([]any)
	require.True(t, ok, "got %T", v)
	require.Len(t, records, 2)
	assert.Equal(t, map[string]any{"addr": map[string]any{"street": "Elm", "city": "LA"}}, records[1].(*Object).Map())
}

func TestApplyEmptyData(t *testing.T) {
	schema, err := CompileSchema("a")
	require.NoError(t, err)
	v, err := schema.Apply(nil)
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestApplyConcurrent(t *testing.T) {
	schema, err := CompileSchema("id: int, name: {string, minLen: 1}")
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			text := fmt.Sprintf("name: user%d, id: %d", i, i)
			if i%2 == 0 {
				text = fmt.Sprintf("%d, user%d", i, i)
			}
			tree, err := ParseText(text)
			if err != nil {
				errs <- err
				return
			}
			v, err := schema.Apply(tree.Data)
			if err != nil {
				errs <- err
				return
			}
			id, _ := v.(*Object).Get("id")
			if id != int64(i) {
				errs <- fmt.Errorf("record %d: got id %v", i, id)
			}
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}

// upperDef is a user-defined type that upper-cases strings.
type upperDef struct{}

func (upperDef) TypeName() string { return "upper" }

func (upperDef) Process(key string, node Node, def *MemberDef) (any, error) {
	if v, done, err := commonCheck(key, node, def); done {
		return v, err
	}
	s, err := scalarOf(key, node, TokenString, "upper")
	if err != nil {
		return nil, err
	}
	return strings.ToUpper(s.Token.Text()), nil
}

func TestCustomType(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register("upper", upperDef{}))
	assert.True(t, reg.Has("upper"))
	assert.False(t, DefaultRegistry.Has("upper"))

	schema, err := reg.CompileSchema("code: upper, codes: [upper]")
	require.NoError(t, err)
	tree, err := ParseText("abc, [x, y]")
	require.NoError(t, err)

	v, err := schema.Apply(tree.Data)
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"code": "ABC", "codes": []any{"X", "Y"}}, v.(*Object).Map())
}

func TestRegistry(t *testing.T) {
	reg := NewRegistry()
	assert.Equal(t,
		[]string{"any", "array", "bool", "date", "datetime", "email", "int", "number", "object", "string", "time", "url"},
		reg.Names())

	td, err := reg.Get("number")
	require.NoError(t, err)
	assert.Equal(t, "number", td.TypeName())

	_, err = reg.Get("money")
	assert.ErrorIs(t, err, ErrUnknownType)

	assert.Error(t, reg.Register("", upperDef{}))
	assert.Error(t, reg.Register("x", nil))

	td, err = GetTypeDef("datetime")
	require.NoError(t, err)
	assert.Equal(t, "datetime", td.TypeName())
}
