package iobject

import (
	"math"
	"net/mail"
	"net/url"

	"github.com/maniartech/internet-object/datetime"
)

// ============================================================
// number, int
// ============================================================

// numberDef validates numbers: {number, nullable, default, min: N, max: N, choices: [..]}
type numberDef struct{}

func (numberDef) TypeName() string { return TypeNumber.String() }

func (numberDef) Process(key string, node Node, def *MemberDef) (any, error) {
	if v, done, err := commonCheck(key, node, def); done {
		return v, err
	}

	s, err := scalarOf(key, node, TokenNumber, "number")
	if err != nil {
		return nil, err
	}
	v := s.Token.Value.(float64)
	if err := checkRange(key, s, v, def); err != nil {
		return nil, err
	}
	return v, nil
}

// intDef is a number restricted to integral values; it yields int64.
type intDef struct{}

func (intDef) TypeName() string { return TypeInt.String() }

func (intDef) Process(key string, node Node, def *MemberDef) (any, error) {
	if v, done, err := commonCheck(key, node, def); done {
		return v, err
	}

	s, err := scalarOf(key, node, TokenNumber, "int")
	if err != nil {
		return nil, err
	}
	v := s.Token.Value.(float64)
	if v != math.Trunc(v) || v < math.MinInt64 || v >= math.MaxInt64 {
		return nil, validationError(CodeInvalidType, s.Pos(), "%q must be an integer, currently it is %v", key, v)
	}
	if err := checkRange(key, s, v, def); err != nil {
		return nil, err
	}
	return int64(v), nil
}

// ============================================================
// string, email, url
// ============================================================

type stringDef struct{}

func (stringDef) TypeName() string { return TypeString.String() }

func (stringDef) Process(key string, node Node, def *MemberDef) (any, error) {
	if v, done, err := commonCheck(key, node, def); done {
		return v, err
	}
	s, v, err := processString(key, node, def, "string")
	if err != nil {
		return nil, err
	}
	if def.Pattern != nil && !def.Pattern.MatchString(v) {
		return nil, validationError(CodeInvalidPattern, s.Pos(), "%q must match %q, currently it is %q", key, def.Pattern, v)
	}
	return v, nil
}

type emailDef struct{}

func (emailDef) TypeName() string { return TypeEmail.String() }

func (emailDef) Process(key string, node Node, def *MemberDef) (any, error) {
	if v, done, err := commonCheck(key, node, def); done {
		return v, err
	}
	s, v, err := processString(key, node, def, "email")
	if err != nil {
		return nil, err
	}
	addr, perr := mail.ParseAddress(v)
	if perr != nil || addr.Address != v {
		return nil, validationError(CodeInvalidValue, s.Pos(), "%q must be an email address, currently it is %q", key, v)
	}
	return v, nil
}

type urlDef struct{}

func (urlDef) TypeName() string { return TypeURL.String() }

func (urlDef) Process(key string, node Node, def *MemberDef) (any, error) {
	if v, done, err := commonCheck(key, node, def); done {
		return v, err
	}
	s, v, err := processString(key, node, def, "url")
	if err != nil {
		return nil, err
	}
	u, perr := url.Parse(v)
	if perr != nil || u.Scheme == "" || (u.Host == "" && u.Opaque == "") {
		return nil, validationError(CodeInvalidValue, s.Pos(), "%q must be an absolute URL, currently it is %q", key, v)
	}
	return v, nil
}

func processString(key string, node Node, def *MemberDef, typeName string) (*ScalarNode, string, error) {
	s, err := scalarOf(key, node, TokenString, typeName)
	if err != nil {
		return nil, "", err
	}
	v := s.Token.Value.(string)
	if err := checkStringLength(key, s, v, def); err != nil {
		return nil, "", err
	}
	return s, v, nil
}

// ============================================================
// bool, any
// ============================================================

type boolDef struct{}

func (boolDef) TypeName() string { return TypeBool.String() }

func (boolDef) Process(key string, node Node, def *MemberDef) (any, error) {
	if v, done, err := commonCheck(key, node, def); done {
		return v, err
	}
	s, err := scalarOf(key, node, TokenBoolean, "bool")
	if err != nil {
		return nil, err
	}
	return s.Token.Value.(bool), nil
}

// anyDef accepts every value and converts it without a schema.
type anyDef struct{}

func (anyDef) TypeName() string { return TypeAny.String() }

func (anyDef) Process(key string, node Node, def *MemberDef) (any, error) {
	if v, done, err := commonCheck(key, node, def); done {
		return v, err
	}
	return ToValue(node), nil
}

// ============================================================
// date, time, datetime
// ============================================================

// dateTimeDef parses ISO-8601 dates and times into time.Time. Bare digit
// forms such as 2020 or 20201220 arrive as number tokens, so the raw text is
// used.
type dateTimeDef struct {
	kind TypeKind
}

func (d dateTimeDef) TypeName() string { return d.kind.String() }

func (d dateTimeDef) Process(key string, node Node, def *MemberDef) (any, error) {
	if v, done, err := commonCheck(key, node, def); done {
		return v, err
	}

	s, ok := node.(*ScalarNode)
	if !ok || (s.Token.Kind != TokenString && s.Token.Kind != TokenNumber) {
		return nil, validationError(CodeInvalidType, node.Pos(), "%q must be a %s", key, d.kind)
	}

	text := s.Token.Raw
	if s.Token.Kind == TokenString {
		text = s.Token.Value.(string)
	}

	var parse func(string) (t any, err error)
	switch d.kind {
	case TypeDate:
		parse = func(v string) (any, error) { return datetime.ParseDate(v) }
	case TypeTime:
		parse = func(v string) (any, error) { return datetime.ParseTime(v) }
	default:
		parse = func(v string) (any, error) { return datetime.ParseDateTime(v) }
	}

	t, err := parse(text)
	if err != nil {
		return nil, validationError(CodeInvalidValue, s.Pos(), "%q must be a valid %s, currently it is %q", key, d.kind, text)
	}
	return t, nil
}
