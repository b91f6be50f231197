package iobject

import (
	"fmt"
	"unicode/utf8"
)

// commonCheck applies the rules shared by every type: optional members,
// nullability and choices. done is true when value (or err) is final and the
// type-specific checks must be skipped.
func commonCheck(key string, node Node, def *MemberDef) (value any, done bool, err error) {
	if node == nil {
		if def.Optional {
			if def.HasDefault {
				return def.Default, true, nil
			}
			return Undefined, true, nil
		}
		return nil, true, &Error{
			Kind:    KindValidation,
			Code:    CodeValueRequired,
			Message: fmt.Sprintf("%q is required", key),
		}
	}

	if isNullNode(node) {
		if !def.Nullable {
			return nil, true, validationError(CodeNullNotAllowed, node.Pos(), "%q does not accept null", key)
		}
		return nil, true, nil
	}

	if len(def.Choices) > 0 {
		if s, ok := node.(*ScalarNode); ok && !def.inChoices(s.Value()) {
			return nil, true, validationError(CodeValueNotInChoices, node.Pos(),
				"%q must be one of %s, currently it is %s", key, formatChoices(def.Choices), formatScalar(s.Value()))
		}
	}

	return nil, false, nil
}

// scalarOf returns node as a scalar of the wanted token kind.
func scalarOf(key string, node Node, kind TokenKind, typeName string) (*ScalarNode, error) {
	s, ok := node.(*ScalarNode)
	if !ok {
		return nil, validationError(CodeInvalidType, node.Pos(), "%q must be a %s, found %s", key, typeName, node.Kind())
	}
	if s.Token.Kind != kind {
		return nil, validationError(CodeInvalidType, s.Pos(), "%q must be a %s, currently it is %q", key, typeName, s.Token.Raw)
	}
	return s, nil
}

func checkRange(key string, s *ScalarNode, v float64, def *MemberDef) error {
	if def.Min != nil && v < *def.Min {
		return validationError(CodeInvalidMinValue, s.Pos(),
			"%q must be greater than or equal to %v, currently it is %v", key, *def.Min, v)
	}
	if def.Max != nil && v > *def.Max {
		return validationError(CodeInvalidMaxValue, s.Pos(),
			"%q must be less than or equal to %v, currently it is %v", key, *def.Max, v)
	}
	return nil
}

func checkLength(key string, pos Position, n int, def *MemberDef) error {
	if def.MinLen != nil && n < *def.MinLen {
		return validationError(CodeInvalidMinLength, pos,
			"%q must have a length of at least %d, currently it is %d", key, *def.MinLen, n)
	}
	if def.MaxLen != nil && n > *def.MaxLen {
		return validationError(CodeInvalidMaxLength, pos,
			"%q must have a length of at most %d, currently it is %d", key, *def.MaxLen, n)
	}
	return nil
}

func checkStringLength(key string, s *ScalarNode, v string, def *MemberDef) error {
	return checkLength(key, s.Pos(), utf8.RuneCountInString(v), def)
}

func formatChoices(choices []any) string {
	out := "["
	for i, c := range choices {
		if i > 0 {
			out += ", "
		}
		out += formatScalar(c)
	}
	return out + "]"
}
