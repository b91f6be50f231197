package iobject

import "fmt"

// ErrorKind identifies the pipeline stage that produced an error.
type ErrorKind uint8

const (
	KindSyntax     ErrorKind = iota // Tokenizer
	KindStructure                   // Tree builder
	KindSchema                      // Schema compiler
	KindValidation                  // Type engine
)

// String returns the kind name.
func (k ErrorKind) String() string {
	switch k {
	case KindSyntax:
		return "syntax"
	case KindStructure:
		return "structure"
	case KindSchema:
		return "schema"
	case KindValidation:
		return "validation"
	default:
		return "unknown"
	}
}

// ErrorCode is a machine-readable error code.
type ErrorCode string

const (
	// Tokenizer
	CodeInvalidChar              ErrorCode = "invalid-char"
	CodeIncompleteEscapeSequence ErrorCode = "incomplete-escape-sequence"
	CodeUnterminatedString       ErrorCode = "unterminated-string"
	CodeInvalidNumber            ErrorCode = "invalid-number"

	// Tree builder
	CodeUnmatchedBracket ErrorCode = "unmatched-bracket"
	CodeUnexpectedToken  ErrorCode = "unexpected-token"
	CodeValueExpected    ErrorCode = "value-expected"

	// Schema compiler
	CodeInvalidSchema    ErrorCode = "invalid-schema"
	CodeUnknownType      ErrorCode = "unknown-type"
	CodeInvalidMemberDef ErrorCode = "invalid-member-def"
	CodeDuplicateMember  ErrorCode = "duplicate-member"

	// Type engine
	CodeNullNotAllowed    ErrorCode = "null-not-allowed"
	CodeValueNotInChoices ErrorCode = "value-not-in-choices"
	CodeValueRequired     ErrorCode = "value-required"
	CodeInvalidType       ErrorCode = "invalid-type"
	CodeInvalidValue      ErrorCode = "invalid-value"
	CodeInvalidMinValue   ErrorCode = "invalid-min-value"
	CodeInvalidMaxValue   ErrorCode = "invalid-max-value"
	CodeInvalidMinLength  ErrorCode = "invalid-min-length"
	CodeInvalidMaxLength  ErrorCode = "invalid-max-length"
	CodeInvalidPattern    ErrorCode = "invalid-pattern"
)

// Error is the single error type returned by every stage. Errors raised from a
// token or node carry its position.
type Error struct {
	Kind    ErrorKind
	Code    ErrorCode
	Message string
	Pos     Position
	HasPos  bool
}

func (e *Error) Error() string {
	switch {
	case e.HasPos && e.Message != "":
		return fmt.Sprintf("%s at %s: %s", e.Code, e.Pos, e.Message)
	case e.HasPos:
		return fmt.Sprintf("%s at %s", e.Code, e.Pos)
	case e.Message != "":
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	default:
		return string(e.Code)
	}
}

// Is reports whether target is an *Error with the same code, so the sentinel
// values below can be used with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Sentinels for errors.Is.
var (
	ErrInvalidChar              = &Error{Kind: KindSyntax, Code: CodeInvalidChar}
	ErrIncompleteEscapeSequence = &Error{Kind: KindSyntax, Code: CodeIncompleteEscapeSequence}
	ErrUnterminatedString       = &Error{Kind: KindSyntax, Code: CodeUnterminatedString}
	ErrInvalidNumber            = &Error{Kind: KindSyntax, Code: CodeInvalidNumber}

	ErrUnmatchedBracket = &Error{Kind: KindStructure, Code: CodeUnmatchedBracket}
	ErrUnexpectedToken  = &Error{Kind: KindStructure, Code: CodeUnexpectedToken}
	ErrValueExpected    = &Error{Kind: KindStructure, Code: CodeValueExpected}

	ErrInvalidSchema    = &Error{Kind: KindSchema, Code: CodeInvalidSchema}
	ErrUnknownType      = &Error{Kind: KindSchema, Code: CodeUnknownType}
	ErrInvalidMemberDef = &Error{Kind: KindSchema, Code: CodeInvalidMemberDef}
	ErrDuplicateMember  = &Error{Kind: KindSchema, Code: CodeDuplicateMember}

	ErrNullNotAllowed    = &Error{Kind: KindValidation, Code: CodeNullNotAllowed}
	ErrValueNotInChoices = &Error{Kind: KindValidation, Code: CodeValueNotInChoices}
	ErrValueRequired     = &Error{Kind: KindValidation, Code: CodeValueRequired}
	ErrInvalidType       = &Error{Kind: KindValidation, Code: CodeInvalidType}
	ErrInvalidValue      = &Error{Kind: KindValidation, Code: CodeInvalidValue}
	ErrInvalidMinValue   = &Error{Kind: KindValidation, Code: CodeInvalidMinValue}
	ErrInvalidMaxValue   = &Error{Kind: KindValidation, Code: CodeInvalidMaxValue}
	ErrInvalidMinLength  = &Error{Kind: KindValidation, Code: CodeInvalidMinLength}
	ErrInvalidMaxLength  = &Error{Kind: KindValidation, Code: CodeInvalidMaxLength}
	ErrInvalidPattern    = &Error{Kind: KindValidation, Code: CodeInvalidPattern}
)

func newError(kind ErrorKind, code ErrorCode, pos Position, format string, args ...interface{}) *Error {
	return &Error{
		Kind:    kind,
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Pos:     pos,
		HasPos:  true,
	}
}

func syntaxError(code ErrorCode, pos Position, format string, args ...interface{}) *Error {
	return newError(KindSyntax, code, pos, format, args...)
}

func structureError(code ErrorCode, pos Position, format string, args ...interface{}) *Error {
	return newError(KindStructure, code, pos, format, args...)
}

func schemaError(code ErrorCode, pos Position, format string, args ...interface{}) *Error {
	return newError(KindSchema, code, pos, format, args...)
}

// schemaErrorNoPos is for schema failures with no single originating token.
func schemaErrorNoPos(code ErrorCode, format string, args ...interface{}) *Error {
	return &Error{Kind: KindSchema, Code: code, Message: fmt.Sprintf(format, args...)}
}

func validationError(code ErrorCode, pos Position, format string, args ...interface{}) *Error {
	return newError(KindValidation, code, pos, format, args...)
}
