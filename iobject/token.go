package iobject

import (
	"fmt"
	"strconv"
)

// TokenKind represents the lexical kind of a token.
type TokenKind uint8

const (
	TokenString        TokenKind = iota // bare, "quoted" or @"raw"
	TokenNumber                         // 12, -3.5, 1e9
	TokenBoolean                        // true, T, false, F
	TokenNull                           // null, N
	TokenSeparator                      // { } [ ] : , ~
	TokenDataSeparator                  // ---
)

// String returns the token kind name.
func (k TokenKind) String() string {
	switch k {
	case TokenString:
		return "STRING"
	case TokenNumber:
		return "NUMBER"
	case TokenBoolean:
		return "BOOLEAN"
	case TokenNull:
		return "NULL"
	case TokenSeparator:
		return "SEP"
	case TokenDataSeparator:
		return "DATASEP"
	default:
		return "UNKNOWN"
	}
}

// Position represents a source location.
type Position struct {
	Line   int // 1-based row
	Column int // 1-based column, counted in runes
	Offset int // 0-based byte index
}

// String returns position as "line:column".
func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Token is a single lexical unit. Value holds a string, float64, bool or nil
// depending on Kind.
type Token struct {
	Raw   string
	Value any
	Kind  TokenKind
	Pos   Position
}

// String returns a debug representation of the token.
func (t Token) String() string {
	return fmt.Sprintf("%s(%q)@%s", t.Kind, t.Raw, t.Pos)
}

// IsSep reports whether the token is the given separator character.
func (t Token) IsSep(ch byte) bool {
	if t.Kind != TokenSeparator {
		return false
	}
	s, _ := t.Value.(string)
	return len(s) == 1 && s[0] == ch
}

// Text returns the string form of the token value.
func (t Token) Text() string {
	if s, ok := t.Value.(string); ok {
		return s
	}
	return t.Raw
}

// ============================================================
// Literals
// ============================================================

const (
	dataSeparator       = "---"
	collectionSeparator = '~'
	stringEncloser      = '"'
	rawStringMarker     = '@'
	commentStart        = '#'
	backslash           = '\\'

	literalTrue       = "true"
	literalTrueShort  = "T"
	literalFalse      = "false"
	literalFalseShort = "F"
	literalNull       = "null"
	literalNullShort  = "N"
)

var escapeChars = map[byte]byte{
	'\\': '\\',
	'/':  '/',
	'"':  '"',
	'b':  '\b',
	'f':  '\f',
	'n':  '\n',
	'r':  '\r',
	't':  '\t',
}

func isSeparator(ch byte) bool {
	switch ch {
	case '{', '}', '[', ']', ':', ',':
		return true
	}
	return false
}

func isStructural(ch byte) bool {
	return isSeparator(ch) || ch == collectionSeparator
}

func isWhitespace(ch byte) bool {
	return ch <= ' '
}

// classify turns a finalized bare value into its kind and typed value. A
// numeric literal that does not fit a float64 is reported as an error.
func classify(value string) (TokenKind, any, error) {
	if len(value) == 1 && isStructural(value[0]) {
		return TokenSeparator, value, nil
	}
	if value == dataSeparator {
		return TokenDataSeparator, value, nil
	}
	if isNumberLiteral(value) {
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return TokenNumber, nil, err
		}
		return TokenNumber, f, nil
	}
	switch value {
	case literalTrue, literalTrueShort:
		return TokenBoolean, true, nil
	case literalFalse, literalFalseShort:
		return TokenBoolean, false, nil
	case literalNull, literalNullShort:
		return TokenNull, nil, nil
	}
	return TokenString, value, nil
}

// isNumberLiteral matches [+-]? (digits ('.' digits?)? | '.' digits) ([eE] [+-]? digits)?
func isNumberLiteral(s string) bool {
	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}

	intDigits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		intDigits++
	}

	fracDigits := 0
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && isDigit(s[i]) {
			i++
			fracDigits++
		}
	}
	if intDigits == 0 && fracDigits == 0 {
		return false
	}

	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		i++
		if i < len(s) && (s[i] == '+' || s[i] == '-') {
			i++
		}
		expDigits := 0
		for i < len(s) && isDigit(s[i]) {
			i++
			expDigits++
		}
		if expDigits == 0 {
			return false
		}
	}

	return i == len(s)
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}
