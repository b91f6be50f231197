package iobject

import (
	"io"
	"strings"
	"unicode/utf8"
)

// Tokenizer converts Internet Object text into Tokens in a single pass.
//
// Bare tokens keep their inner whitespace and run until a structural
// character, a data separator or the end of the input; surrounding whitespace
// is trimmed. Quoted ("...") and raw (@"...") strings are taken verbatim
// after escape processing.
type Tokenizer struct {
	input  string
	pos    int // Byte offset of the next character
	line   int // Line of the next character (1-based)
	col    int // Column of the next character (1-based)
	tokens []Token
	done   bool
}

// NewTokenizer creates a tokenizer for the given text.
func NewTokenizer(input string) *Tokenizer {
	return &Tokenizer{
		input: input,
		line:  1,
		col:   1,
	}
}

// Tokenize returns all tokens of the input.
func Tokenize(input string) ([]Token, error) {
	return NewTokenizer(input).ReadAll()
}

// Read returns the next token, or io.EOF once the input is exhausted.
func (t *Tokenizer) Read() (Token, error) {
	if t.done {
		return Token{}, io.EOF
	}

	t.skipWhitespaceAndComments()
	if t.pos >= len(t.input) {
		t.done = true
		return Token{}, io.EOF
	}

	tok, err := t.scan()
	if err != nil {
		t.done = true
		return Token{}, err
	}
	t.tokens = append(t.tokens, tok)

	t.skipWhitespaceAndComments()
	if t.pos >= len(t.input) {
		t.done = true
	}
	return tok, nil
}

// ReadAll drains the tokenizer and returns every token read so far.
func (t *Tokenizer) ReadAll() ([]Token, error) {
	for {
		_, err := t.Read()
		if err == io.EOF {
			return t.tokens, nil
		}
		if err != nil {
			return t.tokens, err
		}
	}
}

// Done reports whether the end of the input has been reached.
func (t *Tokenizer) Done() bool {
	return t.done
}

// Tokens returns the tokens read so far.
func (t *Tokenizer) Tokens() []Token {
	return t.tokens
}

// Len returns the number of tokens read so far.
func (t *Tokenizer) Len() int {
	return len(t.tokens)
}

// Get returns the i-th token read.
func (t *Tokenizer) Get(i int) Token {
	return t.tokens[i]
}

// scan reads one token starting at a non-whitespace character.
func (t *Tokenizer) scan() (Token, error) {
	start := t.currentPos()
	ch := t.peek()

	switch {
	case isStructural(ch):
		t.advance()
		s := string(ch)
		return Token{Raw: s, Value: s, Kind: TokenSeparator, Pos: start}, nil

	case t.atDataSeparator():
		for i := 0; i < len(dataSeparator); i++ {
			t.advance()
		}
		return Token{Raw: dataSeparator, Value: dataSeparator, Kind: TokenDataSeparator, Pos: start}, nil

	case ch == stringEncloser:
		return t.scanQuoted(start)

	case ch == rawStringMarker && t.peekAt(1) == stringEncloser:
		return t.scanRaw(start)
	}

	return t.scanBare(start)
}

// scanBare scans an unquoted token.
func (t *Tokenizer) scanBare(start Position) (Token, error) {
	b := tokenBuilder{pos: start}
	end := t.pos

	for t.pos < len(t.input) {
		ch := t.peek()

		switch {
		case ch == commentStart:
			t.skipComment()
			continue

		case isWhitespace(ch):
			b.write(t.consume())
			continue

		case isStructural(ch), t.atDataSeparator():
			return b.finishBare(t.input[start.Offset:end])

		case ch == backslash:
			return Token{}, syntaxError(CodeInvalidChar, t.currentPos(), `\ not allowed in open strings`)

		case ch == stringEncloser:
			return Token{}, syntaxError(CodeInvalidChar, t.currentPos(), "invalid character '%c' encountered", ch)
		}

		b.write(t.consume())
		end = t.pos
	}

	return b.finishBare(t.input[start.Offset:end])
}

// scanQuoted scans a "quoted" string, decoding escapes.
func (t *Tokenizer) scanQuoted(start Position) (Token, error) {
	b := tokenBuilder{pos: start}
	t.advance() // consume opening "

	for {
		if t.pos >= len(t.input) {
			return Token{}, syntaxError(CodeUnterminatedString, start, "end of the text reached before closing the string")
		}

		ch := t.peek()
		switch ch {
		case stringEncloser:
			t.advance()
			return b.finishString(t.input[start.Offset:t.pos]), nil

		case backslash:
			t.advance()
			if t.pos >= len(t.input) {
				return Token{}, syntaxError(CodeIncompleteEscapeSequence, t.currentPos(),
					"end of the text reached before finishing the escape sequence")
			}
			if mapped, ok := escapeChars[t.peek()]; ok {
				t.advance()
				b.writeByte(mapped)
			} else {
				b.write(t.consume())
			}

		default:
			b.write(t.consume())
		}
	}
}

// scanRaw scans a @"raw" string where "" is the only escape.
func (t *Tokenizer) scanRaw(start Position) (Token, error) {
	b := tokenBuilder{pos: start}
	t.advance() // consume @
	t.advance() // consume opening "

	for {
		if t.pos >= len(t.input) {
			return Token{}, syntaxError(CodeUnterminatedString, start, "end of the text reached before closing the raw string")
		}

		if t.peek() == stringEncloser {
			t.advance()
			if t.peek() == stringEncloser && t.pos < len(t.input) {
				t.advance()
				b.writeByte(stringEncloser)
				continue
			}
			return b.finishString(t.input[start.Offset:t.pos]), nil
		}

		b.write(t.consume())
	}
}

// skipWhitespaceAndComments skips whitespace and # comments between tokens.
func (t *Tokenizer) skipWhitespaceAndComments() {
	for t.pos < len(t.input) {
		ch := t.peek()
		if isWhitespace(ch) {
			t.advance()
			continue
		}
		if ch == commentStart {
			t.skipComment()
			continue
		}
		break
	}
}

// skipComment discards characters up to, not including, the next line break.
func (t *Tokenizer) skipComment() {
	for t.pos < len(t.input) {
		ch := t.peek()
		if ch == '\n' || ch == '\r' {
			return
		}
		t.advance()
	}
}

// Helper methods

func (t *Tokenizer) peek() byte {
	if t.pos >= len(t.input) {
		return 0
	}
	return t.input[t.pos]
}

func (t *Tokenizer) peekAt(n int) byte {
	if t.pos+n >= len(t.input) {
		return 0
	}
	return t.input[t.pos+n]
}

func (t *Tokenizer) atDataSeparator() bool {
	return strings.HasPrefix(t.input[t.pos:], dataSeparator)
}

// consume advances one character and returns its text. Line breaks (\n,
// \r\n and a lone \r) are returned as "\n".
func (t *Tokenizer) consume() string {
	start := t.pos
	ch := t.peek()
	t.advance()
	if ch == '\r' {
		return "\n"
	}
	return t.input[start:t.pos]
}

func (t *Tokenizer) advance() {
	if t.pos >= len(t.input) {
		return
	}

	ch := t.input[t.pos]
	switch {
	case ch == '\n':
		t.pos++
		t.line++
		t.col = 1
	case ch == '\r':
		t.pos++
		if t.pos < len(t.input) && t.input[t.pos] == '\n' {
			t.pos++
		}
		t.line++
		t.col = 1
	case ch < utf8.RuneSelf:
		t.pos++
		t.col++
	default:
		_, size := utf8.DecodeRuneInString(t.input[t.pos:])
		t.pos += size
		t.col++
	}
}

func (t *Tokenizer) currentPos() Position {
	return Position{Line: t.line, Column: t.col, Offset: t.pos}
}

// ============================================================
// Token Builder
// ============================================================

// tokenBuilder accumulates the text of the token being scanned. It lives only
// for the duration of one scan call.
type tokenBuilder struct {
	pos Position
	sb  strings.Builder
}

func (b *tokenBuilder) write(s string) {
	b.sb.WriteString(s)
}

func (b *tokenBuilder) writeByte(ch byte) {
	b.sb.WriteByte(ch)
}

// finishBare trims and classifies a bare token.
func (b *tokenBuilder) finishBare(raw string) (Token, error) {
	value := trimWhitespace(b.sb.String())
	kind, v, err := classify(value)
	if err != nil {
		return Token{}, syntaxError(CodeInvalidNumber, b.pos, "number %q is out of range", value)
	}
	return Token{Raw: raw, Value: v, Kind: kind, Pos: b.pos}, nil
}

// finishString emits a quoted or raw string; its content is never trimmed
// or reclassified.
func (b *tokenBuilder) finishString(raw string) Token {
	return Token{Raw: raw, Value: b.sb.String(), Kind: TokenString, Pos: b.pos}
}

func trimWhitespace(s string) string {
	start, end := 0, len(s)
	for start < end && isWhitespace(s[start]) {
		start++
	}
	for end > start && isWhitespace(s[end-1]) {
		end--
	}
	return s[start:end]
}
