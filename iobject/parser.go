package iobject

// ParseText tokenizes and builds the parse tree of a document.
func ParseText(input string) (*ParseTree, error) {
	tokens, err := Tokenize(input)
	if err != nil {
		return nil, err
	}
	return BuildTree(tokens)
}

// BuildTree assembles tokens into a ParseTree. The first data separator splits
// the stream into the header and data regions; without one the whole stream
// is data.
func BuildTree(tokens []Token) (*ParseTree, error) {
	split := indexDataSeparator(tokens)
	if split < 0 {
		data, err := buildRegion(tokens)
		if err != nil {
			return nil, err
		}
		return &ParseTree{Data: data}, nil
	}

	header, err := buildRegion(tokens[:split])
	if err != nil {
		return nil, err
	}
	data, err := buildRegion(tokens[split+1:])
	if err != nil {
		return nil, err
	}
	return &ParseTree{Header: header, Data: data}, nil
}

// buildHeader builds a schema-only text: everything up to an optional data
// separator is header.
func buildHeader(tokens []Token) (Node, error) {
	if split := indexDataSeparator(tokens); split >= 0 {
		tokens = tokens[:split]
	}
	return buildRegion(tokens)
}

func indexDataSeparator(tokens []Token) int {
	for i, tok := range tokens {
		if tok.Kind == TokenDataSeparator {
			return i
		}
	}
	return -1
}

// treeBuilder assembles one region of the token stream.
type treeBuilder struct {
	stream *TokenStream
}

func buildRegion(tokens []Token) (Node, error) {
	if len(tokens) == 0 {
		return nil, nil
	}
	b := &treeBuilder{stream: NewTokenStream(tokens)}
	return b.parseRegion()
}

// parseRegion parses: record ( '~' record )*
func (b *treeBuilder) parseRegion() (Node, error) {
	first, _ := b.stream.Peek()

	var records []Node
	collection := false
	for {
		rec, err := b.parseRecord()
		if err != nil {
			return nil, err
		}
		records = append(records, rec)

		if !b.stream.Match(collectionSeparator) {
			break
		}
		collection = true
	}

	if !collection {
		return records[0], nil
	}

	// "~ a ~ b ~": nothing before the first or after the last separator
	if records[0] == nil {
		records = records[1:]
	}
	if n := len(records); n > 0 && records[n-1] == nil {
		records = records[:n-1]
	}
	return &CollectionNode{Records: records, pos: first.Pos}, nil
}

// parseRecord parses the unbraced entries of a root record. It returns nil
// when the record is empty.
func (b *treeBuilder) parseRecord() (Node, error) {
	first, ok := b.stream.Peek()
	if !ok || first.IsSep(collectionSeparator) {
		return nil, nil
	}

	children, err := b.parseEntries(Token{}, 0, true)
	if err != nil {
		return nil, err
	}
	return &ObjectNode{Children: children, pos: first.Pos}, nil
}

// parseEntries parses comma separated entries up to closer. A zero closer
// means a root record, which ends at '~' or the end of the region.
func (b *treeBuilder) parseEntries(open Token, closer byte, keyed bool) ([]Node, error) {
	var children []Node
	expectEntry := true

	for {
		tok, ok := b.stream.Peek()
		if !ok {
			if closer != 0 {
				return nil, structureError(CodeUnmatchedBracket, open.Pos, "'%s' is never closed", open.Raw)
			}
			return children, nil
		}

		if closer == 0 && tok.IsSep(collectionSeparator) {
			return children, nil
		}
		if closer != 0 && tok.IsSep(closer) {
			b.stream.Advance()
			return children, nil
		}

		if tok.IsSep(',') {
			b.stream.Advance()
			if expectEntry {
				children = append(children, nil)
			}
			expectEntry = true
			continue
		}

		if !expectEntry {
			return nil, structureError(CodeUnexpectedToken, tok.Pos, "expected ',' but found %q", tok.Raw)
		}

		entry, err := b.parseEntry(keyed)
		if err != nil {
			return nil, err
		}
		children = append(children, entry)
		expectEntry = false
	}
}

// parseEntry parses: value | key ':' value
func (b *treeBuilder) parseEntry(keyed bool) (Node, error) {
	value, err := b.parseValue()
	if err != nil {
		return nil, err
	}

	colon, ok := b.stream.Peek()
	if !ok || !colon.IsSep(':') {
		return value, nil
	}

	if !keyed {
		return nil, structureError(CodeUnexpectedToken, colon.Pos, "key-value pairs are not allowed in arrays")
	}
	key, isScalar := value.(*ScalarNode)
	if !isScalar {
		return nil, structureError(CodeUnexpectedToken, colon.Pos, "a %s cannot be used as a key", value.Kind())
	}
	b.stream.Advance() // consume :

	next, ok := b.stream.Peek()
	if !ok || startsNoValue(next) {
		pos := colon.Pos
		if ok {
			pos = next.Pos
		}
		return nil, structureError(CodeValueExpected, pos, "value expected for key %q", key.Token.Text())
	}

	val, err := b.parseValue()
	if err != nil {
		return nil, err
	}
	return &KeyValNode{Key: key.Token.Text(), KeyToken: key.Token, Value: val}, nil
}

// parseValue parses a scalar, an object or an array.
func (b *treeBuilder) parseValue() (Node, error) {
	tok, _ := b.stream.Peek()

	switch {
	case tok.IsSep('{'):
		return b.parseObject()
	case tok.IsSep('['):
		return b.parseArray()
	case tok.IsSep(':'):
		return nil, structureError(CodeUnexpectedToken, tok.Pos, "key expected before ':'")
	case tok.Kind == TokenSeparator, tok.Kind == TokenDataSeparator:
		return nil, structureError(CodeUnexpectedToken, tok.Pos, "unexpected %q", tok.Raw)
	}

	b.stream.Advance()
	return &ScalarNode{Token: tok}, nil
}

// parseObject parses: '{' entries '}'
func (b *treeBuilder) parseObject() (Node, error) {
	open := b.stream.Advance()
	children, err := b.parseEntries(open, '}', true)
	if err != nil {
		return nil, err
	}
	return &ObjectNode{Children: children, Braced: true, pos: open.Pos}, nil
}

// parseArray parses: '[' elements ']'
func (b *treeBuilder) parseArray() (Node, error) {
	open := b.stream.Advance()
	children, err := b.parseEntries(open, ']', false)
	if err != nil {
		return nil, err
	}
	return &ArrayNode{Children: children, pos: open.Pos}, nil
}

// startsNoValue reports whether tok cannot begin a value.
func startsNoValue(tok Token) bool {
	if tok.Kind == TokenDataSeparator {
		return true
	}
	return tok.Kind == TokenSeparator && !tok.IsSep('{') && !tok.IsSep('[')
}

// ============================================================
// Token Stream
// ============================================================

// TokenStream provides a stream interface over tokens.
type TokenStream struct {
	tokens []Token
	pos    int
}

// NewTokenStream creates a token stream from tokens.
func NewTokenStream(tokens []Token) *TokenStream {
	return &TokenStream{tokens: tokens}
}

// Peek returns the current token without advancing. ok is false at the end
// of the stream.
func (ts *TokenStream) Peek() (tok Token, ok bool) {
	if ts.pos >= len(ts.tokens) {
		return Token{}, false
	}
	return ts.tokens[ts.pos], true
}

// Advance moves to the next token and returns the current one.
func (ts *TokenStream) Advance() Token {
	tok, _ := ts.Peek()
	if ts.pos < len(ts.tokens) {
		ts.pos++
	}
	return tok
}

// Match returns true and advances if the current token is the separator ch.
func (ts *TokenStream) Match(ch byte) bool {
	if tok, ok := ts.Peek(); ok && tok.IsSep(ch) {
		ts.Advance()
		return true
	}
	return false
}

// AtEnd returns true if at end of stream.
func (ts *TokenStream) AtEnd() bool {
	return ts.pos >= len(ts.tokens)
}
