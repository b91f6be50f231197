package iobject

// NodeKind identifies a parse tree node variant.
type NodeKind uint8

const (
	NodeScalar     NodeKind = iota // single value token
	NodeObject                     // {a, b: c} or a bare root record
	NodeArray                      // [a, b]
	NodeCollection                 // ~ record ~ record
	NodeKeyVal                     // key: value
)

// String returns the node kind name.
func (k NodeKind) String() string {
	switch k {
	case NodeScalar:
		return "scalar"
	case NodeObject:
		return "object"
	case NodeArray:
		return "array"
	case NodeCollection:
		return "collection"
	case NodeKeyVal:
		return "keyval"
	default:
		return "unknown"
	}
}

// Node is a parse tree node. Nodes are never mutated once the tree builder
// returns.
type Node interface {
	Kind() NodeKind
	Pos() Position
}

// ScalarNode wraps a single value token.
type ScalarNode struct {
	Token Token
}

func (n *ScalarNode) Kind() NodeKind { return NodeScalar }
func (n *ScalarNode) Pos() Position  { return n.Token.Pos }

// Value returns the typed token value.
func (n *ScalarNode) Value() any { return n.Token.Value }

// IsNull reports whether the scalar is the null literal.
func (n *ScalarNode) IsNull() bool { return n.Token.Kind == TokenNull }

// ObjectNode is an ordered list of entries. A nil entry is an empty slot
// (as in "a,,b"); keyed entries are *KeyValNode.
type ObjectNode struct {
	Children []Node
	Braced   bool // false for a root record written without braces
	pos      Position
}

func (n *ObjectNode) Kind() NodeKind { return NodeObject }
func (n *ObjectNode) Pos() Position  { return n.pos }

// ArrayNode is an ordered list of values. A nil entry is an empty slot.
type ArrayNode struct {
	Children []Node
	pos      Position
}

func (n *ArrayNode) Kind() NodeKind { return NodeArray }
func (n *ArrayNode) Pos() Position  { return n.pos }

// CollectionNode holds sibling records chained with the collection separator.
type CollectionNode struct {
	Records []Node
	pos     Position
}

func (n *CollectionNode) Kind() NodeKind { return NodeCollection }
func (n *CollectionNode) Pos() Position  { return n.pos }

// KeyValNode is a "key: value" entry of an object.
type KeyValNode struct {
	Key      string
	KeyToken Token
	Value    Node
}

func (n *KeyValNode) Kind() NodeKind { return NodeKeyVal }
func (n *KeyValNode) Pos() Position  { return n.KeyToken.Pos }

// ParseTree is the output of the tree builder. Header is nil when the text
// has no data separator; Data is nil when the data region is empty.
type ParseTree struct {
	Header Node
	Data   Node
}

// isNullNode reports whether n is a null scalar.
func isNullNode(n Node) bool {
	s, ok := n.(*ScalarNode)
	return ok && s.IsNull()
}
