package types

// NodeType identifies the type of an AST node.
type NodeType string

// AST node types produced by the tree builder.
const (
	// Literals
	NodeString NodeType = "string"
	NodeNumber NodeType = "number"

	// Structure
	NodeSequence NodeType = "sequence" // ( a, b, ... ) or a top-level comma list
	NodeFunction NodeType = "function" // name(args)
	NodeContext  NodeType = "context"  // .
	NodeStep     NodeType = "step"     // input/test or input//test
)

// Axis names used by step nodes.
const (
	AxisChild      = "child"
	AxisDescendant = "descendant"
)

// Kind tests used by step nodes. Any other test value is an element name, "*" matches every element.
const (
	TestNode    = "node()"
	TestText    = "text()"
	TestComment = "comment()"
	TestPI      = "processing-instruction()"
	TestAny     = "*"
)

// ASTNode represents a node in the Abstract Syntax Tree.
type ASTNode struct {
	Type     NodeType
	StrValue string  // string literal value, function name, or step test
	NumValue float64 // numeric literal value
	IsInt    bool    // numeric literal had no fraction or exponent
	Position int

	// Relations
	LHS         *ASTNode   // step input
	Arguments   []*ASTNode // function arguments
	Expressions []*ASTNode // sequence members

	// Attributes
	Axis string // step axis
}

// NewASTNode creates a new AST node of the specified type.
func NewASTNode(nodeType NodeType, position int) *ASTNode {
	return &ASTNode{
		Type:     nodeType,
		Position: position,
	}
}

// String returns a string representation of the node type.
func (n *ASTNode) String() string {
	return string(n.Type)
}
