// Package template implements the sample template language.
// It supports {{ expr }} for Starlark expression output and {* stmt *} for
// for/if control flow. Everything else is copied to the generated file as is.
package template

// Position tracks source location for error reporting.
type Position struct {
	File   string
	Line   int
	Column int
}

// Node is the interface for all template AST nodes.
type Node interface {
	Pos() Position
	node() // marker method to restrict implementation
}

type nodeBase struct {
	pos Position
}

func (n *nodeBase) Pos() Position { return n.pos }
func (n *nodeBase) node()         {}

// TextNode represents literal source text.
type TextNode struct {
	nodeBase
	Text string
}

// ExprNode represents a {{ expr }} expression.
// Expr holds the Starlark source without delimiters.
type ExprNode struct {
	nodeBase
	Expr string
}

// StmtKind identifies the type of control flow statement.
type StmtKind int

// StmtKind constants for control flow statement types.
const (
	StmtUnknown StmtKind = iota
	StmtFor              // {* for x in items: *}
	StmtEndFor           // {* endfor *}
	StmtIf               // {* if cond: *}
	StmtElif             // {* elif cond: *}
	StmtElse             // {* else: *}
	StmtEndIf            // {* endif *}
)

func (k StmtKind) String() string {
	switch k {
	case StmtFor:
		return "for"
	case StmtEndFor:
		return "endfor"
	case StmtIf:
		return "if"
	case StmtElif:
		return "elif"
	case StmtElse:
		return "else"
	case StmtEndIf:
		return "endif"
	default:
		return "unknown"
	}
}

// StmtNode is a classified {* stmt *} before it is folded into a block.
type StmtNode struct {
	nodeBase
	Kind    StmtKind
	Expr    string // Condition (if/elif) or iterator expression (for)
	VarName string // Loop variable (for only)
}

// ForBlock represents a complete for loop with its body.
type ForBlock struct {
	nodeBase
	VarName  string
	IterExpr string
	Body     []Node
}

// IfBlock represents a complete if/elif/else conditional.
type IfBlock struct {
	nodeBase
	Condition string
	Body      []Node
	ElseIfs   []Branch
	Else      []Node // nil when there is no else branch
}

// Branch represents an elif branch.
type Branch struct {
	Condition string
	Body      []Node
	pos       Position
}

// Template represents a complete parsed template.
type Template struct {
	Nodes []Node
	File  string
}
