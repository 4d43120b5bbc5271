// Package ast is the tree handed over by the front end.
//
// Every node has a kind, an optional literal attribute, and a child list
// whose layout is fixed per kind. The semantic analyzer annotates nodes with
// a signature string and the scope that owns them; the code generator reads
// those annotations back.
package ast

import (
	"fmt"

	"github.com/strager/jmm/position"
	"github.com/strager/jmm/scope"
)

// NodeKind is the grammar production a node was built from. Its value is the
// head symbol used by the S-expression input format.
type NodeKind string

const (
	NodeGlobalDeclarations    NodeKind = "globaldeclarations"
	NodeVariableDeclaration   NodeKind = "variabledeclaration"
	NodeFunctionDeclaration   NodeKind = "functiondeclaration"
	NodeEntryPointDeclaration NodeKind = "entrypointdeclaration"
	NodeFormalParameterList   NodeKind = "formalparameterlist"
	NodeFormalParameter       NodeKind = "formalparameter"

	NodeBlock               NodeKind = "block"
	NodeNullStatement       NodeKind = "nullstatement"
	NodeStatementExpression NodeKind = "statementexpression"
	NodeFunctionInvocation  NodeKind = "functioninvocation"
	NodeArgumentList        NodeKind = "argumentlist"
	NodeIf                  NodeKind = "if"
	NodeIfElse              NodeKind = "ifelse"
	NodeWhile               NodeKind = "while"
	NodeReturn              NodeKind = "return"
	NodeBreak               NodeKind = "break"

	NodeID     NodeKind = "id"
	NodeNum    NodeKind = "num"
	NodeString NodeKind = "string"
	NodeTrue   NodeKind = "true"
	NodeFalse  NodeKind = "false"

	NodeInt     NodeKind = "int"
	NodeBoolean NodeKind = "boolean"
	NodeVoid    NodeKind = "void"

	NodeAssign NodeKind = "="
	NodeEq     NodeKind = "=="
	NodeNeq    NodeKind = "!="
	NodeLt     NodeKind = "<"
	NodeGt     NodeKind = ">"
	NodeLe     NodeKind = "<="
	NodeGe     NodeKind = ">="
	NodeAdd    NodeKind = "+"
	NodeSub    NodeKind = "-"
	NodeMul    NodeKind = "*"
	NodeDiv    NodeKind = "/"
	NodeMod    NodeKind = "%"
	NodeAnd    NodeKind = "&&"
	NodeOr     NodeKind = "||"
	NodeNot    NodeKind = "!"
	NodeNeg    NodeKind = "neg"
)

var allKinds = []NodeKind{
	NodeGlobalDeclarations, NodeVariableDeclaration, NodeFunctionDeclaration,
	NodeEntryPointDeclaration, NodeFormalParameterList, NodeFormalParameter,
	NodeBlock, NodeNullStatement, NodeStatementExpression, NodeFunctionInvocation,
	NodeArgumentList, NodeIf, NodeIfElse, NodeWhile, NodeReturn, NodeBreak,
	NodeID, NodeNum, NodeString, NodeTrue, NodeFalse,
	NodeInt, NodeBoolean, NodeVoid,
	NodeAssign, NodeEq, NodeNeq, NodeLt, NodeGt, NodeLe, NodeGe,
	NodeAdd, NodeSub, NodeMul, NodeDiv, NodeMod, NodeAnd, NodeOr, NodeNot, NodeNeg,
}

// IsKnown reports whether k is one of the kinds above.
func (k NodeKind) IsKnown() bool {
	for _, known := range allKinds {
		if k == known {
			return true
		}
	}
	return false
}

// HasAttr reports whether nodes of this kind carry literal text.
func (k NodeKind) HasAttr() bool {
	return k == NodeID || k == NodeNum || k == NodeString
}

// IsBinary reports whether k is a two-operand operator, including assignment.
func (k NodeKind) IsBinary() bool {
	switch k {
	case NodeAssign, NodeEq, NodeNeq, NodeLt, NodeGt, NodeLe, NodeGe,
		NodeAdd, NodeSub, NodeMul, NodeDiv, NodeMod, NodeAnd, NodeOr:
		return true
	}
	return false
}

// IsUnary reports whether k is a one-operand operator.
func (k NodeKind) IsUnary() bool {
	return k == NodeNot || k == NodeNeg
}

// Symbol is the operator's surface syntax. Unary minus renders as "-".
func (k NodeKind) Symbol() string {
	if k == NodeNeg {
		return "-"
	}
	return string(k)
}

// Node is one vertex of the tree.
type Node struct {
	Kind     NodeKind
	Attr     string // NodeID, NodeNum, NodeString
	Children []*Node
	Loc      position.Location

	// Set by semantic analysis, through Annotate.
	Sig   string
	Scope *scope.Scope

	annotated bool
}

// New builds a node with the given children.
func New(kind NodeKind, loc position.Location, children ...*Node) *Node {
	return &Node{Kind: kind, Loc: loc, Children: children}
}

// NewAttr builds a literal or identifier node.
func NewAttr(kind NodeKind, attr string, loc position.Location) *Node {
	return &Node{Kind: kind, Attr: attr, Loc: loc}
}

// Annotate records the analysis result for this node. A node is annotated
// at most once; a second call means the tree was analyzed twice or shares a
// node between two places, and panics with a shape error.
func (n *Node) Annotate(sig string, s *scope.Scope) {
	if n.annotated {
		Malformed(n, "node annotated twice (had sig=%q)", n.Sig)
	}
	n.annotated = true
	n.Sig = sig
	n.Scope = s
}

// Child returns the i'th child. A missing child is a shape error.
func (n *Node) Child(i int) *Node {
	if i < 0 || i >= len(n.Children) {
		Malformed(n, "%s node needs at least %d children, has %d", n.Kind, i+1, len(n.Children))
	}
	return n.Children[i]
}

// Expect panics with a shape error unless n has one of the given kinds.
func (n *Node) Expect(kinds ...NodeKind) *Node {
	if n == nil {
		panic(&ShapeError{Msg: fmt.Sprintf("missing node, expected %s", kindList(kinds))})
	}
	for _, k := range kinds {
		if n.Kind == k {
			return n
		}
	}
	Malformed(n, "expected %s, got %s", kindList(kinds), n.Kind)
	return nil
}

// ExpectChildren panics with a shape error unless n has exactly count children.
func (n *Node) ExpectChildren(count int) *Node {
	if len(n.Children) != count {
		Malformed(n, "%s node needs %d children, has %d", n.Kind, count, len(n.Children))
	}
	return n
}

// Walk visits n and its descendants in pre-order.
func Walk(n *Node, fn func(*Node)) {
	if n == nil {
		return
	}
	fn(n)
	for _, c := range n.Children {
		Walk(c, fn)
	}
}

func kindList(kinds []NodeKind) string {
	s := ""
	for i, k := range kinds {
		if i > 0 {
			s += " or "
		}
		s += string(k)
	}
	return s
}
