package ast

import (
	"fmt"
	"strings"

	"github.com/strager/jmm/sexy"
)

// Format renders a tree back into the S-expression input format, on one
// line. Locations and annotations are not included.
func Format(n *Node) string {
	var sb strings.Builder
	format(&sb, n)
	return sb.String()
}

func format(sb *strings.Builder, n *Node) {
	switch {
	case n.Kind == NodeNum:
		sb.WriteString("(num " + n.Attr + ")")
	case n.Kind.HasAttr():
		sb.WriteString("(" + string(n.Kind) + " " + sexy.NewString(n.Attr).String() + ")")
	case len(n.Children) == 0 && isBareKind(n.Kind):
		sb.WriteString(string(n.Kind))
	default:
		sb.WriteString("(" + string(n.Kind))
		for _, c := range n.Children {
			sb.WriteString(" ")
			format(sb, c)
		}
		sb.WriteString(")")
	}
}

// isBareKind reports whether a childless node of this kind prints as a
// plain symbol.
func isBareKind(k NodeKind) bool {
	switch k {
	case NodeInt, NodeBoolean, NodeVoid, NodeTrue, NodeFalse, NodeBreak, NodeNullStatement:
		return true
	}
	return false
}

// Dump renders a tree one node per line, indented with tabs, including the
// location and any analysis annotations.
func Dump(n *Node) string {
	var sb strings.Builder
	dump(&sb, n, 0)
	return sb.String()
}

func dump(sb *strings.Builder, n *Node, depth int) {
	sb.WriteString(strings.Repeat("\t", depth))
	sb.WriteString(string(n.Kind))
	if n.Kind.HasAttr() {
		if n.Kind == NodeNum {
			sb.WriteString(" " + n.Attr)
		} else {
			fmt.Fprintf(sb, " %q", n.Attr)
		}
	}
	if n.Loc.IsValid() {
		fmt.Fprintf(sb, " @%d:%d", n.Loc.Line, n.Loc.Column)
	}
	if n.Sig != "" {
		fmt.Fprintf(sb, " sig=%q", n.Sig)
	}
	if n.Scope != nil {
		sb.WriteString(" scope=" + n.Scope.Tag())
	}
	sb.WriteString("\n")
	for _, c := range n.Children {
		dump(sb, c, depth+1)
	}
}

// Render reconstructs the surface syntax of an expression, for error
// messages and debug comments. Operators are rendered without parentheses.
func Render(n *Node) string {
	switch {
	case n.Kind == NodeID || n.Kind == NodeNum:
		return n.Attr
	case n.Kind == NodeString:
		return `"` + n.Attr + `"`
	case n.Kind == NodeTrue || n.Kind == NodeFalse:
		return string(n.Kind)
	case n.Kind == NodeFunctionInvocation:
		var args []string
		if len(n.Children) > 1 {
			for _, a := range n.Children[1].Children {
				args = append(args, Render(a))
			}
		}
		name := ""
		if len(n.Children) > 0 {
			name = n.Children[0].Attr
		}
		return name + "(" + strings.Join(args, ", ") + ")"
	case n.Kind.IsBinary() && len(n.Children) == 2:
		return Render(n.Children[0]) + " " + n.Kind.Symbol() + " " + Render(n.Children[1])
	case n.Kind.IsUnary() && len(n.Children) == 1:
		return n.Kind.Symbol() + Render(n.Children[0])
	case n.Kind == NodeReturn:
		return "return"
	case n.Kind == NodeBreak:
		return "break"
	default:
		return string(n.Kind)
	}
}
