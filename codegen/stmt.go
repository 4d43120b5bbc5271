package codegen

import (
	"github.com/strager/jmm/ast"
	"github.com/strager/jmm/wat"
)

// Statement lowers one statement.
func Statement(c *Context, n *ast.Node) []wat.Instr {
	switch n.Kind {
	case ast.NodeBlock:
		var out []wat.Instr
		for _, stmt := range n.Children {
			out = append(out, Statement(c, stmt)...)
		}
		return out

	case ast.NodeVariableDeclaration, ast.NodeNullStatement:
		return nil

	case ast.NodeStatementExpression:
		e := n.Child(0)
		out := Expression(c, e)
		if producesValue(e) {
			out = append(out, wat.Op("drop"))
		}
		return out

	case ast.NodeFunctionInvocation:
		out := call(c, n)
		if producesValue(n) {
			out = append(out, wat.Op("drop"))
		}
		return out

	case ast.NodeIf:
		return append(Expression(c, n.Child(0)), &wat.If{
			Then: Statement(c, n.Child(1)),
		})

	case ast.NodeIfElse:
		return append(Expression(c, n.Child(0)), &wat.If{
			Then: Statement(c, n.Child(1)),
			Else: Statement(c, n.Child(2)),
		})

	case ast.NodeWhile:
		num := c.labels
		c.labels++
		c.loops = append(c.loops, num)
		cond := Expression(c, n.Child(0))
		body := Statement(c, n.Child(1))
		again := Expression(c, n.Child(0))
		c.loops = c.loops[:len(c.loops)-1]
		return []wat.Instr{whileLoop(num, cond, body, again)}

	case ast.NodeReturn:
		var out []wat.Instr
		if len(n.Children) > 0 {
			out = Expression(c, n.Child(0))
		}
		return append(out, wat.Op("return"))

	case ast.NodeBreak:
		return []wat.Instr{wat.Op("br " + label("B", c.loops[len(c.loops)-1]))}

	default:
		ast.Malformed(n, "%s is not a statement", n.Kind)
		return nil
	}
}

// whileLoop builds a pre-test loop out of br_if only: skip the loop when
// the condition is false on entry, otherwise repeat while it stays true.
func whileLoop(num int, cond, body, again []wat.Instr) *wat.Block {
	b, l := label("B", num), label("L", num)
	return &wat.Block{Label: b, Body: concat(
		cond,
		[]wat.Instr{wat.Op("i32.eqz"), wat.Op("br_if " + b)},
		[]wat.Instr{&wat.Loop{Label: l, Body: concat(
			body,
			again,
			[]wat.Instr{wat.Op("br_if " + l)},
		)}},
	)}
}
