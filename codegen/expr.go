package codegen

import (
	"github.com/strager/jmm/ast"
	"github.com/strager/jmm/types"
	"github.com/strager/jmm/wat"
)

var binaryOps = map[ast.NodeKind]wat.Op{
	ast.NodeEq:  "i32.eq",
	ast.NodeNeq: "i32.ne",
	ast.NodeLt:  "i32.lt_s",
	ast.NodeGt:  "i32.gt_s",
	ast.NodeLe:  "i32.le_s",
	ast.NodeGe:  "i32.ge_s",
	ast.NodeAdd: "i32.add",
	ast.NodeSub: "i32.sub",
	ast.NodeMul: "i32.mul",
	ast.NodeDiv: "i32.div_s",
	ast.NodeMod: "i32.rem_s",
}

// Expression lowers a top-level expression. In debug mode the code is
// followed by a comment with the expression's source form.
func Expression(c *Context, n *ast.Node) []wat.Instr {
	out := expression(c, n)
	if c.Debug {
		out = append(out, wat.Comment(ast.Render(n)))
	}
	return out
}

func expression(c *Context, n *ast.Node) []wat.Instr {
	switch n.Kind {
	case ast.NodeID:
		return []wat.Instr{load(n)}
	case ast.NodeNum:
		return []wat.Instr{wat.Op("i32.const " + n.Attr)}
	case ast.NodeTrue:
		return []wat.Instr{wat.Op("i32.const 1")}
	case ast.NodeFalse:
		return []wat.Instr{wat.Op("i32.const 0")}
	case ast.NodeString:
		// Only meaningful as a prints argument, handled by call.
		return nil

	case ast.NodeAssign:
		target := n.Child(0)
		return append(expression(c, n.Child(1)), store(target), load(target))

	case ast.NodeAnd:
		return concat(expression(c, n.Child(0)), []wat.Instr{
			&wat.If{
				Then: append(expression(c, n.Child(1)), wat.Op("local.set "+TempLocal)),
				Else: []wat.Instr{wat.Op("i32.const 0"), wat.Op("local.set " + TempLocal)},
			},
			wat.Op("local.get " + TempLocal),
		})

	case ast.NodeOr:
		return concat(expression(c, n.Child(0)), []wat.Instr{
			&wat.If{
				Then: []wat.Instr{wat.Op("i32.const 1"), wat.Op("local.set " + TempLocal)},
				Else: append(expression(c, n.Child(1)), wat.Op("local.set "+TempLocal)),
			},
			wat.Op("local.get " + TempLocal),
		})

	case ast.NodeNeg:
		return concat([]wat.Instr{wat.Op("i32.const 0")}, expression(c, n.Child(0)), []wat.Instr{wat.Op("i32.sub")})
	case ast.NodeNot:
		return append(expression(c, n.Child(0)), wat.Op("i32.eqz"))

	case ast.NodeFunctionInvocation:
		return call(c, n)
	}

	if op, ok := binaryOps[n.Kind]; ok {
		return concat(expression(c, n.Child(0)), expression(c, n.Child(1)), []wat.Instr{op})
	}
	ast.Malformed(n, "%s is not an expression", n.Kind)
	return nil
}

// call lowers a function invocation. A callee taking a string receives the
// literal's offset and length in linear memory instead.
func call(c *Context, n *ast.Node) []wat.Instr {
	id := n.Child(0)
	sig, _ := id.Scope.Func(id.Attr)
	args := n.Child(1).Children

	var out []wat.Instr
	if takesString(sig.Params) {
		offset, length := c.Strings.Intern(args[0].Attr)
		out = append(out, wat.Opf("i32.const %d", offset), wat.Opf("i32.const %d", length))
	} else {
		for _, arg := range args {
			out = append(out, Expression(c, arg)...)
		}
	}
	out = append(out, wat.Op("call "+storageName(id)))
	if id.Scope == c.Table.Builtins && id.Attr == "halt" {
		out = append(out, wat.Op("unreachable"))
	}
	return out
}

func takesString(params []types.Type) bool {
	for _, p := range params {
		if p == types.String {
			return true
		}
	}
	return false
}

func load(id *ast.Node) wat.Op {
	if id.Scope.IsGlobalStorage() {
		return wat.Op("global.get " + storageName(id))
	}
	return wat.Op("local.get " + storageName(id))
}

func store(id *ast.Node) wat.Op {
	if id.Scope.IsGlobalStorage() {
		return wat.Op("global.set " + storageName(id))
	}
	return wat.Op("local.set " + storageName(id))
}
