package semantic

import (
	"github.com/strager/jmm/ast"
	"github.com/strager/jmm/diag"
	"github.com/strager/jmm/types"
)

// Exit classifies how control leaves a statement.
type Exit int

const (
	DoesNotAlwaysReturn Exit = iota
	AlwaysReturns
	AlwaysBreaks
)

func (e Exit) String() string {
	switch e {
	case AlwaysReturns:
		return "AlwaysReturns"
	case AlwaysBreaks:
		return "AlwaysBreaks"
	default:
		return "DoesNotAlwaysReturn"
	}
}

// Pass2 requires every non-void function to return on all paths.
func Pass2(c *Context, root *ast.Node) error {
	for _, decl := range root.Children {
		if decl.Kind != ast.NodeFunctionDeclaration && decl.Kind != ast.NodeEntryPointDeclaration {
			continue
		}
		result := typeOf(decl.Child(0))
		if result == types.Void {
			continue
		}
		if ExitOf(c, decl.Child(3)) != AlwaysReturns {
			return diag.New(diag.FunctionDoesNotReturn, decl.Child(1).Attr, decl.Loc,
				"%s functions must return a value", result)
		}
	}
	return nil
}

// ExitOf classifies a statement. A block takes the first classification
// among its statements that is not DoesNotAlwaysReturn. Breaks propagate
// through if/else the same way returns do. Only a bare call statement can
// halt; an expression statement never ends a path, whatever it calls.
func ExitOf(c *Context, n *ast.Node) Exit {
	switch n.Kind {
	case ast.NodeBlock:
		for _, stmt := range n.Children {
			if e := ExitOf(c, stmt); e != DoesNotAlwaysReturn {
				return e
			}
		}
		return DoesNotAlwaysReturn

	case ast.NodeReturn:
		return AlwaysReturns

	case ast.NodeBreak:
		return AlwaysBreaks

	case ast.NodeIfElse:
		then, els := ExitOf(c, n.Child(1)), ExitOf(c, n.Child(2))
		if then == els {
			return then
		}
		return DoesNotAlwaysReturn

	case ast.NodeFunctionInvocation:
		if haltsProgram(c, n) {
			return AlwaysReturns
		}
		return DoesNotAlwaysReturn

	default:
		return DoesNotAlwaysReturn
	}
}

// haltsProgram reports whether call invokes the builtin halt rather than a
// user function of the same name.
func haltsProgram(c *Context, call *ast.Node) bool {
	id := call.Child(0)
	if id.Attr != "halt" {
		return false
	}
	if _, user := c.Table.Globals.Func(id.Attr); user {
		return false
	}
	_, builtin := c.Table.Builtins.Func(id.Attr)
	return builtin
}
