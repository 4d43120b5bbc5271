package semantic

import (
	"github.com/strager/jmm/ast"
	"github.com/strager/jmm/diag"
	"github.com/strager/jmm/types"
)

// CheckExpression computes the type of an expression and annotates every
// node in it.
func CheckExpression(c *Context, n *ast.Node) (types.Type, error) {
	switch {
	case n.Kind == ast.NodeID:
		s, t, err := c.Stack.Lookup(n.Attr, n.Loc)
		if err != nil {
			return types.Invalid, err
		}
		n.Annotate(t.String(), s)
		return t, nil

	case n.Kind == ast.NodeNum:
		return literal(n, types.Int), nil
	case n.Kind == ast.NodeTrue || n.Kind == ast.NodeFalse:
		return literal(n, types.Boolean), nil
	case n.Kind == ast.NodeString:
		return literal(n, types.String), nil

	case n.Kind == ast.NodeFunctionInvocation:
		return checkCall(c, n)

	case n.Kind == ast.NodeAssign:
		n.ExpectChildren(2)
		n.Child(0).Expect(ast.NodeID)
		return checkBinary(c, n, func(left, right types.Type) (types.Type, *ast.Node, string) {
			if right != left {
				return types.Invalid, n.Child(1), left.String()
			}
			return left, nil, ""
		})

	case n.Kind == ast.NodeEq || n.Kind == ast.NodeNeq:
		return checkBinary(c, n, func(left, right types.Type) (types.Type, *ast.Node, string) {
			if !left.HasValue() {
				return types.Invalid, n.Child(0), types.Int.String() + " or " + types.Boolean.String()
			}
			if right != left {
				return types.Invalid, n.Child(1), left.String()
			}
			return types.Boolean, nil, ""
		})

	case n.Kind == ast.NodeAdd || n.Kind == ast.NodeSub || n.Kind == ast.NodeMul ||
		n.Kind == ast.NodeDiv || n.Kind == ast.NodeMod:
		return checkBinary(c, n, operands(n, types.Int, types.Int))

	case n.Kind == ast.NodeLt || n.Kind == ast.NodeGt || n.Kind == ast.NodeLe || n.Kind == ast.NodeGe:
		return checkBinary(c, n, operands(n, types.Int, types.Boolean))

	case n.Kind == ast.NodeAnd || n.Kind == ast.NodeOr:
		return checkBinary(c, n, operands(n, types.Boolean, types.Boolean))

	case n.Kind == ast.NodeNeg:
		return checkUnary(c, n, types.Int)
	case n.Kind == ast.NodeNot:
		return checkUnary(c, n, types.Boolean)

	default:
		ast.Malformed(n, "%s is not an expression", n.Kind)
		return types.Invalid, nil
	}
}

func literal(n *ast.Node, t types.Type) types.Type {
	n.Annotate(t.String(), nil)
	return t
}

// rule decides the result type of a binary operator. On failure it returns
// the offending operand and the name of what was expected there.
type rule func(left, right types.Type) (result types.Type, bad *ast.Node, want string)

// operands is the rule for operators whose two operands share a fixed type.
func operands(n *ast.Node, operand, result types.Type) rule {
	return func(left, right types.Type) (types.Type, *ast.Node, string) {
		if left != operand {
			return types.Invalid, n.Child(0), operand.String()
		}
		if right != operand {
			return types.Invalid, n.Child(1), operand.String()
		}
		return result, nil, ""
	}
}

func checkBinary(c *Context, n *ast.Node, r rule) (types.Type, error) {
	n.ExpectChildren(2)
	left, err := CheckExpression(c, n.Child(0))
	if err != nil {
		return types.Invalid, err
	}
	right, err := CheckExpression(c, n.Child(1))
	if err != nil {
		return types.Invalid, err
	}
	result, bad, want := r(left, right)
	if bad != nil {
		return types.Invalid, diag.New(diag.TypeMismatch, ast.Render(bad), bad.Loc, "Type %s was expected", want)
	}
	n.Annotate(result.String(), nil)
	return result, nil
}

func checkUnary(c *Context, n *ast.Node, t types.Type) (types.Type, error) {
	operand := n.ExpectChildren(1).Child(0)
	got, err := CheckExpression(c, operand)
	if err != nil {
		return types.Invalid, err
	}
	if got != t {
		return types.Invalid, diag.New(diag.TypeMismatch, ast.Render(operand), operand.Loc, "Type %s was expected", t)
	}
	n.Annotate(t.String(), nil)
	return t, nil
}

// checkCall types the arguments left to right, then matches them against
// the callee's parameter list.
func checkCall(c *Context, n *ast.Node) (types.Type, error) {
	n.ExpectChildren(2)
	id := n.Child(0).Expect(ast.NodeID)
	args := n.Child(1).Expect(ast.NodeArgumentList).Children

	argTypes := make([]types.Type, 0, len(args))
	for _, arg := range args {
		t, err := CheckExpression(c, arg)
		if err != nil {
			return types.Invalid, err
		}
		argTypes = append(argTypes, t)
	}

	owner, sig, err := c.Table.ResolveCall(id.Attr, n.Loc)
	if err != nil {
		return types.Invalid, err
	}
	if len(argTypes) != len(sig.Params) {
		return types.Invalid, diag.New(diag.ArgumentMismatch, ast.Render(n), n.Loc,
			"Number of arguments must match the number of declared parameters of called function")
	}
	for i, want := range sig.Params {
		if argTypes[i] != want {
			return types.Invalid, diag.New(diag.TypeMismatch, ast.Render(args[i]), args[i].Loc,
				"Type %s was expected", want)
		}
	}

	id.Annotate(signature(sig.Result, argTypes), owner)
	n.Annotate(sig.Result.String(), nil)
	return sig.Result, nil
}
