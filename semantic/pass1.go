package semantic

import (
	"github.com/strager/jmm/ast"
	"github.com/strager/jmm/diag"
	"github.com/strager/jmm/scope"
	"github.com/strager/jmm/types"
)

// Pass1 checks every function body.
func Pass1(c *Context, root *ast.Node) error {
	for _, decl := range root.Children {
		switch decl.Kind {
		case ast.NodeFunctionDeclaration, ast.NodeEntryPointDeclaration:
			if err := CheckFunction(c, decl); err != nil {
				return err
			}
		}
	}
	return nil
}

// CheckFunction checks one function body inside a fresh function scope.
// Parameters and the body's top-level declarations share that scope, which
// is recorded on the body block.
func CheckFunction(c *Context, fn *ast.Node) error {
	fn.ExpectChildren(4)
	body := fn.Child(3).Expect(ast.NodeBlock)
	s := scope.NewFunction(c.newTag(), fn.Loc, typeOf(fn.Child(0)))

	c.Stack.Push(s)
	defer c.Stack.Pop()

	for _, p := range fn.Child(2).Expect(ast.NodeFormalParameterList).Children {
		p.Expect(ast.NodeFormalParameter).ExpectChildren(2)
		t := valueTypeOf(p.Child(0))
		id := p.Child(1).Expect(ast.NodeID)
		if err := s.Declare(id.Attr, t, id.Loc); err != nil {
			return err
		}
		id.Annotate(t.String(), s)
	}

	body.Annotate("", s)
	for _, stmt := range body.Children {
		if err := CheckStatement(c, stmt); err != nil {
			return err
		}
	}
	return nil
}

// checkBody checks the body of a nested block, an if/else arm or a loop
// inside the given scope. A block body shares that scope rather than
// opening another one.
func checkBody(c *Context, body *ast.Node, s *scope.Scope) error {
	c.Stack.Push(s)
	defer c.Stack.Pop()

	if body.Kind != ast.NodeBlock {
		return CheckStatement(c, body)
	}
	body.Annotate("", s)
	for _, stmt := range body.Children {
		if err := CheckStatement(c, stmt); err != nil {
			return err
		}
	}
	return nil
}

// CheckStatement checks one statement against the current scope stack.
func CheckStatement(c *Context, n *ast.Node) error {
	switch n.Kind {
	case ast.NodeBlock:
		return checkBody(c, n, scope.NewBlock(c.newTag(), n.Loc))

	case ast.NodeVariableDeclaration:
		n.ExpectChildren(2)
		t := valueTypeOf(n.Child(0))
		id := n.Child(1).Expect(ast.NodeID)
		top := c.Stack.Top()
		if top.Variant() != scope.Function {
			return diag.New(diag.VariableDeclarationInInnerBlock, t.String()+" "+id.Attr, n.Loc,
				"Variables must be declared globally or in the outermost block of a function")
		}
		if err := top.Declare(id.Attr, t, id.Loc); err != nil {
			return err
		}
		id.Annotate(t.String(), top)
		return nil

	case ast.NodeStatementExpression:
		_, err := CheckExpression(c, n.ExpectChildren(1).Child(0))
		return err

	case ast.NodeFunctionInvocation:
		_, err := checkCall(c, n)
		return err

	case ast.NodeNullStatement:
		return nil

	case ast.NodeIf:
		n.ExpectChildren(2)
		if err := checkCondition(c, n.Child(0)); err != nil {
			return err
		}
		return checkBody(c, n.Child(1), scope.NewBlock(c.newTag(), n.Child(1).Loc))

	case ast.NodeIfElse:
		n.ExpectChildren(3)
		if err := checkCondition(c, n.Child(0)); err != nil {
			return err
		}
		if err := checkBody(c, n.Child(1), scope.NewBlock(c.newTag(), n.Child(1).Loc)); err != nil {
			return err
		}
		return checkBody(c, n.Child(2), scope.NewBlock(c.newTag(), n.Child(2).Loc))

	case ast.NodeWhile:
		n.ExpectChildren(2)
		if err := checkCondition(c, n.Child(0)); err != nil {
			return err
		}
		return checkBody(c, n.Child(1), scope.NewLoop(c.newTag(), n.Child(1).Loc))

	case ast.NodeReturn:
		return checkReturn(c, n)

	case ast.NodeBreak:
		loop := c.Stack.Nearest(scope.Loop)
		if loop == nil {
			return diag.New(diag.BreakNotInLoop, "break", n.Loc, "Break statements must be inside a while loop")
		}
		if len(n.Children) != 0 {
			return diag.New(diag.ArgumentMismatch, "break", n.Loc, "0 arguments expected")
		}
		n.Annotate("", loop)
		return nil

	default:
		ast.Malformed(n, "%s is not a statement", n.Kind)
		return nil
	}
}

func checkCondition(c *Context, cond *ast.Node) error {
	t, err := CheckExpression(c, cond)
	if err != nil {
		return err
	}
	if t != types.Boolean {
		return diag.New(diag.TypeMismatch, ast.Render(cond), cond.Loc, "Type boolean was expected")
	}
	return nil
}

func checkReturn(c *Context, n *ast.Node) error {
	fn := c.Stack.Nearest(scope.Function)
	if fn == nil {
		ast.Malformed(n, "return outside of a function")
	}
	want := fn.Result()

	if want == types.Void {
		if len(n.Children) != 0 {
			return diag.New(diag.ArgumentMismatch, "return", n.Loc, "0 arguments expected")
		}
		return nil
	}
	if len(n.Children) == 0 {
		return diag.New(diag.ArgumentMismatch, "return", n.Loc, "1 argument of type %s expected", want)
	}
	value := n.ExpectChildren(1).Child(0)
	got, err := CheckExpression(c, value)
	if err != nil {
		return err
	}
	if got != want {
		return diag.New(diag.TypeMismatch, ast.Render(value), n.Loc, "Type %s was expected", want)
	}
	return nil
}
