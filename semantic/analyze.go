// Package semantic checks an input tree and annotates it for code
// generation.
//
// Analysis runs three passes over the same tree: pass0 collects the global
// declarations, pass1 resolves names and checks types, and pass2 verifies
// that every non-void function returns on all paths. The first user error
// ends the run and is returned as a *diag.Error. A tree that breaks the node
// layout contract panics with *ast.ShapeError.
package semantic

import (
	"fmt"

	"github.com/strager/jmm/ast"
	"github.com/strager/jmm/scope"
	"github.com/strager/jmm/types"
)

// Context is the mutable state of one analysis run.
type Context struct {
	Table *scope.Table
	Stack *scope.Stack

	tags int
}

// NewContext returns a fresh context holding the builtin and global scopes.
func NewContext() *Context {
	t := scope.NewTable()
	return &Context{
		Table: t,
		Stack: scope.NewStack(t.Builtins, t.Globals),
	}
}

// newTag hands out the next local scope tag: L1, L2, ...
func (c *Context) newTag() string {
	c.tags++
	return fmt.Sprintf("L%d", c.tags)
}

// Analyze runs all three passes over root.
func Analyze(root *ast.Node) (*scope.Table, error) {
	c := NewContext()
	if err := Pass0(c, root); err != nil {
		return nil, err
	}
	if err := Pass1(c, root); err != nil {
		return nil, err
	}
	if err := Pass2(c, root); err != nil {
		return nil, err
	}
	return c.Table, nil
}

// typeOf maps a type keyword node to its Type.
func typeOf(n *ast.Node) types.Type {
	switch n.Expect(ast.NodeInt, ast.NodeBoolean, ast.NodeVoid).Kind {
	case ast.NodeInt:
		return types.Int
	case ast.NodeBoolean:
		return types.Boolean
	default:
		return types.Void
	}
}

// valueTypeOf is typeOf for declarations, which cannot be void.
func valueTypeOf(n *ast.Node) types.Type {
	return typeOf(n.Expect(ast.NodeInt, ast.NodeBoolean))
}

// signature formats the annotation of a function name: "int f(int, boolean)".
func signature(result types.Type, params []types.Type) string {
	return scope.Signature{Params: params, Result: result}.String()
}
