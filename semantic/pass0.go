package semantic

import (
	"github.com/strager/jmm/ast"
	"github.com/strager/jmm/diag"
	"github.com/strager/jmm/position"
	"github.com/strager/jmm/scope"
	"github.com/strager/jmm/types"
)

// Pass0 registers global variables, user functions and the entry point in
// the global scope.
func Pass0(c *Context, root *ast.Node) error {
	root.Expect(ast.NodeGlobalDeclarations)
	g := c.Table.Globals

	for _, decl := range root.Children {
		switch decl.Expect(ast.NodeVariableDeclaration, ast.NodeFunctionDeclaration, ast.NodeEntryPointDeclaration).Kind {
		case ast.NodeEntryPointDeclaration:
			decl.ExpectChildren(4)
			decl.Child(0).Expect(ast.NodeVoid)
			id := decl.Child(1).Expect(ast.NodeID)
			if err := g.SetEntryPoint(id.Attr, decl.Loc); err != nil {
				return err
			}
			id.Annotate(id.Attr+"()", g)

		case ast.NodeFunctionDeclaration:
			decl.ExpectChildren(4)
			result := typeOf(decl.Child(0))
			id := decl.Child(1).Expect(ast.NodeID)
			var params []types.Type
			for _, p := range decl.Child(2).Expect(ast.NodeFormalParameterList).Children {
				p.Expect(ast.NodeFormalParameter).ExpectChildren(2)
				params = append(params, valueTypeOf(p.Child(0)))
			}
			sig := scope.Signature{Params: params, Result: result}
			if err := g.DeclareFunc(id.Attr, sig, id.Loc); err != nil {
				return err
			}
			id.Annotate(signature(result, params), g)

		case ast.NodeVariableDeclaration:
			decl.ExpectChildren(2)
			t := valueTypeOf(decl.Child(0))
			id := decl.Child(1).Expect(ast.NodeID)
			if err := g.Declare(id.Attr, t, id.Loc); err != nil {
				return err
			}
			id.Annotate(t.String(), g)
		}
	}

	if g.EntryPoint() == "" {
		return diag.New(diag.NoMain, "", position.Location{}, "Program has no main function")
	}
	return nil
}
