package compiler

import (
	"strings"
	"testing"

	"github.com/nalgeon/be"
	"github.com/strager/jmm/ast"
	"github.com/strager/jmm/diag"
	"github.com/strager/jmm/position"
)

const hello = `(globaldeclarations
  (entrypointdeclaration void (id "main") (formalparameterlist)
    (block (functioninvocation (id "prints") (argumentlist (string "hi\\n"))))))`

func TestCompileSource(t *testing.T) {
	res, err := CompileSource(hello, Options{})
	be.Err(t, err, nil)
	out := res.WAT()
	be.True(t, strings.HasPrefix(out, "(module\n"))
	be.True(t, strings.Contains(out, "(start $main)"))
	be.True(t, strings.Contains(out, `(data (i32.const 9) "\68\69\n")`))
	be.Equal(t, res.Table.Globals.EntryPoint(), "main")
}

func TestCompileIsDeterministic(t *testing.T) {
	a, err := CompileSource(hello, Options{Debug: true})
	be.Err(t, err, nil)
	b, err := CompileSource(hello, Options{Debug: true})
	be.Err(t, err, nil)
	be.Equal(t, a.WAT(), b.WAT())
}

func TestCompileStopsAtFirstError(t *testing.T) {
	res, err := CompileSource(`(globaldeclarations
  (variabledeclaration int (id "x"))
  (variabledeclaration int (id "x")))`, Options{})
	be.True(t, res == nil)
	kind, ok := diag.KindOf(err)
	be.True(t, ok)
	be.Equal(t, kind, diag.DuplicateVariable)
}

func TestCompileSourceReportsReadErrors(t *testing.T) {
	_, err := CompileSource(`(globaldeclarations`, Options{})
	be.True(t, err != nil)
	_, isDiag := diag.KindOf(err)
	be.Equal(t, isDiag, false)
}

func TestCheckAnnotatesTree(t *testing.T) {
	root, err := ast.Parse(hello)
	be.Err(t, err, nil)
	_, err = Check(root)
	be.Err(t, err, nil)
	be.Equal(t, root.Child(0).Child(1).Sig, "main()")
}

func TestCompilePanicsOnMalformedTree(t *testing.T) {
	root := ast.New(ast.NodeBlock, position.Location{})
	defer func() {
		_, ok := recover().(*ast.ShapeError)
		be.True(t, ok)
	}()
	Compile(root, Options{})
	t.Fatal("expected a panic")
}
