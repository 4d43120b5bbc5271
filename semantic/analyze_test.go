package semantic

import (
	"testing"

	"github.com/nalgeon/be"
	"github.com/strager/jmm/ast"
	"github.com/strager/jmm/diag"
	"github.com/strager/jmm/position"
	"github.com/strager/jmm/scope"
)

func analyze(t *testing.T, src string) (*ast.Node, *scope.Table, error) {
	t.Helper()
	root, err := ast.Parse(src)
	be.Err(t, err, nil)
	table, err := Analyze(root)
	return root, table, err
}

// program wraps declarations and an entry point whose body is mainBody.
func program(decls string, mainBody string) string {
	return `(globaldeclarations ` + decls + `
  (entrypointdeclaration void (id "main") (formalparameterlist) (block ` + mainBody + `)))`
}

func wantError(t *testing.T, err error, kind diag.Kind, token string) *diag.Error {
	t.Helper()
	be.True(t, err != nil)
	got, ok := diag.KindOf(err)
	be.True(t, ok)
	be.Equal(t, got, kind)
	de := err.(*diag.Error)
	be.Equal(t, de.Token, token)
	return de
}

func TestNoMain(t *testing.T) {
	_, _, err := analyze(t, `(globaldeclarations (variabledeclaration int (id "x")))`)
	de := wantError(t, err, diag.NoMain, "")
	be.Equal(t, de.Loc.IsValid(), false)
	be.Equal(t, err.Error(), "NoMain: Program has no main function")
}

func TestNoMainReportedBeforeBodyErrors(t *testing.T) {
	_, _, err := analyze(t, `(globaldeclarations
  (functiondeclaration void (id "f") (formalparameterlist) (block (statementexpression (id "nope")))))`)
	wantError(t, err, diag.NoMain, "")
}

func TestDuplicateMain(t *testing.T) {
	_, _, err := analyze(t, `(globaldeclarations
  (entrypointdeclaration void (id "main") (formalparameterlist) (block))
  (entrypointdeclaration void (id "start") (formalparameterlist) (block)))`)
	de := wantError(t, err, diag.DuplicateMain, "start")
	be.Equal(t, de.Loc, position.New(3, 3))
}

func TestDuplicateFunction(t *testing.T) {
	_, _, err := analyze(t, `(globaldeclarations
  (entrypointdeclaration void (id "main") (formalparameterlist) (block))
  (functiondeclaration void (id "main") (formalparameterlist) (block)))`)
	wantError(t, err, diag.DuplicateFunction, "main")

	_, _, err = analyze(t, program(`
  (variabledeclaration int (id "f"))
  (functiondeclaration void (id "f") (formalparameterlist) (block))`, ``))
	wantError(t, err, diag.DuplicateFunction, "f")
}

func TestDuplicateVariable(t *testing.T) {
	_, _, err := analyze(t, program(`
  (variabledeclaration int (id "x"))
  (variabledeclaration boolean (id "x"))`, ``))
	wantError(t, err, diag.DuplicateVariable, "x")

	_, _, err = analyze(t, program(`
  (functiondeclaration void (id "f") (formalparameterlist (formalparameter int (id "a")))
    (block (variabledeclaration int (id "a"))))`, ``))
	wantError(t, err, diag.DuplicateVariable, "a")
}

func TestLocalMayShadowGlobal(t *testing.T) {
	root, _, err := analyze(t, program(`(variabledeclaration int (id "x"))`, `
    (variabledeclaration boolean (id "x"))
    (statementexpression (= (id "x") true))`))
	be.Err(t, err, nil)

	assign := root.Child(1).Child(3).Child(1).Child(0)
	be.Equal(t, assign.Sig, "boolean")
	be.Equal(t, assign.Child(0).Scope.Tag(), "L1")
}

func TestUndeclaredVariable(t *testing.T) {
	_, _, err := analyze(t, program(``, `(statementexpression (= (id "y") (num 1)))`))
	wantError(t, err, diag.UndeclaredVariable, "y")
}

func TestTypeMismatchNamesFailingOperand(t *testing.T) {
	_, _, err := analyze(t, program(`
  (variabledeclaration int (id "x"))
  (variabledeclaration boolean (id "b"))`, `
    (statementexpression (= (id "x") (+ (id "x") (id "b"))))`))
	de := wantError(t, err, diag.TypeMismatch, "b")
	be.Equal(t, de.Msg, "Type int was expected")
}

func TestTypeMismatchOperators(t *testing.T) {
	decls := `(variabledeclaration int (id "i")) (variabledeclaration boolean (id "b"))`
	tests := []struct {
		expr  string
		token string
	}{
		{`(= (id "i") (id "b"))`, "b"},
		{`(== (id "i") (id "b"))`, "b"},
		{`(!= (id "b") (num 1))`, "1"},
		{`(- (id "b") (id "i"))`, "b"},
		{`(< (id "i") (id "b"))`, "b"},
		{`(&& (id "i") (id "b"))`, "i"},
		{`(|| (id "b") (num 0))`, "0"},
		{`(neg (id "b"))`, "b"},
		{`(! (+ (id "i") (num 1)))`, "i + 1"},
		{`(== (functioninvocation (id "halt") (argumentlist)) (functioninvocation (id "halt") (argumentlist)))`, "halt()"},
	}
	for _, tt := range tests {
		_, _, err := analyze(t, program(decls, `(statementexpression `+tt.expr+`)`))
		wantError(t, err, diag.TypeMismatch, tt.token)
	}
}

func TestEqualityNeedsValueOperands(t *testing.T) {
	_, _, err := analyze(t, program(``,
		`(statementexpression (== (string "a") (string "a")))`))
	de := wantError(t, err, diag.TypeMismatch, `"a"`)
	be.Equal(t, de.Msg, "Type int or boolean was expected")

	_, _, err = analyze(t, program(``,
		`(statementexpression (!= (functioninvocation (id "halt") (argumentlist)) (num 1)))`))
	de = wantError(t, err, diag.TypeMismatch, "halt()")
	be.Equal(t, de.Msg, "Type int or boolean was expected")
}

func TestConditionMustBeBoolean(t *testing.T) {
	for _, stmt := range []string{
		`(if (num 1) nullstatement)`,
		`(ifelse (num 1) nullstatement nullstatement)`,
		`(while (num 1) nullstatement)`,
	} {
		_, _, err := analyze(t, program(``, stmt))
		de := wantError(t, err, diag.TypeMismatch, "1")
		be.Equal(t, de.Msg, "Type boolean was expected")
	}
}

func TestBreakNotInLoop(t *testing.T) {
	_, _, err := analyze(t, program(``, `break`))
	wantError(t, err, diag.BreakNotInLoop, "break")

	_, _, err = analyze(t, program(``, `(if true (block break))`))
	wantError(t, err, diag.BreakNotInLoop, "break")
}

func TestBreakInLoopAnnotatesLoopScope(t *testing.T) {
	root, _, err := analyze(t, program(``, `(while true (block (if true break)))`))
	be.Err(t, err, nil)

	body := root.Child(0).Child(3).Child(0).Child(1)
	brk := body.Child(0).Child(1)
	be.Equal(t, brk.Kind, ast.NodeBreak)
	be.Equal(t, brk.Scope, body.Scope)
	be.Equal(t, brk.Scope.Variant(), scope.Loop)
}

func TestBreakWithOperand(t *testing.T) {
	_, _, err := analyze(t, program(``, `(while true (break (num 1)))`))
	wantError(t, err, diag.ArgumentMismatch, "break")
}

func TestVariableDeclarationInInnerBlock(t *testing.T) {
	_, _, err := analyze(t, program(``, `(if true (block (variabledeclaration int (id "y"))))`))
	wantError(t, err, diag.VariableDeclarationInInnerBlock, "int y")

	_, _, err = analyze(t, program(``, `(block (variabledeclaration int (id "y")))`))
	wantError(t, err, diag.VariableDeclarationInInnerBlock, "int y")

	_, _, err = analyze(t, program(``, `(variabledeclaration int (id "y"))`))
	be.Err(t, err, nil)
}

func TestCallMain(t *testing.T) {
	_, _, err := analyze(t, program(``, `(functioninvocation (id "main") (argumentlist))`))
	wantError(t, err, diag.CallMain, "main")

	_, _, err = analyze(t, program(``, `(functioninvocation (id "nope") (argumentlist))`))
	wantError(t, err, diag.UndeclaredFunction, "nope")
}

func TestCallArguments(t *testing.T) {
	decls := `(functiondeclaration void (id "f") (formalparameterlist
    (formalparameter int (id "a")) (formalparameter boolean (id "b"))) (block))`

	_, _, err := analyze(t, program(decls, `(functioninvocation (id "f") (argumentlist (num 1)))`))
	wantError(t, err, diag.ArgumentMismatch, "f(1)")

	_, _, err = analyze(t, program(decls, `(functioninvocation (id "f") (argumentlist (num 1) (num 2)))`))
	de := wantError(t, err, diag.TypeMismatch, "2")
	be.Equal(t, de.Msg, "Type boolean was expected")

	_, _, err = analyze(t, program(``, `(functioninvocation (id "prints") (argumentlist (num 2)))`))
	wantError(t, err, diag.TypeMismatch, "2")

	_, _, err = analyze(t, program(``, `(functioninvocation (id "printi") (argumentlist (string "2")))`))
	wantError(t, err, diag.TypeMismatch, `"2"`)
}

func TestCallAnnotations(t *testing.T) {
	root, table, err := analyze(t, program(`
  (functiondeclaration int (id "f") (formalparameterlist (formalparameter int (id "a")) (formalparameter boolean (id "b")))
    (block (return (id "a"))))`, `
    (functioninvocation (id "printi") (argumentlist (functioninvocation (id "f") (argumentlist (num 1) true))))`))
	be.Err(t, err, nil)

	fn := root.Child(0)
	be.Equal(t, fn.Child(1).Sig, "int f(int, boolean)")
	be.Equal(t, fn.Child(1).Scope, table.Globals)
	be.Equal(t, fn.Child(3).Scope.Variant(), scope.Function)
	be.Equal(t, fn.Child(3).Scope.Vars(), []string{"a", "b"})

	entry := root.Child(1)
	be.Equal(t, entry.Child(1).Sig, "main()")

	printi := entry.Child(3).Child(0)
	be.Equal(t, printi.Child(0).Sig, "void f(int)")
	be.Equal(t, printi.Child(0).Scope, table.Builtins)
	be.Equal(t, printi.Sig, "void")

	inner := printi.Child(1).Child(0)
	be.Equal(t, inner.Child(0).Scope, table.Globals)
	be.Equal(t, inner.Sig, "int")
}

func TestUserFunctionOverridesBuiltin(t *testing.T) {
	root, table, err := analyze(t, program(`
  (functiondeclaration int (id "getchar") (formalparameterlist) (block (return (num 7))))`, `
    (statementexpression (functioninvocation (id "getchar") (argumentlist)))`))
	be.Err(t, err, nil)
	call := root.Child(1).Child(3).Child(0).Child(0)
	be.Equal(t, call.Child(0).Scope, table.Globals)
}

func TestReturnChecks(t *testing.T) {
	_, _, err := analyze(t, program(``, `(return (num 1))`))
	wantError(t, err, diag.ArgumentMismatch, "return")

	_, _, err = analyze(t, program(`
  (functiondeclaration int (id "f") (formalparameterlist) (block return))`, ``))
	de := wantError(t, err, diag.ArgumentMismatch, "return")
	be.Equal(t, de.Msg, "1 argument of type int expected")

	_, _, err = analyze(t, program(`
  (functiondeclaration int (id "f") (formalparameterlist) (block (return true)))`, ``))
	de = wantError(t, err, diag.TypeMismatch, "true")
	be.Equal(t, de.Msg, "Type int was expected")
}

func TestFunctionDoesNotReturn(t *testing.T) {
	_, _, err := analyze(t, program(`
  (functiondeclaration int (id "f") (formalparameterlist)
    (block (if true (block (return (num 1))))))`, ``))
	de := wantError(t, err, diag.FunctionDoesNotReturn, "f")
	be.Equal(t, de.Msg, "int functions must return a value")

	_, _, err = analyze(t, program(`
  (functiondeclaration int (id "f") (formalparameterlist)
    (block (ifelse true (block (return (num 1))) (block (return (num 2))))))`, ``))
	be.Err(t, err, nil)
}

func TestWhileNeverCountsAsReturning(t *testing.T) {
	_, _, err := analyze(t, program(`
  (functiondeclaration boolean (id "f") (formalparameterlist)
    (block (while true (return true))))`, ``))
	wantError(t, err, diag.FunctionDoesNotReturn, "f")
}

func TestHaltCountsAsReturning(t *testing.T) {
	_, _, err := analyze(t, program(`
  (functiondeclaration int (id "f") (formalparameterlist)
    (block (functioninvocation (id "halt") (argumentlist))))`, ``))
	be.Err(t, err, nil)

	_, _, err = analyze(t, program(`
  (functiondeclaration void (id "halt") (formalparameterlist) (block))
  (functiondeclaration int (id "f") (formalparameterlist)
    (block (functioninvocation (id "halt") (argumentlist))))`, ``))
	wantError(t, err, diag.FunctionDoesNotReturn, "f")
}

func TestExitOf(t *testing.T) {
	c := NewContext()
	tests := []struct {
		stmt string
		want Exit
	}{
		{`(return (num 1))`, AlwaysReturns},
		{`break`, AlwaysBreaks},
		{`(ifelse true break break)`, AlwaysBreaks},
		{`(ifelse true break (return (num 1)))`, DoesNotAlwaysReturn},
		{`(if true (return (num 1)))`, DoesNotAlwaysReturn},
		{`(block nullstatement break (return (num 1)))`, AlwaysBreaks},
		{`(block (block (return (num 1))))`, AlwaysReturns},
		{`(while true (return (num 1)))`, DoesNotAlwaysReturn},
		{`(functioninvocation (id "halt") (argumentlist))`, AlwaysReturns},
		{`(statementexpression (functioninvocation (id "halt") (argumentlist)))`, DoesNotAlwaysReturn},
		{`(functioninvocation (id "printi") (argumentlist (num 1)))`, DoesNotAlwaysReturn},
	}
	for _, tt := range tests {
		n, err := ast.Parse(tt.stmt)
		be.Err(t, err, nil)
		be.Equal(t, ExitOf(c, n), tt.want)
	}
}

func TestLocalScopesGetDistinctTags(t *testing.T) {
	root, _, err := analyze(t, program(`
  (functiondeclaration void (id "f") (formalparameterlist) (block
    (variabledeclaration int (id "x"))
    (statementexpression (= (id "x") (num 1)))))`, `
    (variabledeclaration int (id "x"))
    (statementexpression (= (id "x") (num 2)))`))
	be.Err(t, err, nil)

	fx := root.Child(0).Child(3).Child(1).Child(0).Child(0)
	mx := root.Child(1).Child(3).Child(1).Child(0).Child(0)
	be.True(t, fx.Scope != mx.Scope)
	be.True(t, fx.Scope.StorageName("x") != mx.Scope.StorageName("x"))
}

func TestMalformedTreePanics(t *testing.T) {
	root, err := ast.Parse(`(globaldeclarations (if true nullstatement))`)
	be.Err(t, err, nil)

	func() {
		defer func() {
			_, ok := recover().(*ast.ShapeError)
			be.True(t, ok)
		}()
		Analyze(root)
	}()
}

func TestCheckStatementWithExplicitContext(t *testing.T) {
	c := NewContext()
	c.Stack.Push(scope.NewFunction("F", position.Location{}, 0))
	c.Stack.Push(scope.NewLoop("W", position.Location{}))

	n, err := ast.Parse(`break`)
	be.Err(t, err, nil)
	be.Err(t, CheckStatement(c, n), nil)
	be.Equal(t, n.Scope.Tag(), "W")
}
