// Package compiler runs the back end: semantic analysis, then code
// generation. The first user error aborts the run before any code is
// generated.
package compiler

import (
	"github.com/strager/jmm/ast"
	"github.com/strager/jmm/codegen"
	"github.com/strager/jmm/scope"
	"github.com/strager/jmm/semantic"
	"github.com/strager/jmm/wat"
)

// Options tunes one compilation.
type Options struct {
	Debug bool // annotate the output with expression comments
}

// Result is a successful compilation.
type Result struct {
	Tree   *ast.Node // annotated input
	Table  *scope.Table
	Module *wat.Module
}

// WAT renders the output module.
func (r *Result) WAT() string {
	return r.Module.String()
}

// Check runs semantic analysis only. The tree is annotated in place.
func Check(root *ast.Node) (*scope.Table, error) {
	return semantic.Analyze(root)
}

// Compile analyzes root and generates its module. User errors are returned
// as *diag.Error; a malformed tree panics with *ast.ShapeError.
func Compile(root *ast.Node, opts Options) (*Result, error) {
	table, err := Check(root)
	if err != nil {
		return nil, err
	}
	m := codegen.Generate(root, table, codegen.Options{Debug: opts.Debug})
	return &Result{Tree: root, Table: table, Module: m}, nil
}

// CompileSource reads a tree in the S-expression input format and compiles
// it.
func CompileSource(src string, opts Options) (*Result, error) {
	root, err := ast.Parse(src)
	if err != nil {
		return nil, err
	}
	return Compile(root, opts)
}
