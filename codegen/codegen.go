// Package codegen lowers an analyzed tree into a WAT module.
//
// The input must have passed semantic analysis: every identifier carries its
// owning scope and every expression its type. Nothing is validated here.
package codegen

import (
	"fmt"

	"github.com/strager/jmm/ast"
	"github.com/strager/jmm/scope"
	"github.com/strager/jmm/types"
	"github.com/strager/jmm/wat"
)

// EntryName is the generated name of the program's entry point.
const EntryName = "$main"

// TempLocal is the per-function scratch local used by && and ||.
const TempLocal = "$tmp"

// Options tunes the output.
type Options struct {
	// Debug follows every top-level expression with a comment showing its
	// source form.
	Debug bool
}

// Context is the mutable state of one generation run.
type Context struct {
	Table   *scope.Table
	Strings *StringTable
	Debug   bool

	labels int   // next loop label number
	loops  []int // labels of the enclosing loops, innermost last
}

// NewContext returns a context with an empty string table and the label
// counter at zero.
func NewContext(table *scope.Table, opts Options) *Context {
	return &Context{
		Table:   table,
		Strings: &StringTable{},
		Debug:   opts.Debug,
	}
}

// Generate builds the whole module.
func Generate(root *ast.Node, table *scope.Table, opts Options) *wat.Module {
	c := NewContext(table, opts)
	m := &wat.Module{
		Imports: runtimeImports(c),
		Funcs:   runtimeFuncs(c),
	}

	for _, decl := range root.Children {
		switch decl.Kind {
		case ast.NodeEntryPointDeclaration:
			m.Funcs = append(m.Funcs, *Function(c, decl))
			m.Start = EntryName
		case ast.NodeFunctionDeclaration:
			m.Funcs = append(m.Funcs, *Function(c, decl))
		case ast.NodeVariableDeclaration:
			m.Globals = append(m.Globals, wat.Global{Name: storageName(decl.Child(1))})
		}
	}

	m.Data = c.Strings.Data()
	m.Memory = wat.Pages(c.Strings.Size())
	return m
}

// Function lowers one function declaration. Its locals are the scratch
// local followed by every variable of the function scope that is not a
// parameter. Entry point parameters are plain locals.
func Function(c *Context, decl *ast.Node) *wat.Func {
	body := decl.Child(3)
	fs := body.Scope
	f := &wat.Func{Result: decl.Child(0).Kind != ast.NodeVoid}

	params := decl.Child(2).Children
	if decl.Kind == ast.NodeEntryPointDeclaration {
		f.Name = EntryName
		params = nil
	} else {
		f.Name = storageName(decl.Child(1))
	}
	for _, p := range params {
		f.Params = append(f.Params, fs.StorageName(p.Child(1).Attr))
	}

	f.Locals = []string{TempLocal}
	for _, name := range fs.Vars()[len(params):] {
		f.Locals = append(f.Locals, fs.StorageName(name))
	}

	c.loops = nil
	f.Body = Statement(c, body)
	if f.Result {
		// Control cannot reach here; every path returned or halted.
		f.Body = append(f.Body, wat.Op("unreachable"))
	}
	return f
}

func storageName(id *ast.Node) string {
	return id.Scope.StorageName(id.Attr)
}

// producesValue reports whether an analyzed expression leaves a value on
// the stack.
func producesValue(n *ast.Node) bool {
	return n.Sig == types.Int.String() || n.Sig == types.Boolean.String()
}

func label(prefix string, n int) string {
	return fmt.Sprintf("$%s%d", prefix, n)
}

func concat(lists ...[]wat.Instr) []wat.Instr {
	var out []wat.Instr
	for _, l := range lists {
		out = append(out, l...)
	}
	return out
}
