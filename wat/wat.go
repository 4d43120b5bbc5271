// Package wat models a WebAssembly text module as a tree and prints it.
//
// Code generators build instruction lists out of Op, Comment, Block, Loop
// and If values; nesting is expressed by the tree, and the printer derives
// indentation from it. All values are i32.
package wat

import "fmt"

// PageSize is the granularity of linear memory.
const PageSize = 65536

// Pages returns the number of memory pages needed to hold n bytes.
func Pages(n int) int {
	return (n + PageSize - 1) / PageSize
}

// Instr is one element of a function body.
type Instr interface {
	print(p *printer)
}

// Op is a single flat instruction such as "i32.add" or "local.get $x".
type Op string

// Opf formats an Op.
func Opf(format string, args ...any) Op {
	return Op(fmt.Sprintf(format, args...))
}

// Comment is a line comment.
type Comment string

// Block is a labeled block; a branch to its label exits it.
type Block struct {
	Label string
	Body  []Instr
}

// Loop is a labeled loop; a branch to its label restarts it.
type Loop struct {
	Label string
	Body  []Instr
}

// If pops a condition and runs Then or Else. Else may be empty.
type If struct {
	Then []Instr
	Else []Instr
}

// Import binds a host function.
type Import struct {
	Module string
	Field  string
	Name   string
	Params int
	Result bool
}

// Func is a function definition. Parameters and locals are named.
type Func struct {
	Name   string
	Params []string
	Result bool
	Locals []string
	Body   []Instr
}

// Global is a mutable, zero-initialized global.
type Global struct {
	Name string
}

// Data places bytes in linear memory. Text is already escaped for a WAT
// string literal.
type Data struct {
	Offset int
	Text   string
}

// Module is a whole output module.
type Module struct {
	Imports []Import
	Funcs   []Func
	Globals []Global
	Start   string
	Memory  int // pages
	Data    []Data
}
