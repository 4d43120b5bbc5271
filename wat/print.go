package wat

import (
	"fmt"
	"strings"
)

type printer struct {
	sb    strings.Builder
	depth int
}

func (p *printer) line(s string) {
	p.sb.WriteString(strings.Repeat("\t", p.depth))
	p.sb.WriteString(s)
	p.sb.WriteString("\n")
}

func (p *printer) open(head string) {
	p.line("(" + head)
	p.depth++
}

func (p *printer) close() {
	p.depth--
	p.line(")")
}

func (p *printer) body(instrs []Instr) {
	for _, in := range instrs {
		in.print(p)
	}
}

func (o Op) print(p *printer)      { p.line(string(o)) }
func (c Comment) print(p *printer) { p.line(";; " + string(c)) }

func (b *Block) print(p *printer) {
	p.open("block " + b.Label)
	p.body(b.Body)
	p.close()
}

func (l *Loop) print(p *printer) {
	p.open("loop " + l.Label)
	p.body(l.Body)
	p.close()
}

func (i *If) print(p *printer) {
	p.open("if")
	p.open("then")
	p.body(i.Then)
	p.close()
	if len(i.Else) > 0 {
		p.open("else")
		p.body(i.Else)
		p.close()
	}
	p.close()
}

func (im Import) print(p *printer) {
	sig := "func " + im.Name
	for i := 0; i < im.Params; i++ {
		sig += " (param i32)"
	}
	if im.Result {
		sig += " (result i32)"
	}
	p.line(fmt.Sprintf("(import %q %q (%s))", im.Module, im.Field, sig))
}

func (f *Func) print(p *printer) {
	head := "func " + f.Name
	for _, param := range f.Params {
		head += " (param " + param + " i32)"
	}
	if f.Result {
		head += " (result i32)"
	}
	p.open(head)
	for _, local := range f.Locals {
		p.line("(local " + local + " i32)")
	}
	p.body(f.Body)
	p.close()
}

// String renders an instruction list at depth zero.
func String(instrs []Instr) string {
	var p printer
	p.body(instrs)
	return p.sb.String()
}

// String renders the module. Sections appear in a fixed order: imports,
// functions, globals, start, memory, data.
func (m *Module) String() string {
	var p printer
	p.open("module")
	for _, im := range m.Imports {
		im.print(&p)
	}
	for i := range m.Funcs {
		m.Funcs[i].print(&p)
	}
	for _, g := range m.Globals {
		p.line("(global " + g.Name + " (mut i32) (i32.const 0))")
	}
	if m.Start != "" {
		p.line("(start " + m.Start + ")")
	}
	p.line(fmt.Sprintf("(memory %d)", m.Memory))
	for _, d := range m.Data {
		p.line(fmt.Sprintf("(data (i32.const %d) \"%s\")", d.Offset, d.Text))
	}
	p.close()
	return p.sb.String()
}
