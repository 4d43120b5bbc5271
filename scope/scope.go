// Package scope is the lexical symbol table shared by the semantic analyzer
// and the code generator.
//
// A Scope is one lexical region. Scopes of the Default and Global variants
// additionally hold a function table. Every scope carries a unique tag; the
// generated storage name of a symbol is "$" + tag + identifier, so two
// variables with the same name in different scopes never collide.
package scope

import (
	"fmt"
	"strings"

	"github.com/strager/jmm/diag"
	"github.com/strager/jmm/position"
	"github.com/strager/jmm/types"
)

// Variant tags the kind of lexical region a Scope represents.
type Variant int

const (
	Default Variant = iota // builtin functions
	Global                 // user functions and global variables
	Function
	Block
	Loop
)

func (v Variant) String() string {
	switch v {
	case Default:
		return "default"
	case Global:
		return "global"
	case Function:
		return "function"
	case Block:
		return "block"
	case Loop:
		return "loop"
	default:
		return fmt.Sprintf("Variant(%d)", int(v))
	}
}

// Tags of the two program-wide scopes.
const (
	BuiltinTag = "D"
	GlobalTag  = "G"
)

// Signature is a function's parameter types and return type.
type Signature struct {
	Params []types.Type
	Result types.Type
}

func (s Signature) String() string {
	return fmt.Sprintf("%s f(%s)", s.Result, types.List(s.Params))
}

// Scope is one lexical region.
type Scope struct {
	variant Variant
	tag     string
	start   position.Location

	names []string // declaration order
	vars  map[string]types.Type

	// Function variant only.
	result types.Type

	// Default and Global variants only.
	funcNames  []string
	funcs      map[string]Signature
	entryPoint string
}

func newScope(variant Variant, tag string, start position.Location) *Scope {
	s := &Scope{
		variant: variant,
		tag:     tag,
		start:   start,
		vars:    make(map[string]types.Type),
	}
	if s.IsGlobalStorage() {
		s.funcs = make(map[string]Signature)
	}
	return s
}

// NewGlobal creates the program-global scope.
func NewGlobal() *Scope {
	return newScope(Global, GlobalTag, position.Location{})
}

// NewFunction creates the outermost scope of a function body. Parameters and
// the function's top-level variable declarations live here.
func NewFunction(tag string, start position.Location, result types.Type) *Scope {
	s := newScope(Function, tag, start)
	s.result = result
	return s
}

// NewBlock creates a scope for a nested block or an if/else arm.
func NewBlock(tag string, start position.Location) *Scope {
	return newScope(Block, tag, start)
}

// NewLoop creates a scope for a while body.
func NewLoop(tag string, start position.Location) *Scope {
	return newScope(Loop, tag, start)
}

// Builtins creates the fixed default scope holding the six runtime functions.
func Builtins() *Scope {
	s := newScope(Default, BuiltinTag, position.Location{})
	add := func(name string, result types.Type, params ...types.Type) {
		s.funcNames = append(s.funcNames, name)
		s.funcs[name] = Signature{Params: params, Result: result}
	}
	add("getchar", types.Int)
	add("halt", types.Void)
	add("printb", types.Void, types.Boolean)
	add("printc", types.Void, types.Int)
	add("printi", types.Void, types.Int)
	add("prints", types.Void, types.String)
	return s
}

func (s *Scope) Variant() Variant { return s.variant }
func (s *Scope) Tag() string      { return s.tag }

// Start is where the region begins in the source.
func (s *Scope) Start() position.Location { return s.start }

// Result is the declared return type of the enclosing function. It is only
// meaningful for Function scopes.
func (s *Scope) Result() types.Type { return s.result }

// IsGlobalStorage reports whether variables of this scope are module globals
// rather than function locals.
func (s *Scope) IsGlobalStorage() bool {
	return s.variant == Default || s.variant == Global
}

// StorageName is the generated identifier for a symbol declared here.
func (s *Scope) StorageName(name string) string {
	return "$" + s.tag + name
}

// contains reports whether name is bound in this scope as a variable, a
// function, or the entry point.
func (s *Scope) contains(name string) bool {
	if _, ok := s.vars[name]; ok {
		return true
	}
	if _, ok := s.funcs[name]; ok {
		return true
	}
	return s.entryPoint != "" && s.entryPoint == name
}

// Declare binds a variable. Only this scope is checked for duplicates;
// shadowing a name from an enclosing scope is legal.
func (s *Scope) Declare(name string, t types.Type, loc position.Location) error {
	if s.contains(name) {
		return diag.New(diag.DuplicateVariable, name, loc,
			"Variable names must be unique from other functions or variables")
	}
	s.names = append(s.names, name)
	s.vars[name] = t
	return nil
}

// DeclareFunc binds a user function in a global scope.
func (s *Scope) DeclareFunc(name string, sig Signature, loc position.Location) error {
	if !s.IsGlobalStorage() {
		panic("scope: DeclareFunc on a " + s.variant.String() + " scope")
	}
	if s.contains(name) {
		return diag.New(diag.DuplicateFunction, name, loc,
			"Function names must be unique from other functions or variables")
	}
	s.funcNames = append(s.funcNames, name)
	s.funcs[name] = sig
	return nil
}

// SetEntryPoint records the program's single entry point.
func (s *Scope) SetEntryPoint(name string, loc position.Location) error {
	if s.entryPoint != "" {
		return diag.New(diag.DuplicateMain, name, loc, "Program cannot have two main functions")
	}
	s.entryPoint = name
	return nil
}

// EntryPoint returns the entry point's name, or "" if none was declared.
func (s *Scope) EntryPoint() string { return s.entryPoint }

// Var returns the type of a variable bound directly in this scope.
func (s *Scope) Var(name string) (types.Type, bool) {
	t, ok := s.vars[name]
	return t, ok
}

// Vars returns the variable names in declaration order.
func (s *Scope) Vars() []string {
	return append([]string(nil), s.names...)
}

// Func returns the signature of a function bound directly in this scope.
func (s *Scope) Func(name string) (Signature, bool) {
	sig, ok := s.funcs[name]
	return sig, ok
}

// Funcs returns the function names in declaration order.
func (s *Scope) Funcs() []string {
	return append([]string(nil), s.funcNames...)
}

// String lists the scope's contents: the entry point, functions with their
// signatures, then variables in declaration order.
func (s *Scope) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s scope %s", s.variant, s.tag)
	if s.start.IsValid() {
		fmt.Fprintf(&sb, " (starts at %s)", s.start)
	}
	sb.WriteString("\n")
	if s.entryPoint != "" {
		fmt.Fprintf(&sb, "main func:\t%s\n", s.entryPoint)
	}
	for _, name := range s.funcNames {
		sig := s.funcs[name]
		fmt.Fprintf(&sb, "func:\t%s %s(%s)\n", sig.Result, name, types.List(sig.Params))
	}
	for _, name := range s.names {
		fmt.Fprintf(&sb, "var:\t%s %s\n", s.vars[name], name)
	}
	return sb.String()
}
