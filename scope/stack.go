package scope

import (
	"github.com/strager/jmm/diag"
	"github.com/strager/jmm/position"
	"github.com/strager/jmm/types"
)

// Stack is the list of currently active scopes. Lookups run innermost first.
type Stack struct {
	scopes []*Scope // outermost first
}

// NewStack returns a stack holding the given scopes, outermost first.
func NewStack(scopes ...*Scope) *Stack {
	return &Stack{scopes: append([]*Scope(nil), scopes...)}
}

func (st *Stack) Push(s *Scope) {
	st.scopes = append(st.scopes, s)
}

// Pop removes and returns the innermost scope.
func (st *Stack) Pop() *Scope {
	if len(st.scopes) == 0 {
		panic("scope: pop of empty stack")
	}
	top := st.scopes[len(st.scopes)-1]
	st.scopes = st.scopes[:len(st.scopes)-1]
	return top
}

// Top returns the innermost scope, or nil.
func (st *Stack) Top() *Scope {
	if len(st.scopes) == 0 {
		return nil
	}
	return st.scopes[len(st.scopes)-1]
}

func (st *Stack) Len() int { return len(st.scopes) }

// Nearest returns the innermost scope of the given variant, or nil.
func (st *Stack) Nearest(v Variant) *Scope {
	for i := len(st.scopes) - 1; i >= 0; i-- {
		if st.scopes[i].variant == v {
			return st.scopes[i]
		}
	}
	return nil
}

// Lookup finds the innermost scope binding name as a variable.
func (st *Stack) Lookup(name string, loc position.Location) (*Scope, types.Type, error) {
	for i := len(st.scopes) - 1; i >= 0; i-- {
		if t, ok := st.scopes[i].vars[name]; ok {
			return st.scopes[i], t, nil
		}
	}
	return nil, types.Invalid, diag.New(diag.UndeclaredVariable, name, loc, "Variables must be declared before use")
}

// Table is the pair of program-wide scopes that functions resolve against.
type Table struct {
	Builtins *Scope
	Globals  *Scope
}

// NewTable returns a table with the fixed builtins and an empty global scope.
func NewTable() *Table {
	return &Table{Builtins: Builtins(), Globals: NewGlobal()}
}

// ResolveCall finds the function a call refers to. User functions take
// precedence over builtins. The entry point is declared but not callable.
func (t *Table) ResolveCall(name string, loc position.Location) (*Scope, Signature, error) {
	if sig, ok := t.Globals.Func(name); ok {
		return t.Globals, sig, nil
	}
	if sig, ok := t.Builtins.Func(name); ok {
		return t.Builtins, sig, nil
	}
	if name == t.Globals.EntryPoint() {
		return nil, Signature{}, diag.New(diag.CallMain, name, loc, "Cannot call the main function")
	}
	return nil, Signature{}, diag.New(diag.UndeclaredFunction, name, loc, "Functions must be declared before use")
}
