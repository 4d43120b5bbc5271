package ast

import (
	"fmt"

	"github.com/strager/jmm/position"
)

// ShapeError reports a tree that breaks the per-kind child layout. It means
// the front end (or this package's reader) is broken, not the user's
// program, so it travels as a panic value instead of a returned error.
type ShapeError struct {
	Kind NodeKind
	Loc  position.Location
	Msg  string
}

func (e *ShapeError) Error() string {
	s := "malformed AST"
	if e.Loc.IsValid() {
		s += " at " + e.Loc.String()
	}
	if e.Kind != "" {
		s += " in " + string(e.Kind) + " node"
	}
	return s + ": " + e.Msg
}

// Malformed panics with a *ShapeError describing n.
func Malformed(n *Node, format string, args ...any) {
	panic(&ShapeError{Kind: n.Kind, Loc: n.Loc, Msg: fmt.Sprintf(format, args...)})
}

// RecoverShape converts a *ShapeError panic into *err. Any other panic is
// re-raised.
func RecoverShape(err *error) {
	r := recover()
	if r == nil {
		return
	}
	if se, ok := r.(*ShapeError); ok {
		*err = se
		return
	}
	panic(r)
}
