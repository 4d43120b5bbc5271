// Package diag defines the closed set of user-facing compile errors.
//
// Every error the semantic analyzer can report is a *Error carrying one of
// the Kind values below. Analysis is fail-fast: the first Error ends the run.
// Structural problems with the input tree are not diag errors; they are
// reported by the ast package as panics.
package diag

import (
	"errors"
	"fmt"
	"strings"

	"github.com/strager/jmm/position"
)

// Kind classifies a user-facing error.
type Kind int

const (
	DuplicateVariable Kind = iota + 1
	DuplicateFunction
	DuplicateMain
	UndeclaredVariable
	UndeclaredFunction
	TypeMismatch
	ArgumentMismatch
	VariableDeclarationInInnerBlock
	BreakNotInLoop
	NoMain
	FunctionDoesNotReturn
	CallMain
)

var kindNames = map[Kind]string{
	DuplicateVariable:               "DuplicateVariable",
	DuplicateFunction:               "DuplicateFunction",
	DuplicateMain:                   "DuplicateMain",
	UndeclaredVariable:              "UndeclaredVariable",
	UndeclaredFunction:              "UndeclaredFunction",
	TypeMismatch:                    "TypeMismatch",
	ArgumentMismatch:                "ArgumentMismatch",
	VariableDeclarationInInnerBlock: "VariableDeclarationInInnerBlock",
	BreakNotInLoop:                  "BreakNotInLoop",
	NoMain:                          "NoMain",
	FunctionDoesNotReturn:           "FunctionDoesNotReturn",
	CallMain:                        "CallMain",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Kinds returns every user-facing kind in declaration order.
func Kinds() []Kind {
	kinds := make([]Kind, 0, len(kindNames))
	for k := DuplicateVariable; k <= CallMain; k++ {
		kinds = append(kinds, k)
	}
	return kinds
}

// ParseKind maps a kind name back to its Kind.
func ParseKind(name string) (Kind, bool) {
	for k, n := range kindNames {
		if n == name {
			return k, true
		}
	}
	return 0, false
}

// Error is a fatal user-facing compile error.
type Error struct {
	Kind  Kind
	Token string // offending token text; may be empty
	Loc   position.Location
	Msg   string
}

// New creates an Error. The message is formatted with fmt.Sprintf.
func New(kind Kind, token string, loc position.Location, format string, args ...any) *Error {
	return &Error{
		Kind:  kind,
		Token: token,
		Loc:   loc,
		Msg:   fmt.Sprintf(format, args...),
	}
}

// Error renders the diagnostic as a single line.
func (e *Error) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Kind.String())
	if e.Loc.IsValid() {
		sb.WriteString(" at ")
		sb.WriteString(e.Loc.String())
	}
	if e.Token != "" {
		fmt.Fprintf(&sb, " on token %q", e.Token)
	}
	if e.Msg != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Msg)
	}
	return strings.ReplaceAll(sb.String(), "\n", " ")
}

// KindOf returns the Kind of err if it is (or wraps) a *Error.
func KindOf(err error) (Kind, bool) {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind, true
	}
	return 0, false
}
