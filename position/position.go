// Package position describes where a node came from in the source program.
package position

import "fmt"

// Location is a 1-based line and column. The zero Location means "unknown".
type Location struct {
	Line   int
	Column int
}

// New returns the location at the given line and column.
func New(line, column int) Location {
	return Location{Line: line, Column: column}
}

// IsValid reports whether the location points somewhere.
func (l Location) IsValid() bool {
	return l.Line > 0
}

func (l Location) String() string {
	if !l.IsValid() {
		return "unknown location"
	}
	return fmt.Sprintf("line %d, column %d", l.Line, l.Column)
}
