// Package types holds the closed set of value types of the source language.
package types

// Type is one of INT, BOOLEAN, VOID or STRING.
//
// VOID is only a function return type. STRING is only the type of string
// literals, which can only be passed to the builtin prints.
type Type int

const (
	Invalid Type = iota
	Int
	Boolean
	Void
	String
)

func (t Type) String() string {
	switch t {
	case Int:
		return "int"
	case Boolean:
		return "boolean"
	case Void:
		return "void"
	case String:
		return "string"
	default:
		return "invalid"
	}
}

// HasValue reports whether an expression of this type leaves a value on the
// operand stack of the generated code.
func (t Type) HasValue() bool {
	return t == Int || t == Boolean
}

// Equal compares two parameter lists element-wise.
func Equal(a, b []Type) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// List renders a parameter list as "int, boolean".
func List(ts []Type) string {
	s := ""
	for i, t := range ts {
		if i > 0 {
			s += ", "
		}
		s += t.String()
	}
	return s
}
