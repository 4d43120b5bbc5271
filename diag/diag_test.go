package diag

import (
	"fmt"
	"testing"

	"github.com/nalgeon/be"
	"github.com/strager/jmm/position"
)

func TestErrorSingleLine(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		expected string
	}{
		{
			name:     "kind location token message",
			err:      New(TypeMismatch, "b", position.New(4, 9), "Type %s was expected", "int"),
			expected: `TypeMismatch at line 4, column 9 on token "b": Type int was expected`,
		},
		{
			name:     "no location",
			err:      New(NoMain, "", position.Location{}, "Program has no main function"),
			expected: "NoMain: Program has no main function",
		},
		{
			name:     "newlines are flattened",
			err:      New(ArgumentMismatch, "return", position.New(1, 1), "0 arguments\nexpected"),
			expected: `ArgumentMismatch at line 1, column 1 on token "return": 0 arguments expected`,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			be.Equal(t, test.err.Error(), test.expected)
		})
	}
}

func TestKindNamesRoundTrip(t *testing.T) {
	kinds := Kinds()
	be.Equal(t, len(kinds), 12)
	for _, k := range kinds {
		parsed, ok := ParseKind(k.String())
		be.True(t, ok)
		be.Equal(t, parsed, k)
	}
	_, ok := ParseKind("NotAKind")
	be.True(t, !ok)
}

func TestKindOfWrapped(t *testing.T) {
	err := fmt.Errorf("compiling foo.ast: %w", New(CallMain, "main", position.New(2, 3), "Cannot call the main function"))
	kind, ok := KindOf(err)
	be.True(t, ok)
	be.Equal(t, kind, CallMain)

	_, ok = KindOf(fmt.Errorf("plain"))
	be.True(t, !ok)
}
