package types

import (
	"testing"

	"github.com/nalgeon/be"
)

func TestTypeNames(t *testing.T) {
	be.Equal(t, Int.String(), "int")
	be.Equal(t, Boolean.String(), "boolean")
	be.Equal(t, Void.String(), "void")
	be.Equal(t, String.String(), "string")
	be.Equal(t, Invalid.String(), "invalid")
}

func TestHasValue(t *testing.T) {
	be.True(t, Int.HasValue())
	be.True(t, Boolean.HasValue())
	be.True(t, !Void.HasValue())
	be.True(t, !String.HasValue())
}

func TestEqualAndList(t *testing.T) {
	be.True(t, Equal(nil, []Type{}))
	be.True(t, Equal([]Type{Int, Boolean}, []Type{Int, Boolean}))
	be.True(t, !Equal([]Type{Int}, []Type{Boolean}))
	be.True(t, !Equal([]Type{Int}, []Type{Int, Int}))
	be.Equal(t, List([]Type{Int, Boolean}), "int, boolean")
	be.Equal(t, List(nil), "")
}
