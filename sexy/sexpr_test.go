package sexy

import (
	"strings"
	"testing"

	"github.com/nalgeon/be"
)

func TestParseSymbol(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"hello", "hello"},
		{"test_var", "test_var"},
		{"functiondeclaration", "functiondeclaration"},
		{"==", "=="},
		{"&&", "&&"},
		{"||", "||"},
		{"<=", "<="},
		{"!", "!"},
		{"-", "-"},
		{"%", "%"},
	}

	for _, test := range tests {
		result, err := Parse(test.input)
		be.Err(t, err, nil)

		be.Equal(t, result.Type, NodeSymbol)
		be.Equal(t, result.Text, test.expected)
		be.Equal(t, result.String(), test.expected)
	}
}

func TestParseString(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		output   string
	}{
		{`"hello"`, "hello", `"hello"`},
		{`""`, "", `""`},
		{`"test\"quote"`, `test"quote`, `"test\"quote"`},
		{`"a\\nb"`, `a\nb`, `"a\\nb"`},
	}

	for _, test := range tests {
		result, err := Parse(test.input)
		be.Err(t, err, nil)

		be.Equal(t, result.Type, NodeString)
		be.Equal(t, result.Text, test.expected)
		be.Equal(t, result.String(), test.output)
	}
}

func TestParseInteger(t *testing.T) {
	for _, input := range []string{"42", "0", "-123", "+7"} {
		result, err := Parse(input)
		be.Err(t, err, nil)
		be.Equal(t, result.Type, NodeInteger)
		be.Equal(t, result.Text, input)
	}
}

func TestParseList(t *testing.T) {
	result, err := Parse(`(+ (id "x") (num 1))`)
	be.Err(t, err, nil)
	be.Equal(t, result.Type, NodeList)
	be.Equal(t, len(result.Items), 3)
	be.Equal(t, result.Items[0].Text, "+")
	be.Equal(t, result.Items[1].Items[1].Text, "x")
	be.Equal(t, result.String(), `(+ (id "x") (num 1))`)
}

func TestParseMap(t *testing.T) {
	result, err := Parse(`{line: 3, col: 7}`)
	be.Err(t, err, nil)
	be.Equal(t, result.Type, NodeMap)
	be.Equal(t, result.Keys, []string{"line", "col"})
	be.Equal(t, result.String(), `{line: 3, col: 7}`)
}

func TestParseMeta(t *testing.T) {
	result, err := Parse(`(id ^{line: 3, col: 7} "x")`)
	be.Err(t, err, nil)
	be.Equal(t, len(result.Items), 2)
	be.Equal(t, result.Meta("line").Text, "3")
	be.Equal(t, result.Meta("col").Text, "7")
	be.True(t, result.Meta("file") == nil)
	be.Equal(t, result.String(), `(^{line: 3, col: 7} id "x")`)
}

func TestParseMetaMerging(t *testing.T) {
	result, err := Parse(`(id ^{line: 1} ^{line: 2, col: 5} "x")`)
	be.Err(t, err, nil)
	be.Equal(t, result.MetaKeys, []string{"line", "col"})
	be.Equal(t, result.Meta("line").Text, "2")
}

func TestParsePositions(t *testing.T) {
	input := "(block\n  (break)\n    (return (num 1)))"
	result, err := Parse(input)
	be.Err(t, err, nil)
	be.Equal(t, result.Line, 1)
	be.Equal(t, result.Column, 1)

	brk := result.Items[1]
	be.Equal(t, brk.Line, 2)
	be.Equal(t, brk.Column, 3)

	ret := result.Items[2]
	be.Equal(t, ret.Line, 3)
	be.Equal(t, ret.Column, 5)
	be.Equal(t, ret.Items[1].Column, 13)
}

func TestParseComments(t *testing.T) {
	result, err := Parse("; leading comment\n(block ; trailing\n break)")
	be.Err(t, err, nil)
	be.Equal(t, result.String(), "(block break)")
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{`"unterminated`, "line 1: unterminated string"},
		{`"bad \q escape"`, `line 1: invalid escape sequence: \q`},
		{`(id #x)`, "line 1: unexpected character '#'"},
		{"(block\n  (break)", "line 2: expected ')', found end of input"},
		{"{line 3}", "expected ':', found '3'"},
		{"{3: 4}", "expected a symbol as map key, found '3'"},
		{"{line: 3 col: 4}", "expected ',' or '}' in map, found 'c'"},
		{"(a) (b)", "expected end of input, found '('"},
		{")", "unexpected ')'"},
		{"(id ^(x))", "expected '{' after '^', found '('"},
		{"", "unexpected end of input"},
		{"  ; only a comment\n", "line 2: unexpected end of input"},
	}
	for _, test := range tests {
		_, err := Parse(test.input)
		be.True(t, err != nil)
		be.True(t, strings.Contains(err.Error(), test.want))
	}
}

func TestParseNegativeSymbolVersusInteger(t *testing.T) {
	result, err := Parse("(- -5 -x)")
	be.Err(t, err, nil)
	be.Equal(t, result.Items[0].Type, NodeSymbol)
	be.Equal(t, result.Items[1].Type, NodeInteger)
	be.Equal(t, result.Items[1].Text, "-5")
	be.Equal(t, result.Items[2].Type, NodeSymbol)
	be.Equal(t, result.Items[2].Text, "-x")
}

func TestNodeTypeHelpers(t *testing.T) {
	be.True(t, NewSymbol("x").IsAtom())
	be.True(t, NewString("x").IsAtom())
	be.True(t, NewInteger("1").IsAtom())
	be.True(t, !NewList(nil).IsAtom())
	be.True(t, !NewMap(nil, nil).IsAtom())
	be.Equal(t, NewList([]*Node{NewSymbol("break")}).String(), "(break)")
}
