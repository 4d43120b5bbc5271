package sexy

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// A suite is a Markdown file. Each "Test: <name>" heading opens a test case,
// which owns the fenced code blocks up to the next test heading: exactly one
// input fence and at least one assertion fence.

// InputType is the language tag of an input fence.
type InputType string

// InputTypeAST marks a whole program tree in the AST input format.
const InputTypeAST InputType = "jmm-ast"

// AssertionType is the language tag of an assertion fence.
type AssertionType string

const (
	AssertionTypeCompileError AssertionType = "compile-error"
	AssertionTypeWat          AssertionType = "wat"
	AssertionTypeWatDebug     AssertionType = "wat-debug"
	AssertionTypeAnnotated    AssertionType = "annotated"

	// Expected standard output of the assembled module.
	AssertionTypeExecute AssertionType = "execute"
)

type Assertion struct {
	Type    AssertionType
	Content string

	// Set for annotated assertions, whose content is itself a datum.
	ParsedSexy *Node
}

type TestCase struct {
	Name       string
	Input      string
	InputType  InputType
	Line       int // of the heading
	Assertions []Assertion
}

const testHeadingPrefix = "Test: "

type fenceKind int

const (
	fenceUnknown fenceKind = iota
	fenceInput
	fenceAssertion
)

func classifyFence(language string) fenceKind {
	switch language {
	case string(InputTypeAST):
		return fenceInput
	case string(AssertionTypeCompileError), string(AssertionTypeWat),
		string(AssertionTypeWatDebug), string(AssertionTypeAnnotated), string(AssertionTypeExecute):
		return fenceAssertion
	}
	return fenceUnknown
}

// ExtractTestCases reads every test case from a Markdown suite.
func ExtractTestCases(markdownContent string) ([]TestCase, error) {
	c := &collector{source: []byte(markdownContent)}
	doc := goldmark.New().Parser().Parse(text.NewReader(c.source))

	err := ast.Walk(doc, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		var err error
		switch n := node.(type) {
		case *ast.Heading:
			err = c.heading(n)
		case *ast.FencedCodeBlock:
			err = c.fence(n)
		}
		if err != nil {
			return ast.WalkStop, err
		}
		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, fmt.Errorf("error walking markdown AST: %w", err)
	}
	if err := c.flush(); err != nil {
		return nil, err
	}
	return c.done, nil
}

type collector struct {
	source  []byte
	current *TestCase
	done    []TestCase
}

func (c *collector) heading(h *ast.Heading) error {
	title := plainText(h, c.source)
	name, ok := strings.CutPrefix(title, testHeadingPrefix)
	if !ok {
		return nil
	}
	if err := c.flush(); err != nil {
		return err
	}
	c.current = &TestCase{
		Name:       name,
		Line:       lineOf(h, c.source),
		Assertions: []Assertion{},
	}
	return nil
}

func (c *collector) fence(block *ast.FencedCodeBlock) error {
	language := string(block.Language(c.source))
	line := lineOf(block, c.source)
	kind := classifyFence(language)

	tc := c.current
	if tc == nil {
		switch {
		case language == "":
			return nil
		case kind == fenceUnknown:
			return fmt.Errorf("line %d: unknown fence language '%s' found outside of test case", line, language)
		default:
			return fmt.Errorf("line %d: %s fence found outside of test case", line, language)
		}
	}

	body := strings.TrimRight(fenceBody(block, c.source), "\n")
	switch kind {
	case fenceInput:
		if tc.Input != "" {
			return fmt.Errorf("line %d: multiple input fences found in test '%s'", line, tc.Name)
		}
		tc.Input = body
		tc.InputType = InputType(language)
	case fenceAssertion:
		a := Assertion{Type: AssertionType(language), Content: body}
		if a.Type == AssertionTypeAnnotated {
			parsed, err := Parse(body)
			if err != nil {
				return fmt.Errorf("line %d: failed to parse Sexy assertion in test '%s': %w", line, tc.Name, err)
			}
			a.ParsedSexy = parsed
		}
		tc.Assertions = append(tc.Assertions, a)
	default:
		if language != "" {
			return fmt.Errorf("line %d: unknown fence language '%s' in test '%s'", line, language, tc.Name)
		}
	}
	return nil
}

// flush checks the open test case and moves it to the finished list.
func (c *collector) flush() error {
	tc := c.current
	if tc == nil {
		return nil
	}
	c.current = nil
	switch {
	case tc.Input == "":
		return fmt.Errorf("test '%s' has no input fence", tc.Name)
	case len(tc.Assertions) == 0:
		return fmt.Errorf("test '%s' has no assertion fences", tc.Name)
	}
	c.done = append(c.done, *tc)
	return nil
}

func plainText(node ast.Node, source []byte) string {
	var buf bytes.Buffer
	_ = ast.Walk(node, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if t, ok := n.(*ast.Text); ok && entering {
			buf.Write(t.Segment.Value(source))
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}

func fenceBody(block *ast.FencedCodeBlock, source []byte) string {
	var buf bytes.Buffer
	lines := block.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(source))
	}
	return buf.String()
}

// lineOf returns the 1-based line on which node's first text segment
// starts.
func lineOf(node ast.Node, source []byte) int {
	if node.Lines().Len() == 0 {
		return 1
	}
	start := node.Lines().At(0).Start
	if start > len(source) {
		start = len(source)
	}
	return 1 + bytes.Count(source[:start], []byte("\n"))
}
