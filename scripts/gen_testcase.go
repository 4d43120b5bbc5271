// gen_testcase turns .ast files into Markdown test cases for testdata/.
//
// Each file is compiled; the expected outcome (the compile error, or the
// lines of the entry function) is recorded as the assertion. Review the
// output before committing it: it captures what the compiler does today,
// not what it should do.
//
//	go run ./scripts prog1.ast prog2.ast >> testdata/new_test.md
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/strager/jmm/ast"
	"github.com/strager/jmm/compiler"
	"github.com/strager/jmm/diag"
)

type TestCase struct {
	Name      string
	Input     string
	Assertion string // fence language
	Expected  string
}

type Generator struct {
	cases []TestCase
}

func (g *Generator) addFile(filename string) error {
	src, err := os.ReadFile(filename)
	if err != nil {
		return err
	}
	input := strings.TrimRight(string(src), "\n")
	tc := TestCase{
		Name:  testName(filename),
		Input: input,
	}

	expected, isError, err := g.outcome(input)
	if err != nil {
		return err
	}
	tc.Expected = expected
	tc.Assertion = "wat"
	if isError {
		tc.Assertion = "compile-error"
	}
	g.cases = append(g.cases, tc)
	return nil
}

// outcome compiles input and describes the result as assertion content.
func (g *Generator) outcome(input string) (expected string, isError bool, err error) {
	defer ast.RecoverShape(&err)
	res, err := compiler.CompileSource(input, compiler.Options{})
	if err != nil {
		var de *diag.Error
		if !errors.As(err, &de) {
			return "", false, err
		}
		if de.Token == "" {
			return de.Kind.String(), true, nil
		}
		return fmt.Sprintf("%s %q", de.Kind, de.Token), true, nil
	}
	return entryLines(res.WAT()), false, nil
}

// entryLines extracts the trimmed body of the entry function, which is
// the part of a module that differs between programs.
func entryLines(module string) string {
	var lines []string
	inside := false
	for _, line := range strings.Split(module, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "(func $main") {
			inside = true
		} else if inside && strings.HasPrefix(line, "\t(") {
			break
		}
		if inside && trimmed != "" && trimmed != ")" {
			lines = append(lines, trimmed)
		}
	}
	return strings.Join(lines, "\n")
}

func testName(filename string) string {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	return strings.ReplaceAll(base, "_", " ")
}

func (g *Generator) markdown() string {
	if len(g.cases) == 0 {
		return "# No test cases found\n"
	}

	sort.Slice(g.cases, func(i, j int) bool {
		return g.cases[i].Name < g.cases[j].Name
	})

	var sb strings.Builder
	for _, tc := range g.cases {
		sb.WriteString(fmt.Sprintf("## Test: %s\n", tc.Name))
		sb.WriteString("```jmm-ast\n")
		sb.WriteString(tc.Input)
		sb.WriteString("\n```\n")
		sb.WriteString(fmt.Sprintf("```%s\n", tc.Assertion))
		sb.WriteString(tc.Expected)
		sb.WriteString("\n```\n\n")
	}
	return sb.String()
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: go run ./scripts <file.ast>...\n")
		os.Exit(1)
	}

	g := &Generator{}
	for _, filename := range os.Args[1:] {
		if err := g.addFile(filename); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %s: %v\n", filename, err)
			os.Exit(1)
		}
	}
	fmt.Print(g.markdown())
}
