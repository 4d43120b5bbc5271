package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/strager/jmm/ast"
	"github.com/strager/jmm/compiler"
	"github.com/strager/jmm/config"
	"github.com/strager/jmm/scope"
)

// Exit statuses. A user error in the program is 1; a tree that breaks the
// input contract is an internal error.
const (
	exitOK       = 0
	exitFailure  = 1
	exitInternal = 2
)

// Console is where commands write. Progress lines go to Out only when
// Verbose is set; diagnostics always go to Err.
type Console struct {
	Out     io.Writer
	Err     io.Writer
	Verbose bool
}

func (c *Console) Logf(format string, args ...any) {
	if c.Verbose {
		fmt.Fprintf(c.Out, format+"\n", args...)
	}
}

func (c *Console) Printf(format string, args ...any) {
	fmt.Fprintf(c.Out, format, args...)
}

func (c *Console) Errorf(format string, args ...any) {
	fmt.Fprintf(c.Err, format+"\n", args...)
}

// Report prints err as a single diagnostic line and returns the exit
// status it maps to.
func (c *Console) Report(err error) int {
	var shape *ast.ShapeError
	if errors.As(err, &shape) {
		c.Errorf("internal error: %v", shape)
		return exitInternal
	}
	c.Errorf("%v", err)
	return exitFailure
}

// Pipeline reads AST files and runs the compiler over them.
type Pipeline struct {
	cfg     *config.Config
	console *Console
}

func NewPipeline(cfg *config.Config, console *Console) *Pipeline {
	return &Pipeline{cfg: cfg, console: console}
}

// Read loads and parses the tree in filename.
func (p *Pipeline) Read(filename string) (*ast.Node, error) {
	src, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("error reading file %s: %w", filename, err)
	}
	return p.Parse(filename, string(src))
}

// Parse parses src, naming it filename in errors.
func (p *Pipeline) Parse(filename string, src string) (*ast.Node, error) {
	root, err := ast.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return root, nil
}

// Check analyzes the tree without generating code. A malformed tree is
// returned as a *ast.ShapeError.
func (p *Pipeline) Check(root *ast.Node) (table *scope.Table, err error) {
	defer ast.RecoverShape(&err)
	return compiler.Check(root)
}

// Compile analyzes and lowers the tree. debug adds expression comments on
// top of what the configuration asks for.
func (p *Pipeline) Compile(root *ast.Node, debug bool) (res *compiler.Result, err error) {
	defer ast.RecoverShape(&err)
	opts := compiler.Options{Debug: debug || p.cfg.Compiler.Debug}
	p.console.Logf("Compiling (debug=%v)...", opts.Debug)
	res, err = compiler.Compile(root, opts)
	if err != nil {
		return nil, err
	}
	p.console.Logf("Generated %d functions, %d globals, %d string literals",
		len(res.Module.Funcs), len(res.Module.Globals), len(res.Module.Data))
	return res, nil
}

// Build compiles filename and writes the module to output. Nothing is
// written when compilation fails.
func (p *Pipeline) Build(filename string, output string, debug bool) (int, error) {
	root, err := p.Read(filename)
	if err != nil {
		return 0, err
	}
	res, err := p.Compile(root, debug)
	if err != nil {
		return 0, err
	}
	text := res.WAT()
	if dir := filepath.Dir(output); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return 0, fmt.Errorf("error creating output directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(output, []byte(text), 0644); err != nil {
		return 0, fmt.Errorf("error writing WAT file %s: %w", output, err)
	}
	return len(text), nil
}

// collectScopes lists every scope reachable from the annotated tree:
// builtins, globals, then local scopes in the order they were entered.
func collectScopes(root *ast.Node, table *scope.Table) []*scope.Scope {
	scopes := []*scope.Scope{table.Builtins, table.Globals}
	seen := map[*scope.Scope]bool{table.Builtins: true, table.Globals: true}
	ast.Walk(root, func(n *ast.Node) {
		if n.Scope != nil && !seen[n.Scope] {
			seen[n.Scope] = true
			scopes = append(scopes, n.Scope)
		}
	})
	return scopes
}

// formatScopes renders scopes one after another, separated by blank lines.
func formatScopes(scopes []*scope.Scope) string {
	parts := make([]string, len(scopes))
	for i, s := range scopes {
		parts[i] = s.String()
	}
	return strings.Join(parts, "\n")
}
