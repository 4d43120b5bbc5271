package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/samber/do"

	"github.com/strager/jmm/ast"
	"github.com/strager/jmm/config"
)

func showUsage(console *Console) {
	fmt.Fprintf(console.Err, `jmm - semantic checker and WebAssembly text generator for J-- syntax trees

Usage:
    jmm <command> [arguments]

Commands:
    build <file>    Check a .ast file and write its .wat module
    check <file>    Check a .ast file without generating code
    dump <file>     Print the annotated tree (and scopes with -scopes)
    run <file>      Build, assemble, and execute a .ast file
    eval <tree>     Compile an inline tree and print its module
    watch <file>    Rebuild a .ast file every time it changes
    init            Write a default jmm.toml
    version         Print the compiler version
    help            Show this help message

Examples:
    jmm build -o program.wat program.ast
    jmm check -v program.ast
    jmm dump -scopes program.ast
    jmm eval '(globaldeclarations (entrypointdeclaration void (id "main") (formalparameterlist) (block)))'

Use "jmm <command> -h" for more information about a command.
`)
}

// newFlagSet returns a flag set that reports to the console instead of
// exiting the process. Every command accepts -config.
func newFlagSet(name string, usage string, console *Console) (*flag.FlagSet, *string) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(console.Err)
	configPath := fs.String("config", config.FileName, "Path to the project configuration")
	fs.Usage = func() {
		fmt.Fprintf(console.Err, "Usage: jmm %s\n\n", usage)
		fmt.Fprintf(console.Err, "Flags:\n")
		fs.PrintDefaults()
	}
	return fs, configPath
}

// parseArgs parses args and checks that exactly one positional argument
// (named what) is left.
func parseArgs(fs *flag.FlagSet, args []string, what string, console *Console) (string, bool) {
	if err := fs.Parse(args); err != nil {
		return "", false
	}
	if fs.NArg() != 1 {
		console.Errorf("Error: expected exactly one %s argument", what)
		fs.Usage()
		return "", false
	}
	return fs.Arg(0), true
}

func invokePipeline(configPath string, console *Console) (*Pipeline, error) {
	return do.Invoke[*Pipeline](newInjector(configPath, console))
}

func buildCommand(args []string, console *Console) int {
	fs, configPath := newFlagSet("build", "build [-o output] [-debug] [-v] <file>", console)
	output := fs.String("o", "", "Output file path (default: <filename>.wat)")
	debug := fs.Bool("debug", false, "Annotate the module with expression comments")
	fs.BoolVar(&console.Verbose, "v", false, "Show verbose compilation details")
	filename, ok := parseArgs(fs, args, "file", console)
	if !ok {
		return exitFailure
	}

	i := newInjector(*configPath, console)
	p, err := do.Invoke[*Pipeline](i)
	if err != nil {
		return console.Report(err)
	}

	outputFile := *output
	if outputFile == "" {
		outputFile = do.MustInvoke[*config.Config](i).OutputPath(filename)
	}
	console.Logf("Compiling %s to %s...", filename, outputFile)

	size, err := p.Build(filename, outputFile, *debug)
	if err != nil {
		return console.Report(err)
	}
	console.Printf("Generated %s (%d bytes)\n", outputFile, size)
	return exitOK
}

func checkCommand(args []string, console *Console) int {
	fs, configPath := newFlagSet("check", "check [-v] <file>", console)
	fs.BoolVar(&console.Verbose, "v", false, "Show verbose checking details")
	filename, ok := parseArgs(fs, args, "file", console)
	if !ok {
		return exitFailure
	}

	p, err := invokePipeline(*configPath, console)
	if err != nil {
		return console.Report(err)
	}
	console.Logf("Checking %s...", filename)

	root, err := p.Read(filename)
	if err != nil {
		return console.Report(err)
	}
	if _, err := p.Check(root); err != nil {
		return console.Report(err)
	}

	console.Printf("%s: no errors found\n", filename)
	if console.Verbose {
		console.Printf("AST: %s\n", ast.Format(root))
	}
	return exitOK
}

func dumpCommand(args []string, console *Console) int {
	fs, configPath := newFlagSet("dump", "dump [-scopes] <file>", console)
	scopes := fs.Bool("scopes", false, "Also print every scope with its declarations")
	filename, ok := parseArgs(fs, args, "file", console)
	if !ok {
		return exitFailure
	}

	p, err := invokePipeline(*configPath, console)
	if err != nil {
		return console.Report(err)
	}
	root, err := p.Read(filename)
	if err != nil {
		return console.Report(err)
	}
	table, err := p.Check(root)
	if err != nil {
		return console.Report(err)
	}

	console.Printf("%s", ast.Dump(root))
	if *scopes {
		console.Printf("\n%s", formatScopes(collectScopes(root, table)))
	}
	return exitOK
}

func runCommand(args []string, console *Console) int {
	fs, configPath := newFlagSet("run", "run [-debug] [-v] <file>", console)
	debug := fs.Bool("debug", false, "Annotate the module with expression comments")
	fs.BoolVar(&console.Verbose, "v", false, "Show verbose compilation details")
	filename, ok := parseArgs(fs, args, "file", console)
	if !ok {
		return exitFailure
	}

	i := newInjector(*configPath, console)
	p, err := do.Invoke[*Pipeline](i)
	if err != nil {
		return console.Report(err)
	}
	tc := do.MustInvoke[*Toolchain](i)

	tempDir, err := os.MkdirTemp("", "jmm-run-")
	if err != nil {
		return console.Report(fmt.Errorf("error creating temporary directory: %w", err))
	}
	defer os.RemoveAll(tempDir)

	stem := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	watFile := filepath.Join(tempDir, stem+".wat")
	wasmFile := filepath.Join(tempDir, stem+".wasm")

	console.Logf("Compiling %s...", filename)
	if _, err := p.Build(filename, watFile, *debug); err != nil {
		return console.Report(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := tc.Assemble(ctx, watFile, wasmFile); err != nil {
		return console.Report(err)
	}
	if err := tc.Execute(ctx, wasmFile); err != nil {
		return console.Report(err)
	}
	return exitOK
}

func evalCommand(args []string, console *Console) int {
	fs, configPath := newFlagSet("eval", "eval [-debug] [-v] <tree>", console)
	debug := fs.Bool("debug", false, "Annotate the module with expression comments")
	fs.BoolVar(&console.Verbose, "v", false, "Show verbose compilation details")
	tree, ok := parseArgs(fs, args, "tree", console)
	if !ok {
		return exitFailure
	}

	p, err := invokePipeline(*configPath, console)
	if err != nil {
		return console.Report(err)
	}
	console.Logf("Evaluating: %s", tree)

	root, err := p.Parse("<eval>", tree)
	if err != nil {
		return console.Report(err)
	}
	res, err := p.Compile(root, *debug)
	if err != nil {
		return console.Report(err)
	}
	console.Printf("%s", res.WAT())
	return exitOK
}

func watchCommand(args []string, console *Console) int {
	fs, configPath := newFlagSet("watch", "watch [-o output] [-debug] [-v] <file>", console)
	output := fs.String("o", "", "Output file path (default: <filename>.wat)")
	debug := fs.Bool("debug", false, "Annotate the module with expression comments")
	fs.BoolVar(&console.Verbose, "v", false, "Show verbose compilation details")
	filename, ok := parseArgs(fs, args, "file", console)
	if !ok {
		return exitFailure
	}

	i := newInjector(*configPath, console)
	p, err := do.Invoke[*Pipeline](i)
	if err != nil {
		return console.Report(err)
	}
	outputFile := *output
	if outputFile == "" {
		outputFile = do.MustInvoke[*config.Config](i).OutputPath(filename)
	}

	w, err := NewFileWatcher(filename)
	if err != nil {
		return console.Report(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rebuild := func() {
		size, err := p.Build(filename, outputFile, *debug)
		if err != nil {
			console.Report(err)
			return
		}
		console.Printf("Generated %s (%d bytes)\n", outputFile, size)
	}
	rebuild()
	console.Printf("Watching %s for changes (Ctrl-C to stop)\n", filename)
	if err := w.Run(ctx, rebuild); err != nil {
		return console.Report(err)
	}
	return exitOK
}

func initCommand(args []string, console *Console) int {
	fs, configPath := newFlagSet("init", "init [-force]", console)
	force := fs.Bool("force", false, "Overwrite an existing configuration")
	if err := fs.Parse(args); err != nil {
		return exitFailure
	}
	if fs.NArg() != 0 {
		console.Errorf("Error: init takes no arguments")
		fs.Usage()
		return exitFailure
	}

	if _, err := os.Stat(*configPath); err == nil && !*force {
		console.Errorf("%s already exists (use -force to overwrite)", *configPath)
		return exitFailure
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return console.Report(err)
	}

	if err := config.Save(*configPath, config.Default()); err != nil {
		return console.Report(err)
	}
	console.Printf("Wrote %s\n", *configPath)
	return exitOK
}

// run dispatches one command line and returns the process exit status.
func run(args []string, console *Console) int {
	if len(args) < 1 {
		showUsage(console)
		return exitFailure
	}

	command := args[0]
	args = args[1:]

	switch command {
	case "build":
		return buildCommand(args, console)
	case "check":
		return checkCommand(args, console)
	case "dump":
		return dumpCommand(args, console)
	case "run":
		return runCommand(args, console)
	case "eval":
		return evalCommand(args, console)
	case "watch":
		return watchCommand(args, console)
	case "init":
		return initCommand(args, console)
	case "version":
		console.Printf("jmm version %s\n", config.Version)
		return exitOK
	case "help", "-h", "--help":
		showUsage(console)
		return exitOK
	default:
		console.Errorf("Unknown command: %s", command)
		showUsage(console)
		return exitFailure
	}
}

func main() {
	os.Exit(run(os.Args[1:], &Console{Out: os.Stdout, Err: os.Stderr}))
}
