package main

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/strager/jmm/config"
)

// Toolchain runs the external assembler and runtime configured in
// jmm.toml.
type Toolchain struct {
	assembler []string
	runtime   []string
	console   *Console
}

func NewToolchain(cfg config.ToolchainConfig, console *Console) *Toolchain {
	return &Toolchain{assembler: cfg.Assembler, runtime: cfg.Runtime, console: console}
}

// Assemble turns the text module at watFile into a binary at wasmFile.
func (tc *Toolchain) Assemble(ctx context.Context, watFile string, wasmFile string) error {
	args := append(append([]string(nil), tc.assembler...), watFile, "-o", wasmFile)
	tc.console.Logf("Assembling: %s", strings.Join(args, " "))
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Stdout = tc.console.Err
	cmd.Stderr = tc.console.Err
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to assemble %s: %w", watFile, err)
	}
	return nil
}

// Execute runs wasmFile. Its output goes straight to the console.
func (tc *Toolchain) Execute(ctx context.Context, wasmFile string) error {
	args := append(append([]string(nil), tc.runtime...), wasmFile)
	tc.console.Logf("Executing: %s", strings.Join(args, " "))
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Stdout = tc.console.Out
	cmd.Stderr = tc.console.Err
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("execution failed: %w", err)
	}
	return nil
}
