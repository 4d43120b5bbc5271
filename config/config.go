// Package config loads and saves jmm.toml, the per-project settings file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/pelletier/go-toml/v2"
)

// Version is the version of this compiler. A project's compiler.requires
// constraint is checked against it.
const Version = "0.3.0"

// FileName is the settings file looked up in the working directory.
const FileName = "jmm.toml"

type Config struct {
	Compiler  CompilerConfig  `toml:"compiler"`
	Output    OutputConfig    `toml:"output"`
	Toolchain ToolchainConfig `toml:"toolchain"`
}

type CompilerConfig struct {
	Requires string `toml:"requires"`
	Debug    bool   `toml:"debug"`
}

type OutputConfig struct {
	Dir string `toml:"dir"`
}

// ToolchainConfig names the external commands used by "jmm run". Each is
// an argv prefix; the file to process is appended.
type ToolchainConfig struct {
	Assembler []string `toml:"assembler"`
	Runtime   []string `toml:"runtime"`
}

func Default() *Config {
	return &Config{
		Compiler: CompilerConfig{
			Requires: ">= " + Version,
		},
		Toolchain: ToolchainConfig{
			Assembler: []string{"wat2wasm"},
			Runtime:   []string{"wasm-interp", "--host-print"},
		},
	}
}

// Load reads the settings at path. A missing file yields Default(). Keys
// absent from the file keep their default values.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Save writes cfg to path, replacing any existing file.
func Save(path string, cfg *Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to serialize config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Validate reports settings that can never work.
func (c *Config) Validate() error {
	if c.Compiler.Requires != "" {
		if _, err := semver.NewConstraint(c.Compiler.Requires); err != nil {
			return fmt.Errorf("invalid compiler.requires %q: %w", c.Compiler.Requires, err)
		}
	}
	if len(c.Toolchain.Assembler) == 0 {
		return fmt.Errorf("toolchain.assembler must name a command")
	}
	if len(c.Toolchain.Runtime) == 0 {
		return fmt.Errorf("toolchain.runtime must name a command")
	}
	return nil
}

// CheckVersion fails if this compiler does not satisfy compiler.requires.
func (c *Config) CheckVersion() error {
	return c.checkVersion(Version)
}

func (c *Config) checkVersion(version string) error {
	if c.Compiler.Requires == "" {
		return nil
	}
	constraint, err := semver.NewConstraint(c.Compiler.Requires)
	if err != nil {
		return fmt.Errorf("invalid compiler.requires %q: %w", c.Compiler.Requires, err)
	}
	v, err := semver.NewVersion(version)
	if err != nil {
		return fmt.Errorf("invalid compiler version %q: %w", version, err)
	}
	if !constraint.Check(v) {
		return fmt.Errorf("compiler version %s does not satisfy %q", v, c.Compiler.Requires)
	}
	return nil
}

// OutputPath returns where the module for input should be written: the
// output directory if one is set, otherwise next to input. The extension is
// replaced with .wat.
func (c *Config) OutputPath(input string) string {
	name := strings.TrimSuffix(input, filepath.Ext(input)) + ".wat"
	if c.Output.Dir == "" {
		return name
	}
	return filepath.Join(c.Output.Dir, filepath.Base(name))
}
