package main

import (
	"fmt"

	"github.com/samber/do"

	"github.com/strager/jmm/config"
)

// newInjector wires the services a command needs. Nothing is constructed
// until a command asks for it, so "help" and "version" never touch the
// configuration file.
func newInjector(configPath string, console *Console) *do.Injector {
	i := do.New()

	do.ProvideValue(i, console)

	do.Provide(i, func(i *do.Injector) (*config.Config, error) {
		cfg, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		if err := cfg.CheckVersion(); err != nil {
			return nil, fmt.Errorf("%s: %w", configPath, err)
		}
		console.Logf("Using configuration %s", configPath)
		return cfg, nil
	})

	do.Provide(i, func(i *do.Injector) (*Pipeline, error) {
		cfg, err := do.Invoke[*config.Config](i)
		if err != nil {
			return nil, err
		}
		return NewPipeline(cfg, do.MustInvoke[*Console](i)), nil
	})

	do.Provide(i, func(i *do.Injector) (*Toolchain, error) {
		cfg, err := do.Invoke[*config.Config](i)
		if err != nil {
			return nil, err
		}
		return NewToolchain(cfg.Toolchain, do.MustInvoke[*Console](i)), nil
	})

	return i
}
