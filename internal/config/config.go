package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/sericom/sericom/internal/ascii"
)

// Appearance is the [appearance] table of config.toml.
type Appearance struct {
	Fg string `toml:"fg"`
	Bg string `toml:"bg"`
}

// Defaults is the [defaults] table of config.toml.
type Defaults struct {
	OutDir     string `toml:"out-dir"`
	ExitScript string `toml:"exit-script"`
}

// document is the raw TOML shape; Config is the validated, resolved
// form consumed by the rest of the program.
type document struct {
	Appearance Appearance `toml:"appearance"`
	Defaults   Defaults   `toml:"defaults"`
}

// Config is the read-only configuration consumed by the session
// orchestrator: resolved colors and a validated output directory / exit
// script.
type Config struct {
	Fg         ascii.Color
	Bg         ascii.Color
	OutDir     string
	ExitScript string // empty if none configured
}

// Default returns the configuration used when no config file is present:
// fg=green, bg=default, out-dir the current directory, no exit script.
func Default() Config {
	return Config{
		Fg:     namedColors["green"],
		Bg:     namedColors["default"],
		OutDir: ".",
	}
}

// Load reads and validates a config.toml document from path. Unset
// fields fall back to Default()'s values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("reading config %q: %w", path, err)
	}
	return Parse(data)
}

// Parse validates a config.toml document already read into memory.
func Parse(data []byte) (Config, error) {
	var doc document
	if err := toml.Unmarshal(data, &doc); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}

	cfg := Default()

	if doc.Appearance.Fg != "" {
		c, err := ParseColor(doc.Appearance.Fg)
		if err != nil {
			return Config{}, fmt.Errorf("appearance.fg: %w", err)
		}
		cfg.Fg = c
	}
	if doc.Appearance.Bg != "" {
		c, err := ParseColor(doc.Appearance.Bg)
		if err != nil {
			return Config{}, fmt.Errorf("appearance.bg: %w", err)
		}
		cfg.Bg = c
	}

	outDir := doc.Defaults.OutDir
	if outDir == "" {
		outDir = cfg.OutDir
	}
	outDir = ExpandPath(outDir)
	info, err := os.Stat(outDir)
	if err != nil || !info.IsDir() {
		return Config{}, fmt.Errorf("defaults.out-dir %q: does not exist or is not a directory", outDir)
	}
	cfg.OutDir = outDir

	if doc.Defaults.ExitScript != "" {
		script := ExpandPath(doc.Defaults.ExitScript)
		info, err := os.Stat(script)
		if err != nil || info.IsDir() {
			return Config{}, fmt.Errorf("defaults.exit-script %q: does not exist or is not a file", script)
		}
		if !isExecutable(info) {
			return Config{}, fmt.Errorf("defaults.exit-script %q: is not executable", script)
		}
		cfg.ExitScript = script
	}

	return cfg, nil
}

// ApplyColorOverride replaces the foreground color, used for the CLI's
// `-c <color>` flag.
func (c *Config) ApplyColorOverride(name string) error {
	color, err := ParseColor(name)
	if err != nil {
		return err
	}
	c.Fg = color
	return nil
}

// ApplyOutDirOverride replaces the output directory, used for the CLI's
// `-o <dir>` flag.
func (c *Config) ApplyOutDirOverride(dir string) error {
	expanded := ExpandPath(dir)
	info, err := os.Stat(expanded)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("out-dir %q: does not exist or is not a directory", expanded)
	}
	c.OutDir = expanded
	return nil
}
