package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sericom/sericom/internal/ascii"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse([]byte(""))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Fg.Kind != ascii.ColorNamed || cfg.Fg.Named != ascii.NamedGreen {
		t.Fatalf("expected default fg green, got %+v", cfg.Fg)
	}
	if cfg.Bg.Kind != ascii.ColorConfigDefault {
		t.Fatalf("expected default bg, got %+v", cfg.Bg)
	}
}

func TestParseAppearanceAndOutDir(t *testing.T) {
	dir := t.TempDir()
	doc := "[appearance]\nfg = \"dark-grey\"\nbg = \"red\"\n\n[defaults]\nout-dir = \"" + dir + "\"\n"
	cfg, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.Fg.Kind != ascii.ColorNamed || cfg.Fg.Named != ascii.NamedDarkGrey {
		t.Fatalf("fg = %+v", cfg.Fg)
	}
	if cfg.Bg.Kind != ascii.ColorNamed || cfg.Bg.Named != ascii.NamedRed {
		t.Fatalf("bg = %+v", cfg.Bg)
	}
	if cfg.OutDir != filepath.Clean(dir) {
		t.Fatalf("out-dir = %q, want %q", cfg.OutDir, dir)
	}
}

func TestParseRejectsUnknownColor(t *testing.T) {
	_, err := Parse([]byte("[appearance]\nfg = \"chartreuse\"\n"))
	if err == nil {
		t.Fatalf("expected error for unknown color")
	}
}

func TestParseRejectsMissingOutDir(t *testing.T) {
	_, err := Parse([]byte("[defaults]\nout-dir = \"/does/not/exist/at/all\"\n"))
	if err == nil {
		t.Fatalf("expected error for missing out-dir")
	}
}

func TestParseRejectsNonExecutableScript(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "exit.sh")
	if err := os.WriteFile(script, []byte("#!/bin/sh\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	doc := "[defaults]\nout-dir = \"" + dir + "\"\nexit-script = \"" + script + "\"\n"
	_, err := Parse([]byte(doc))
	if err == nil {
		t.Fatalf("expected error for non-executable script")
	}
}

func TestParseAcceptsExecutableScript(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "exit.sh")
	if err := os.WriteFile(script, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	doc := "[defaults]\nout-dir = \"" + dir + "\"\nexit-script = \"" + script + "\"\n"
	cfg, err := Parse([]byte(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.ExitScript != filepath.Clean(script) {
		t.Fatalf("exit-script = %q, want %q", cfg.ExitScript, script)
	}
}

func TestExpandPathHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory available")
	}
	got := ExpandPath("~/logs")
	want := filepath.Join(home, "logs")
	if got != want {
		t.Fatalf("ExpandPath(~/logs) = %q, want %q", got, want)
	}
}

func TestExpandPathDollarHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory available")
	}
	got := ExpandPath("$HOME/logs")
	want := filepath.Join(home, "logs")
	if got != want {
		t.Fatalf("ExpandPath($HOME/logs) = %q, want %q", got, want)
	}
}
