package config

import (
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
)

var windowsVarPattern = regexp.MustCompile(`%([A-Za-z_][A-Za-z0-9_]*)%`)

// ExpandPath substitutes `~`, `$HOME`, and common XDG basedir variables
// on Unix, and `%VAR%`-style variables (USERPROFILE, APPDATA, ...) on
// Windows or on any OS when the path contains '%', then cleans the
// result. It does not require the path to exist.
func ExpandPath(p string) string {
	if p == "" {
		return p
	}

	home, _ := os.UserHomeDir()

	if p == "~" {
		p = home
	} else if strings.HasPrefix(p, "~/") {
		p = filepath.Join(home, p[2:])
	}

	p = os.Expand(p, func(key string) string {
		switch key {
		case "HOME":
			return home
		case "XDG_CONFIG_HOME":
			if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
				return v
			}
			return filepath.Join(home, ".config")
		case "XDG_DATA_HOME":
			if v := os.Getenv("XDG_DATA_HOME"); v != "" {
				return v
			}
			return filepath.Join(home, ".local", "share")
		default:
			return os.Getenv(key)
		}
	})

	if runtime.GOOS == "windows" || strings.Contains(p, "%") {
		p = windowsVarPattern.ReplaceAllStringFunc(p, func(tok string) string {
			name := tok[1 : len(tok)-1]
			if v := os.Getenv(name); v != "" {
				return v
			}
			return tok
		})
	}

	return filepath.Clean(p)
}
