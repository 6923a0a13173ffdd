// Package config loads and validates the read-only session configuration:
// the appearance and defaults TOML document described in the external
// interfaces section, mirroring the original sericom-core configs module.
package config

import (
	"fmt"
	"strings"

	"github.com/sericom/sericom/internal/ascii"
)

// validNames lists the 17 named colors accepted in the [appearance]
// table, in the order the original configs module documents them.
var validNames = []string{
	"black", "blue", "cyan", "dark-blue", "dark-cyan", "dark-green",
	"dark-grey", "dark-magenta", "dark-red", "dark-yellow", "default",
	"green", "grey", "magenta", "red", "white", "yellow",
}

var namedColors = map[string]ascii.Color{
	"black":        ascii.NamedColor(ascii.NamedBlack),
	"blue":         ascii.NamedColor(ascii.NamedBlue),
	"cyan":         ascii.NamedColor(ascii.NamedCyan),
	"dark-blue":    ascii.NamedColor(ascii.NamedDarkBlue),
	"dark-cyan":    ascii.NamedColor(ascii.NamedDarkCyan),
	"dark-green":   ascii.NamedColor(ascii.NamedDarkGreen),
	"dark-grey":    ascii.NamedColor(ascii.NamedDarkGrey),
	"dark-magenta": ascii.NamedColor(ascii.NamedDarkMagenta),
	"dark-red":     ascii.NamedColor(ascii.NamedDarkRed),
	"dark-yellow":  ascii.NamedColor(ascii.NamedDarkYellow),
	"default":      ascii.ConfigDefaultColor(),
	"green":        ascii.NamedColor(ascii.NamedGreen),
	"grey":         ascii.NamedColor(ascii.NamedGrey),
	"magenta":      ascii.NamedColor(ascii.NamedMagenta),
	"red":          ascii.NamedColor(ascii.NamedRed),
	"white":        ascii.NamedColor(ascii.NamedWhite),
	"yellow":       ascii.NamedColor(ascii.NamedYellow),
}

// normalizeColorName strips '-', '_' and spaces and lowercases s, the
// same normalization the original configs module applies before matching
// a color name.
func normalizeColorName(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "-", "")
	s = strings.ReplaceAll(s, "_", "")
	s = strings.ReplaceAll(s, " ", "")
	return s
}

// ParseColor resolves a named color from the config file. An unknown
// name returns an error listing the valid names.
func ParseColor(name string) (ascii.Color, error) {
	normalized := normalizeColorName(name)
	for _, valid := range validNames {
		if normalizeColorName(valid) == normalized {
			return namedColors[valid], nil
		}
	}
	// darkgray/gray spelling tolerance, matching the original parser.
	switch normalized {
	case "darkgray":
		return namedColors["dark-grey"], nil
	case "gray":
		return namedColors["grey"], nil
	}
	return ascii.Color{}, fmt.Errorf("unknown color %q, valid colors: %s", name, strings.Join(validNames, ", "))
}
