package ascii

// ColorKind tags the variant carried by a Color.
type ColorKind int

const (
	// ColorConfigDefault defers to the fg/bg configured for the session.
	ColorConfigDefault ColorKind = iota
	// ColorReset is an explicit "no color" (SGR 39/49).
	ColorReset
	// ColorNamed is one of the 16 named ANSI colors, see the Named* constants.
	ColorNamed
	// ColorIndexed is an 8-bit palette index (0-255).
	ColorIndexed
	// ColorRGB is a 24-bit truecolor triple.
	ColorRGB
)

// Named ANSI color values, used when Color.Kind == ColorNamed.
const (
	NamedBlack = iota
	NamedDarkRed
	NamedDarkGreen
	NamedDarkYellow
	NamedDarkBlue
	NamedDarkMagenta
	NamedDarkCyan
	NamedGrey
	NamedDarkGrey
	NamedRed
	NamedGreen
	NamedYellow
	NamedBlue
	NamedMagenta
	NamedCyan
	NamedWhite
)

// Color is a single logical foreground or background color.
type Color struct {
	Kind    ColorKind
	Named   int // valid when Kind == ColorNamed
	Index   uint8
	R, G, B uint8
}

// ConfigDefaultColor returns the sentinel meaning "use the configured
// session default".
func ConfigDefaultColor() Color { return Color{Kind: ColorConfigDefault} }

// ResetColor returns the sentinel for an explicit SGR 39/49 reset.
func ResetColor() Color { return Color{Kind: ColorReset} }

// NamedColor returns a Color for one of the 16 ANSI named colors.
func NamedColor(n int) Color { return Color{Kind: ColorNamed, Named: n} }

// IndexedColor returns a Color for an 8-bit palette index.
func IndexedColor(idx uint8) Color { return Color{Kind: ColorIndexed, Index: idx} }

// RGBColor returns a Color for a 24-bit truecolor triple.
func RGBColor(r, g, b uint8) Color { return Color{Kind: ColorRGB, R: r, G: g, B: b} }

// ColorState is the (foreground, background) pair tracked while applying
// SGR sequences.
type ColorState struct {
	Fg Color
	Bg Color
}

// DefaultColorState returns the state SGR 0 resets to: both colors
// deferring to the configured session default.
func DefaultColorState() ColorState {
	return ColorState{Fg: ConfigDefaultColor(), Bg: ConfigDefaultColor()}
}
