package ascii

import "strings"

// IsSGR reports whether seq (a full EventEscape payload, ESC included)
// is a graphics-mode CSI sequence, i.e. `ESC [ ... m`.
func IsSGR(seq []byte) bool {
	return len(seq) >= 3 && seq[0] == 0x1B && seq[1] == '[' && seq[len(seq)-1] == 'm'
}

// ApplySGR processes the parameters of a graphics-mode CSI sequence
// left-to-right and returns the updated (ColorState, Attrs). seq is the
// full sequence including the leading "ESC[" and trailing "m"; only the
// body between them is interpreted. Unrecognized parameters are ignored;
// a truncated extended color form (38;5 or 38;2 missing its trailing
// tokens) is ignored and parsing resumes on whatever parameters remain.
func ApplySGR(state ColorState, attrs Attrs, seq []byte) (ColorState, Attrs) {
	if !IsSGR(seq) {
		return state, attrs
	}
	body := seq[2 : len(seq)-1]
	tokens := strings.Split(string(body), ";")

	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]

		if sub, main, ok := splitSubParam(tok); ok {
			if main == "4" {
				switch sub {
				case "2":
					attrs = attrs.Set(DoubleUnderlined)
				case "3":
					attrs = attrs.Set(Undercurled)
				case "4":
					attrs = attrs.Set(Underdotted)
				case "5":
					attrs = attrs.Set(Underdashed)
				}
			}
			continue
		}

		n := parseParam(tok)
		switch n {
		case 0:
			state = DefaultColorState()
			attrs = 0
		case 1:
			attrs = attrs.Set(Bold)
		case 2:
			attrs = attrs.Set(Dim)
		case 3:
			attrs = attrs.Set(Italic)
		case 4:
			attrs = attrs.Set(Underlined)
		case 5:
			attrs = attrs.Set(SlowBlink)
		case 6:
			attrs = attrs.Set(RapidBlink)
		case 7:
			attrs = attrs.Set(Reverse)
		case 8:
			attrs = attrs.Set(Hidden)
		case 9:
			attrs = attrs.Set(CrossedOut)
		case 20:
			attrs = attrs.Set(Fraktur)
		case 21:
			attrs = attrs.Clear(Bold)
		case 22:
			attrs = attrs.Clear(Bold | Dim)
		case 23:
			attrs = attrs.Clear(Italic)
		case 24:
			attrs = attrs.Clear(underlineMask)
		case 25:
			attrs = attrs.Clear(SlowBlink | RapidBlink)
		case 27:
			attrs = attrs.Clear(Reverse)
		case 28:
			attrs = attrs.Clear(Hidden)
		case 29:
			attrs = attrs.Clear(CrossedOut)
		case 30, 31, 32, 33, 34, 35, 36, 37:
			state.Fg = NamedColor(n - 30)
		case 38:
			if color, consumed, ok := parseExtendedColor(tokens, i+1); ok {
				state.Fg = color
				i = consumed
			} else if consumed > i {
				i = consumed
			}
		case 39:
			state.Fg = ResetColor()
		case 40, 41, 42, 43, 44, 45, 46, 47:
			state.Bg = NamedColor(n - 40)
		case 48:
			if color, consumed, ok := parseExtendedColor(tokens, i+1); ok {
				state.Bg = color
				i = consumed
			} else if consumed > i {
				i = consumed
			}
		case 49:
			state.Bg = ResetColor()
		case 51:
			attrs = attrs.Set(Framed)
		case 52:
			attrs = attrs.Set(Encircled)
		case 53:
			attrs = attrs.Set(OverLined)
		case 54:
			attrs = attrs.Clear(Framed | Encircled)
		case 55:
			attrs = attrs.Clear(OverLined)
		case 90, 91, 92, 93, 94, 95, 96, 97:
			state.Fg = NamedColor(n - 90 + NamedDarkGrey)
		case 100, 101, 102, 103, 104, 105, 106, 107:
			state.Bg = NamedColor(n - 100 + NamedDarkGrey)
		default:
			// ignored, per §4.B "any other parameter: ignored"
		}
	}

	return state, attrs
}

// splitSubParam splits a colon sub-parameter token ("4:2") into its main
// and sub parts. ok is false for a plain token ("4").
func splitSubParam(tok string) (sub, main string, ok bool) {
	idx := strings.IndexByte(tok, ':')
	if idx < 0 {
		return "", "", false
	}
	return tok[idx+1:], tok[:idx], true
}

// parseExtendedColor interprets the 38;5;N / 38;2;R;G;B (or 48;...)
// extended forms starting at tokens[start], which holds the "5" or "2"
// selector. It returns the parsed color, the index of the last token it
// consumed, and whether the form was complete. When the stream is
// truncated before the required tokens arrive, ok is false and consumed
// is the last token actually present, so the caller resumes parsing
// there instead of skipping further than the data allows.
func parseExtendedColor(tokens []string, start int) (color Color, consumed int, ok bool) {
	if start >= len(tokens) {
		return Color{}, start - 1, false
	}
	switch tokens[start] {
	case "5":
		if start+1 >= len(tokens) {
			return Color{}, len(tokens) - 1, false
		}
		n := parseParam(tokens[start+1])
		if n < 0 || n > 255 {
			return Color{}, start + 1, false
		}
		return IndexedColor(uint8(n)), start + 1, true
	case "2":
		if start+3 >= len(tokens) {
			return Color{}, len(tokens) - 1, false
		}
		r := clampByte(parseParam(tokens[start+1]))
		g := clampByte(parseParam(tokens[start+2]))
		b := clampByte(parseParam(tokens[start+3]))
		return RGBColor(r, g, b), start + 3, true
	default:
		return Color{}, start, false
	}
}

func clampByte(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// parseParam reads an ASCII-decimal parameter; an empty or malformed
// token is treated as 0, matching the empty-parameter convention.
func parseParam(s string) int {
	if s == "" {
		return 0
	}
	n := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c < '0' || c > '9' {
			return 0
		}
		n = n*10 + int(c-'0')
	}
	return n
}
