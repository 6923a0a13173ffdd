package screenbuffer

import (
	"bufio"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/x/ansi"

	"github.com/sericom/sericom/internal/ascii"
	"github.com/sericom/sericom/internal/line"
)

// Render writes the full viewport to w if a render is due, following
// the throttling policy. now is passed in rather than read from
// time.Now so render timing is deterministic under test. It returns
// whether a render was actually performed.
func (b *Buffer) Render(w io.Writer, now time.Time) bool {
	if !b.ShouldRenderNow(now) {
		return false
	}
	bw := bufio.NewWriter(w)

	bw.WriteString(ansi.HideCursor)

	haveStyle := false
	var lastStyle styleKey
	for sy := 0; sy < b.height; sy++ {
		bw.WriteString(ansi.CursorPosition(1, sy+1))
		ln := b.lineAt(b.viewStart + sy)
		col := 0
		if ln != nil {
			for _, sp := range ln.Spans() {
				key := styleKeyFor(sp.Style, sp.Attrs)
				for _, cell := range sp.Cells() {
					if !haveStyle || lastStyle != key {
						bw.WriteString(sgrEscape(sp.Style, sp.Attrs))
						lastStyle, haveStyle = key, true
					}
					bw.WriteString(renderCell(cell, sp))
					if cell.IsSelected {
						// the inverted style is now active; re-issue the span style for the next cell
						haveStyle = false
					}
					col++
				}
			}
		}
		blank := styleKey{}
		for ; col < b.width; col++ {
			if !haveStyle || lastStyle != blank {
				bw.WriteString(ansi.ResetStyle)
				lastStyle, haveStyle = blank, true
			}
			bw.WriteByte(' ')
		}
	}

	screenY := b.cursor.Y - b.viewStart
	if screenY < 0 {
		screenY = 0
	}
	if screenY >= b.height {
		screenY = b.height - 1
	}
	screenX := b.cursor.X
	if screenX < 0 {
		screenX = 0
	}
	if screenX >= b.width {
		screenX = b.width - 1
	}
	bw.WriteString(ansi.CursorPosition(screenX+1, screenY+1))
	bw.WriteString(ansi.ShowCursor)
	bw.Flush()

	b.MarkRendered(now)
	return true
}

// renderCell writes a cell's character, applying the selected-inversion
// rule: selection swaps fg/bg unless the span already has Reverse
// active, in which case selection cancels the reverse (the visible
// effect is that selected text looks like non-selected text with
// swapped colors).
func renderCell(c line.Cell, sp line.Span) string {
	if c.IsSelected {
		inverted := sp.Attrs ^ ascii.Reverse
		return sgrEscape(sp.Style, inverted) + string(c.Character)
	}
	return string(c.Character)
}

// styleKey identifies a (colors, attrs) combination for the
// issue-only-on-change optimization.
type styleKey struct {
	style ascii.ColorState
	attrs ascii.Attrs
}

func styleKeyFor(style ascii.ColorState, attrs ascii.Attrs) styleKey {
	return styleKey{style: style, attrs: attrs}
}

// sgrEscape builds the SGR sequence for a (ColorState, Attrs) pair.
func sgrEscape(style ascii.ColorState, attrs ascii.Attrs) string {
	var seq string
	seq += ansi.ResetStyle
	if attrs.Has(ascii.Bold) {
		seq += "\x1b[1m"
	}
	if attrs.Has(ascii.Dim) {
		seq += "\x1b[2m"
	}
	if attrs.Has(ascii.Italic) {
		seq += "\x1b[3m"
	}
	if attrs.Has(ascii.Underlined) {
		seq += "\x1b[4m"
	}
	if attrs.Has(ascii.SlowBlink) {
		seq += "\x1b[5m"
	}
	if attrs.Has(ascii.RapidBlink) {
		seq += "\x1b[6m"
	}
	if attrs.Has(ascii.Reverse) {
		seq += "\x1b[7m"
	}
	if attrs.Has(ascii.Hidden) {
		seq += "\x1b[8m"
	}
	if attrs.Has(ascii.CrossedOut) {
		seq += "\x1b[9m"
	}
	seq += colorEscape(style.Fg, true)
	seq += colorEscape(style.Bg, false)
	return seq
}

func colorEscape(c ascii.Color, fg bool) string {
	switch c.Kind {
	case ascii.ColorConfigDefault, ascii.ColorReset:
		if fg {
			return "\x1b[39m"
		}
		return "\x1b[49m"
	case ascii.ColorNamed:
		base := 30
		n := c.Named
		if n >= 8 {
			base = 90
			n -= 8
		}
		if !fg {
			base += 10
		}
		return fmt.Sprintf("\x1b[%dm", base+n)
	case ascii.ColorIndexed:
		if fg {
			return fmt.Sprintf("\x1b[38;5;%dm", c.Index)
		}
		return fmt.Sprintf("\x1b[48;5;%dm", c.Index)
	case ascii.ColorRGB:
		if fg {
			return fmt.Sprintf("\x1b[38;2;%d;%d;%dm", c.R, c.G, c.B)
		}
		return fmt.Sprintf("\x1b[48;2;%d;%d;%dm", c.R, c.G, c.B)
	default:
		return ""
	}
}
