package screenbuffer

import "github.com/sericom/sericom/internal/line"

// ScrollUp moves the viewport toward the start of scrollback by n lines.
func (b *Buffer) ScrollUp(n int) {
	b.viewStart = maxInt(0, b.viewStart-n)
	b.clearSelectionHighlight()
	b.selection = Selection{}
	b.dirty = true
}

// ScrollDown moves the viewport toward the end of scrollback by n lines.
func (b *Buffer) ScrollDown(n int) {
	b.viewStart = minInt(maxInt(0, len(b.lines)-b.height), b.viewStart+n)
	b.clearSelectionHighlight()
	b.selection = Selection{}
	b.dirty = true
}

// ScrollToTop moves the viewport to the very start of scrollback.
func (b *Buffer) ScrollToTop() {
	b.viewStart = 0
	b.clearSelectionHighlight()
	b.selection = Selection{}
	b.dirty = true
}

// ScrollToBottom moves the viewport to the end of scrollback.
func (b *Buffer) ScrollToBottom() {
	b.viewStart = maxInt(0, len(b.lines)-b.height)
	b.clearSelectionHighlight()
	b.selection = Selection{}
	b.dirty = true
}

// ClearBuffer drops all scrollback, resets the cursor to the origin, and
// seeds one empty line.
func (b *Buffer) ClearBuffer() {
	b.lines = []line.Line{line.NewLine()}
	b.curLine = line.NewLine()
	b.curSpan = line.NewSpan(b.width, b.style, b.attrs)
	b.cursor = Position{}
	b.viewStart = 0
	b.selection = Selection{}
	b.dirty = true
}
