package screenbuffer

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/sericom/sericom/internal/ascii"
	"github.com/sericom/sericom/internal/line"
)

// MaxScrollback bounds the number of retained lines.
const MaxScrollback = 10000

// renderThrottle is the minimum interval between two renders.
const renderThrottle = 33 * time.Millisecond

// ArmTimerInterval is the delay the caller should arm a timer for when
// ShouldRenderNow reports false, so deferred updates are eventually
// flushed.
const ArmTimerInterval = 16 * time.Millisecond

// Buffer is the screen buffer: scrollback, cursor, selection, an owned
// byte parser, and the active style carried across add_data calls.
type Buffer struct {
	width  int
	height int

	lines     []line.Line
	viewStart int
	cursor    Position
	selection Selection

	maxScrollback int
	lastRender    time.Time
	renderedOnce  bool
	dirty         bool

	parser *ascii.Parser
	style  ascii.ColorState
	attrs  ascii.Attrs

	curLine line.Line
	curSpan line.Span

	clipboardWriter io.Writer
	log             zerolog.Logger
}

// New returns a Buffer sized width x height, seeded with one empty line,
// styled with the given default colors.
func New(width, height int, defaults ascii.ColorState, log zerolog.Logger) *Buffer {
	b := &Buffer{
		width:           width,
		height:          height,
		maxScrollback:   MaxScrollback,
		parser:          ascii.NewParser(),
		style:           defaults,
		clipboardWriter: os.Stderr,
		log:             log,
	}
	b.lines = append(b.lines, line.NewLine())
	b.curLine = line.NewLine()
	b.curSpan = line.NewSpan(width, b.style, b.attrs)
	b.dirty = true
	return b
}

// SetClipboardWriter overrides the destination for OSC-52 writes; tests
// use this to capture output instead of writing to stderr.
func (b *Buffer) SetClipboardWriter(w io.Writer) { b.clipboardWriter = w }

// Width and Height report the fixed viewport dimensions.
func (b *Buffer) Width() int  { return b.width }
func (b *Buffer) Height() int { return b.height }

// Dirty reports whether the buffer has changes pending a render.
func (b *Buffer) Dirty() bool { return b.dirty }

// ViewStart returns the top-of-screen absolute line index.
func (b *Buffer) ViewStart() int { return b.viewStart }

// Cursor returns the current absolute cursor position.
func (b *Buffer) Cursor() Position { return b.cursor }

// LineCount returns the scrollback length.
func (b *Buffer) LineCount() int { return len(b.lines) }

// LineAt returns the line at absolute index y, or nil if out of range.
func (b *Buffer) LineAt(y int) *line.Line { return b.lineAt(y) }

func (b *Buffer) lineAt(y int) *line.Line {
	if y < 0 || y >= len(b.lines) {
		return nil
	}
	return &b.lines[y]
}

func setCellSelected(l *line.Line, col int, selected bool) {
	l.SetSelected(col, selected)
}

// ShouldRenderNow reports whether a render may proceed: dirty, and
// either no prior render has happened or renderThrottle has elapsed.
func (b *Buffer) ShouldRenderNow(now time.Time) bool {
	if !b.dirty {
		return false
	}
	if !b.renderedOnce {
		return true
	}
	return now.Sub(b.lastRender) >= renderThrottle
}

// MarkRendered clears the dirty flag and records the render timestamp.
func (b *Buffer) MarkRendered(now time.Time) {
	b.dirty = false
	b.lastRender = now
	b.renderedOnce = true
}

// AddData feeds bytes through the byte parser and applies the resulting
// events to cursor, style, and scrollback state. After processing,
// view_start auto-scrolls to the bottom and the buffer is marked dirty.
func (b *Buffer) AddData(data []byte) {
	events := b.parser.Feed(data)
	b.applyEvents(events)
	b.viewStart = maxInt(0, len(b.lines)-b.height)
	b.dirty = true
}

func (b *Buffer) applyEvents(events []ascii.Event) {
	for i := 0; i < len(events); i++ {
		e := events[i]
		switch e.Kind {
		case ascii.EventText:
			b.ingestText(e.Bytes)
		case ascii.EventControl:
			if e.Byte == 0x08 && isBackspaceEraseIdiom(events, i) {
				b.handleBackspace()
				b.eraseCellAtCursor()
				i += 2 // skip the space Text event and the closing BS
				continue
			}
			b.handleControl(e.Byte)
		case ascii.EventEscape:
			b.handleEscape(e.Bytes)
		}
	}
}

// isBackspaceEraseIdiom reports whether events[i] (a Control(0x08))
// begins the three-event pattern BS, single-space Text, BS — the common
// idiom devices use to erase the previously echoed character in place.
func isBackspaceEraseIdiom(events []ascii.Event, i int) bool {
	if i+2 >= len(events) {
		return false
	}
	next := events[i+1]
	after := events[i+2]
	return next.Kind == ascii.EventText && string(next.Bytes) == " " &&
		after.Kind == ascii.EventControl && after.Byte == 0x08
}

func (b *Buffer) ingestText(run []byte) {
	for _, ch := range run {
		if b.curSpan.Count()+b.curLine.CountCells() >= b.width {
			// Text overflowing the line is truncated; no wrap for plain text.
			break
		}
		b.curSpan.Push(line.NewCell(rune(ch)))
		// cursor.X stays within [0, width) even when this push fills the
		// last column of the line.
		if b.cursor.X < b.width-1 {
			b.cursor.X++
		}
	}
}

func (b *Buffer) handleControl(ch byte) {
	switch ch {
	case 0x08: // BS
		b.handleBackspace()
	case 0x0D: // CR
		b.cursor.X = 0
	case 0x0A: // LF
		b.commitLine()
	case 0x0C: // FF
		b.formFeed()
	case 0x09: // TAB
		b.cursor.X = minInt(b.width-1, ((b.cursor.X/8)+1)*8)
	case 0x07, 0x0E, 0x0F: // BEL, SO, SI
		// ignored
	}
}

func (b *Buffer) handleBackspace() {
	if b.cursor.X > 0 {
		b.cursor.X--
	}
}

// eraseCellAtCursor blanks the cell the cursor currently sits on, used
// by the BS,' ',BS erase idiom.
func (b *Buffer) eraseCellAtCursor() {
	if b.curLine.SetCharAt(b.cursor.X, ' ') {
		return
	}
	col := b.cursor.X - b.curLine.CountCells()
	if col >= 0 && col < b.curSpan.Count() {
		*b.curSpan.CellAt(col) = line.EmptyCell
	}
}

// commitLine closes the current span (padding to the remaining line
// width with default cells using the active style), appends it to the
// current line, pushes the line onto scrollback, and starts a fresh
// line and span.
func (b *Buffer) commitLine() {
	b.curSpan.FillToWidth(b.width - b.curLine.CountCells())
	b.curLine.Push(b.curSpan)
	b.pushLine(b.curLine)
	b.curLine = line.NewLine()
	b.curSpan = line.NewSpan(b.width, b.style, b.attrs)
	b.cursor.X = 0
	b.cursor.Y++
}

// pushLine appends ln to scrollback, enforcing the MAX_SCROLLBACK bound
// by dropping the oldest line (and decrementing cursor.Y / viewStart)
// until back at or below the bound.
func (b *Buffer) pushLine(ln line.Line) {
	b.lines = append(b.lines, ln)
	for len(b.lines) > b.maxScrollback {
		b.lines = b.lines[1:]
		if b.cursor.Y > 0 {
			b.cursor.Y--
		}
		if b.viewStart > 0 {
			b.viewStart--
		}
	}
}

// InjectErrorLine appends "[ERROR] msg" as a synthetic scrollback line,
// independent of parser state, so serial-port runtime errors are
// visible inline rather than only in the log.
func (b *Buffer) InjectErrorLine(msg string) {
	b.injectSyntheticLine("[ERROR] " + msg)
}

// InjectStatusLine appends msg as a synthetic scrollback line, used for
// notices such as connection-closed that aren't errors but still need
// to surface in the view.
func (b *Buffer) InjectStatusLine(msg string) {
	b.injectSyntheticLine(msg)
}

// injectSyntheticLine commits any in-progress line first, so the
// injected text never merges with live device output, then appends
// text as its own scrollback line.
func (b *Buffer) injectSyntheticLine(text string) {
	if b.curSpan.Count() > 0 || b.curLine.CountCells() > 0 {
		b.commitLine()
	}
	sp := line.NewSpan(b.width, b.style, b.attrs)
	for _, ch := range text {
		if sp.Count() >= b.width {
			break
		}
		sp.Push(line.NewCell(ch))
	}
	sp.FillToWidth(b.width)
	ln := line.NewLine()
	ln.Push(sp)
	b.pushLine(ln)
	b.viewStart = maxInt(0, len(b.lines)-b.height)
	b.dirty = true
}

// formFeed clears the screen: advance view_start by H and append H
// empty lines to scrollback.
func (b *Buffer) formFeed() {
	for i := 0; i < b.height; i++ {
		b.pushLine(line.NewLine())
	}
	b.viewStart += b.height
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
