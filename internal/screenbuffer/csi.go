package screenbuffer

import (
	"strconv"
	"strings"

	"github.com/sericom/sericom/internal/ascii"
	"github.com/sericom/sericom/internal/line"
)

// handleEscape processes one complete EscapeSequence event. SGR
// sequences (terminator 'm') close the current span, run the SGR
// processor, and open a new span inheriting the updated style. Every
// other terminator is looked up in the cursor/erase dispatch table.
func (b *Buffer) handleEscape(seq []byte) {
	if ascii.IsSGR(seq) {
		b.closeSpan()
		b.style, b.attrs = ascii.ApplySGR(b.style, b.attrs, seq)
		b.openSpan()
		return
	}

	final, params, ok := parseCSI(seq)
	if !ok {
		return
	}
	if handler, ok := csiTable[final]; ok {
		handler(b, params)
	}
	b.log.Debug().Str("sequence", string(seq)).Msg("escape sequence dispatched")
}

// closeSpan pushes the in-progress span onto the current line without
// padding it (used before a style change, as opposed to commitLine's
// width-padding close at end of line).
func (b *Buffer) closeSpan() {
	if !b.curSpan.IsEmpty() {
		b.curLine.Push(b.curSpan)
	}
	b.curSpan = line.NewSpan(b.width-b.curLine.CountCells(), b.style, b.attrs)
}

func (b *Buffer) openSpan() {
	b.curSpan = line.NewSpan(b.width-b.curLine.CountCells(), b.style, b.attrs)
}

// noParam marks an omitted (or non-numeric) CSI numeric parameter.
const noParam = -1

// parseCSI splits a CSI sequence (ESC [ ... <letter>) into its
// terminator byte and its numeric parameters (ASCII-decimal, split on
// ';'; an omitted parameter is noParam).
func parseCSI(seq []byte) (final byte, params []int, ok bool) {
	if len(seq) < 3 || seq[0] != 0x1B || seq[1] != '[' {
		return 0, nil, false
	}
	final = seq[len(seq)-1]
	body := string(seq[2 : len(seq)-1])
	if body == "" {
		return final, nil, true
	}
	for _, tok := range strings.Split(body, ";") {
		if tok == "" {
			params = append(params, noParam)
			continue
		}
		n, err := strconv.Atoi(tok)
		if err != nil {
			params = append(params, noParam)
			continue
		}
		params = append(params, n)
	}
	return final, params, true
}

// paramOr returns params[idx] if present and not omitted, else def.
func paramOr(params []int, idx, def int) int {
	if idx < 0 || idx >= len(params) || params[idx] == noParam {
		return def
	}
	return params[idx]
}

type csiHandler func(b *Buffer, params []int)

// csiTable maps a CSI terminator byte to its handler, per the
// cursor-movement/erase table. A data-driven table is used instead of a
// monolithic switch so each sequence's behavior is independently
// testable and the terminator-to-meaning mapping is visible at a glance.
var csiTable = map[byte]csiHandler{
	'H': cursorPositionHandler,
	'f': cursorPositionHandler,
	'A': func(b *Buffer, p []int) { b.moveCursorUp(paramOr(p, 0, 1)) },
	'B': func(b *Buffer, p []int) { b.moveCursorDown(paramOr(p, 0, 1)) },
	'C': func(b *Buffer, p []int) { b.moveCursorRight(paramOr(p, 0, 1)) },
	'D': func(b *Buffer, p []int) { b.moveCursorLeft(paramOr(p, 0, 1)) },
	'E': func(b *Buffer, p []int) { b.cursorNextLine(paramOr(p, 0, 1)) },
	'F': func(b *Buffer, p []int) { b.cursorPrevLine(paramOr(p, 0, 1)) },
	'G': func(b *Buffer, p []int) { b.setCursorColumn(paramOr(p, 0, 1) - 1) },
	'J': func(b *Buffer, p []int) { b.eraseInDisplay(paramOr(p, 0, 0)) },
	'K': func(b *Buffer, p []int) { b.eraseInLine(paramOr(p, 0, 0)) },
}

func cursorPositionHandler(b *Buffer, params []int) {
	row := maxInt(1, paramOr(params, 0, 1))
	col := maxInt(1, paramOr(params, 1, 1))
	b.cursor.Y = b.viewStart + row - 1
	b.cursor.X = minInt(b.width-1, col-1)
	b.growToCursor()
}

func (b *Buffer) moveCursorUp(n int) {
	b.cursor.Y = maxInt(b.viewStart, b.cursor.Y-n)
}

func (b *Buffer) moveCursorDown(n int) {
	b.cursor.Y += n
	b.growToCursor()
}

func (b *Buffer) moveCursorRight(n int) {
	b.cursor.X = minInt(b.width-1, b.cursor.X+n)
}

func (b *Buffer) moveCursorLeft(n int) {
	b.cursor.X = maxInt(0, b.cursor.X-n)
}

func (b *Buffer) cursorNextLine(n int) {
	b.cursor.X = 0
	b.cursor.Y += n
	b.growToCursor()
}

func (b *Buffer) cursorPrevLine(n int) {
	b.cursor.X = 0
	b.cursor.Y = maxInt(0, b.cursor.Y-n)
}

func (b *Buffer) setCursorColumn(col int) {
	b.cursor.X = maxInt(0, minInt(b.width-1, col))
}

// growToCursor extends scrollback with empty lines so cursor.Y is a
// valid line index.
func (b *Buffer) growToCursor() {
	for b.cursor.Y >= len(b.lines) {
		b.pushLine(line.NewLine())
	}
}

// eraseInDisplay implements ESC[nJ: 0 = cursor-to-end, 1 = start-to-cursor,
// 2 = entire viewport.
func (b *Buffer) eraseInDisplay(mode int) {
	switch mode {
	case 0:
		b.eraseLineFrom(b.cursor.Y, b.cursor.X)
		for y := b.cursor.Y + 1; y < b.viewStart+b.height && y < len(b.lines); y++ {
			b.clearLineContent(y)
		}
	case 1:
		for y := b.viewStart; y < b.cursor.Y; y++ {
			b.clearLineContent(y)
		}
		b.eraseLineTo(b.cursor.Y, b.cursor.X)
	case 2:
		for y := b.viewStart; y < b.viewStart+b.height && y < len(b.lines); y++ {
			b.clearLineContent(y)
		}
	}
}

// eraseInLine implements ESC[nK: 0 = cursor-to-eol, 1 = sol-to-cursor,
// 2 = entire line.
func (b *Buffer) eraseInLine(mode int) {
	switch mode {
	case 0:
		b.eraseLineFrom(b.cursor.Y, b.cursor.X)
	case 1:
		b.eraseLineTo(b.cursor.Y, b.cursor.X)
	case 2:
		b.clearLineContent(b.cursor.Y)
	}
}

func (b *Buffer) clearLineContent(y int) {
	ln := b.lineAt(y)
	if ln == nil {
		return
	}
	ln.Reset()
	sp := line.NewSpan(b.width, b.style, b.attrs)
	sp.FillToWidth(b.width)
	ln.Push(sp)
}

func (b *Buffer) eraseLineFrom(y, x int) {
	ln := b.lineAt(y)
	if ln == nil {
		return
	}
	for i := x; i < b.width; i++ {
		ln.SetCharAt(i, ' ')
	}
}

func (b *Buffer) eraseLineTo(y, x int) {
	ln := b.lineAt(y)
	if ln == nil {
		return
	}
	for i := 0; i <= x && i < b.width; i++ {
		ln.SetCharAt(i, ' ')
	}
}
