package screenbuffer

import (
	"io"
	"strings"

	osc52 "github.com/aymanbagabas/go-osc52/v2"
)

// Selection is a pair of anchor positions in scrollback coordinates.
// Active is false when nothing is selected.
type Selection struct {
	Start  Position
	End    Position
	Active bool
}

// normalized returns Start/End ordered so that (start.Y < end.Y) or
// (start.Y == end.Y and start.X <= end.X).
func (s Selection) normalized() (Position, Position) {
	a, b := s.Start, s.End
	if a.Y > b.Y || (a.Y == b.Y && a.X > b.X) {
		a, b = b, a
	}
	return a, b
}

// StartSelection clears any existing selection and anchors a new one at
// the given screen-relative position, converted to absolute scrollback
// coordinates.
func (b *Buffer) StartSelection(screenX, screenY int) {
	b.clearSelectionHighlight()
	pos := Position{X: screenX, Y: b.viewStart + screenY}
	b.selection = Selection{Start: pos, End: pos, Active: true}
	b.dirty = true
}

// UpdateSelection moves the selection's end anchor to the given
// screen-relative position and reapplies the is_selected highlighting
// across every affected line.
func (b *Buffer) UpdateSelection(screenX, screenY int) {
	if !b.selection.Active {
		return
	}
	b.selection.End = Position{X: screenX, Y: b.viewStart + screenY}
	b.applySelectionHighlight()
	b.dirty = true
}

// applySelectionHighlight clears is_selected on every known line, then
// sets it for every cell in the normalized selection range: inclusive of
// both ends, per-line from start_x on the first line (0 on intermediate
// lines) to end_x on the last line (W-1 on intermediate lines).
func (b *Buffer) applySelectionHighlight() {
	b.clearSelectionHighlight()
	if !b.selection.Active {
		return
	}
	start, end := b.selection.normalized()
	for y := start.Y; y <= end.Y; y++ {
		ln := b.lineAt(y)
		if ln == nil {
			continue
		}
		from := 0
		to := b.width - 1
		if y == start.Y {
			from = start.X
		}
		if y == end.Y {
			to = end.X
		}
		for x := from; x <= to && x < b.width; x++ {
			setCellSelected(ln, x, true)
		}
	}
}

func (b *Buffer) clearSelectionHighlight() {
	for i := range b.lines {
		b.lines[i].ClearSelection()
	}
}

// CopySelection concatenates the characters of every selected cell,
// joining lines with "\n", trims trailing whitespace, writes the result
// to the host clipboard via an OSC-52 escape sequence, and clears the
// selection.
func (b *Buffer) CopySelection() error {
	if !b.selection.Active {
		return nil
	}
	start, end := b.selection.normalized()

	var sb strings.Builder
	for y := start.Y; y <= end.Y; y++ {
		ln := b.lineAt(y)
		if ln == nil {
			continue
		}
		from := 0
		to := b.width - 1
		if y == start.Y {
			from = start.X
		}
		if y == end.Y {
			to = end.X
		}
		for x := from; x <= to && x < b.width; x++ {
			if cell, ok := ln.CellAt(x); ok {
				sb.WriteRune(cell.Character)
			}
		}
		if y != end.Y {
			sb.WriteByte('\n')
		}
	}

	text := strings.TrimRight(sb.String(), " \t\n\r")
	b.clearSelectionHighlight()
	b.selection = Selection{}
	b.dirty = true

	return writeClipboard(b.clipboardWriter, text)
}

func writeClipboard(w io.Writer, text string) error {
	_, err := osc52.New(text).WriteTo(w)
	return err
}
