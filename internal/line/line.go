package line

// Line is an ordered sequence of Spans holding at most W cells total,
// representing one row of scrollback.
type Line struct {
	spans []Span
}

// NewLine returns an empty line with no spans yet. The line does not
// enforce the width bound itself; callers keep the pushed spans within it.
func NewLine() Line {
	return Line{}
}

// Push appends a span to the line.
func (l *Line) Push(s Span) {
	l.spans = append(l.spans, s)
}

// Spans returns the line's spans for read-only iteration.
func (l *Line) Spans() []Span { return l.spans }

// SpanAt returns a pointer to the span at idx, or nil if idx is out of
// range.
func (l *Line) SpanAt(idx int) *Span {
	if idx < 0 || idx >= len(l.spans) {
		return nil
	}
	return &l.spans[idx]
}

// CountCells returns the total number of cells across every span.
func (l *Line) CountCells() int {
	n := 0
	for i := range l.spans {
		n += l.spans[i].Count()
	}
	return n
}

// Reset drops every span, leaving the line empty.
func (l *Line) Reset() {
	l.spans = l.spans[:0]
}

// ClearSelection unsets IsSelected on every cell in every span.
func (l *Line) ClearSelection() {
	for i := range l.spans {
		l.spans[i].ClearSelection()
	}
}

// CellAt returns the cell at the given 0-based column, and whether the
// column falls within the line's content.
func (l *Line) CellAt(col int) (Cell, bool) {
	offset := 0
	for i := range l.spans {
		n := l.spans[i].Count()
		if col < offset+n {
			return l.spans[i].cells[col-offset], true
		}
		offset += n
	}
	return Cell{}, false
}

// SetSelected sets is_selected on the cell at the given 0-based column,
// and reports whether the column fell within the line's content.
func (l *Line) SetSelected(col int, selected bool) bool {
	offset := 0
	for i := range l.spans {
		n := l.spans[i].Count()
		if col < offset+n {
			l.spans[i].cells[col-offset].IsSelected = selected
			return true
		}
		offset += n
	}
	return false
}

// SetCharAt sets the character of the cell at the given 0-based column,
// and reports whether the column fell within the line's content.
func (l *Line) SetCharAt(col int, ch rune) bool {
	offset := 0
	for i := range l.spans {
		n := l.spans[i].Count()
		if col < offset+n {
			l.spans[i].cells[col-offset].Character = ch
			return true
		}
		offset += n
	}
	return false
}

// Text returns the line's characters concatenated across every span, in
// order, with no padding trimmed.
func (l *Line) Text() string {
	var runes []rune
	for i := range l.spans {
		for _, c := range l.spans[i].cells {
			runes = append(runes, c.Character)
		}
	}
	return string(runes)
}
