package line

import "github.com/sericom/sericom/internal/ascii"

// Span is a run of Cells sharing one (ColorState, Attrs) style.
type Span struct {
	cells []Cell
	Style ascii.ColorState
	Attrs ascii.Attrs
}

// NewSpan returns an empty Span reserved for at most width cells, styled
// with colors and attrs.
func NewSpan(width int, colors ascii.ColorState, attrs ascii.Attrs) Span {
	return Span{
		cells: make([]Cell, 0, width),
		Style: colors,
		Attrs: attrs,
	}
}

// Push appends a cell to the span.
func (s *Span) Push(c Cell) {
	s.cells = append(s.cells, c)
}

// Count returns the number of cells in the span.
func (s *Span) Count() int { return len(s.cells) }

// IsEmpty reports whether the span holds no cells.
func (s *Span) IsEmpty() bool { return len(s.cells) == 0 }

// FillToWidth pads the span with default-styled blank cells until it
// holds width cells. It is a no-op if the span already has width cells
// or more.
func (s *Span) FillToWidth(width int) {
	for len(s.cells) < width {
		s.cells = append(s.cells, EmptyCell)
	}
}

// Cells returns the span's cells for read-only iteration.
func (s *Span) Cells() []Cell { return s.cells }

// CellAt returns a pointer to the cell at idx, for example to toggle
// IsSelected in place.
func (s *Span) CellAt(idx int) *Cell { return &s.cells[idx] }

// Reset drops all cells and restores the default style.
func (s *Span) Reset() {
	s.cells = s.cells[:0]
	s.Style = ascii.DefaultColorState()
	s.Attrs = 0
}

// ClearSelection unsets IsSelected on every cell in the span.
func (s *Span) ClearSelection() {
	for i := range s.cells {
		s.cells[i].IsSelected = false
	}
}
