// Package line holds the styled-text data model that sits between the
// SGR processor and the screen buffer: a Cell carries one character, a
// Span groups cells sharing one style, and a Line is an ordered run of
// Spans. It mirrors the ui/line module of the original sericom-core.
package line

// Cell is a single rendered character and its selection state. A cell's
// effective style lives on its owning Span, not on the cell itself —
// rendering must not mix per-cell and per-span styling.
type Cell struct {
	Character  rune
	IsSelected bool
}

// EmptyCell is a blank, unselected cell used to pad Spans and Lines.
var EmptyCell = Cell{Character: ' '}

// NewCell returns a Cell for ch, unselected.
func NewCell(ch rune) Cell {
	return Cell{Character: ch}
}
