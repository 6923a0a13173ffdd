// Package screenbuffer maintains the bounded scrollback of styled lines,
// applies CSI/SGR semantics from the byte parser, and performs throttled
// rendering to the host terminal. It mirrors the screen_buffer module of
// the original sericom-core.
package screenbuffer

// Position is an absolute location in the scrollback: X is the column
// (0..W-1), Y is the absolute line index. The screen-relative row is
// Y - viewStart when viewStart <= Y < viewStart+H.
type Position struct {
	X int
	Y int
}

// Rect is a fixed viewport: origin plus width/height in cells. It does
// not change for the lifetime of a session.
type Rect struct {
	Origin Position
	Width  int
	Height int
}
