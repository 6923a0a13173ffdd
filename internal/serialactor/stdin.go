package serialactor

// UICommandKind tags the variant of a UICommand translated from a raw
// keyboard/mouse/paste event.
type UICommandKind int

const (
	UICommandWriteBytes UICommandKind = iota
	UICommandSendBreak
	UICommandScrollUp
	UICommandScrollDown
	UICommandScrollTop
	UICommandScrollBottom
	UICommandClearBuffer
	UICommandStartSelection
	UICommandUpdateSelection
	UICommandCopySelection
	UICommandShutdown
)

// UICommand is the translated form of a terminal input event, handed to
// the Session Orchestrator for dispatch to the serial actor or the
// screen buffer.
type UICommand struct {
	Kind  UICommandKind
	Bytes []byte // UICommandWriteBytes
	X, Y  int    // UICommandStartSelection / UICommandUpdateSelection
	Lines int    // UICommandScrollUp / UICommandScrollDown
}

// Key identifies a single keyboard input, already stripped of repeat and
// release variants by the caller — only Press events reach TranslateKey.
type Key struct {
	Rune  rune
	Code  KeyCode
	Ctrl  bool
	Alt   bool
	Shift bool
}

// KeyCode names a non-printable key. KeyCodeNone means Rune carries a
// printable character instead.
type KeyCode int

const (
	KeyCodeNone KeyCode = iota
	KeyCodeEnter
	KeyCodeBackspace
	KeyCodeEsc
	KeyCodeTab
	KeyCodeDelete
	KeyCodeUp
	KeyCodeDown
	KeyCodeLeft
	KeyCodeRight
	KeyCodeF1
	KeyCodeF2
)

// TranslateKey maps a single key press to the UICommand it produces:
// either a UI-level command (scroll, break, clear, quit) or a
// UICommandWriteBytes carrying the raw bytes for the serial port. The
// second return value is false only when the key produces no command.
func TranslateKey(k Key) (UICommand, bool) {
	if k.Code == KeyCodeF1 {
		return UICommand{Kind: UICommandScrollTop}, true
	}
	if k.Code == KeyCodeF2 {
		return UICommand{Kind: UICommandScrollBottom}, true
	}
	if k.Alt && (k.Rune == 'b' || k.Rune == 'B') {
		return UICommand{Kind: UICommandSendBreak}, true
	}
	if k.Ctrl && (k.Rune == 'c' || k.Rune == 'C') {
		return UICommand{Kind: UICommandWriteBytes, Bytes: []byte{0x03}}, true
	}
	if k.Ctrl && (k.Rune == 'l' || k.Rune == 'L') {
		return UICommand{Kind: UICommandClearBuffer}, true
	}
	if k.Ctrl && (k.Rune == 'q' || k.Rune == 'Q') {
		return UICommand{Kind: UICommandShutdown}, true
	}

	switch k.Code {
	case KeyCodeEnter:
		return UICommand{Kind: UICommandWriteBytes, Bytes: []byte{'\r'}}, true
	case KeyCodeBackspace:
		return UICommand{Kind: UICommandWriteBytes, Bytes: []byte{0x08}}, true
	case KeyCodeEsc:
		return UICommand{Kind: UICommandWriteBytes, Bytes: []byte{0x1B}}, true
	case KeyCodeTab:
		return UICommand{Kind: UICommandWriteBytes, Bytes: []byte{0x09}}, true
	case KeyCodeDelete:
		return UICommand{Kind: UICommandWriteBytes, Bytes: []byte{0x7F}}, true
	case KeyCodeUp:
		return UICommand{Kind: UICommandWriteBytes, Bytes: []byte{0x1B, '[', 'A'}}, true
	case KeyCodeDown:
		return UICommand{Kind: UICommandWriteBytes, Bytes: []byte{0x1B, '[', 'B'}}, true
	case KeyCodeRight:
		return UICommand{Kind: UICommandWriteBytes, Bytes: []byte{0x1B, '[', 'C'}}, true
	case KeyCodeLeft:
		return UICommand{Kind: UICommandWriteBytes, Bytes: []byte{0x1B, '[', 'D'}}, true
	}

	if k.Rune != 0 {
		return UICommand{Kind: UICommandWriteBytes, Bytes: []byte(string(k.Rune))}, true
	}
	return UICommand{}, false
}

// MouseEventKind tags the variant of a mouse event fed to TranslateMouse.
type MouseEventKind int

const (
	MouseScrollUp MouseEventKind = iota
	MouseScrollDown
	MouseDown
	MouseDrag
	MouseUp
)

// MouseEvent is a single mouse action at screen coordinates (X, Y).
type MouseEvent struct {
	Kind MouseEventKind
	X, Y int
}

// TranslateMouse maps a mouse event to the UICommand it produces.
// MouseUp triggers CopySelection rather than ending the drag silently,
// since a selection is only useful once copied.
func TranslateMouse(ev MouseEvent) UICommand {
	switch ev.Kind {
	case MouseScrollUp:
		return UICommand{Kind: UICommandScrollUp, Lines: 1}
	case MouseScrollDown:
		return UICommand{Kind: UICommandScrollDown, Lines: 1}
	case MouseDown:
		return UICommand{Kind: UICommandStartSelection, X: ev.X, Y: ev.Y}
	case MouseDrag:
		return UICommand{Kind: UICommandUpdateSelection, X: ev.X, Y: ev.Y}
	case MouseUp:
		return UICommand{Kind: UICommandCopySelection}
	}
	return UICommand{}
}

// TranslatePaste wraps a bracketed-paste payload as a raw write, passed
// through to the serial port unmodified.
func TranslatePaste(data []byte) UICommand {
	return UICommand{Kind: UICommandWriteBytes, Bytes: data}
}
