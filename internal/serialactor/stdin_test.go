package serialactor

import "testing"

func TestTranslateKeyFunctionKeys(t *testing.T) {
	cmd, ok := TranslateKey(Key{Code: KeyCodeF1})
	if !ok || cmd.Kind != UICommandScrollTop {
		t.Fatalf("F1 = %+v, %v", cmd, ok)
	}
	cmd, ok = TranslateKey(Key{Code: KeyCodeF2})
	if !ok || cmd.Kind != UICommandScrollBottom {
		t.Fatalf("F2 = %+v, %v", cmd, ok)
	}
}

func TestTranslateKeyAltBreak(t *testing.T) {
	cmd, ok := TranslateKey(Key{Alt: true, Rune: 'b'})
	if !ok || cmd.Kind != UICommandSendBreak {
		t.Fatalf("alt-b = %+v, %v", cmd, ok)
	}
}

func TestTranslateKeyCtrlCWritesETX(t *testing.T) {
	cmd, ok := TranslateKey(Key{Ctrl: true, Rune: 'c'})
	if !ok || cmd.Kind != UICommandWriteBytes || len(cmd.Bytes) != 1 || cmd.Bytes[0] != 0x03 {
		t.Fatalf("ctrl-c = %+v, %v", cmd, ok)
	}
}

func TestTranslateKeyCtrlLClearsBuffer(t *testing.T) {
	cmd, ok := TranslateKey(Key{Ctrl: true, Rune: 'l'})
	if !ok || cmd.Kind != UICommandClearBuffer {
		t.Fatalf("ctrl-l = %+v, %v", cmd, ok)
	}
}

func TestTranslateKeyCtrlQShutsDown(t *testing.T) {
	cmd, ok := TranslateKey(Key{Ctrl: true, Rune: 'q'})
	if !ok || cmd.Kind != UICommandShutdown {
		t.Fatalf("ctrl-q = %+v, %v", cmd, ok)
	}
}

func TestTranslateKeyPrintable(t *testing.T) {
	cmd, ok := TranslateKey(Key{Rune: 'x'})
	if !ok || cmd.Kind != UICommandWriteBytes || string(cmd.Bytes) != "x" {
		t.Fatalf("printable x = %+v, %v", cmd, ok)
	}
}

func TestTranslateKeyEnterAndBackspace(t *testing.T) {
	cmd, ok := TranslateKey(Key{Code: KeyCodeEnter})
	if !ok || string(cmd.Bytes) != "\r" {
		t.Fatalf("enter = %+v, %v", cmd, ok)
	}
	cmd, ok = TranslateKey(Key{Code: KeyCodeBackspace})
	if !ok || len(cmd.Bytes) != 1 || cmd.Bytes[0] != 0x08 {
		t.Fatalf("backspace = %+v, %v", cmd, ok)
	}
}

func TestTranslateKeyArrows(t *testing.T) {
	cases := map[KeyCode]string{
		KeyCodeUp:    "\x1b[A",
		KeyCodeDown:  "\x1b[B",
		KeyCodeRight: "\x1b[C",
		KeyCodeLeft:  "\x1b[D",
	}
	for code, want := range cases {
		cmd, ok := TranslateKey(Key{Code: code})
		if !ok || string(cmd.Bytes) != want {
			t.Fatalf("code %v = %+v, %v, want %q", code, cmd, ok, want)
		}
	}
}

func TestTranslateMouseScrollAndDrag(t *testing.T) {
	up := TranslateMouse(MouseEvent{Kind: MouseScrollUp})
	if up.Kind != UICommandScrollUp || up.Lines != 1 {
		t.Fatalf("scroll up = %+v", up)
	}
	down := TranslateMouse(MouseEvent{Kind: MouseScrollDown})
	if down.Kind != UICommandScrollDown || down.Lines != 1 {
		t.Fatalf("scroll down = %+v", down)
	}
	start := TranslateMouse(MouseEvent{Kind: MouseDown, X: 4, Y: 2})
	if start.Kind != UICommandStartSelection || start.X != 4 || start.Y != 2 {
		t.Fatalf("mouse down = %+v", start)
	}
	drag := TranslateMouse(MouseEvent{Kind: MouseDrag, X: 9, Y: 2})
	if drag.Kind != UICommandUpdateSelection || drag.X != 9 {
		t.Fatalf("mouse drag = %+v", drag)
	}
	up2 := TranslateMouse(MouseEvent{Kind: MouseUp})
	if up2.Kind != UICommandCopySelection {
		t.Fatalf("mouse up = %+v", up2)
	}
}

func TestTranslatePastePassesBytesThrough(t *testing.T) {
	cmd := TranslatePaste([]byte("pasted text"))
	if cmd.Kind != UICommandWriteBytes || string(cmd.Bytes) != "pasted text" {
		t.Fatalf("paste = %+v", cmd)
	}
}
