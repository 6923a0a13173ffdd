package session

import (
	"bufio"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/sericom/sericom/internal/ascii"
	"github.com/sericom/sericom/internal/screenbuffer"
	"github.com/sericom/sericom/internal/serialactor"
)

func testSession() *Session {
	return &Session{opts: Options{Log: zerolog.Nop()}}
}

func TestDecodeKeyControlBytes(t *testing.T) {
	r := bufio.NewReader(strings.NewReader(""))
	cases := map[byte]serialactor.Key{
		0x03: {Ctrl: true, Rune: 'c'},
		0x0c: {Ctrl: true, Rune: 'l'},
		0x11: {Ctrl: true, Rune: 'q'},
		0x0d: {Code: serialactor.KeyCodeEnter},
		0x08: {Code: serialactor.KeyCodeBackspace},
		0x7f: {Code: serialactor.KeyCodeBackspace},
		0x09: {Code: serialactor.KeyCodeTab},
	}
	for b, want := range cases {
		got := decodeKey(b, r)
		if got != want {
			t.Fatalf("decodeKey(0x%02x) = %+v, want %+v", b, got, want)
		}
	}
}

func TestDecodeKeyPrintableRune(t *testing.T) {
	r := bufio.NewReader(strings.NewReader(""))
	got := decodeKey('x', r)
	if got.Rune != 'x' || got.Code != serialactor.KeyCodeNone {
		t.Fatalf("decodeKey('x') = %+v", got)
	}
}

func TestDecodeRuneMultiByte(t *testing.T) {
	// "é" is 0xC3 0xA9 in UTF-8.
	r := bufio.NewReader(strings.NewReader("\xa9"))
	ch, err := decodeRune(0xc3, r)
	if err != nil {
		t.Fatalf("decodeRune: %v", err)
	}
	if ch != 'é' {
		t.Fatalf("decodeRune = %q, want 'é'", ch)
	}
}

func TestReadCSIBodyArrowKey(t *testing.T) {
	r := bufio.NewReader(strings.NewReader("A"))
	body, final, err := readCSIBody(r)
	if err != nil || body != "" || final != 'A' {
		t.Fatalf("readCSIBody = %q, %q, %v", body, final, err)
	}
}

func TestReadCSIBodyDeleteKey(t *testing.T) {
	r := bufio.NewReader(strings.NewReader("3~"))
	body, final, err := readCSIBody(r)
	if err != nil || body != "3" || final != '~' {
		t.Fatalf("readCSIBody = %q, %q, %v", body, final, err)
	}
}

func TestReadBracketedPasteStopsAtEndMarker(t *testing.T) {
	r := bufio.NewReader(strings.NewReader("hello world\x1b[201~trailing"))
	got := readBracketedPaste(r)
	if string(got) != "hello world" {
		t.Fatalf("readBracketedPaste = %q", got)
	}
}

func TestDispatchUICommandScrollAndClear(t *testing.T) {
	s := testSession()
	buf := screenbuffer.New(10, 3, ascii.DefaultColorState(), zerolog.Nop())
	buf.AddData([]byte("a\nb\nc\nd\ne\n"))
	commands := make(chan serialactor.Message, 4)
	_, cancel := context.WithCancel(context.Background())
	defer cancel()

	before := buf.ViewStart()
	s.dispatchUICommand(serialactor.UICommand{Kind: serialactor.UICommandScrollUp, Lines: 1}, commands, buf, cancel)
	if buf.ViewStart() != before-1 {
		t.Fatalf("ViewStart after ScrollUp = %d, want %d", buf.ViewStart(), before-1)
	}

	s.dispatchUICommand(serialactor.UICommand{Kind: serialactor.UICommandClearBuffer}, commands, buf, cancel)
	if buf.LineCount() != 1 {
		t.Fatalf("LineCount after ClearBuffer = %d, want 1", buf.LineCount())
	}
}

func TestDispatchUICommandWriteBytesReachesActor(t *testing.T) {
	s := testSession()
	buf := screenbuffer.New(10, 3, ascii.DefaultColorState(), zerolog.Nop())
	commands := make(chan serialactor.Message, 4)
	_, cancel := context.WithCancel(context.Background())
	defer cancel()

	s.dispatchUICommand(serialactor.UICommand{Kind: serialactor.UICommandWriteBytes, Bytes: []byte("hi")}, commands, buf, cancel)

	select {
	case msg := <-commands:
		if msg.Kind != serialactor.MessageWrite || string(msg.Bytes) != "hi" {
			t.Fatalf("message = %+v", msg)
		}
	default:
		t.Fatal("expected a queued write command")
	}
}

func TestDispatchUICommandShutdownCancelsContext(t *testing.T) {
	s := testSession()
	buf := screenbuffer.New(10, 3, ascii.DefaultColorState(), zerolog.Nop())
	commands := make(chan serialactor.Message, 4)
	ctx, cancel := context.WithCancel(context.Background())

	s.dispatchUICommand(serialactor.UICommand{Kind: serialactor.UICommandShutdown}, commands, buf, cancel)

	if ctx.Err() == nil {
		t.Fatal("expected context to be cancelled after Shutdown command")
	}
}
