package session

import (
	"bufio"
	"bytes"
	"context"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/sericom/sericom/internal/screenbuffer"
	"github.com/sericom/sericom/internal/serialactor"
)

// bracketedPasteEnd is the literal byte sequence xterm sends to close a
// bracketed paste; readBracketedPaste scans for it rather than parsing
// it as a CSI sequence, since everything before it is raw paste data.
var bracketedPasteEnd = []byte("\x1b[201~")

// runStdin is the Stdin Input Task: a blocking-thread reader over the
// host terminal that decodes keyboard, mouse, and paste events and
// dispatches the translated command to the serial actor or the screen
// buffer. It returns when the terminal read fails (teardown closes the
// terminal or the process exits).
func (s *Session) runStdin(ctx context.Context, commands chan<- serialactor.Message, buf *screenbuffer.Buffer, cancel context.CancelFunc) {
	r := bufio.NewReader(s.term)
	for {
		if ctx.Err() != nil {
			return
		}
		b, err := r.ReadByte()
		if err != nil {
			return
		}
		if b == 0x1b {
			s.handleEscapeSequence(r, commands, buf, cancel)
			continue
		}
		s.dispatchKey(decodeKey(b, r), commands, buf, cancel)
	}
}

func (s *Session) handleEscapeSequence(r *bufio.Reader, commands chan<- serialactor.Message, buf *screenbuffer.Buffer, cancel context.CancelFunc) {
	nb, err := r.ReadByte()
	if err != nil {
		return
	}
	switch nb {
	case '[':
		body, final, err := readCSIBody(r)
		if err != nil {
			return
		}
		s.handleCSI(r, body, final, commands, buf, cancel)
	case 'O':
		fb, err := r.ReadByte()
		if err != nil {
			return
		}
		switch fb {
		case 'P':
			s.dispatchKey(serialactor.Key{Code: serialactor.KeyCodeF1}, commands, buf, cancel)
		case 'Q':
			s.dispatchKey(serialactor.Key{Code: serialactor.KeyCodeF2}, commands, buf, cancel)
		}
	default:
		ch, err := decodeRune(nb, r)
		if err == nil {
			s.dispatchKey(serialactor.Key{Alt: true, Rune: ch}, commands, buf, cancel)
		}
	}
}

// readCSIBody reads the parameter bytes of a CSI sequence (everything
// between "ESC[" and the terminating letter or '~'), returning the
// parameter bytes and the terminator.
func readCSIBody(r *bufio.Reader) (string, byte, error) {
	var sb strings.Builder
	for {
		c, err := r.ReadByte()
		if err != nil {
			return sb.String(), 0, err
		}
		if (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '~' {
			return sb.String(), c, nil
		}
		sb.WriteByte(c)
	}
}

func (s *Session) handleCSI(r *bufio.Reader, body string, final byte, commands chan<- serialactor.Message, buf *screenbuffer.Buffer, cancel context.CancelFunc) {
	switch {
	case body == "" && final == 'A':
		s.dispatchKey(serialactor.Key{Code: serialactor.KeyCodeUp}, commands, buf, cancel)
	case body == "" && final == 'B':
		s.dispatchKey(serialactor.Key{Code: serialactor.KeyCodeDown}, commands, buf, cancel)
	case body == "" && final == 'C':
		s.dispatchKey(serialactor.Key{Code: serialactor.KeyCodeRight}, commands, buf, cancel)
	case body == "" && final == 'D':
		s.dispatchKey(serialactor.Key{Code: serialactor.KeyCodeLeft}, commands, buf, cancel)
	case body == "3" && final == '~':
		s.dispatchKey(serialactor.Key{Code: serialactor.KeyCodeDelete}, commands, buf, cancel)
	case body == "200" && final == '~':
		paste := readBracketedPaste(r)
		s.dispatchUICommand(serialactor.TranslatePaste(paste), commands, buf, cancel)
	case final == 'M' || final == 'm':
		s.handleSGRMouse(body, final == 'M', commands, buf, cancel)
	}
}

// readBracketedPaste reads raw bytes until the bracketed-paste end
// marker, returning everything before it.
func readBracketedPaste(r *bufio.Reader) []byte {
	var buf bytes.Buffer
	for {
		b, err := r.ReadByte()
		if err != nil {
			return buf.Bytes()
		}
		buf.WriteByte(b)
		if buf.Len() >= len(bracketedPasteEnd) && bytes.HasSuffix(buf.Bytes(), bracketedPasteEnd) {
			return buf.Bytes()[:buf.Len()-len(bracketedPasteEnd)]
		}
	}
}

// handleSGRMouse decodes an SGR mouse report ("Cb;Cx;Cy" plus a final
// M for press/drag or m for release) into a MouseEvent. Cb bit 5 (32)
// marks motion; Cb 64/65 are the wheel buttons.
func (s *Session) handleSGRMouse(body string, pressed bool, commands chan<- serialactor.Message, buf *screenbuffer.Buffer, cancel context.CancelFunc) {
	parts := strings.Split(body, ";")
	if len(parts) != 3 {
		return
	}
	cb, err1 := strconv.Atoi(parts[0])
	x, err2 := strconv.Atoi(parts[1])
	y, err3 := strconv.Atoi(parts[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return
	}
	x--
	y--

	var ev serialactor.MouseEvent
	switch {
	case cb == 64:
		ev = serialactor.MouseEvent{Kind: serialactor.MouseScrollUp, X: x, Y: y}
	case cb == 65:
		ev = serialactor.MouseEvent{Kind: serialactor.MouseScrollDown, X: x, Y: y}
	case cb&32 != 0:
		ev = serialactor.MouseEvent{Kind: serialactor.MouseDrag, X: x, Y: y}
	case !pressed:
		ev = serialactor.MouseEvent{Kind: serialactor.MouseUp, X: x, Y: y}
	default:
		ev = serialactor.MouseEvent{Kind: serialactor.MouseDown, X: x, Y: y}
	}
	s.dispatchUICommand(serialactor.TranslateMouse(ev), commands, buf, cancel)
}

func (s *Session) dispatchKey(k serialactor.Key, commands chan<- serialactor.Message, buf *screenbuffer.Buffer, cancel context.CancelFunc) {
	cmd, ok := serialactor.TranslateKey(k)
	if !ok {
		return
	}
	s.dispatchUICommand(cmd, commands, buf, cancel)
}

// dispatchUICommand routes a translated command to the serial actor's
// command channel (raw writes, break) or directly to the screen
// buffer's UI methods (scroll, selection, clear), mirroring the split
// the Session Orchestrator owns between the two.
func (s *Session) dispatchUICommand(cmd serialactor.UICommand, commands chan<- serialactor.Message, buf *screenbuffer.Buffer, cancel context.CancelFunc) {
	switch cmd.Kind {
	case serialactor.UICommandWriteBytes:
		select {
		case commands <- serialactor.Message{Kind: serialactor.MessageWrite, Bytes: cmd.Bytes}:
		default:
			s.opts.Log.Warn().Msg("command channel full, keystroke dropped")
		}
	case serialactor.UICommandSendBreak:
		select {
		case commands <- serialactor.Message{Kind: serialactor.MessageSendBreak}:
		default:
		}
	case serialactor.UICommandScrollUp:
		buf.ScrollUp(cmd.Lines)
	case serialactor.UICommandScrollDown:
		buf.ScrollDown(cmd.Lines)
	case serialactor.UICommandScrollTop:
		buf.ScrollToTop()
	case serialactor.UICommandScrollBottom:
		buf.ScrollToBottom()
	case serialactor.UICommandClearBuffer:
		buf.ClearBuffer()
	case serialactor.UICommandStartSelection:
		buf.StartSelection(cmd.X, cmd.Y)
	case serialactor.UICommandUpdateSelection:
		buf.UpdateSelection(cmd.X, cmd.Y)
	case serialactor.UICommandCopySelection:
		if err := buf.CopySelection(); err != nil {
			s.opts.Log.Warn().Err(err).Msg("copy selection failed")
		}
	case serialactor.UICommandShutdown:
		select {
		case commands <- serialactor.Message{Kind: serialactor.MessageShutdown}:
		default:
		}
		cancel()
	}
}

// decodeKey maps a single non-escape input byte to a Key, reading
// further continuation bytes from r when the byte starts a multi-byte
// UTF-8 rune.
func decodeKey(b byte, r *bufio.Reader) serialactor.Key {
	switch b {
	case 0x03:
		return serialactor.Key{Ctrl: true, Rune: 'c'}
	case 0x0c:
		return serialactor.Key{Ctrl: true, Rune: 'l'}
	case 0x11:
		return serialactor.Key{Ctrl: true, Rune: 'q'}
	case 0x0d:
		return serialactor.Key{Code: serialactor.KeyCodeEnter}
	case 0x08, 0x7f:
		return serialactor.Key{Code: serialactor.KeyCodeBackspace}
	case 0x09:
		return serialactor.Key{Code: serialactor.KeyCodeTab}
	}
	if b < 0x20 {
		return serialactor.Key{}
	}
	ch, err := decodeRune(b, r)
	if err != nil {
		return serialactor.Key{}
	}
	return serialactor.Key{Rune: ch}
}

// decodeRune assembles a UTF-8 rune starting with the already-read
// first byte, reading continuation bytes from r as needed.
func decodeRune(first byte, r *bufio.Reader) (rune, error) {
	if first < 0x80 {
		return rune(first), nil
	}
	n := utf8ContinuationCount(first)
	buf := make([]byte, 1, n+1)
	buf[0] = first
	for i := 0; i < n; i++ {
		b, err := r.ReadByte()
		if err != nil {
			break
		}
		buf = append(buf, b)
	}
	ru, _ := utf8.DecodeRune(buf)
	return ru, nil
}

func utf8ContinuationCount(b byte) int {
	switch {
	case b&0xE0 == 0xC0:
		return 1
	case b&0xF0 == 0xE0:
		return 2
	case b&0xF8 == 0xF0:
		return 3
	}
	return 0
}
