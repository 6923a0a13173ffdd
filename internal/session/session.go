// Package session implements the Session Orchestrator: it owns the
// terminal's raw-mode lifecycle, wires the serial actor, stdin task, and
// file output task together through the shared event and command
// channels, and drives the render loop.
package session

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/rs/zerolog"
	"go.bug.st/serial"
	"golang.org/x/term"

	"github.com/sericom/sericom/internal/ascii"
	"github.com/sericom/sericom/internal/config"
	"github.com/sericom/sericom/internal/screenbuffer"
	"github.com/sericom/sericom/internal/serialactor"
)

// Options configures a Session.
type Options struct {
	Port     string
	BaudRate int
	Config   config.Config
	LogPath  string // empty if file output is disabled
	Log      zerolog.Logger
}

// Session owns the terminal for the duration of Run and restores it
// unconditionally on return, including on panic.
type Session struct {
	opts   Options
	term   *os.File
	oldCfg *term.State
}

// New prepares a session against the given terminal file (os.Stdin in
// production, a fake file in tests that never calls Run).
func New(opts Options, terminal *os.File) *Session {
	return &Session{opts: opts, term: terminal}
}

// Run opens the serial port, enters raw mode and the alternate screen,
// spawns the serial actor, stdin, render, and optional file-output
// tasks, and blocks until ctx is cancelled or a Shutdown command is
// received. The terminal is always restored before Run returns.
func (s *Session) Run(ctx context.Context) (err error) {
	fd := int(s.term.Fd())
	if !term.IsTerminal(fd) {
		return fmt.Errorf("not a terminal")
	}

	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("entering raw mode: %w", err)
	}
	s.oldCfg = oldState

	s.enterAltScreen()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("session panic: %v", r)
		}
		s.teardown(fd)
	}()

	mode := &serial.Mode{BaudRate: s.opts.BaudRate}
	events := serialactor.NewBroadcaster()
	actor, openErr := serialactor.NewActor(s.opts.Port, mode, events, s.opts.Log)
	if openErr != nil {
		return openErr
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go actor.Run(ctx)

	width, height, err := term.GetSize(fd)
	if err != nil {
		width, height = 80, 24
	}
	buf := screenbuffer.New(width, height, ascii.ColorState{Fg: s.opts.Config.Fg, Bg: s.opts.Config.Bg}, s.opts.Log)

	go s.runStdin(ctx, actor.Commands(), buf, cancel)

	var forwarder *serialactor.FileForwarder
	var writeDone chan error
	if s.opts.LogPath != "" {
		forwarder = serialactor.NewFileForwarder(ctx, s.opts.Log)
		writeDone = make(chan error, 1)
		go func() {
			writeDone <- serialactor.WriteSession(s.opts.LogPath, startTime(ctx), forwarder.Batches())
		}()
	}

	dataEvents := events.Subscribe()
	renderTicker := time.NewTicker(16 * time.Millisecond)
	defer renderTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			if writeDone != nil {
				if werr := <-writeDone; werr != nil {
					s.opts.Log.Error().Err(werr).Msg("writing session log failed")
				}
			}
			s.runExitScript()
			return nil
		case ev, ok := <-dataEvents:
			if !ok {
				return nil
			}
			switch ev.Kind {
			case serialactor.EventData:
				buf.AddData(ev.Data)
				if forwarder != nil {
					forwarder.Forward(ev.Data)
				}
			case serialactor.EventConnectionClosed:
				buf.InjectStatusLine("[CLOSED]")
				if forwarder != nil {
					forwarder.ForwardClosed("connection closed")
				}
				cancel()
			case serialactor.EventError:
				buf.InjectErrorLine(ev.Message)
				s.opts.Log.Error().Str("error", ev.Message).Msg("serial error")
				if forwarder != nil {
					forwarder.ForwardError(ev.Message)
				}
			}
		case now := <-renderTicker.C:
			if buf.ShouldRenderNow(now) {
				buf.Render(s.term, now)
				buf.MarkRendered(now)
			}
		}
	}
}

// sgrMouseEnable/Disable switch the terminal to the SGR extended mouse
// reporting mode (xterm mode 1006), which runStdin's handleSGRMouse
// parses; plain EnableMouseAllMotion alone reports coordinates in a
// byte that caps out at 223 columns/rows.
const (
	sgrMouseEnable  = "\x1b[?1006h"
	sgrMouseDisable = "\x1b[?1006l"
)

func (s *Session) enterAltScreen() {
	io.WriteString(s.term, ansi.SetAltScreenSaveCursor)
	io.WriteString(s.term, ansi.EnableMouseAllMotion)
	io.WriteString(s.term, sgrMouseEnable)
	io.WriteString(s.term, ansi.SetBracketedPasteMode)
}

func (s *Session) teardown(fd int) {
	io.WriteString(s.term, ansi.ResetBracketedPasteMode)
	io.WriteString(s.term, sgrMouseDisable)
	io.WriteString(s.term, ansi.DisableMouseAllMotion)
	io.WriteString(s.term, ansi.ResetAltScreenSaveCursor)
	io.WriteString(s.term, ansi.ShowCursor)
	if s.oldCfg != nil {
		term.Restore(fd, s.oldCfg)
	}
}

func (s *Session) runExitScript() {
	if s.opts.Config.ExitScript == "" {
		return
	}
	cmd := exec.Command(s.opts.Config.ExitScript)
	outFile := s.opts.LogPath
	if outFile != "" {
		if abs, err := filepath.Abs(outFile); err == nil {
			outFile = abs
		}
	}
	cmd.Env = append(os.Environ(), "SERICOM_OUT_FILE="+outFile)
	cmd.Stdout = os.Stderr
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		s.opts.Log.Error().Err(err).Msg("exit script failed")
	}
}

// startTime returns the session start timestamp attached to ctx by
// WithStartTime, or the current time if ctx carries none.
func startTime(ctx context.Context) time.Time {
	if v := ctx.Value(startTimeKey{}); v != nil {
		if t, ok := v.(time.Time); ok {
			return t
		}
	}
	return time.Now()
}

type startTimeKey struct{}

// WithStartTime attaches a fixed session-start timestamp to ctx, used by
// the CLI entry point to record the same instant in both the log header
// and any future diagnostics.
func WithStartTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, startTimeKey{}, t)
}
