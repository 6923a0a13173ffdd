package serialactor

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"
)

// FileBatchSize is the forwarder's flush threshold in bytes.
const FileBatchSize = 4096

// FileBatchInterval is the forwarder's flush threshold in elapsed time.
const FileBatchInterval = 200 * time.Millisecond

// fileWriteBufferSize is the blocking writer's buffered-writer size.
const fileWriteBufferSize = 8192

// forwardItem is the unit the batching loop consumes. Using a single
// channel for both data and control lines (rather than two separate
// channels) keeps them in call order: select across two channels would
// not guarantee that a Forward followed by a ForwardError is processed
// in that order.
type forwardItem struct {
	data    []byte
	control bool
}

// FileForwarder is the async half of the two-stage file output
// pipeline: it batches incoming bytes up to FileBatchSize or
// FileBatchInterval, whichever comes first, then hands the batch to a
// blocking writer goroutine so the async side never blocks on disk I/O.
type FileForwarder struct {
	in     chan forwardItem
	out    chan []byte
	log    zerolog.Logger
	closed chan struct{}
}

// NewFileForwarder starts the batching loop and returns a forwarder
// ready to accept bytes via Forward. Cancelling ctx stops the loop and
// closes the output channel after handing over any pending data.
func NewFileForwarder(ctx context.Context, log zerolog.Logger) *FileForwarder {
	f := &FileForwarder{
		in:     make(chan forwardItem, 256),
		out:    make(chan []byte, 16),
		log:    log,
		closed: make(chan struct{}),
	}
	go f.run(ctx)
	return f
}

// Forward queues data for batching. It never blocks the serial read
// path; if the internal queue is full the data is dropped and logged.
func (f *FileForwarder) Forward(data []byte) {
	buf := make([]byte, len(data))
	copy(buf, data)
	select {
	case f.in <- forwardItem{data: buf}:
	default:
		f.log.Warn().Msg("file output forwarder lagged, data dropped")
	}
}

// ForwardError flushes any data already batched, then records
// "[ERROR <msg>]" as its own batch, so a port error is visible in the
// log file at the point it happened rather than merged into whatever
// was pending.
func (f *FileForwarder) ForwardError(msg string) {
	f.forwardControlLine(fmt.Sprintf("[ERROR %s]\n", msg))
}

// ForwardClosed flushes any data already batched, then records
// "[CLOSED <reason>]" as its own batch.
func (f *FileForwarder) ForwardClosed(reason string) {
	f.forwardControlLine(fmt.Sprintf("[CLOSED %s]\n", reason))
}

func (f *FileForwarder) forwardControlLine(line string) {
	select {
	case f.in <- forwardItem{data: []byte(line), control: true}:
	default:
		f.log.Warn().Msg("file output forwarder lagged, control line dropped")
	}
}

// Batches returns the channel the blocking writer task reads flushed
// batches from.
func (f *FileForwarder) Batches() <-chan []byte { return f.out }

func (f *FileForwarder) run(ctx context.Context) {
	defer close(f.out)
	defer close(f.closed)

	ticker := time.NewTicker(FileBatchInterval)
	defer ticker.Stop()

	var pending []byte
	flush := func() {
		if len(pending) == 0 {
			return
		}
		batch := pending
		pending = nil
		select {
		case f.out <- batch:
		case <-ctx.Done():
		}
	}
	emit := func(line []byte) {
		select {
		case f.out <- line:
		case <-ctx.Done():
		}
	}

	for {
		select {
		case <-ctx.Done():
			// ctx.Done is already closed, so drain and hand off without selecting on it.
			for len(f.in) > 0 {
				item := <-f.in
				pending = append(pending, item.data...)
			}
			if len(pending) > 0 {
				select {
				case f.out <- pending:
				default:
					f.log.Warn().Msg("file output queue full, final batch dropped")
				}
			}
			return
		case item := <-f.in:
			if item.control {
				flush()
				emit(item.data)
				continue
			}
			pending = append(pending, item.data...)
			if len(pending) >= FileBatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		}
	}
}

// WriteSession runs the blocking-thread writer half of the file output
// pipeline: it opens path, writes a header line, then drains batches
// until the channel closes, flushing an 8KiB buffered writer on exit.
// startedAt is formatted as the original session-start header.
func WriteSession(path string, startedAt time.Time, batches <-chan []byte) error {
	f, err := openTruncate(path)
	if err != nil {
		return fmt.Errorf("opening output file %q: %w", path, err)
	}
	defer f.Close()

	w := bufio.NewWriterSize(f, fileWriteBufferSize)
	header := fmt.Sprintf("Session started at: %s\n", startedAt.UTC().Format(time.RFC3339))
	if _, err := io.WriteString(w, header); err != nil {
		return fmt.Errorf("writing session header: %w", err)
	}

	ticker := time.NewTicker(FileBatchInterval)
	defer ticker.Stop()

	for {
		select {
		case batch, ok := <-batches:
			if !ok {
				return w.Flush()
			}
			if _, err := w.Write(batch); err != nil {
				return fmt.Errorf("writing session data: %w", err)
			}
			if w.Buffered() >= FileBatchSize {
				if err := w.Flush(); err != nil {
					return fmt.Errorf("flushing session data: %w", err)
				}
			}
		case <-ticker.C:
			if err := w.Flush(); err != nil {
				return fmt.Errorf("flushing session data: %w", err)
			}
		}
	}
}
