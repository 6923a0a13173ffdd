package serialactor

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestFileForwarderFlushesOnSizeThreshold(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	f := NewFileForwarder(ctx, zerolog.Nop())
	big := bytes.Repeat([]byte("a"), FileBatchSize+1)
	f.Forward(big)

	select {
	case batch := <-f.Batches():
		if len(batch) != len(big) {
			t.Fatalf("batch len = %d, want %d", len(batch), len(big))
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for size-triggered flush")
	}
}

func TestFileForwarderFlushesOnInterval(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	f := NewFileForwarder(ctx, zerolog.Nop())
	f.Forward([]byte("small"))

	select {
	case batch := <-f.Batches():
		if string(batch) != "small" {
			t.Fatalf("batch = %q", batch)
		}
	case <-time.After(2 * FileBatchInterval):
		t.Fatal("timed out waiting for interval-triggered flush")
	}
}

func TestFileForwarderFlushesPendingOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	f := NewFileForwarder(ctx, zerolog.Nop())
	f.Forward([]byte("tail"))
	cancel()

	select {
	case batch, ok := <-f.Batches():
		if !ok {
			t.Fatal("channel closed before flushing pending data")
		}
		if string(batch) != "tail" {
			t.Fatalf("batch = %q", batch)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for cancel-triggered flush")
	}
}

func TestFileForwarderForwardErrorFlushesPendingFirst(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	f := NewFileForwarder(ctx, zerolog.Nop())
	f.Forward([]byte("pending"))
	f.ForwardError("port disconnected")

	var got []string
	for i := 0; i < 2; i++ {
		select {
		case batch := <-f.Batches():
			got = append(got, string(batch))
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for batch %d", i)
		}
	}
	if got[0] != "pending" {
		t.Fatalf("first batch = %q, want pending data flushed before the error line", got[0])
	}
	if got[1] != "[ERROR port disconnected]\n" {
		t.Fatalf("second batch = %q", got[1])
	}
}

func TestFileForwarderForwardClosedEmitsFormattedLine(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	f := NewFileForwarder(ctx, zerolog.Nop())
	f.ForwardClosed("connection closed")

	select {
	case batch := <-f.Batches():
		if string(batch) != "[CLOSED connection closed]\n" {
			t.Fatalf("batch = %q", batch)
		}
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for closed line")
	}
}

func TestWriteSessionFlushesPeriodicallyWhileIdle(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "session.log")

	batches := make(chan []byte, 1)
	batches <- []byte("idle data")

	done := make(chan error, 1)
	go func() {
		done <- WriteSession(path, time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), batches)
	}()

	// give the writer's interval ticker time to flush the buffered
	// write even though the channel stays open with nothing further
	// queued.
	time.Sleep(3 * FileBatchInterval)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if !bytes.Contains(data, []byte("idle data")) {
		t.Fatalf("expected idle data to be flushed to disk, got %q", data)
	}

	close(batches)
	if err := <-done; err != nil {
		t.Fatalf("WriteSession: %v", err)
	}
}

func TestWriteSessionWritesHeaderAndBatches(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "session.log")

	batches := make(chan []byte, 2)
	batches <- []byte("hello ")
	batches <- []byte("world")
	close(batches)

	started := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	if err := WriteSession(path, started, batches); err != nil {
		t.Fatalf("WriteSession: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	want := "Session started at: 2026-01-02T03:04:05Z\nhello world"
	if string(data) != want {
		t.Fatalf("content = %q, want %q", data, want)
	}
}
