package ascii

import "testing"

// reassemble concatenates every byte carried by the events back into a
// single slice, using the Control byte for EventControl entries.
func reassemble(events []Event) []byte {
	var out []byte
	for _, e := range events {
		switch e.Kind {
		case EventText, EventEscape:
			out = append(out, e.Bytes...)
		case EventControl:
			out = append(out, e.Byte)
		}
	}
	return out
}

func TestParserRoundTripsASCIIBytes(t *testing.T) {
	input := []byte("hello\x1b[31mworld\r\n\x1b[0m")
	p := NewParser()
	events := p.Feed(input)
	got := reassemble(events)
	if string(got) != string(input) {
		t.Fatalf("round trip mismatch: got %q want %q", got, input)
	}
}

func TestParserSplitsTextControlEscape(t *testing.T) {
	p := NewParser()
	events := p.Feed([]byte("ab\x07cd\x1b[2J"))
	if len(events) != 4 {
		t.Fatalf("expected 4 events, got %d: %+v", len(events), events)
	}
	if events[0].Kind != EventText || string(events[0].Bytes) != "ab" {
		t.Fatalf("event 0 = %+v", events[0])
	}
	if events[1].Kind != EventControl || events[1].Byte != 0x07 {
		t.Fatalf("event 1 = %+v", events[1])
	}
	if events[2].Kind != EventText || string(events[2].Bytes) != "cd" {
		t.Fatalf("event 2 = %+v", events[2])
	}
	if events[3].Kind != EventEscape || string(events[3].Bytes) != "\x1b[2J" {
		t.Fatalf("event 3 = %+v", events[3])
	}
}

func TestParserSurvivesChunkBoundaries(t *testing.T) {
	p := NewParser()
	var events []Event
	for _, chunk := range [][]byte{
		[]byte("he"),
		[]byte("llo\x1b"),
		[]byte("[3"),
		[]byte("1mworld"),
	} {
		events = append(events, p.Feed(chunk)...)
	}
	got := reassemble(events)
	want := "hello\x1b[31mworld"
	if string(got) != want {
		t.Fatalf("chunked round trip = %q want %q", got, want)
	}
	var escapes []string
	for _, e := range events {
		if e.Kind == EventEscape {
			escapes = append(escapes, string(e.Bytes))
		}
	}
	if len(escapes) != 1 || escapes[0] != "\x1b[31m" {
		t.Fatalf("expected single reassembled escape, got %v", escapes)
	}
}

func TestParserDropsNonASCIIBytes(t *testing.T) {
	p := NewParser()
	events := p.Feed([]byte{'a', 0xC3, 0xA9, 'b'})
	got := reassemble(events)
	if string(got) != "ab" {
		t.Fatalf("expected non-ASCII bytes dropped, got %q", got)
	}
}

func TestParserNonCsiEscapeIsTwoBytes(t *testing.T) {
	p := NewParser()
	events := p.Feed([]byte("\x1bM"))
	if len(events) != 1 || events[0].Kind != EventEscape || string(events[0].Bytes) != "\x1bM" {
		t.Fatalf("expected single two-byte escape, got %+v", events)
	}
}
