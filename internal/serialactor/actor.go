// Package serialactor owns the physical serial port and the two
// blocking-thread tasks that bridge host keyboard input and file output
// into the async event graph. It mirrors the serial_actor module of the
// original sericom-core.
package serialactor

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"go.bug.st/serial"
)

// CommandChanCapacity is the bounded mpsc command channel's capacity.
const CommandChanCapacity = 100

// EventChanCapacity is the bounded broadcast event channel's capacity.
const EventChanCapacity = 128

// readChunkSize is the size of the buffer each port read fills.
const readChunkSize = 4096

// breakDuration is how long SendBreak holds the line low.
const breakDuration = 500 * time.Millisecond

// MessageKind tags the variant carried by a Message sent to the actor.
type MessageKind int

const (
	MessageWrite MessageKind = iota
	MessageSendBreak
	MessageShutdown
)

// Message is a command sent to the Serial Actor.
type Message struct {
	Kind  MessageKind
	Bytes []byte // MessageWrite
}

// EventKind tags the variant carried by an Event broadcast by the actor.
type EventKind int

const (
	EventData EventKind = iota
	EventError
	EventConnectionClosed
)

// Event is a fan-out notification published by the Serial Actor.
type Event struct {
	Kind    EventKind
	Data    []byte // EventData; shared, not copied per subscriber
	Message string // EventError
}

// Broadcaster fans events out to independently-positioned subscribers,
// dropping an event for a subscriber whose channel is full rather than
// blocking the publisher — satisfying the "fire-and-forget, no
// subscriber required" contract.
type Broadcaster struct {
	subs []chan Event
}

// NewBroadcaster returns an empty broadcaster.
func NewBroadcaster() *Broadcaster { return &Broadcaster{} }

// Subscribe returns a new channel that receives every event published
// from this point on.
func (bc *Broadcaster) Subscribe() <-chan Event {
	ch := make(chan Event, EventChanCapacity)
	bc.subs = append(bc.subs, ch)
	return ch
}

// Publish fans out ev. A subscriber whose buffer is full is skipped
// (Lagged) rather than blocking the publisher or the other subscribers.
func (bc *Broadcaster) Publish(ev Event, log zerolog.Logger) {
	for _, ch := range bc.subs {
		select {
		case ch <- ev:
		default:
			log.Warn().Msg("broadcast subscriber lagged, event dropped")
		}
	}
}

// Actor owns the serial port exclusively; all other access happens
// through Commands and the broadcaster.
type Actor struct {
	port     serial.Port
	commands chan Message
	events   *Broadcaster
	log      zerolog.Logger
}

// NewActor opens portName at the given mode and returns an Actor ready
// to Run. The port is owned exclusively by the returned Actor.
func NewActor(portName string, mode *serial.Mode, events *Broadcaster, log zerolog.Logger) (*Actor, error) {
	port, err := serial.Open(portName, mode)
	if err != nil {
		return nil, fmt.Errorf("opening port %q: %w", portName, err)
	}
	return &Actor{
		port:     port,
		commands: make(chan Message, CommandChanCapacity),
		events:   events,
		log:      log,
	}, nil
}

// Commands returns the channel callers send Messages on.
func (a *Actor) Commands() chan<- Message { return a.commands }

// Run drives the actor loop until Shutdown, a zero-byte read, or a read
// error. Reads and command receipt race; whichever completes first is
// handled. The port is closed on exit.
func (a *Actor) Run(ctx context.Context) {
	defer a.port.Close()

	reads := make(chan readResult)
	go a.readLoop(ctx, reads)

	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-a.commands:
			if a.handleMessage(msg) {
				return
			}
		case res := <-reads:
			if a.handleRead(res) {
				return
			}
		}
	}
}

type readResult struct {
	n   int
	err error
	buf []byte
}

// readLoop issues blocking reads on the port and forwards each result,
// one at a time, honoring ctx cancellation between reads.
func (a *Actor) readLoop(ctx context.Context, out chan<- readResult) {
	for {
		buf := make([]byte, readChunkSize)
		n, err := a.port.Read(buf)
		select {
		case out <- readResult{n: n, err: err, buf: buf[:n]}:
		case <-ctx.Done():
			return
		}
		if err != nil || n == 0 {
			return
		}
	}
}

func (a *Actor) handleMessage(msg Message) (exit bool) {
	switch msg.Kind {
	case MessageWrite:
		if _, err := a.port.Write(msg.Bytes); err != nil {
			a.events.Publish(Event{Kind: EventError, Message: err.Error()}, a.log)
		}
		return false
	case MessageSendBreak:
		if err := a.port.Break(breakDuration); err != nil {
			a.events.Publish(Event{Kind: EventError, Message: err.Error()}, a.log)
		}
		return false
	case MessageShutdown:
		a.events.Publish(Event{Kind: EventConnectionClosed}, a.log)
		return true
	}
	return false
}

func (a *Actor) handleRead(res readResult) (exit bool) {
	if res.err != nil {
		a.events.Publish(Event{Kind: EventError, Message: res.err.Error()}, a.log)
		return true
	}
	if res.n == 0 {
		a.events.Publish(Event{Kind: EventConnectionClosed}, a.log)
		return true
	}
	a.events.Publish(Event{Kind: EventData, Data: res.buf}, a.log)
	return false
}
