package trace

import (
	"log/slog"
	"sync"
	"time"
)

// Kind labels the category of a simulation event
type Kind string

const (
	KindSession Kind = "session"
	KindGate    Kind = "gate"
	KindMeasure Kind = "measure"
	KindCircuit Kind = "circuit"
	KindEdge    Kind = "edge"
	KindRelease Kind = "release"
)

// Event is one observable simulation step
type Event struct {
	Seq       uint64    `json:"seq"`
	Kind      Kind      `json:"kind"`
	SessionID string    `json:"session_id,omitempty"`
	Detail    string    `json:"detail"`
	At        time.Time `json:"at"`
}

// Bus fans simulation events out to subscribers and keeps a bounded
// buffer of recent history for late joiners
type Bus struct {
	logger *slog.Logger

	mu     sync.Mutex
	seq    uint64
	recent []Event
	limit  int
	subs   map[int]chan Event
	nextID int
}

// NewBus creates an event bus that remembers the last limit events
func NewBus(limit int, logger *slog.Logger) *Bus {
	if limit < 1 {
		limit = 64
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Bus{
		logger: logger,
		limit:  limit,
		subs:   make(map[int]chan Event),
	}
}

// Publish stamps one event and hands it to every subscriber
func (b *Bus) Publish(kind Kind, sessionID, detail string) Event {
	b.mu.Lock()

	b.seq++
	event := Event{
		Seq:       b.seq,
		Kind:      kind,
		SessionID: sessionID,
		Detail:    detail,
		At:        time.Now(),
	}

	b.recent = append(b.recent, event)
	if len(b.recent) > b.limit {
		b.recent = b.recent[len(b.recent)-b.limit:]
	}

	for _, ch := range b.subs {
		// A slow subscriber loses events rather than stalling the bus.
		select {
		case ch <- event:
		default:
		}
	}

	b.mu.Unlock()

	b.logger.Debug("simulation event",
		"seq", event.Seq,
		"kind", string(kind),
		"session_id", sessionID,
		"detail", detail)

	return event
}

// Recent returns a copy of the buffered event history, oldest first
func (b *Bus) Recent() []Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	events := make([]Event, len(b.recent))
	copy(events, b.recent)

	return events
}

// Subscribe registers a listener. The returned cancel function releases
// the subscription and closes the channel.
func (b *Bus) Subscribe() (<-chan Event, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++

	ch := make(chan Event, 16)
	b.subs[id] = ch

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		if sub, ok := b.subs[id]; ok {
			delete(b.subs, id)
			close(sub)
		}
	}

	return ch, cancel
}

// SubscriberCount reports how many listeners are attached
func (b *Bus) SubscriberCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.subs)
}
