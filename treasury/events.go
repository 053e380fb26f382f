package treasury

import "sync"

// Event types emitted by the engine.
const (
	EventClaim = "claim"
)

// Event is a fire-and-forget record of a settled claim. The engine
// never reads events back; the sink is a side channel only.
type Event struct {
	Type      string
	Creator   string
	Recipient string
	Amount    uint64
	Time      uint64
}

// Sink receives events. Implementations must not block the caller.
type Sink interface {
	Emit(Event)
}

// NopSink discards all events. It is the default sink.
type NopSink struct{}

// Emit discards the event.
func (NopSink) Emit(Event) {}

// MemorySink collects events for inspection in tests.
type MemorySink struct {
	mu     sync.Mutex
	events []Event
}

// Compile-time interface checks.
var (
	_ Sink = NopSink{}
	_ Sink = (*MemorySink)(nil)
)

// Emit appends the event.
func (s *MemorySink) Emit(e Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
}

// Events returns a copy of everything emitted so far.
func (s *MemorySink) Events() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Event(nil), s.events...)
}
