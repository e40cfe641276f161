package session

import (
	"fmt"
	"sync"
	"time"
)

// EventKind classifies a session event.
type EventKind int

const (
	// EventHit is a successful hit; EntityID is the target.
	EventHit EventKind = iota
	// EventDeath is an entity's death transition.
	EventDeath
	// EventEquipmentChanged follows every successful equip, unequip or purchase.
	EventEquipmentChanged
	// EventLoot is loot granted to the player; EntityID is the killed enemy.
	EventLoot
	// EventSpawn is a new enemy entering the session.
	EventSpawn
)

// String returns a human-readable event kind label.
func (k EventKind) String() string {
	switch k {
	case EventHit:
		return "hit"
	case EventDeath:
		return "death"
	case EventEquipmentChanged:
		return "equipment_changed"
	case EventLoot:
		return "loot"
	case EventSpawn:
		return "spawn"
	default:
		return "unknown"
	}
}

// Event is a notification for the presentation layer.
type Event struct {
	Kind EventKind
	// At is the session's virtual time when the event happened.
	At       time.Duration
	EntityID string
	// SourceID is the attacker for EventHit.
	SourceID string
	Amount   float64
	Crit     bool
	// Equipped is the number of occupied equip slots for EventEquipmentChanged.
	Equipped int
	Items    []string
}

// EventSink routes session events to a buffered channel read by the
// presentation layer.
type EventSink struct {
	id     string
	events chan Event
	mu     sync.Mutex
	closed bool
}

// NewEventSink creates an EventSink for session id.
//
// Postcondition: Returns an EventSink with an open events channel; bufferSize <= 0 uses 64.
func NewEventSink(id string, bufferSize int) *EventSink {
	if bufferSize <= 0 {
		bufferSize = 64
	}
	return &EventSink{
		id:     id,
		events: make(chan Event, bufferSize),
	}
}

// Push enqueues ev without blocking.
//
// Postcondition: ev is enqueued, or an error if the sink is closed or full.
func (s *EventSink) Push(ev Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return fmt.Errorf("session %s: event sink is closed", s.id)
	}
	select {
	case s.events <- ev:
		return nil
	default:
		return fmt.Errorf("session %s: event buffer full", s.id)
	}
}

// Events returns the read-only events channel.
func (s *EventSink) Events() <-chan Event {
	return s.events
}

// Close marks the sink as closed and closes the events channel.
//
// Postcondition: The events channel is closed. Further Push calls return an error.
func (s *EventSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.closed {
		s.closed = true
		close(s.events)
	}
	return nil
}

// IsClosed reports whether the sink has been closed.
func (s *EventSink) IsClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
