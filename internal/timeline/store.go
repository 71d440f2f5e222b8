package timeline

import (
	"fmt"

	"fortio.org/safecast"
)

// EventID addresses one event inside a Store. IDs are 1-based;
// NoEventID means "no event".
type EventID uint32

const NoEventID EventID = 0

// Event is one node of the containment tree. Parent and Children are
// relational links resolved through the Store, not owning references; the
// Store owns every event by index.
type Event struct {
	Kind     Kind
	Start    int64 // микросекунды, монотонные внутри исходного файла
	Duration int64 // микросекунды, >= 0
	Detail   DetailID
	Parent   EventID
	Children []EventID // упорядочены по возрастанию Start
}

// End returns the end of the event's interval, Start+Duration.
func (e *Event) End() int64 {
	return e.Start + e.Duration
}

// Contains reports whether other's interval lies fully inside e's.
func (e *Event) Contains(other *Event) bool {
	return e.Start <= other.Start && other.End() <= e.End()
}

// Store is the append-only arena holding every event of one analysis run,
// shared across all folded trace files. IDs are stable once assigned and
// never reused. The store also keeps the ordered root list (events with no
// parent), one or more per folded file.
type Store struct {
	events []Event
	roots  []EventID
}

// NewStore creates a Store whose backing storage is preallocated with a
// capacity of capHint; zero is allowed.
func NewStore(capHint uint) *Store {
	return &Store{
		events: make([]Event, 0, capHint),
	}
}

// Append помещает событие в арену и возвращает его ID (1-based).
func (s *Store) Append(ev Event) EventID {
	s.events = append(s.events, ev)
	id, err := safecast.Conv[uint32](len(s.events))
	if err != nil {
		panic(fmt.Errorf("event store overflow: %w", err))
	}
	return EventID(id)
}

// Get returns the event for an id, or nil for NoEventID and ids the store
// never handed out.
func (s *Store) Get(id EventID) *Event {
	if id == NoEventID || int(id) > len(s.events) {
		return nil
	}
	return &s.events[id-1]
}

// AddRoot регистрирует событие верхнего уровня.
func (s *Store) AddRoot(id EventID) {
	s.roots = append(s.roots, id)
}

// Roots returns the ordered root list. READONLY
func (s *Store) Roots() []EventID {
	return s.roots
}

// Events returns the backing slice in id order (events[id-1]). READONLY
func (s *Store) Events() []Event {
	return s.events
}

// Len returns the number of events in the store.
func (s *Store) Len() int {
	return len(s.events)
}
