// internal/events/bus.go
package events

import (
	"sync"
	"time"
)

// Action describes the kind of change.
type Action string

const (
	ActionInsert Action = "insert"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Tables that emit change events.
const (
	TableCars  = "cars"
	TableSales = "sales"
)

// Event is a single vendor-scoped change notification.
type Event struct {
	Table    string    `json:"table"`
	Action   Action    `json:"action"`
	VendorID int64     `json:"vendor_id"`
	EntityID int64     `json:"entity_id"`
	At       time.Time `json:"at"`
}

// Subscription is a lazy stream of change events. Consumers range over C
// and call Close when done; a closed subscription can be replaced by
// calling Subscribe again, and consumers are expected to re-read current
// state after (re)subscribing, so missed events are harmless.
type Subscription struct {
	C chan Event

	bus  *Bus
	once sync.Once
}

// Close detaches the subscription from the bus.
func (s *Subscription) Close() {
	s.once.Do(func() {
		s.bus.unsubscribe(s)
	})
}

// Bus is an in-process fan-out of change events.
type Bus struct {
	mu   sync.RWMutex
	subs map[*Subscription]struct{}
}

func NewBus() *Bus {
	return &Bus{subs: make(map[*Subscription]struct{})}
}

// Subscribe registers a new listener for all events. Filtering by vendor
// is the consumer's job.
func (b *Bus) Subscribe() *Subscription {
	sub := &Subscription{
		C:   make(chan Event, 64),
		bus: b,
	}
	b.mu.Lock()
	b.subs[sub] = struct{}{}
	b.mu.Unlock()
	return sub
}

// Publish delivers an event to every subscriber. Slow subscribers lose
// events rather than block publishers; re-aggregation on receipt makes
// that safe.
func (b *Bus) Publish(ev Event) {
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	for sub := range b.subs {
		select {
		case sub.C <- ev:
		default:
		}
	}
}

func (b *Bus) unsubscribe(sub *Subscription) {
	b.mu.Lock()
	delete(b.subs, sub)
	b.mu.Unlock()
	close(sub.C)
}
