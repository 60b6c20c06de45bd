package events

import (
	"testing"
	"time"
)

func TestPublishDeliversToSubscribers(t *testing.T) {
	bus := NewBus()
	sub := bus.Subscribe()
	defer sub.Close()

	bus.Publish(Event{Table: TableCars, Action: ActionInsert, VendorID: 1, EntityID: 10})

	select {
	case ev := <-sub.C:
		if ev.Table != TableCars || ev.Action != ActionInsert || ev.VendorID != 1 || ev.EntityID != 10 {
			t.Errorf("unexpected event: %+v", ev)
		}
		if ev.At.IsZero() {
			t.Error("At not stamped")
		}
	case <-time.After(time.Second):
		t.Fatal("event never delivered")
	}
}

func TestPublishFansOut(t *testing.T) {
	bus := NewBus()
	a := bus.Subscribe()
	b := bus.Subscribe()
	defer a.Close()
	defer b.Close()

	bus.Publish(Event{Table: TableSales, Action: ActionInsert, VendorID: 2, EntityID: 5})

	for _, sub := range []*Subscription{a, b} {
		select {
		case ev := <-sub.C:
			if ev.EntityID != 5 {
				t.Errorf("unexpected event: %+v", ev)
			}
		case <-time.After(time.Second):
			t.Fatal("subscriber missed event")
		}
	}
}

func TestCloseStopsDelivery(t *testing.T) {
	bus := NewBus()
	sub := bus.Subscribe()
	sub.Close()
	sub.Close() // idempotent

	if _, ok := <-sub.C; ok {
		t.Error("channel not closed")
	}

	// Publishing after close must not panic.
	bus.Publish(Event{Table: TableCars, Action: ActionDelete, VendorID: 1, EntityID: 1})
}

func TestSlowSubscriberDoesNotBlockPublish(t *testing.T) {
	bus := NewBus()
	sub := bus.Subscribe()
	defer sub.Close()

	done := make(chan struct{})
	go func() {
		// Twice the channel capacity; nobody is draining.
		for i := 0; i < 128; i++ {
			bus.Publish(Event{Table: TableCars, Action: ActionUpdate, VendorID: 1, EntityID: int64(i)})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("publish blocked on a slow subscriber")
	}
}
