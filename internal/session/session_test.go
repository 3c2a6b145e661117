package session

import (
	"testing"
	"time"
)

func TestBroker(t *testing.T) {
	t.Run("delivers to all subscribers", func(t *testing.T) {
		b := NewBroker()
		var got []EventType
		b.Subscribe(func(ev Event) { got = append(got, ev.Type) })
		b.Subscribe(func(ev Event) { got = append(got, ev.Type) })

		b.Publish(Event{Type: SignedIn, Session: Session{UserID: "u1"}})

		if len(got) != 2 {
			t.Fatalf("expected 2 deliveries, got %d", len(got))
		}
		for _, typ := range got {
			if typ != SignedIn {
				t.Errorf("expected %s, got %s", SignedIn, typ)
			}
		}
	})

	t.Run("unsubscribe stops delivery", func(t *testing.T) {
		b := NewBroker()
		calls := 0
		unsubscribe := b.Subscribe(func(Event) { calls++ })

		b.Publish(Event{Type: SignedIn})
		unsubscribe()
		unsubscribe()
		b.Publish(Event{Type: SignedOut})

		if calls != 1 {
			t.Errorf("expected 1 call, got %d", calls)
		}
	})

	t.Run("subscriber may unsubscribe while handling", func(t *testing.T) {
		b := NewBroker()
		var unsubscribe func()
		calls := 0
		unsubscribe = b.Subscribe(func(Event) {
			calls++
			unsubscribe()
		})

		b.Publish(Event{Type: SignedIn})
		b.Publish(Event{Type: SignedIn})

		if calls != 1 {
			t.Errorf("expected 1 call, got %d", calls)
		}
	})
}

func TestSessionExpired(t *testing.T) {
	now := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)

	if (Session{}).Expired(now) {
		t.Error("zero expiry should never expire")
	}
	if !(Session{ExpiresAt: now}).Expired(now) {
		t.Error("session expiring now should be expired")
	}
	if (Session{ExpiresAt: now.Add(time.Minute)}).Expired(now) {
		t.Error("future expiry should not be expired")
	}
}
