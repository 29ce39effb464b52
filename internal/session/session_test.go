package session

import (
	"testing"
	"time"
)

type fakeClock struct {
	at time.Time
}

func (c *fakeClock) Now() time.Time { return c.at }

func (c *fakeClock) Advance(d time.Duration) { c.at = c.at.Add(d) }

func TestSessionExpiry(t *testing.T) {
	clock := &fakeClock{at: time.Date(2025, time.March, 14, 10, 0, 0, 0, time.UTC)}
	store := NewStore(30*time.Minute, clock.Now)

	sess := store.Create("admin@example.com", "admin")
	if sess.ID == "" {
		t.Fatalf("expected session id")
	}

	if _, ok := store.Get(sess.ID); !ok {
		t.Fatalf("expected live session")
	}

	clock.Advance(29 * time.Minute)
	if _, ok := store.Get(sess.ID); !ok {
		t.Fatalf("session expired early")
	}

	clock.Advance(time.Minute)
	if _, ok := store.Get(sess.ID); ok {
		t.Fatalf("expected session to expire at TTL")
	}
	if store.Len() != 0 {
		t.Fatalf("expected eviction, got %d sessions", store.Len())
	}
}

func TestRevokeNotifiesWatchers(t *testing.T) {
	clock := &fakeClock{at: time.Date(2025, time.March, 14, 10, 0, 0, 0, time.UTC)}
	store := NewStore(time.Hour, clock.Now)
	events := store.Watch()

	sess := store.Create("admin@example.com", "admin")
	if ev := <-events; ev.Type != EventCreated || ev.Session.ID != sess.ID {
		t.Fatalf("expected created event, got %+v", ev)
	}

	if !store.Revoke(sess.ID) {
		t.Fatalf("expected revoke to succeed")
	}
	if ev := <-events; ev.Type != EventRevoked || ev.Session.ID != sess.ID {
		t.Fatalf("expected revoked event, got %+v", ev)
	}

	if store.Revoke(sess.ID) {
		t.Fatalf("second revoke must fail")
	}
}

func TestSweepEmitsExpiredEvents(t *testing.T) {
	clock := &fakeClock{at: time.Date(2025, time.March, 14, 10, 0, 0, 0, time.UTC)}
	store := NewStore(10*time.Minute, clock.Now)

	stale := store.Create("old@example.com", "admin")
	events := store.Watch()

	clock.Advance(11 * time.Minute)
	fresh := store.Create("new@example.com", "admin")

	var sawExpired, sawCreated bool
	for i := 0; i < 2; i++ {
		ev := <-events
		switch ev.Type {
		case EventExpired:
			sawExpired = ev.Session.ID == stale.ID
		case EventCreated:
			sawCreated = ev.Session.ID == fresh.ID
		}
	}
	if !sawExpired || !sawCreated {
		t.Fatalf("expected expired+created events, got expired=%v created=%v", sawExpired, sawCreated)
	}
}
