package bus

import (
	"testing"
	"time"
)

func expectPayload(t *testing.T, sub *Subscription, want any) {
	t.Helper()
	select {
	case got := <-sub.Channel():
		if got.Payload != want {
			t.Errorf("expected payload %v, got %v", want, got.Payload)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatalf("timeout waiting for %v", want)
	}
}

func expectNoMessage(t *testing.T, sub *Subscription) {
	t.Helper()
	select {
	case got := <-sub.Channel():
		t.Fatalf("unexpected message: %v", got.Payload)
	case <-time.After(20 * time.Millisecond):
	}
}

func TestBasicPubSub(t *testing.T) {
	b := NewBus(4)
	conn := b.NewConnection("test")

	sub := conn.Subscribe(T("light", "state"))
	conn.Publish(conn.NewMessage(T("light", "state"), "hello", false))
	expectPayload(t, sub, "hello")
}

func TestNoDeliveryOnDifferentTopic(t *testing.T) {
	b := NewBus(4)
	conn := b.NewConnection("test")

	sub := conn.Subscribe(T("light", "state"))
	conn.Publish(conn.NewMessage(T("input", "rotate"), 1, false))
	expectNoMessage(t, sub)
}

func TestRetainedMessage(t *testing.T) {
	b := NewBus(2)
	conn := b.NewConnection("test")

	conn.Publish(conn.NewMessage(T("config", "lighting"), "persist", true))

	// Late subscriber still sees it.
	sub := conn.Subscribe(T("config", "lighting"))
	expectPayload(t, sub, "persist")
}

func TestRetainedClearedByNilPayload(t *testing.T) {
	b := NewBus(2)
	conn := b.NewConnection("test")

	conn.Publish(conn.NewMessage(T("config", "diag"), "v1", true))
	conn.Publish(conn.NewMessage(T("config", "diag"), nil, true))

	sub := conn.Subscribe(T("config", "diag"))
	expectNoMessage(t, sub)
}

func TestWildcardSingleLevel(t *testing.T) {
	b := NewBus(16)
	c := b.NewConnection("test")

	s1 := c.Subscribe(T("a", "+", "c"))
	s2 := c.Subscribe(T("a", "+", "+"))
	s3 := c.Subscribe(T("a", "b", "+"))
	sNo := c.Subscribe(T("a", "+", "d"))

	c.Publish(c.NewMessage(T("a", "b", "c"), "m1", false))

	expectPayload(t, s1, "m1")
	expectPayload(t, s2, "m1")
	expectPayload(t, s3, "m1")
	expectNoMessage(t, sNo)
}

func TestWildcardMultiLevel(t *testing.T) {
	b := NewBus(16)
	c := b.NewConnection("test")

	s := c.Subscribe(T("light", "#"))

	c.Publish(c.NewMessage(T("light", "state"), "m1", false))
	c.Publish(c.NewMessage(T("light", "control", "set"), "m2", false))
	c.Publish(c.NewMessage(T("input", "rotate"), "m3", false))

	expectPayload(t, s, "m1")
	expectPayload(t, s, "m2")
	expectNoMessage(t, s)
}

func TestRetainedDeliveredThroughWildcard(t *testing.T) {
	b := NewBus(8)
	c := b.NewConnection("test")

	c.Publish(c.NewMessage(T("config", "input"), "i", true))
	c.Publish(c.NewMessage(T("config", "lighting"), "l", true))

	s := c.Subscribe(T("config", "+"))

	got := map[any]bool{}
	for i := 0; i < 2; i++ {
		select {
		case m := <-s.Channel():
			got[m.Payload] = true
		case <-time.After(100 * time.Millisecond):
			t.Fatal("timeout waiting for retained messages")
		}
	}
	if !got["i"] || !got["l"] {
		t.Errorf("missing retained deliveries: %v", got)
	}
}

func TestFullQueueShedsOldest(t *testing.T) {
	b := NewBus(2)
	c := b.NewConnection("test")

	sub := c.Subscribe(T("x"))
	for i := 0; i < 5; i++ {
		c.Publish(c.NewMessage(T("x"), i, false))
	}

	// Queue holds the two most recent messages.
	expectPayload(t, sub, 3)
	expectPayload(t, sub, 4)
	expectNoMessage(t, sub)
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	b := NewBus(4)
	c := b.NewConnection("test")

	sub := c.Subscribe(T("y"))
	sub.Unsubscribe()

	// Channel is closed and the trie path pruned; publish must not panic.
	c.Publish(c.NewMessage(T("y"), "gone", false))

	if _, open := <-sub.Channel(); open {
		t.Error("expected closed channel after unsubscribe")
	}
}

func TestDisconnectClosesAllSubscriptions(t *testing.T) {
	b := NewBus(4)
	c := b.NewConnection("test")

	s1 := c.Subscribe(T("a"))
	s2 := c.Subscribe(T("b"))
	c.Disconnect()

	if _, open := <-s1.Channel(); open {
		t.Error("s1 still open after disconnect")
	}
	if _, open := <-s2.Channel(); open {
		t.Error("s2 still open after disconnect")
	}
}
