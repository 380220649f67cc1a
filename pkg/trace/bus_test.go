package trace

import "testing"

func TestPublishFiltersByDirectory(t *testing.T) {
	bus := New()

	all := bus.Subscribe("")
	defer all.Unsubscribe()
	only := bus.Subscribe("/a")
	defer only.Unsubscribe()

	bus.Publish("/a", nil, "from a")
	bus.Publish("/b", nil, "from b")

	select {
	case msg := <-all.Messages:
		if msg.Text != "from a" {
			t.Errorf("unexpected first message for all-subscriber: %q", msg.Text)
		}
	default:
		t.Fatal("expected all-subscriber to receive the /a message")
	}
	select {
	case msg := <-all.Messages:
		if msg.Text != "from b" {
			t.Errorf("unexpected second message for all-subscriber: %q", msg.Text)
		}
	default:
		t.Fatal("expected all-subscriber to receive the /b message")
	}

	select {
	case msg := <-only.Messages:
		if msg.Text != "from a" {
			t.Errorf("unexpected message for /a-subscriber: %q", msg.Text)
		}
	default:
		t.Fatal("expected /a-subscriber to receive the /a message")
	}
	select {
	case msg := <-only.Messages:
		t.Fatalf("expected /a-subscriber to not receive the /b message, got %q", msg.Text)
	default:
	}
}

func TestPublishEndOfStreamSentinel(t *testing.T) {
	bus := New()
	sub := bus.Subscribe("/a")
	defer sub.Unsubscribe()

	bus.Publish("/a", nil, "")

	msg := <-sub.Messages
	if msg.ActionName != nil {
		t.Error("expected a nil action name for the end-of-stream sentinel")
	}
}

func TestPublishDropsOldestOnOverflow(t *testing.T) {
	bus := New()
	sub := bus.Subscribe("/a")
	defer sub.Unsubscribe()

	for i := 0; i < subscriberCapacity+5; i++ {
		bus.Publish("/a", nil, "msg")
	}

	if len(sub.Messages) != subscriberCapacity {
		t.Fatalf("expected the subscriber's buffer to stay at capacity %d, got %d", subscriberCapacity, len(sub.Messages))
	}
}

func TestUnsubscribeStopsDelivery(t *testing.T) {
	bus := New()
	sub := bus.Subscribe("")
	sub.Unsubscribe()

	// Publishing after Unsubscribe must not panic or block.
	bus.Publish("/a", nil, "after unsubscribe")

	if _, ok := <-sub.Messages; ok {
		t.Fatal("expected the subscriber's channel to be closed and drained")
	}
}
