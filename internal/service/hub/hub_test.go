package hub

import (
	"testing"
)

func TestRegisterRejectsDuplicateIdentity(t *testing.T) {
	h := New()

	if _, err := h.Register("Alice"); err != nil {
		t.Fatalf("Register err: %v", err)
	}
	// Identities are case-insensitive.
	if _, err := h.Register("alice"); err != ErrDuplicateUser {
		t.Fatalf("expected ErrDuplicateUser, got %v", err)
	}

	h.Unregister("ALICE")
	if _, err := h.Register("alice"); err != nil {
		t.Fatalf("re-register after unregister failed: %v", err)
	}
}

func TestUnicastDeliversInOrder(t *testing.T) {
	h := New()
	client, err := h.Register("alice")
	if err != nil {
		t.Fatalf("Register err: %v", err)
	}

	h.Unicast("alice", NewEnvelope("share", "s1", "first"))
	h.Unicast("alice", NewEnvelope("session_update", "s1", "second"))

	if env := <-client.Outbound(); env.Data != "first" {
		t.Fatalf("expected first message, got %v", env.Data)
	}
	if env := <-client.Outbound(); env.Data != "second" {
		t.Fatalf("expected second message, got %v", env.Data)
	}
}

func TestUnicastQueuesForOfflineUser(t *testing.T) {
	h := New()

	h.Unicast("bob", NewEnvelope("share", "s1", "early"))
	h.Unicast("bob", NewEnvelope("share", "s1", "later"))

	client, err := h.Register("bob")
	if err != nil {
		t.Fatalf("Register err: %v", err)
	}

	// Queued envelopes arrive first and in their original order.
	if env := <-client.Outbound(); env.Data != "early" {
		t.Fatalf("expected queued message first, got %v", env.Data)
	}
	if env := <-client.Outbound(); env.Data != "later" {
		t.Fatalf("expected second queued message, got %v", env.Data)
	}

	// The backlog is consumed, not replayed.
	h.Unregister("bob")
	again, err := h.Register("bob")
	if err != nil {
		t.Fatalf("Register err: %v", err)
	}
	select {
	case env := <-again.Outbound():
		t.Fatalf("unexpected replayed message: %v", env)
	default:
	}
}

func TestBroadcastSkipsDisconnected(t *testing.T) {
	h := New()
	alice, _ := h.Register("alice")

	h.Broadcast([]string{"alice", "bob"}, NewEnvelope("session_update", "s1", "view"))

	if env := <-alice.Outbound(); env.Type != "session_update" {
		t.Fatalf("unexpected envelope: %v", env)
	}

	// bob was never registered; the broadcast must not have queued for him.
	bob, _ := h.Register("bob")
	select {
	case env := <-bob.Outbound():
		t.Fatalf("broadcast should not queue for offline users, got %v", env)
	default:
	}
}

func TestUnregisterClosesOutbound(t *testing.T) {
	h := New()
	client, _ := h.Register("alice")
	h.Unregister("alice")

	if _, ok := <-client.Outbound(); ok {
		t.Fatal("expected closed outbound channel")
	}

	// Unregistering an unknown user is a no-op.
	h.Unregister("nobody")
}

func TestActiveListsSortedIdentities(t *testing.T) {
	h := New()
	h.Register("Carol")
	h.Register("alice")
	h.Register("BOB")

	got := h.Active()
	want := []string{"alice", "bob", "carol"}
	if len(got) != len(want) {
		t.Fatalf("unexpected active list: %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("unexpected active list: %v", got)
		}
	}
}

func TestFullQueueDropsInsteadOfBlocking(t *testing.T) {
	h := New()
	client, _ := h.Register("alice")

	for i := 0; i < sendBuffer+10; i++ {
		h.Unicast("alice", NewEnvelope("share", "s1", i))
	}

	// The queue holds at most its buffer; the overflow was dropped and the
	// sender never blocked.
	if len(client.Outbound()) != sendBuffer {
		t.Fatalf("expected %d buffered messages, got %d", sendBuffer, len(client.Outbound()))
	}
}
