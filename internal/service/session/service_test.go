package session_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/nsxzhou/secretshare/backend/internal/model/secret"
	session "github.com/nsxzhou/secretshare/backend/internal/service/session"
)

// recordingNotifier captures broadcast views for assertions.
type recordingNotifier struct {
	mu    sync.Mutex
	views []secret.SessionView
	users [][]string
}

func (n *recordingNotifier) Notify(participants []string, view secret.SessionView) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.users = append(n.users, append([]string(nil), participants...))
	n.views = append(n.views, view)
}

func (n *recordingNotifier) last() (secret.SessionView, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.views) == 0 {
		return secret.SessionView{}, false
	}
	return n.views[len(n.views)-1], true
}

func share(owner, plaintext string, entropy float64) secret.Share {
	return secret.Share{
		Owner:      owner,
		Plaintext:  plaintext,
		Ciphertext: "irrelevant",
		Cipher:     "caesar",
		Entropy:    entropy,
	}
}

func TestJoinCreatesSessionAndBroadcasts(t *testing.T) {
	notifier := &recordingNotifier{}
	svc := session.NewService(notifier)

	view := svc.Join("s1", "Alice")
	if len(view.Participants) != 1 || view.Participants[0] != "alice" {
		t.Fatalf("unexpected participants: %v", view.Participants)
	}

	got, ok := notifier.last()
	if !ok {
		t.Fatal("expected a broadcast after join")
	}
	if got.ID != "s1" {
		t.Fatalf("broadcast for wrong session: %s", got.ID)
	}
}

func TestJoinIsIdempotent(t *testing.T) {
	svc := session.NewService(nil)

	svc.Join("s1", "alice")
	view := svc.Join("s1", "alice")
	if len(view.Participants) != 1 {
		t.Fatalf("duplicate join grew participants: %v", view.Participants)
	}
}

func TestSubmitBeforeJoinFails(t *testing.T) {
	svc := session.NewService(nil)
	svc.Join("s1", "alice")

	if _, err := svc.Submit("s1", "bob", share("bob", "x", 1)); !errors.Is(err, session.ErrNotAMember) {
		t.Fatalf("expected ErrNotAMember, got %v", err)
	}

	view, err := svc.View("s1")
	if err != nil {
		t.Fatalf("View err: %v", err)
	}
	if len(view.Shares) != 0 {
		t.Fatalf("rejected submission mutated pool: %v", view.Shares)
	}
}

func TestSubmitToUnknownSessionFails(t *testing.T) {
	svc := session.NewService(nil)

	if _, err := svc.Submit("missing", "alice", share("alice", "x", 1)); !errors.Is(err, session.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestResubmissionReplacesInsteadOfDuplicating(t *testing.T) {
	svc := session.NewService(nil)
	svc.Join("s1", "alice")

	if _, err := svc.Submit("s1", "alice", share("alice", "first", 1)); err != nil {
		t.Fatalf("Submit err: %v", err)
	}
	view, err := svc.Submit("s1", "alice", share("alice", "second", 2))
	if err != nil {
		t.Fatalf("Submit err: %v", err)
	}

	if len(view.Shares) != 1 {
		t.Fatalf("resubmission duplicated pool entry: %v", view.Shares)
	}
	if view.Shares[0].Plaintext != "second" {
		t.Fatalf("resubmission did not replace: %v", view.Shares[0])
	}
}

func TestPoolNeverExceedsParticipants(t *testing.T) {
	svc := session.NewService(nil)
	users := []string{"alice", "bob", "carol"}
	for _, u := range users {
		svc.Join("s1", u)
	}
	for i := 0; i < 3; i++ {
		for _, u := range users {
			if _, err := svc.Submit("s1", u, share(u, "p", 1)); err != nil {
				t.Fatalf("Submit err: %v", err)
			}
		}
	}

	view, err := svc.View("s1")
	if err != nil {
		t.Fatalf("View err: %v", err)
	}
	if len(view.Shares) > len(view.Participants) {
		t.Fatalf("pool (%d) exceeds participants (%d)", len(view.Shares), len(view.Participants))
	}
}

func TestStrongestShareTieBreaksOnJoinOrder(t *testing.T) {
	svc := session.NewService(nil)
	svc.Join("s1", "a")
	svc.Join("s1", "b")
	svc.Join("s1", "c")

	svc.Submit("s1", "a", share("a", "pa", 2.1))
	svc.Submit("s1", "b", share("b", "pb", 3.4))
	view, err := svc.Submit("s1", "c", share("c", "pc", 3.4))
	if err != nil {
		t.Fatalf("Submit err: %v", err)
	}

	if view.Strongest != "b" {
		t.Fatalf("expected strongest=b (first of tied max), got %s", view.Strongest)
	}
}

func TestReconstructNotReadyReportsDeficit(t *testing.T) {
	svc := session.NewService(nil)
	svc.Declare("s1", 3)
	svc.Join("s1", "alice")
	svc.Submit("s1", "alice", share("alice", "part", 1))

	_, err := svc.Reconstruct("s1")
	var notReady *session.NotReadyError
	if !errors.As(err, &notReady) {
		t.Fatalf("expected NotReadyError, got %v", err)
	}
	if notReady.Missing != 2 {
		t.Fatalf("expected 2 missing, got %d", notReady.Missing)
	}
}

func TestReconstructIsIdempotent(t *testing.T) {
	svc := session.NewService(nil)
	svc.Declare("s1", 2)
	svc.Join("s1", "alice")
	svc.Join("s1", "bob")
	svc.Submit("s1", "alice", share("alice", "meet at dawn", 1))
	svc.Submit("s1", "bob", share("bob", "meet at dawn", 2))

	first, err := svc.Reconstruct("s1")
	if err != nil {
		t.Fatalf("Reconstruct err: %v", err)
	}
	if first != "meet at dawn" {
		t.Fatalf("unexpected secret: %q", first)
	}

	// A later submission changes the pool but must not change the cached
	// secret.
	svc.Submit("s1", "bob", share("bob", "something else", 5))

	second, err := svc.Reconstruct("s1")
	if err != nil {
		t.Fatalf("repeat Reconstruct err: %v", err)
	}
	if second != first {
		t.Fatalf("reconstruction not idempotent: %q vs %q", second, first)
	}
}

func TestReconstructSplitSharesConcatenateInJoinOrder(t *testing.T) {
	svc := session.NewService(nil)
	svc.Declare("s1", 2)
	svc.Join("s1", "alice")
	svc.Join("s1", "bob")
	// Submissions arrive out of join order; the result must still follow
	// join order.
	svc.Submit("s1", "bob", share("bob", " dawn", 2))
	svc.Submit("s1", "alice", share("alice", "meet at", 1))

	got, err := svc.Reconstruct("s1")
	if err != nil {
		t.Fatalf("Reconstruct err: %v", err)
	}
	if got != "meet at dawn" {
		t.Fatalf("unexpected secret: %q", got)
	}
}

func TestReconstructOnUnknownSessionFails(t *testing.T) {
	svc := session.NewService(nil)
	if _, err := svc.Reconstruct("missing"); !errors.Is(err, session.ErrSessionNotFound) {
		t.Fatalf("expected ErrSessionNotFound, got %v", err)
	}
}

func TestDeclareNeverLowersExistingThreshold(t *testing.T) {
	svc := session.NewService(nil)
	svc.Declare("s1", 3)
	svc.Declare("s1", 1)

	svc.Join("s1", "alice")
	svc.Submit("s1", "alice", share("alice", "p", 1))

	if _, err := svc.Reconstruct("s1"); err == nil {
		t.Fatal("expected NotReady with original threshold of 3")
	}
}

func TestConcurrentJoinAndSubmit(t *testing.T) {
	svc := session.NewService(&recordingNotifier{})

	var wg sync.WaitGroup
	users := []string{"u0", "u1", "u2", "u3", "u4", "u5", "u6", "u7"}
	for _, u := range users {
		wg.Add(1)
		go func(u string) {
			defer wg.Done()
			svc.Join("s1", u)
			if _, err := svc.Submit("s1", u, share(u, u+"-part", 1)); err != nil {
				t.Errorf("Submit %s: %v", u, err)
			}
		}(u)
	}
	wg.Wait()

	view, err := svc.View("s1")
	if err != nil {
		t.Fatalf("View err: %v", err)
	}
	if len(view.Participants) != len(users) {
		t.Fatalf("expected %d participants, got %v", len(users), view.Participants)
	}
	if len(view.Shares) != len(users) {
		t.Fatalf("expected %d pooled shares, got %d", len(users), len(view.Shares))
	}
}
