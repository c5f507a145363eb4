package session

import (
	"testing"
	"time"
)

func TestCombineIdenticalCopies(t *testing.T) {
	if got := Combine([]string{"meet at dawn", "meet at dawn"}); got != "meet at dawn" {
		t.Fatalf("identical copies should collapse, got %q", got)
	}
}

func TestCombineDistinctChunks(t *testing.T) {
	if got := Combine([]string{"meet", " at", " dawn"}); got != "meet at dawn" {
		t.Fatalf("chunks should concatenate in order, got %q", got)
	}
}

func TestCombineStripsNulPadding(t *testing.T) {
	if got := Combine([]string{"mee", "t a", "t d", "awn\x00\x00"}); got != "meet at dawn" {
		t.Fatalf("NUL padding should be stripped, got %q", got)
	}
}

func TestCombineEmpty(t *testing.T) {
	if got := Combine(nil); got != "" {
		t.Fatalf("expected empty secret, got %q", got)
	}
	if got := Combine([]string{""}); got != "" {
		t.Fatalf("expected empty secret, got %q", got)
	}
}

func TestSweepRemovesOnlyIdleSessions(t *testing.T) {
	svc := NewService(nil)
	svc.Join("stale", "alice")
	svc.Join("fresh", "bob")

	// Age the stale session past the cutoff by hand.
	svc.mu.Lock()
	svc.sessions["stale"].lastActive = time.Now().Add(-2 * time.Hour)
	svc.mu.Unlock()

	svc.sweep(time.Hour)

	if _, err := svc.View("stale"); err == nil {
		t.Fatal("stale session should have been expired")
	}
	if _, err := svc.View("fresh"); err != nil {
		t.Fatalf("fresh session should have survived: %v", err)
	}
}
