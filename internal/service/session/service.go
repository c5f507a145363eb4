package session

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/nsxzhou/secretshare/backend/internal/model/secret"
)

var (
	ErrSessionNotFound = errors.New("session not found")
	ErrNotAMember      = errors.New("participant has not joined the session")
)

// NotReadyError reports how many shares a reconstruction attempt is short.
type NotReadyError struct {
	Missing int
}

func (e *NotReadyError) Error() string {
	return fmt.Sprintf("session not ready: need %d more shares", e.Missing)
}

// Notifier pushes a fresh session view to the named participants. The hub
// satisfies this; the indirection keeps the coordinator transport-free.
type Notifier interface {
	Notify(participants []string, view secret.SessionView)
}

// session is one reconstruction session. All mutations hold mu, and the
// updated view is handed to the notifier before mu is released so no
// participant can observe states out of order.
type session struct {
	mu           sync.Mutex
	id           string
	participants []string // join order
	pool         map[string]secret.Share
	threshold    int // 0 until a sender declares one
	secret       string
	hasSecret    bool
	lastActive   time.Time
}

// Service owns every live session: creation, lookup, expiry, and the
// coordination protocol itself.
type Service struct {
	mu       sync.RWMutex
	sessions map[string]*session
	notifier Notifier
}

func NewService(notifier Notifier) *Service {
	return &Service{
		sessions: make(map[string]*session),
		notifier: notifier,
	}
}

// getOrCreate returns the session for id, creating it on first reference.
// Concurrent callers converge on a single instance.
func (s *Service) getOrCreate(id string) *session {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if ok {
		return sess
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if sess, ok := s.sessions[id]; ok {
		return sess
	}
	sess = &session{
		id:         id,
		pool:       make(map[string]secret.Share),
		lastActive: time.Now(),
	}
	s.sessions[id] = sess
	log.Printf("[session] created session %s", id)
	return sess
}

func (s *Service) get(id string) (*session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// Declare registers a session with a contribution threshold, as the sender
// does at encryption time. A threshold set once is never changed; a session
// created implicitly by an early join is promoted to the declared threshold.
func (s *Service) Declare(id string, threshold int) {
	if threshold < 1 {
		return
	}
	sess := s.getOrCreate(id)

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.touch()
	if sess.threshold == 0 {
		sess.threshold = threshold
	}
}

// StartJanitor expires sessions that have seen no join, submission, or
// reconstruction for longer than ttl. It returns once ctx is canceled.
func (s *Service) StartJanitor(ctx context.Context, ttl, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.sweep(ttl)
			}
		}
	}()
}

func (s *Service) sweep(ttl time.Duration) {
	cutoff := time.Now().Add(-ttl)

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, sess := range s.sessions {
		sess.mu.Lock()
		idle := sess.lastActive.Before(cutoff)
		sess.mu.Unlock()
		if idle {
			delete(s.sessions, id)
			log.Printf("[session] expired idle session %s", id)
		}
	}
}

func (sess *session) touch() {
	sess.lastActive = time.Now()
}

func normalize(user string) string {
	return strings.ToLower(strings.TrimSpace(user))
}
