package session

import (
	"github.com/nsxzhou/secretshare/backend/internal/model/secret"
)

// Join adds a participant to a session, creating the session on first
// reference. Joining twice is a no-op. Every current member, including the
// joiner, receives the updated session view.
func (s *Service) Join(sessionID, user string) secret.SessionView {
	user = normalize(user)
	sess := s.getOrCreate(sessionID)

	sess.mu.Lock()
	defer sess.mu.Unlock()
	sess.touch()

	if !sess.isMember(user) {
		sess.participants = append(sess.participants, user)
	}

	view := sess.view()
	s.notify(sess.participants, view)
	return view
}

// Submit pools a participant's share. The participant must have joined
// first; a resubmission replaces the prior entry instead of duplicating it.
// On success every member receives the updated view, with the strongest
// pooled share recomputed.
func (s *Service) Submit(sessionID, user string, share secret.Share) (secret.SessionView, error) {
	user = normalize(user)
	sess, err := s.get(sessionID)
	if err != nil {
		return secret.SessionView{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if !sess.isMember(user) {
		return secret.SessionView{}, ErrNotAMember
	}
	sess.touch()

	share.Owner = user
	sess.pool[user] = share

	view := sess.view()
	s.notify(sess.participants, view)
	return view, nil
}

// Reconstruct combines the pooled plaintexts once the session has reached
// its threshold. The result is cached: repeated calls return the same
// secret even if the pool changed in between. The first successful call is
// broadcast so every viewer converges without polling.
func (s *Service) Reconstruct(sessionID string) (string, error) {
	sess, err := s.get(sessionID)
	if err != nil {
		return "", err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()

	if sess.hasSecret {
		sess.touch()
		return sess.secret, nil
	}

	required := sess.required()
	if len(sess.pool) < required {
		return "", &NotReadyError{Missing: required - len(sess.pool)}
	}
	sess.touch()

	plaintexts := make([]string, 0, len(sess.pool))
	for _, user := range sess.participants {
		if share, ok := sess.pool[user]; ok {
			plaintexts = append(plaintexts, share.Plaintext)
		}
	}

	sess.secret = Combine(plaintexts)
	sess.hasSecret = true

	s.notify(sess.participants, sess.view())
	return sess.secret, nil
}

// View returns a read-only snapshot of the session.
func (s *Service) View(sessionID string) (secret.SessionView, error) {
	sess, err := s.get(sessionID)
	if err != nil {
		return secret.SessionView{}, err
	}

	sess.mu.Lock()
	defer sess.mu.Unlock()
	return sess.view(), nil
}

func (s *Service) notify(participants []string, view secret.SessionView) {
	if s.notifier == nil {
		return
	}
	s.notifier.Notify(participants, view)
}

// required is the contribution count that gates reconstruction. A session
// never declared by a sender falls back to "everyone who joined", with a
// floor of one so an empty session can never reconstruct.
func (sess *session) required() int {
	if sess.threshold > 0 {
		return sess.threshold
	}
	if len(sess.participants) > 0 {
		return len(sess.participants)
	}
	return 1
}

func (sess *session) isMember(user string) bool {
	for _, p := range sess.participants {
		if p == user {
			return true
		}
	}
	return false
}

// view snapshots the session. Shares are listed in the owners' join order,
// which also fixes the strongest-share tie-break: the earliest joiner among
// the maximal entropies wins.
func (sess *session) view() secret.SessionView {
	view := secret.SessionView{
		ID:            sess.id,
		Participants:  append([]string(nil), sess.participants...),
		Shares:        make([]secret.Share, 0, len(sess.pool)),
		TotalExpected: sess.required(),
	}

	strongest := ""
	best := -1.0
	for _, user := range sess.participants {
		share, ok := sess.pool[user]
		if !ok {
			continue
		}
		view.Shares = append(view.Shares, share)
		if share.Entropy > best {
			best = share.Entropy
			strongest = user
		}
	}
	view.Strongest = strongest

	if sess.hasSecret {
		view.Reconstructed = sess.secret
	}
	return view
}
