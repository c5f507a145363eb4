package secret

// SessionView is the read-only snapshot of a reconstruction session that is
// broadcast to participants and served over HTTP. Shares are ordered by the
// owner's join order.
type SessionView struct {
	ID            string   `json:"session_id"`
	Participants  []string `json:"participants"`
	Shares        []Share  `json:"shares"`
	TotalExpected int      `json:"total_expected"`
	Strongest     string   `json:"strongest,omitempty"`
	Reconstructed string   `json:"reconstructed,omitempty"`
}
