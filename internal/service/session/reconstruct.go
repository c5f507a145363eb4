package session

import "strings"

// Combine merges pooled plaintexts into the consolidated secret. When every
// contribution is the same string — receivers were each sent a full copy —
// the secret is that string. Otherwise the contributions are chunks of a
// split secret and are concatenated in join order. NUL padding introduced
// by splitting is stripped either way.
func Combine(plaintexts []string) string {
	if len(plaintexts) == 0 {
		return ""
	}

	identical := true
	for _, p := range plaintexts[1:] {
		if p != plaintexts[0] {
			identical = false
			break
		}
	}

	combined := plaintexts[0]
	if !identical {
		combined = strings.Join(plaintexts, "")
	}
	return strings.ReplaceAll(combined, "\x00", "")
}
