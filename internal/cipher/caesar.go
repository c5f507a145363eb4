package cipher

import "strings"

// caesarShift rotates ASCII letters by shift positions, case preserved.
// Any shift is accepted; it is reduced mod 26.
func caesarShift(text string, shift int) string {
	shift = ((shift % 26) + 26) % 26

	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case isUpper(c):
			b.WriteByte('A' + (c-'A'+byte(shift))%26)
		case isLower(c):
			b.WriteByte('a' + (c-'a'+byte(shift))%26)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
