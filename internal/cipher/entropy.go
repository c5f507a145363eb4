package cipher

import (
	"math"
	"strings"
)

// Entropy computes Shannon entropy over the rune frequency of text, rounded
// to 4 decimal places. NUL padding bytes are ignored. Used only for relative
// ranking of shares, never as a security measure.
func Entropy(text string) float64 {
	text = strings.ReplaceAll(text, "\x00", "")
	if text == "" {
		return 0
	}

	freq := make(map[rune]int)
	total := 0
	for _, r := range text {
		freq[r]++
		total++
	}

	entropy := 0.0
	for _, count := range freq {
		p := float64(count) / float64(total)
		entropy -= p * math.Log2(p)
	}
	return math.Round(entropy*10000) / 10000
}
