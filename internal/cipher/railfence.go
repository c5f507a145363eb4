package cipher

import (
	"fmt"
	"strings"
)

// railFencePattern returns the rail index visited at each position of a
// zigzag across the given number of rails.
func railFencePattern(length, rails int) []int {
	pattern := make([]int, length)
	row := 0
	down := false
	for i := 0; i < length; i++ {
		if row == 0 || row == rails-1 {
			down = !down
		}
		pattern[i] = row
		if down {
			row++
		} else {
			row--
		}
	}
	return pattern
}

// railFenceEncipher writes the text along a zigzag and reads it off by rail.
// Spaces are removed first; everything else is fenced verbatim.
func railFenceEncipher(text string, rails int) (string, error) {
	if rails < 2 {
		return "", fmt.Errorf("%w: rail fence needs at least 2 rails", ErrInvalidKey)
	}
	text = strings.ReplaceAll(text, " ", "")

	pattern := railFencePattern(len(text), rails)
	var out strings.Builder
	out.Grow(len(text))
	for rail := 0; rail < rails; rail++ {
		for i := 0; i < len(text); i++ {
			if pattern[i] == rail {
				out.WriteByte(text[i])
			}
		}
	}
	return out.String(), nil
}

func railFenceDecipher(text string, rails int) (string, error) {
	if rails < 2 {
		return "", fmt.Errorf("%w: rail fence needs at least 2 rails", ErrInvalidKey)
	}

	pattern := railFencePattern(len(text), rails)
	placed := make([]byte, len(text))
	idx := 0
	for rail := 0; rail < rails; rail++ {
		for i := 0; i < len(text); i++ {
			if pattern[i] == rail {
				placed[i] = text[idx]
				idx++
			}
		}
	}
	return string(placed), nil
}
