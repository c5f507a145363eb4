package cipher

import (
	"fmt"
	"strings"
)

// vigenereTransform enciphers (or deciphers when decode is true) with a
// repeating alphabetic key. The key advances only on letters, so punctuation
// and digits pass through without consuming key material.
func vigenereTransform(text, key string, decode bool) (string, error) {
	key = strings.ToLower(key)
	if key == "" {
		return "", fmt.Errorf("%w: vigenere key required", ErrInvalidKey)
	}
	for i := 0; i < len(key); i++ {
		if !isLower(key[i]) {
			return "", fmt.Errorf("%w: vigenere key must be alphabetic", ErrInvalidKey)
		}
	}

	var out strings.Builder
	out.Grow(len(text))
	j := 0
	for i := 0; i < len(text); i++ {
		c := text[i]
		if !isLetter(c) {
			out.WriteByte(c)
			continue
		}
		base := byte('a')
		if isUpper(c) {
			base = 'A'
		}
		k := int(key[j%len(key)] - 'a')
		j++
		x := int(c - base)
		if decode {
			x = ((x-k)%alphabetSize + alphabetSize) % alphabetSize
		} else {
			x = (x + k) % alphabetSize
		}
		out.WriteByte(base + byte(x))
	}
	return out.String(), nil
}
