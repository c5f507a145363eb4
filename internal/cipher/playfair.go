package cipher

import (
	"fmt"
	"strings"
)

// playfair works over a 5x5 tableau with J folded into I. Input is
// uppercased, non-letters are dropped, doubled letters are separated with X
// and an odd-length stream is padded with X. Deciphering returns that
// normalized form, not the raw original.

type playfairTableau struct {
	grid [25]byte
	pos  [26]int
}

func newPlayfairTableau(key string) (*playfairTableau, error) {
	t := &playfairTableau{}
	for i := range t.pos {
		t.pos[i] = -1
	}

	n := 0
	place := func(c byte) {
		if t.pos[c-'A'] >= 0 {
			return
		}
		t.pos[c-'A'] = n
		t.grid[n] = c
		n++
	}

	hasLetter := false
	key = strings.ToUpper(key)
	for i := 0; i < len(key); i++ {
		c := key[i]
		if !isUpper(c) {
			continue
		}
		hasLetter = true
		if c == 'J' {
			c = 'I'
		}
		place(c)
	}
	if !hasLetter {
		return nil, fmt.Errorf("%w: playfair key required", ErrInvalidKey)
	}

	for c := byte('A'); c <= 'Z'; c++ {
		if c == 'J' {
			continue
		}
		place(c)
	}
	return t, nil
}

func (t *playfairTableau) find(c byte) (row, col int, err error) {
	p := t.pos[c-'A']
	if p < 0 {
		return 0, 0, fmt.Errorf("playfair: character %q not in tableau", c)
	}
	return p / 5, p % 5, nil
}

// playfairDigraphs normalizes text into the cipher's digraph domain.
func playfairDigraphs(text string) []byte {
	letters := make([]byte, 0, len(text))
	for i := 0; i < len(text); i++ {
		c := text[i]
		if !isLetter(c) {
			continue
		}
		if isLower(c) {
			c -= 'a' - 'A'
		}
		if c == 'J' {
			c = 'I'
		}
		letters = append(letters, c)
	}

	pairs := make([]byte, 0, len(letters)+len(letters)/2)
	for i := 0; i < len(letters); {
		a := letters[i]
		b := byte('X')
		if i+1 < len(letters) && letters[i+1] != a {
			b = letters[i+1]
			i += 2
		} else {
			i++
		}
		pairs = append(pairs, a, b)
	}
	return pairs
}

func playfairEncipher(text, key string) (string, error) {
	t, err := newPlayfairTableau(key)
	if err != nil {
		return "", err
	}

	pairs := playfairDigraphs(text)
	out := make([]byte, 0, len(pairs))
	for i := 0; i < len(pairs); i += 2 {
		ea, eb := t.pair(pairs[i], pairs[i+1], 1)
		out = append(out, ea, eb)
	}
	return string(out), nil
}

func playfairDecipher(text, key string) (string, error) {
	t, err := newPlayfairTableau(key)
	if err != nil {
		return "", err
	}
	if len(text)%2 != 0 {
		return "", fmt.Errorf("playfair: ciphertext length must be even")
	}

	out := make([]byte, 0, len(text))
	for i := 0; i < len(text); i += 2 {
		a, b := text[i], text[i+1]
		if !isUpper(a) || !isUpper(b) {
			return "", fmt.Errorf("playfair: ciphertext must be uppercase letters")
		}
		if _, _, err := t.find(a); err != nil {
			return "", err
		}
		if _, _, err := t.find(b); err != nil {
			return "", err
		}
		da, db := t.pair(a, b, 4) // shifting by 4 undoes a shift by 1 mod 5
		out = append(out, da, db)
	}
	return string(out), nil
}

// pair applies the playfair digraph rule, moving step cells forward along a
// shared row or column (step 1 enciphers, step 4 deciphers).
func (t *playfairTableau) pair(a, b byte, step int) (byte, byte) {
	r1, c1, _ := t.find(a)
	r2, c2, _ := t.find(b)

	switch {
	case r1 == r2:
		return t.grid[r1*5+(c1+step)%5], t.grid[r2*5+(c2+step)%5]
	case c1 == c2:
		return t.grid[((r1+step)%5)*5+c1], t.grid[((r2+step)%5)*5+c2]
	default:
		return t.grid[r1*5+c2], t.grid[r2*5+c1]
	}
}
