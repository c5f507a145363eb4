package cipher

import (
	"fmt"
	"strings"
)

const alphabetSize = 26

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	if a < 0 {
		return -a
	}
	return a
}

// modInverse finds a^-1 mod 26. The caller must have checked coprimality.
func modInverse(a int) int {
	a = ((a % alphabetSize) + alphabetSize) % alphabetSize
	for i := 1; i < alphabetSize; i++ {
		if (a*i)%alphabetSize == 1 {
			return i
		}
	}
	return 0
}

func affineEncipher(text string, a, b int) (string, error) {
	if gcd(a, alphabetSize) != 1 {
		return "", fmt.Errorf("%w: affine 'a' must be coprime with 26", ErrInvalidKey)
	}

	var out strings.Builder
	out.Grow(len(text))
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
		x := int(c - base)
		enc := ((a*x+b)%alphabetSize + alphabetSize) % alphabetSize
		out.WriteByte(base + byte(enc))
	}
	return out.String(), nil
}

func affineDecipher(text string, a, b int) (string, error) {
	if gcd(a, alphabetSize) != 1 {
		return "", fmt.Errorf("%w: affine 'a' must be coprime with 26", ErrInvalidKey)
	}
	inv := modInverse(a)

	var out strings.Builder
	out.Grow(len(text))
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
		y := int(c - base)
		dec := ((inv*(y-b))%alphabetSize + alphabetSize) % alphabetSize
		out.WriteByte(base + byte(dec))
	}
	return out.String(), nil
}
