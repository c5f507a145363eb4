package cipher

import (
	"errors"
	"fmt"
)

// Supported cipher names as they appear on the wire.
const (
	Caesar    = "caesar"
	Affine    = "affine"
	Vigenere  = "vigenere"
	Playfair  = "playfair"
	RailFence = "rail_fence"
)

var (
	ErrInvalidKey        = errors.New("invalid cipher key")
	ErrUnsupportedCipher = errors.New("unsupported cipher")
)

// Params carries the union of all cipher parameters. Each cipher reads only
// the fields it needs.
type Params struct {
	Shift int
	A     int
	B     int
	Key   string
	Rails int
}

// Encipher transforms plaintext under the named cipher. Characters outside a
// cipher's domain pass through unchanged except where the cipher's definition
// says otherwise (playfair drops non-letters, rail fence drops spaces).
func Encipher(name, plaintext string, params Params) (string, error) {
	switch name {
	case Caesar:
		return caesarShift(plaintext, params.Shift), nil
	case Affine:
		return affineEncipher(plaintext, params.A, params.B)
	case Vigenere:
		return vigenereTransform(plaintext, params.Key, false)
	case Playfair:
		return playfairEncipher(plaintext, params.Key)
	case RailFence:
		return railFenceEncipher(plaintext, params.Rails)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedCipher, name)
	}
}

// Decipher reverses Encipher for text produced under the same parameters.
func Decipher(name, ciphertext string, params Params) (string, error) {
	switch name {
	case Caesar:
		return caesarShift(ciphertext, -params.Shift), nil
	case Affine:
		return affineDecipher(ciphertext, params.A, params.B)
	case Vigenere:
		return vigenereTransform(ciphertext, params.Key, true)
	case Playfair:
		return playfairDecipher(ciphertext, params.Key)
	case RailFence:
		return railFenceDecipher(ciphertext, params.Rails)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedCipher, name)
	}
}

// Supported reports whether name is a known cipher.
func Supported(name string) bool {
	switch name {
	case Caesar, Affine, Vigenere, Playfair, RailFence:
		return true
	}
	return false
}

func isUpper(c byte) bool { return c >= 'A' && c <= 'Z' }
func isLower(c byte) bool { return c >= 'a' && c <= 'z' }
func isLetter(c byte) bool {
	return isUpper(c) || isLower(c)
}
