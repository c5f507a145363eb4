package share

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/nsxzhou/secretshare/backend/internal/cipher"
	"github.com/nsxzhou/secretshare/backend/internal/config"
	"github.com/nsxzhou/secretshare/backend/internal/model/secret"
)

var ErrNoReceivers = errors.New("no receivers provided")

// Service turns a sender's message into per-receiver shares using the
// configured cipher defaults.
type Service struct {
	defaults config.CipherConfig
}

func NewService(defaults config.CipherConfig) *Service {
	return &Service{defaults: defaults}
}

// BuildResult is the outcome of one multi-encrypt request. Results holds one
// entry per receiver in request order; a receiver whose parameters were
// rejected carries Error and nothing else beyond its identity and cipher.
type BuildResult struct {
	SessionID string
	Threshold int
	Results   []secret.ShareResult
}

// BuildShares enciphers the message once per receiver. With SplitSize set
// the message is first divided into one chunk per receiver (the chunks
// concatenate back to the message); otherwise every receiver gets the full
// message. A session id is minted when the request carries none, and the
// threshold is the receiver count.
func (s *Service) BuildShares(req secret.SenderRequest) (BuildResult, error) {
	if len(req.Receivers) == 0 {
		return BuildResult{}, ErrNoReceivers
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	chunks := make([]string, len(req.Receivers))
	if req.SplitSize > 0 {
		copy(chunks, splitSecret(req.Message, len(req.Receivers)))
	} else {
		for i := range chunks {
			chunks[i] = req.Message
		}
	}

	out := BuildResult{
		SessionID: sessionID,
		Threshold: len(req.Receivers),
		Results:   make([]secret.ShareResult, 0, len(req.Receivers)),
	}

	for i, spec := range req.Receivers {
		result := secret.ShareResult{User: spec.ID, Cipher: spec.Cipher}

		name, params, err := s.resolve(spec)
		if err == nil {
			result.Cipher = name
			result.Ciphertext, result.Decrypted, result.Entropy, err = s.encipherChunk(name, chunks[i], params)
		}
		if err != nil {
			result.Error = err.Error()
		}

		out.Results = append(out.Results, result)
	}
	return out, nil
}

// encipherChunk runs the full pipeline for one receiver: encipher, decipher
// back to confirm the round trip, and score the ciphertext's entropy.
func (s *Service) encipherChunk(name, chunk string, params cipher.Params) (ciphertext, decrypted string, entropy float64, err error) {
	ciphertext, err = cipher.Encipher(name, chunk, params)
	if err != nil {
		return "", "", 0, err
	}

	decrypted, err = cipher.Decipher(name, ciphertext, params)
	if err != nil {
		return "", "", 0, fmt.Errorf("round-trip verification failed: %w", err)
	}

	return ciphertext, decrypted, cipher.Entropy(ciphertext), nil
}

// TestDecrypt serves the decrypt-test boundary: decipher arbitrary text with
// the given cipher and parameters, applying the same defaults as encryption.
func (s *Service) TestDecrypt(text string, spec secret.ReceiverSpec) (string, error) {
	name, params, err := s.resolve(spec)
	if err != nil {
		return "", err
	}
	return cipher.Decipher(name, text, params)
}

// resolve maps a receiver spec onto a concrete cipher name and parameter
// set. "auto" (or an empty cipher) selects the configured default cipher;
// omitted caesar/affine numbers fall back to the configured defaults.
func (s *Service) resolve(spec secret.ReceiverSpec) (string, cipher.Params, error) {
	name := strings.TrimSpace(spec.Cipher)
	if name == "" || name == "auto" {
		name = s.defaults.DefaultCipher
	}
	if !cipher.Supported(name) {
		return "", cipher.Params{}, fmt.Errorf("%w: %s", cipher.ErrUnsupportedCipher, name)
	}

	params := cipher.Params{Key: spec.Key}
	switch name {
	case cipher.Caesar:
		params.Shift = s.defaults.CaesarShift
		if spec.Shift != nil {
			params.Shift = *spec.Shift
		}
	case cipher.Affine:
		params.A, params.B = s.defaults.AffineA, s.defaults.AffineB
		if spec.A != nil {
			params.A = *spec.A
		}
		if spec.B != nil {
			params.B = *spec.B
		}
	case cipher.RailFence:
		if spec.Rails == nil {
			return "", cipher.Params{}, fmt.Errorf("%w: rail fence requires rails", cipher.ErrInvalidKey)
		}
		params.Rails = *spec.Rails
	}
	return name, params, nil
}

// splitSecret divides the message into count contiguous rune chunks of equal
// size. The final chunk absorbs the remainder unpadded; concatenating the
// chunks in order restores the message exactly.
func splitSecret(message string, count int) []string {
	runes := []rune(message)
	size := (len(runes) + count - 1) / count

	chunks := make([]string, count)
	for i := 0; i < count; i++ {
		start := i * size
		if start > len(runes) {
			start = len(runes)
		}
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		chunks[i] = string(runes[start:end])
	}
	return chunks
}
