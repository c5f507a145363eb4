package secret

// Share is one receiver's enciphered copy (or chunk) of the sender's message.
// Immutable once built.
type Share struct {
	Owner      string  `json:"user"`
	Plaintext  string  `json:"plaintext"`
	Ciphertext string  `json:"ciphertext"`
	Cipher     string  `json:"cipher"`
	Entropy    float64 `json:"entropy"`
}

// ReceiverSpec names one receiver and the cipher configuration it chose.
// Parameter fields are cipher-specific; unused ones stay zero.
type ReceiverSpec struct {
	ID     string `json:"id"`
	Cipher string `json:"cipher"`
	Shift  *int   `json:"shift,omitempty"`
	A      *int   `json:"a,omitempty"`
	B      *int   `json:"b,omitempty"`
	Key    string `json:"key,omitempty"`
	Rails  *int   `json:"rails,omitempty"`
}

// SenderRequest is the one-shot multi-encrypt request body.
type SenderRequest struct {
	Message   string         `json:"message"`
	Receivers []ReceiverSpec `json:"receivers"`
	SplitSize int            `json:"split_size,omitempty"`
	SessionID string         `json:"session_id,omitempty"`
}

// ShareResult is the per-receiver outcome of a multi-encrypt request. A
// failed receiver carries Error and leaves the ciphertext fields empty.
type ShareResult struct {
	User       string  `json:"user"`
	Cipher     string  `json:"cipher"`
	Ciphertext string  `json:"ciphertext,omitempty"`
	Decrypted  string  `json:"decrypted,omitempty"`
	Entropy    float64 `json:"entropy,omitempty"`
	Error      string  `json:"error,omitempty"`
}
