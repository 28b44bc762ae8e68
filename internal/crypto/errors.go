package crypto

import "errors"

// Sentinel errors returned by the field cipher. Callers should use
// [errors.Is] to match against these values.
var (
	// ErrMalformedCiphertext is returned when an encoded field is not valid
	// base64 or decodes to fewer than 17 bytes (a 16-byte IV plus at least
	// one ciphertext byte).
	ErrMalformedCiphertext = errors.New("malformed ciphertext")

	// ErrDecryptionFailed is returned when decryption produces invalid
	// padding, which almost always means a wrong key or a tampered blob.
	ErrDecryptionFailed = errors.New("decryption failed")
)
