package keystore

import "errors"

// Sentinel errors returned by key stores and the manager. Callers should use
// [errors.Is] to match against these values.
var (
	// ErrKeyStoreUnavailable is returned when the secure key facility cannot
	// be reached (e.g. the backing file is unreadable). Fatal for all cipher
	// operations until resolved; never retried automatically.
	ErrKeyStoreUnavailable = errors.New("secure key store unavailable")

	// ErrKeyNotFound is returned by GetKey when no key exists under the
	// requested alias, or by the manager when EnsureKey was never called.
	ErrKeyNotFound = errors.New("master key not found")

	// ErrUnsupportedKeySpec is returned by GenerateKey for key sizes other
	// than 256 bits.
	ErrUnsupportedKeySpec = errors.New("unsupported key spec")
)
