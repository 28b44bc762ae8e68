package keystore

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"io"
	"sync"
)

// aesKey is the concrete Key handle. The key bytes are unexported and no
// accessor returns them.
type aesKey struct {
	raw []byte
}

func (k *aesKey) Block() (cipher.Block, error) {
	return aes.NewCipher(k.raw)
}

// memoryKeyStore keeps keys in process memory. Used in tests and as the
// reference SecureKeyStore implementation; contents do not survive process
// restart.
type memoryKeyStore struct {
	mu   sync.Mutex
	keys map[string][]byte
}

// NewMemoryKeyStore returns an empty in-memory [SecureKeyStore].
func NewMemoryKeyStore() SecureKeyStore {
	return &memoryKeyStore{keys: make(map[string][]byte)}
}

func (s *memoryKeyStore) ContainsAlias(alias string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.keys[alias]
	return ok, nil
}

func (s *memoryKeyStore) GenerateKey(spec KeySpec) error {
	if spec.Bits != 256 {
		return ErrUnsupportedKeySpec
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Alias uniqueness: the first generated key wins, concurrent duplicate
	// generation attempts are silent no-ops.
	if _, ok := s.keys[spec.Alias]; ok {
		return nil
	}

	raw := make([]byte, spec.Bits/8)
	if _, err := io.ReadFull(rand.Reader, raw); err != nil {
		return err
	}
	s.keys[spec.Alias] = raw

	return nil
}

func (s *memoryKeyStore) GetKey(alias string) (Key, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok := s.keys[alias]
	if !ok {
		return nil, ErrKeyNotFound
	}
	return &aesKey{raw: raw}, nil
}
