package keystore

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/crypto/pbkdf2"
)

const (
	fileStoreSaltLen    = 16
	fileStoreIterations = 256_000
	fileStoreKeyLen     = 32
)

// wrappedKey is the on-disk form of one key: a random salt and the key
// material wrapped with AES-256-GCM under a KEK derived from the machine
// secret. blob = nonce || ciphertext.
type wrappedKey struct {
	Salt []byte `json:"salt"`
	Blob []byte `json:"blob"`
}

// fileKeyStore persists wrapped keys in a single JSON file with 0600
// permissions. The wrapping KEK is derived from a machine-specific secret
// via PBKDF2-HMAC-SHA256, so the file is useless when copied to another
// machine. Deleting the file permanently destroys every key in it.
type fileKeyStore struct {
	path          string
	machineSecret []byte

	mu sync.Mutex
}

// NewFileKeyStore returns a [SecureKeyStore] persisting to path. The machine
// secret must be stable across restarts on the same installation; it is the
// only thing standing between the file and the key material.
func NewFileKeyStore(path string, machineSecret []byte) (SecureKeyStore, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: empty key store path", ErrKeyStoreUnavailable)
	}
	if len(machineSecret) == 0 {
		return nil, fmt.Errorf("%w: empty machine secret", ErrKeyStoreUnavailable)
	}
	return &fileKeyStore{path: path, machineSecret: machineSecret}, nil
}

func (s *fileKeyStore) ContainsAlias(alias string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys, err := s.load()
	if err != nil {
		return false, err
	}
	_, ok := keys[alias]
	return ok, nil
}

func (s *fileKeyStore) GenerateKey(spec KeySpec) error {
	if spec.Bits != 256 {
		return ErrUnsupportedKeySpec
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	keys, err := s.load()
	if err != nil {
		return err
	}
	// First key under an alias wins; re-generation is a no-op.
	if _, ok := keys[spec.Alias]; ok {
		return nil
	}

	raw := make([]byte, spec.Bits/8)
	if _, err = io.ReadFull(rand.Reader, raw); err != nil {
		return fmt.Errorf("generate key material: %w", err)
	}

	wrapped, err := s.wrap(raw)
	if err != nil {
		return err
	}
	keys[spec.Alias] = wrapped

	return s.persist(keys)
}

func (s *fileKeyStore) GetKey(alias string) (Key, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	keys, err := s.load()
	if err != nil {
		return nil, err
	}
	wrapped, ok := keys[alias]
	if !ok {
		return nil, ErrKeyNotFound
	}

	raw, err := s.unwrap(wrapped)
	if err != nil {
		return nil, err
	}
	return &aesKey{raw: raw}, nil
}

// kek derives the wrapping key from the machine secret and a per-key salt.
func (s *fileKeyStore) kek(salt []byte) []byte {
	return pbkdf2.Key(s.machineSecret, salt, fileStoreIterations, fileStoreKeyLen, sha256.New)
}

func (s *fileKeyStore) wrap(raw []byte) (wrappedKey, error) {
	salt := make([]byte, fileStoreSaltLen)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return wrappedKey{}, fmt.Errorf("generate salt: %w", err)
	}

	gcm, err := newGCM(s.kek(salt))
	if err != nil {
		return wrappedKey{}, err
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err = io.ReadFull(rand.Reader, nonce); err != nil {
		return wrappedKey{}, fmt.Errorf("generate nonce: %w", err)
	}

	// Prepend the nonce so unwrap can split it out.
	blob := gcm.Seal(nonce, nonce, raw, nil)
	return wrappedKey{Salt: salt, Blob: blob}, nil
}

func (s *fileKeyStore) unwrap(w wrappedKey) ([]byte, error) {
	gcm, err := newGCM(s.kek(w.Salt))
	if err != nil {
		return nil, err
	}

	nonceSize := gcm.NonceSize()
	if len(w.Blob) < nonceSize {
		return nil, fmt.Errorf("%w: wrapped key blob too short", ErrKeyStoreUnavailable)
	}
	nonce, ciphertext := w.Blob[:nonceSize], w.Blob[nonceSize:]

	raw, err := gcm.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		// Wrong machine secret or corrupted file. Either way the key is gone.
		return nil, fmt.Errorf("%w: unwrap master key: %v", ErrKeyStoreUnavailable, err)
	}
	return raw, nil
}

func (s *fileKeyStore) load() (map[string]wrappedKey, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return make(map[string]wrappedKey), nil
		}
		return nil, fmt.Errorf("%w: read key store file: %v", ErrKeyStoreUnavailable, err)
	}

	keys := make(map[string]wrappedKey)
	if err = json.Unmarshal(data, &keys); err != nil {
		return nil, fmt.Errorf("%w: decode key store file: %v", ErrKeyStoreUnavailable, err)
	}
	return keys, nil
}

func (s *fileKeyStore) persist(keys map[string]wrappedKey) error {
	dir := filepath.Dir(s.path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("%w: create key store dir: %v", ErrKeyStoreUnavailable, err)
		}
	}

	payload, err := json.Marshal(keys)
	if err != nil {
		return fmt.Errorf("%w: encode key store: %v", ErrKeyStoreUnavailable, err)
	}

	if err = os.WriteFile(s.path, payload, 0o600); err != nil {
		return fmt.Errorf("%w: write key store file: %v", ErrKeyStoreUnavailable, err)
	}
	return nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	gcm, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create gcm: %w", err)
	}
	return gcm, nil
}
