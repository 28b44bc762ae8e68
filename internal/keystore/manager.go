package keystore

import (
	"fmt"
	"sync"
)

// DefaultKeyAlias is the well-known alias the master key lives under.
const DefaultKeyAlias = "vault-master-key"

// Manager owns the lifecycle of the master key: lazy one-time creation and
// handle caching. It is safe for concurrent use.
type Manager struct {
	store SecureKeyStore
	alias string

	mu  sync.Mutex
	key Key
}

// NewManager constructs a Manager over the given store. An empty alias
// falls back to [DefaultKeyAlias].
func NewManager(store SecureKeyStore, alias string) *Manager {
	if alias == "" {
		alias = DefaultKeyAlias
	}
	return &Manager{store: store, alias: alias}
}

// EnsureKey returns a handle to the master key, generating it first if the
// store has no key under the manager's alias. Idempotent: once a key exists
// it is never regenerated.
//
// The ContainsAlias/GenerateKey pair is not atomic; the store's alias
// uniqueness guarantee makes the race benign (see [SecureKeyStore]).
func (m *Manager) EnsureKey() (Key, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.key != nil {
		return m.key, nil
	}

	exists, err := m.store.ContainsAlias(m.alias)
	if err != nil {
		return nil, fmt.Errorf("check key alias: %w", err)
	}
	if !exists {
		if err = m.store.GenerateKey(KeySpec{Alias: m.alias, Bits: 256}); err != nil {
			return nil, fmt.Errorf("generate master key: %w", err)
		}
	}

	key, err := m.store.GetKey(m.alias)
	if err != nil {
		return nil, fmt.Errorf("load master key: %w", err)
	}

	m.key = key
	return key, nil
}

// GetKey returns the handle cached by a previous successful EnsureKey call.
// Returns [ErrKeyNotFound] if EnsureKey has not been called yet — callers
// are expected to call EnsureKey once at session start.
func (m *Manager) GetKey() (Key, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.key == nil {
		return nil, ErrKeyNotFound
	}
	return m.key, nil
}
