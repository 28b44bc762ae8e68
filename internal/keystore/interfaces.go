// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package keystore owns the single symmetric master key used to encrypt
// vault fields before they leave the device.
//
// The key is created once per installation inside a [SecureKeyStore] and is
// exposed to callers only as an opaque [Key] handle: raw key bytes never
// leave this package. There is no rotation and no escrow — if the backing
// store is lost (reinstall, device transfer), every field encrypted with the
// key is permanently unreadable. That trade-off is deliberate and mirrors
// the behaviour of the historical data this package must stay compatible
// with.
package keystore

import "crypto/cipher"

//go:generate mockgen -source=interfaces.go -destination=../mock/keystore_mock.go -package=mock

// Key is an opaque, non-exportable handle to a symmetric key held by a
// [SecureKeyStore]. Callers obtain cipher primitives from it but never the
// key material itself.
type Key interface {
	// Block returns an AES block cipher bound to the underlying key.
	Block() (cipher.Block, error)
}

// KeySpec describes the key to create in a [SecureKeyStore].
type KeySpec struct {
	// Alias is the well-known name the key is stored under.
	Alias string

	// Bits is the key size in bits. The only supported value is 256.
	Bits int
}

// SecureKeyStore abstracts the platform's secure key facility.
//
// ContainsAlias followed by GenerateKey is a non-atomic check-then-act:
// two concurrent callers may both observe the alias missing and both call
// GenerateKey. Implementations must guarantee alias uniqueness so the worst
// case is one surviving key, never two competing ones.
type SecureKeyStore interface {
	// ContainsAlias reports whether a key already exists under alias.
	ContainsAlias(alias string) (bool, error)

	// GenerateKey creates a new non-exportable key per spec. If a key
	// already exists under spec.Alias the existing key is kept.
	GenerateKey(spec KeySpec) error

	// GetKey returns a handle to the key stored under alias.
	// Returns [ErrKeyNotFound] if no such key exists.
	GetKey(alias string) (Key, error)
}
