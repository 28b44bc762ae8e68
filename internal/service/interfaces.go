// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package service implements the vault core: the record codec that maps
// between plaintext credentials and their partially encrypted wire form,
// and the repository that keeps a consistent decrypted in-memory view of
// the remote per-user collection.
package service

import (
	"context"

	"github.com/MKhiriev/go-cred-vault/internal/keystore"
	"github.com/MKhiriev/go-cred-vault/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/service_mock.go -package=mock

// KeyProvider supplies the master key handle for cipher operations. The
// handle is read-only shared state; implementations must be safe for
// concurrent use.
type KeyProvider interface {
	// GetKey returns the master key handle. Returns
	// [keystore.ErrKeyNotFound] if the key has not been ensured yet.
	GetKey() (keystore.Key, error)
}

// RecordCodec maps between the plaintext domain record and its partially
// encrypted wire representation. Sensitive fields (appName, packageName,
// password, username, webUrl, websiteTitle) are encrypted; id, category and
// website are metadata left in the clear.
type RecordCodec interface {
	// ToWire encrypts every sensitive field of record and returns the
	// representation ready for remote persistence. Every call re-encrypts
	// all sensitive fields with fresh IVs, even unchanged ones.
	ToWire(record models.CredentialRecord) (models.WireRecord, error)

	// FromWire decrypts every sensitive field of wire. If any single field
	// fails, the whole conversion fails with [*RecordDecodeError] naming
	// the field; the caller decides whether to drop the record or abort.
	FromWire(wire models.WireRecord) (models.CredentialRecord, error)
}

// VaultRepository is the single source of truth for the current user's
// decrypted record set, kept live against the remote collection.
//
// Mutations never change the local list directly: the new state becomes
// visible only once the remote store round-trips the change and delivers a
// fresh snapshot. Until then CurrentSnapshot reflects the pre-write state.
type VaultRepository interface {
	// Attach starts a standing subscription for userID, replacing any
	// previous attachment. Snapshots still in flight for a previously
	// attached user are discarded.
	Attach(ctx context.Context, userID string) error

	// Detach cancels the subscription and clears the in-memory list.
	// Safe to call when not attached.
	Detach()

	// Add encrypts record and writes it remotely under the current user.
	// The returned channel delivers the write result once the remote store
	// acknowledges. Fails immediately with [ErrNotAuthenticated] if no
	// user identity is resolved at call time.
	Add(ctx context.Context, record models.CredentialRecord) (<-chan error, error)

	// Update has the same contract as Add: a full-record overwrite at the
	// same identifier, re-encrypting all sensitive fields.
	Update(ctx context.Context, record models.CredentialRecord) (<-chan error, error)

	// Delete removes the remote entry by identifier. Deleting a
	// non-existent identifier succeeds (delete is idempotent).
	Delete(ctx context.Context, recordID string) (<-chan error, error)

	// CurrentSnapshot returns the latest fully decrypted view. Ordering is
	// whatever the remote store delivered; sorting and grouping are
	// presentation concerns.
	CurrentSnapshot() []models.CredentialRecord

	// Events returns the observability stream: skipped corrupt records and
	// subscription failures. Intended for a single consumer; events are
	// dropped rather than blocking when the consumer falls behind.
	Events() <-chan Event
}
