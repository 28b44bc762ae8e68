// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package store implements server-side persistence for the vault sync
// server: the users/{userID}/{recordID} document collection backed by a
// relational database. The server only ever sees WireRecords — sensitive
// values arrive already encrypted and are stored as opaque base64 blobs.
package store

import (
	"context"

	"github.com/MKhiriev/go-cred-vault/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/vault_store_mock.go -package=mock

// VaultStore is the per-user wire-record collection.
type VaultStore interface {
	// UpsertRecord stores record under (userID, record.ID), overwriting any
	// existing row in full.
	UpsertRecord(ctx context.Context, userID string, record models.WireRecord) error

	// DeleteRecord removes (userID, recordID). Removing a missing row is a
	// no-op, not an error.
	DeleteRecord(ctx context.Context, userID, recordID string) error

	// GetUserRecords returns the user's full child set in insertion order.
	GetUserRecords(ctx context.Context, userID string) ([]models.WireRecord, error)
}
