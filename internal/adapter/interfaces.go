// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides the transport-layer abstraction over the remote
// per-user record collection.
//
// The primary abstraction is [RemoteStore]: write and delete a single
// document under users/{userID}/{recordID}, plus a push subscription that
// delivers the full child set on every remote change. The package ships an
// HTTP implementation ([NewHTTPRemoteStore]) speaking to the vault sync
// server; snapshots arrive over a server-sent-events stream.
//
// Transport and permission failures are mapped to the sentinel values in
// errors.go so callers can use [errors.Is] for transport-agnostic handling.
package adapter

import (
	"context"

	"github.com/MKhiriev/go-cred-vault/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/remote_store_mock.go -package=mock

// RemoteStore is the narrow interface the vault core depends on for remote
// persistence. Documents are partitioned by user at the storage layer; the
// record itself carries no user identifier.
type RemoteStore interface {
	// Write stores record under users/{userID}/{record.ID}, overwriting any
	// existing document at that path in full.
	Write(ctx context.Context, userID string, record models.WireRecord) error

	// Delete removes users/{userID}/{recordID}. Deleting a non-existent
	// record is a no-op, not an error.
	Delete(ctx context.Context, userID, recordID string) error

	// Subscribe opens a standing subscription for the user's collection.
	// The subscription delivers the current full child set immediately and
	// again after every remote change, until ctx is cancelled or Close is
	// called.
	Subscribe(ctx context.Context, userID string) (Subscription, error)
}

// Subscription is a live snapshot stream for one user's collection.
type Subscription interface {
	// Snapshots returns the stream of full-collection snapshots. The
	// channel is closed when the subscription ends.
	Snapshots() <-chan []models.WireRecord

	// Err reports why the snapshot channel closed: nil after Close or
	// context cancellation, [ErrRemoteSync] (wrapped) on transport failure.
	Err() error

	// Close cancels the subscription. Safe to call more than once.
	Close()
}
