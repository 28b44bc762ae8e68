package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/MKhiriev/go-cred-vault/internal/adapter"
	"github.com/MKhiriev/go-cred-vault/internal/logger"
	"github.com/MKhiriev/go-cred-vault/internal/session"
	"github.com/MKhiriev/go-cred-vault/models"
)

type vaultRepository struct {
	remote adapter.RemoteStore
	codec  RecordCodec
	gate   session.Gate
	log    *logger.Logger

	mu      sync.RWMutex
	gen     uint64
	userID  string
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	records []models.CredentialRecord

	events chan Event
}

// NewVaultRepository constructs a detached [VaultRepository].
func NewVaultRepository(remote adapter.RemoteStore, codec RecordCodec, gate session.Gate, log *logger.Logger) VaultRepository {
	return &vaultRepository{
		remote: remote,
		codec:  codec,
		gate:   gate,
		log:    log,
		events: make(chan Event, 32),
	}
}

// Attach implements [VaultRepository]. Re-attaching first detaches the
// previous subscription so stale snapshots for the old user can never race
// with the new user's snapshots.
func (r *vaultRepository) Attach(ctx context.Context, userID string) error {
	r.Detach()

	sub, err := r.remote.Subscribe(ctx, userID)
	if err != nil {
		return fmt.Errorf("subscribe to remote collection: %w", err)
	}

	subCtx, cancel := context.WithCancel(ctx)

	r.mu.Lock()
	r.gen++
	gen := r.gen
	r.userID = userID
	r.cancel = cancel
	r.wg.Add(1)
	r.mu.Unlock()

	go func() {
		defer r.wg.Done()
		defer sub.Close()
		r.pump(subCtx, sub, gen, userID)
	}()

	return nil
}

// Detach implements [VaultRepository].
func (r *vaultRepository) Detach() {
	r.mu.Lock()
	cancel := r.cancel
	r.cancel = nil
	r.userID = ""
	r.gen++ // invalidate in-flight snapshots immediately
	r.records = nil
	r.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	r.wg.Wait()
}

// pump applies every snapshot the subscription delivers until it ends.
// gen guards against installing snapshots after a detach or re-attach.
func (r *vaultRepository) pump(ctx context.Context, sub adapter.Subscription, gen uint64, userID string) {
	for {
		select {
		case <-ctx.Done():
			return
		case snapshot, ok := <-sub.Snapshots():
			if !ok {
				if err := sub.Err(); err != nil {
					// Keep the last-known-good list; transient failures must
					// not blank the vault.
					r.log.Err(err).Str("func", "*vaultRepository.pump").Str("user_id", userID).Msg("subscription ended")
					r.emit(Event{Type: EventSyncFailed, UserID: userID, Err: err})
				}
				return
			}
			r.applySnapshot(snapshot, gen, userID)
		}
	}
}

// applySnapshot decodes a full-collection snapshot and replaces the
// in-memory list. A record that fails to decode is skipped and reported so
// one corrupt row never blocks the rest of the vault.
func (r *vaultRepository) applySnapshot(snapshot []models.WireRecord, gen uint64, userID string) {
	decoded := make([]models.CredentialRecord, 0, len(snapshot))
	for _, wire := range snapshot {
		record, err := r.codec.FromWire(wire)
		if err != nil {
			var decodeErr *RecordDecodeError
			if errors.As(err, &decodeErr) {
				r.log.Err(err).Str("func", "*vaultRepository.applySnapshot").Str("record_id", wire.ID).Msg("skipping undecodable record")
				r.emit(Event{Type: EventRecordSkipped, UserID: userID, RecordID: wire.ID, Err: err})
				continue
			}
			// Non-field errors (e.g. key store gone) poison the whole
			// snapshot; keep the previous list.
			r.log.Err(err).Str("func", "*vaultRepository.applySnapshot").Msg("dropping snapshot")
			r.emit(Event{Type: EventSyncFailed, UserID: userID, Err: err})
			return
		}
		decoded = append(decoded, record)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.gen != gen {
		// Stale snapshot from a previous attachment.
		return
	}
	r.records = decoded
}

// Add implements [VaultRepository].
func (r *vaultRepository) Add(ctx context.Context, record models.CredentialRecord) (<-chan error, error) {
	return r.write(ctx, record)
}

// Update implements [VaultRepository]. Full-record overwrite: the remote
// layer has no partial field patch, so unchanged sensitive fields are
// re-encrypted along with changed ones.
func (r *vaultRepository) Update(ctx context.Context, record models.CredentialRecord) (<-chan error, error) {
	return r.write(ctx, record)
}

func (r *vaultRepository) write(ctx context.Context, record models.CredentialRecord) (<-chan error, error) {
	userID, ok := r.gate.CurrentUserID()
	if !ok {
		return nil, ErrNotAuthenticated
	}

	wire, err := r.codec.ToWire(record)
	if err != nil {
		return nil, err
	}

	done := make(chan error, 1)
	go func() {
		err := r.remote.Write(ctx, userID, wire)
		if err != nil {
			r.log.Err(err).Str("func", "*vaultRepository.write").Str("record_id", record.ID).Msg("remote write failed")
		}
		done <- err
	}()
	return done, nil
}

// Delete implements [VaultRepository].
func (r *vaultRepository) Delete(ctx context.Context, recordID string) (<-chan error, error) {
	userID, ok := r.gate.CurrentUserID()
	if !ok {
		return nil, ErrNotAuthenticated
	}

	done := make(chan error, 1)
	go func() {
		err := r.remote.Delete(ctx, userID, recordID)
		if err != nil {
			r.log.Err(err).Str("func", "*vaultRepository.Delete").Str("record_id", recordID).Msg("remote delete failed")
		}
		done <- err
	}()
	return done, nil
}

// CurrentSnapshot implements [VaultRepository].
func (r *vaultRepository) CurrentSnapshot() []models.CredentialRecord {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snapshot := make([]models.CredentialRecord, len(r.records))
	copy(snapshot, r.records)
	return snapshot
}

// Events implements [VaultRepository].
func (r *vaultRepository) Events() <-chan Event {
	return r.events
}

func (r *vaultRepository) emit(event Event) {
	select {
	case r.events <- event:
	default:
		r.log.Warn().Str("func", "*vaultRepository.emit").Str("event", string(event.Type)).Msg("event channel full, dropping event")
	}
}
