package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/MKhiriev/go-cred-vault/internal/logger"
	"github.com/MKhiriev/go-cred-vault/internal/mock"
	"github.com/MKhiriev/go-cred-vault/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

// fakeSubscription is a hand-driven adapter.Subscription for pushing
// snapshots into the repository from tests.
type fakeSubscription struct {
	ch chan []models.WireRecord

	mu  sync.Mutex
	err error
}

func newFakeSubscription() *fakeSubscription {
	return &fakeSubscription{ch: make(chan []models.WireRecord, 8)}
}

func (s *fakeSubscription) Snapshots() <-chan []models.WireRecord { return s.ch }

func (s *fakeSubscription) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *fakeSubscription) Close() {}

func (s *fakeSubscription) push(snapshot []models.WireRecord) { s.ch <- snapshot }

func (s *fakeSubscription) fail(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
	close(s.ch)
}

func newTestRepository(t *testing.T, ctrl *gomock.Controller) (VaultRepository, RecordCodec, *mock.MockRemoteStore, *mock.MockGate) {
	t.Helper()
	codec := newTestCodec(t)
	remote := mock.NewMockRemoteStore(ctrl)
	gate := mock.NewMockGate(ctrl)
	repo := NewVaultRepository(remote, codec, gate, logger.Nop())
	t.Cleanup(repo.Detach)
	return repo, codec, remote, gate
}

func encode(t *testing.T, codec RecordCodec, records ...models.CredentialRecord) []models.WireRecord {
	t.Helper()
	wires := make([]models.WireRecord, 0, len(records))
	for _, record := range records {
		wire, err := codec.ToWire(record)
		require.NoError(t, err)
		wires = append(wires, wire)
	}
	return wires
}

func waitForSnapshot(t *testing.T, repo VaultRepository, want int) []models.CredentialRecord {
	t.Helper()
	require.Eventually(t, func() bool {
		return len(repo.CurrentSnapshot()) == want
	}, 2*time.Second, 5*time.Millisecond)
	return repo.CurrentSnapshot()
}

func TestVaultRepository_AddThenSnapshotRoundTrip(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo, _, remote, gate := newTestRepository(t, ctrl)
	ctx := context.Background()

	sub := newFakeSubscription()
	remote.EXPECT().Subscribe(ctx, "user-1").Return(sub, nil)
	require.NoError(t, repo.Attach(ctx, "user-1"))

	record := models.CredentialRecord{
		ID:       "1",
		Category: models.CategoryWebsite,
		Website:  "example",
		WebURL:   "https://example.com",
		Username: "bob",
		Password: "p@ss",
	}

	var written models.WireRecord
	gate.EXPECT().CurrentUserID().Return("user-1", true)
	remote.EXPECT().Write(ctx, "user-1", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, wire models.WireRecord) error {
			written = wire
			return nil
		})

	done, err := repo.Add(ctx, record)
	require.NoError(t, err)
	require.NoError(t, <-done)

	// No optimistic update: the list changes only via snapshots.
	assert.Empty(t, repo.CurrentSnapshot())

	// The remote store echoes the encrypted form back as a snapshot.
	sub.push([]models.WireRecord{written})

	snapshot := waitForSnapshot(t, repo, 1)
	assert.Equal(t, record, snapshot[0])
}

func TestVaultRepository_AddNotAuthenticated(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo, _, _, gate := newTestRepository(t, ctrl)

	gate.EXPECT().CurrentUserID().Return("", false)

	_, err := repo.Add(context.Background(), sampleWebsiteRecord())
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestVaultRepository_PartialFailureIsolation(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo, codec, remote, gate := newTestRepository(t, ctrl)
	_ = gate
	ctx := context.Background()

	sub := newFakeSubscription()
	remote.EXPECT().Subscribe(ctx, "user-1").Return(sub, nil)
	require.NoError(t, repo.Attach(ctx, "user-1"))

	valid1 := models.CredentialRecord{ID: "1", Category: models.CategoryWebsite, Website: "one", Password: "a"}
	valid2 := models.CredentialRecord{ID: "2", Category: models.CategoryWebsite, Website: "two", Password: "b"}
	snapshot := encode(t, codec, valid1, valid2)

	corrupt := snapshot[0]
	corrupt.ID = "corrupt"
	corrupt.Password = "AAAA" // decodes to fewer than 17 bytes
	sub.push([]models.WireRecord{corrupt, snapshot[0], snapshot[1]})

	decoded := waitForSnapshot(t, repo, 2)
	assert.Equal(t, []models.CredentialRecord{valid1, valid2}, decoded)

	select {
	case event := <-repo.Events():
		assert.Equal(t, EventRecordSkipped, event.Type)
		assert.Equal(t, "corrupt", event.RecordID)
		assert.Error(t, event.Err)
	case <-time.After(time.Second):
		t.Fatal("expected a record-skipped event")
	}
}

func TestVaultRepository_StaleSnapshotDiscardedOnReattach(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo, codec, remote, gate := newTestRepository(t, ctrl)
	_ = gate
	ctx := context.Background()

	oldSub := newFakeSubscription()
	newSub := newFakeSubscription()
	remote.EXPECT().Subscribe(ctx, "user-old").Return(oldSub, nil)
	remote.EXPECT().Subscribe(ctx, "user-new").Return(newSub, nil)

	require.NoError(t, repo.Attach(ctx, "user-old"))

	oldRecord := models.CredentialRecord{ID: "old", Category: models.CategoryApp, AppName: "Old", Password: "x"}
	newRecord := models.CredentialRecord{ID: "new", Category: models.CategoryApp, AppName: "New", Password: "y"}

	// User switch: re-attach under the new identity.
	require.NoError(t, repo.Attach(ctx, "user-new"))

	// A snapshot for the old user arrives late; it must never surface.
	select {
	case oldSub.ch <- encode(t, codec, oldRecord):
	default:
		// Old pump already stopped consuming; equally fine.
	}
	newSub.push(encode(t, codec, newRecord))

	snapshot := waitForSnapshot(t, repo, 1)
	assert.Equal(t, "new", snapshot[0].ID)

	// Give any stale delivery a chance to be (wrongly) applied.
	time.Sleep(50 * time.Millisecond)
	snapshot = repo.CurrentSnapshot()
	require.Len(t, snapshot, 1)
	assert.Equal(t, "new", snapshot[0].ID)
}

func TestVaultRepository_DetachClearsList(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo, codec, remote, gate := newTestRepository(t, ctrl)
	_ = gate
	ctx := context.Background()

	sub := newFakeSubscription()
	remote.EXPECT().Subscribe(ctx, "user-1").Return(sub, nil)
	require.NoError(t, repo.Attach(ctx, "user-1"))

	sub.push(encode(t, codec, sampleWebsiteRecord()))
	waitForSnapshot(t, repo, 1)

	repo.Detach()
	assert.Empty(t, repo.CurrentSnapshot())
}

func TestVaultRepository_DeleteIsIdempotent(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo, _, remote, gate := newTestRepository(t, ctrl)
	ctx := context.Background()

	// The remote store treats deleting a missing record as success; the
	// repository just forwards that.
	gate.EXPECT().CurrentUserID().Return("user-1", true)
	remote.EXPECT().Delete(ctx, "user-1", "never-existed").Return(nil)

	done, err := repo.Delete(ctx, "never-existed")
	require.NoError(t, err)
	assert.NoError(t, <-done)
}

func TestVaultRepository_DeleteNotAuthenticated(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo, _, _, gate := newTestRepository(t, ctrl)

	gate.EXPECT().CurrentUserID().Return("", false)

	_, err := repo.Delete(context.Background(), "1")
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestVaultRepository_WriteFailureDeliveredAsync(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo, _, remote, gate := newTestRepository(t, ctrl)
	ctx := context.Background()

	wantErr := assert.AnError
	gate.EXPECT().CurrentUserID().Return("user-1", true)
	remote.EXPECT().Write(ctx, "user-1", gomock.Any()).Return(wantErr)

	done, err := repo.Update(ctx, sampleWebsiteRecord())
	require.NoError(t, err)
	assert.ErrorIs(t, <-done, wantErr)
}

func TestVaultRepository_SyncFailureKeepsLastKnownGood(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo, codec, remote, gate := newTestRepository(t, ctrl)
	_ = gate
	ctx := context.Background()

	sub := newFakeSubscription()
	remote.EXPECT().Subscribe(ctx, "user-1").Return(sub, nil)
	require.NoError(t, repo.Attach(ctx, "user-1"))

	record := sampleWebsiteRecord()
	sub.push(encode(t, codec, record))
	waitForSnapshot(t, repo, 1)

	sub.fail(assert.AnError)

	select {
	case event := <-repo.Events():
		assert.Equal(t, EventSyncFailed, event.Type)
		assert.ErrorIs(t, event.Err, assert.AnError)
	case <-time.After(time.Second):
		t.Fatal("expected a sync-failed event")
	}

	// Transient failure must not blank the vault.
	snapshot := repo.CurrentSnapshot()
	require.Len(t, snapshot, 1)
	assert.Equal(t, record, snapshot[0])
}
