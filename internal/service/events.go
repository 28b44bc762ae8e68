package service

// EventType classifies repository observability events.
type EventType string

const (
	// EventRecordSkipped: one record in a snapshot failed to decode and was
	// dropped; the rest of the snapshot was applied.
	EventRecordSkipped EventType = "record_skipped"

	// EventSyncFailed: the remote subscription reported a transport or
	// permission error. The repository keeps serving the last-known-good
	// snapshot.
	EventSyncFailed EventType = "sync_failed"
)

// Event is a non-fatal condition surfaced by the repository for logging,
// metrics or user notification.
type Event struct {
	Type     EventType
	UserID   string
	RecordID string
	Err      error
}
