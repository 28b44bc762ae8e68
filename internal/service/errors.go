package service

import (
	"errors"
	"fmt"
)

// ErrNotAuthenticated is returned when a mutation is attempted with no
// resolved user identity. The call is rejected before any network activity.
var ErrNotAuthenticated = errors.New("no authenticated user")

// RecordDecodeError reports that a single wire record could not be
// converted to its plaintext form because one field failed to decrypt.
type RecordDecodeError struct {
	RecordID string
	Field    string
	Err      error
}

func (e *RecordDecodeError) Error() string {
	return fmt.Sprintf("decode record %q: field %q: %v", e.RecordID, e.Field, e.Err)
}

func (e *RecordDecodeError) Unwrap() error {
	return e.Err
}
