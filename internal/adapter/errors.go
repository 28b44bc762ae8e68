package adapter

import (
	"errors"
	"fmt"

	"github.com/go-resty/resty/v2"
)

var (
	// ErrRemoteSync is returned for transport-level failures: connection
	// errors, non-2xx responses, broken subscription streams. The caller
	// keeps serving its last-known-good state.
	ErrRemoteSync = errors.New("remote sync failed")

	// ErrUnauthorized is returned when the server rejects the adapter's
	// token, or when a call targets a user other than the token's subject.
	ErrUnauthorized = errors.New("client unauthorized")
)

// mapHTTPError translates a non-2xx response into a sentinel error.
func mapHTTPError(resp *resty.Response) error {
	if resp.IsSuccess() {
		return nil
	}
	if resp.StatusCode() == 401 || resp.StatusCode() == 403 {
		return ErrUnauthorized
	}
	return fmt.Errorf("%w: server returned %s", ErrRemoteSync, resp.Status())
}
