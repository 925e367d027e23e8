package geoserver

import (
	"errors"
	"fmt"
	"syscall"
)

// ErrNotFound indicates the requested catalog object does not exist.
var ErrNotFound = errors.New("catalog object not found")

// FailedRequestError is returned when the management API answers with a
// non-success status. Deleting a style or store that is still shared by
// another layer is the typical cause.
type FailedRequestError struct {
	Status int
	Body   string
}

func (e *FailedRequestError) Error() string {
	return fmt.Sprintf("catalog request failed with status %d: %s", e.Status, e.Body)
}

// IsNotFound reports whether err represents a missing catalog object.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsConnectionRefused reports whether err was caused by the map server being
// unreachable. Callers treat this as a soft no-op for delete operations.
func IsConnectionRefused(err error) bool {
	if err == nil {
		return false
	}
	// url.Error and net.OpError both unwrap down to the syscall error.
	return errors.Is(err, syscall.ECONNREFUSED)
}
