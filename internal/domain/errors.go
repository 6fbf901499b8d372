package domain

import (
	"errors"
	"fmt"
)

var (
	// Required inputs (coordinate, query text, id) are absent. This is a
	// pending state, callers must not render it as a failure.
	ErrInputsNotReady = errors.New("inputs not ready")

	// Device/IP geolocation was denied, unsupported or timed out.
	ErrLocationUnavailable = errors.New("location unavailable")

	ErrNotFound          = errors.New("not found")
	ErrTimeout           = errors.New("request timed out")
	ErrInvalidCoordinate = errors.New("invalid coordinate")
	ErrInvalidFilter     = errors.New("invalid filter")
)

// FetchError is a failed catalog call: a non-2xx status or a transport error.
type FetchError struct {
	Op         string
	StatusCode int
	Body       string
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status %d: %s", e.Op, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("fetch %s: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
