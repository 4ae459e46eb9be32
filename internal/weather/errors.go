package weather

import (
	"errors"
	"fmt"
)

var (
	// ErrUnrecognizedPayload is returned when a weather body matches no known shape.
	ErrUnrecognizedPayload = errors.New("unrecognized weather payload")
	// ErrEmptyPayload is returned when a payload carries no readings at all.
	ErrEmptyPayload = errors.New("weather payload has no readings")
)

// ValidationError reports caller input the service refuses to process.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NotFoundError is returned when geocoding yields no candidates.
type NotFoundError struct {
	Query string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no location found for %q", e.Query)
}

// UpstreamError wraps a failed call to a geocoding or weather provider.
// StatusCode and Body are set when the provider answered with a non-success
// status; Timeout is set when the call ran out of time.
type UpstreamError struct {
	Provider   string
	Op         string
	StatusCode int
	Body       string
	Timeout    bool
	Err        error
}

func (e *UpstreamError) Error() string {
	switch {
	case e.StatusCode != 0:
		return fmt.Sprintf("%s %s: upstream returned status %d: %s", e.Provider, e.Op, e.StatusCode, e.Body)
	case e.Timeout:
		return fmt.Sprintf("%s %s: upstream timed out: %v", e.Provider, e.Op, e.Err)
	default:
		return fmt.Sprintf("%s %s: %v", e.Provider, e.Op, e.Err)
	}
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is (or wraps) a *NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsUpstream reports whether err is (or wraps) an *UpstreamError.
func IsUpstream(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue)
}
