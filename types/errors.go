package types

import (
	"errors"
	"fmt"
)

// ErrInvalidValue is returned for numeric input the contract rejects: NaN or
// infinite values anywhere, negative counter deltas, malformed metric or label
// names, or an operation against a series of a different kind. The store is
// never mutated when it is returned.
var ErrInvalidValue = errors.New("invalid value")

// ErrUnknownSeries is returned by a histogram flush when nothing was ever
// queued for the (metric, labels) key.
var ErrUnknownSeries = errors.New("unknown series")

// EncodingError wraps a protobuf or snappy failure. Well-formed snapshots
// cannot trigger it, so callers should treat it as a defect rather than a
// condition to handle.
type EncodingError struct {
	Err error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("encoding write request: %s", e.Err)
}

func (e *EncodingError) Unwrap() error { return e.Err }

// DeliveryError reports a failed send. StatusCode is 0 when the request never
// reached the backend (dial, timeout, context); otherwise it is the non-2xx
// status, with the first line of the response body in Body.
type DeliveryError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *DeliveryError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("remote write request failed: %s", e.Err)
	}
	return fmt.Sprintf("server returned HTTP status %d: %s", e.StatusCode, e.Body)
}

func (e *DeliveryError) Unwrap() error { return e.Err }
