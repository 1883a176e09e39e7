package types

import (
	"time"
)

// Result describes one publish attempt. The client hands one Result to its
// stats callback per transport send; debug-mode publishes never reach the
// transport and produce no Result.
type Result struct {
	// Sent is true when the backend accepted the request.
	Sent bool
	// StatusCode is 200 on any success (the transport reports acceptance, not
	// the exact 2xx variant), the backend's status on rejection, and 0 when
	// the request never reached the backend.
	StatusCode int
	// PayloadBytes is the compressed payload size.
	PayloadBytes int
	// Samples is the number of sample points in the published snapshot.
	Samples int
	// SendDuration covers the transport call only.
	SendDuration time.Duration
	// NewestTimestampSeconds is the newest sample timestamp published.
	NewestTimestampSeconds int64
}
