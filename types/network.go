package types

import (
	"context"
	"time"
)

// Transport delivers one encoded payload to the backend. A nil return means
// the backend accepted the request (2xx); anything else should be a
// *DeliveryError. Implementations own all socket/TLS concerns; the client
// core never dials.
type Transport interface {
	Send(ctx context.Context, payload []byte) error
}

// ConnectionConfig holds the connection details for the default HTTP
// transport.
type ConnectionConfig struct {
	// URL is the remote write endpoint.
	URL string
	// BasicAuth holds the username and password for basic HTTP authentication.
	BasicAuth *BasicAuth
	// BearerToken is the bearer token for the endpoint.
	BearerToken string
	// UserAgent is the User-Agent header sent with each request.
	UserAgent string
	// Timeout bounds each request. Zero means DefaultTimeout.
	Timeout time.Duration
}

// BasicAuth holds credentials for basic HTTP authentication.
type BasicAuth struct {
	Username string
	Password string
}

const DefaultTimeout = 30 * time.Second
