// Package network provides the default HTTP transport: one synchronous POST
// per payload, no retries. Delivery failures surface to the caller as
// *types.DeliveryError.
package network

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"net/http"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/mcsrainbow/prometheus-remote-write-client/types"
)

// RemoteWriteVersion is the value of the X-Prometheus-Remote-Write-Version
// header.
const RemoteWriteVersion = "0.1.0"

const defaultUserAgent = "prometheus-remote-write-client/1.0"

var _ types.Transport = (*Write)(nil)

// Write posts payloads to a single remote write endpoint.
type Write struct {
	client *http.Client
	cfg    types.ConnectionConfig
	log    log.Logger
}

func NewWrite(cc types.ConnectionConfig, l log.Logger) *Write {
	if cc.Timeout == 0 {
		cc.Timeout = types.DefaultTimeout
	}
	if cc.UserAgent == "" {
		cc.UserAgent = defaultUserAgent
	}
	return &Write{
		client: &http.Client{},
		cfg:    cc,
		log:    log.With(l, "name", "write", "url", cc.URL),
	}
}

// Send performs the POST. It blocks until the backend accepts or rejects the
// request or the context/timeout fires; there is no internal retry, a failure
// is the caller's to handle.
func (w *Write) Send(ctx context.Context, payload []byte) error {
	httpReq, err := http.NewRequest(http.MethodPost, w.cfg.URL, bytes.NewReader(payload))
	if err != nil {
		return &types.DeliveryError{Err: err}
	}
	httpReq.Header.Add("Content-Encoding", "snappy")
	httpReq.Header.Set("Content-Type", "application/x-protobuf")
	httpReq.Header.Set("User-Agent", w.cfg.UserAgent)
	httpReq.Header.Set("X-Prometheus-Remote-Write-Version", RemoteWriteVersion)
	if w.cfg.BasicAuth != nil {
		httpReq.SetBasicAuth(w.cfg.BasicAuth.Username, w.cfg.BasicAuth.Password)
	} else if w.cfg.BearerToken != "" {
		httpReq.Header.Set("Authorization", "Bearer "+w.cfg.BearerToken)
	}

	ctx, cncl := context.WithTimeout(ctx, w.cfg.Timeout)
	defer cncl()
	resp, err := w.client.Do(httpReq.WithContext(ctx))
	if err != nil {
		level.Error(w.log).Log("msg", "error sending remote write request", "err", err)
		return &types.DeliveryError{Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		scanner := bufio.NewScanner(io.LimitReader(resp.Body, 1_000))
		line := ""
		if scanner.Scan() {
			line = scanner.Text()
		}
		level.Error(w.log).Log("msg", "server rejected remote write request", "status", resp.StatusCode, "body", line)
		return &types.DeliveryError{StatusCode: resp.StatusCode, Body: line}
	}
	return nil
}
