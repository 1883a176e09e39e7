// Package remotewrite is a push-based metrics client. Application code records
// counter, gauge, and histogram observations; the client aggregates them per
// (metric name, label set) identity and ships each change as one Prometheus
// remote_write request: a snappy-compressed protobuf WriteRequest over a
// single synchronous POST. There is no batching, no buffering, and no
// background goroutine; one observation (or one histogram flush) is one
// request, and every error surfaces to the caller of the triggering method.
package remotewrite

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"sync"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"go.uber.org/atomic"

	"github.com/mcsrainbow/prometheus-remote-write-client/network"
	"github.com/mcsrainbow/prometheus-remote-write-client/store"
	"github.com/mcsrainbow/prometheus-remote-write-client/types"
	"github.com/mcsrainbow/prometheus-remote-write-client/wire"
)

// Config holds the construction-time options for a Client.
type Config struct {
	// Endpoint is the remote write URL. Required unless Debug is set.
	Endpoint string
	// Debug switches the client to rendering each request as human-readable
	// text on DebugWriter instead of sending it. Debug mode never touches the
	// network.
	Debug bool
	// DebugWriter receives debug output. Defaults to os.Stdout.
	DebugWriter io.Writer
	// Buckets are the histogram bucket upper bounds, strictly ascending.
	// Nil means store.DefBuckets.
	Buckets []float64
	// Timeout bounds each request. Zero means types.DefaultTimeout.
	Timeout time.Duration
	// UserAgent overrides the User-Agent header.
	UserAgent string
	// BasicAuth holds credentials for basic HTTP authentication.
	BasicAuth *types.BasicAuth
	// BearerToken is the bearer token for the endpoint.
	BearerToken string
	// Logger receives internal diagnostics. Defaults to a nop logger.
	Logger log.Logger
	// Transport overrides the default HTTP transport.
	Transport types.Transport
	// Stats, if set, receives one types.Result per transport send.
	Stats func(types.Result)
}

// Client aggregates observations and publishes one request per change.
//
// A publish runs synchronously on the caller's goroutine: mutate the store,
// increment the request sequence, encode the just-changed series, dispatch.
// The store mutation commits before dispatch, so after a delivery error the
// local aggregate keeps the new value even though the backend never saw it;
// retrying the same call would both re-mutate and re-send.
//
// The mutex makes mutation-plus-publish one atomic unit, so concurrent
// callers each produce a complete, self-consistent request.
type Client struct {
	mut       sync.Mutex
	store     *store.Store
	transport types.Transport
	debug     bool
	debugOut  io.Writer
	logger    log.Logger
	seq       atomic.Int64
	stats     func(types.Result)
}

// NewClient validates cfg and builds a Client. Each Client owns its own store
// and request sequence; independent clients never share state.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" && !cfg.Debug {
		return nil, errors.New("endpoint is required unless debug mode is enabled")
	}
	l := cfg.Logger
	if l == nil {
		l = log.NewNopLogger()
	}
	st, err := store.New(store.Config{Buckets: cfg.Buckets})
	if err != nil {
		return nil, err
	}
	c := &Client{
		store:    st,
		debug:    cfg.Debug,
		debugOut: cfg.DebugWriter,
		logger:   l,
		stats:    cfg.Stats,
	}
	if c.debugOut == nil {
		c.debugOut = os.Stdout
	}
	if !cfg.Debug {
		c.transport = cfg.Transport
		if c.transport == nil {
			c.transport = network.NewWrite(types.ConnectionConfig{
				URL:         cfg.Endpoint,
				BasicAuth:   cfg.BasicAuth,
				BearerToken: cfg.BearerToken,
				UserAgent:   cfg.UserAgent,
				Timeout:     cfg.Timeout,
			}, l)
		}
	}
	return c, nil
}

// CounterInc adds delta (>= 0) to the counter for (metric, lbls) and publishes
// the new cumulative value as one sample at the current time.
func (c *Client) CounterInc(ctx context.Context, metric string, delta float64, lbls map[string]string) error {
	c.mut.Lock()
	defer c.mut.Unlock()
	snap, err := c.store.CounterInc(metric, delta, lbls, nowMillis())
	if err != nil {
		return err
	}
	return c.publish(ctx, snap)
}

// GaugeSet overwrites the gauge for (metric, lbls) and publishes it. ts is
// unix seconds or milliseconds (see NormalizeTimestamp); 0 means now.
func (c *Client) GaugeSet(ctx context.Context, metric string, value float64, lbls map[string]string, ts int64) error {
	c.mut.Lock()
	defer c.mut.Unlock()
	snap, err := c.store.GaugeSet(metric, value, lbls, NormalizeTimestamp(ts))
	if err != nil {
		return err
	}
	return c.publish(ctx, snap)
}

// HistogramQueue records one observation for (metric, lbls) without
// publishing; the queued sample becomes visible on the next HistogramFlush.
func (c *Client) HistogramQueue(ctx context.Context, metric string, value float64, lbls map[string]string, ts int64) error {
	c.mut.Lock()
	defer c.mut.Unlock()
	return c.store.HistogramQueue(metric, value, lbls, NormalizeTimestamp(ts))
}

// HistogramFlush drains the queued observations for (metric, lbls) into the
// lifetime bucket/sum/count state and publishes the bucket, _sum, and _count
// series. Fails with types.ErrUnknownSeries if nothing was ever queued.
func (c *Client) HistogramFlush(ctx context.Context, metric string, lbls map[string]string) error {
	c.mut.Lock()
	defer c.mut.Unlock()
	snap, err := c.store.HistogramFlush(metric, lbls, nowMillis())
	if err != nil {
		return err
	}
	return c.publish(ctx, snap)
}

// Send publishes one raw time series: the unsuffixed metric name with a single
// sample. It registers no store state, so it never conflicts with counters or
// gauges of the same name.
func (c *Client) Send(ctx context.Context, metric string, value float64, lbls map[string]string, ts int64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return fmt.Errorf("%w: sample value must be finite, got %v", types.ErrInvalidValue, value)
	}
	canonical, err := types.CanonicalLabels(metric, lbls)
	if err != nil {
		return err
	}
	c.mut.Lock()
	defer c.mut.Unlock()
	return c.publish(ctx, types.Snapshot{
		Kind:   types.KindGauge,
		Metric: metric,
		Labels: canonical,
		Series: []types.SubSeries{{
			Name:    metric,
			Samples: []types.Sample{{TS: NormalizeTimestamp(ts), Value: value}},
		}},
	})
}

// RequestSequence returns the number of publishes so far.
func (c *Client) RequestSequence() int64 {
	return c.seq.Load()
}

// publish is the shared tail of every mutating call: bump the sequence, then
// either render the snapshot to the debug writer or encode and dispatch it.
// Callers hold the mutex.
func (c *Client) publish(ctx context.Context, snap types.Snapshot) error {
	seq := c.seq.Inc()
	snapshots := []types.Snapshot{snap}
	if c.debug {
		return wire.Render(c.debugOut, seq, snapshots)
	}
	payload, err := wire.Encode(snapshots)
	if err != nil {
		return err
	}
	start := time.Now()
	sendErr := c.transport.Send(ctx, payload)
	if sendErr == nil {
		level.Debug(c.logger).Log("msg", "published remote write request", "seq", seq, "samples", snap.SampleCount(), "bytes", len(payload))
	}
	if c.stats != nil {
		c.stats(types.Result{
			Sent:                   sendErr == nil,
			StatusCode:             statusCode(sendErr),
			PayloadBytes:           len(payload),
			Samples:                snap.SampleCount(),
			SendDuration:           time.Since(start),
			NewestTimestampSeconds: snap.NewestTS() / 1000,
		})
	}
	return sendErr
}

// statusCode maps a transport result to the Result.StatusCode convention:
// any success reads as 200, since Transport reports acceptance rather than
// the exact 2xx variant.
func statusCode(err error) int {
	var de *types.DeliveryError
	if errors.As(err, &de) {
		return de.StatusCode
	}
	if err != nil {
		return 0
	}
	return 200
}

// NormalizeTimestamp converts a caller timestamp to unix milliseconds.
// 0 means now; values below 10^12 are unix seconds and are scaled up,
// anything else passes through as milliseconds already.
func NormalizeTimestamp(ts int64) int64 {
	if ts == 0 {
		return nowMillis()
	}
	if ts < 1_000_000_000_000 {
		return ts * 1000
	}
	return ts
}

func nowMillis() int64 {
	return time.Now().UnixMilli()
}
