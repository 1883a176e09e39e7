// Package stats exposes the client's own publish activity as prometheus
// collectors, fed from the client's per-publish Result callback. Optional:
// a client with no stats callback records nothing.
package stats

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/mcsrainbow/prometheus-remote-write-client/types"
)

type Stats struct {
	register prometheus.Registerer

	RequestsTotal             prometheus.Counter
	FailuresTotal             prometheus.Counter
	SamplesTotal              prometheus.Counter
	SentBytesTotal            prometheus.Counter
	SendDuration              prometheus.Histogram
	NewestOutTimestampSeconds prometheus.Gauge
}

func NewStats(namespace, subsystem string, registry prometheus.Registerer) *Stats {
	s := &Stats{
		register: registry,
		RequestsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "requests_total",
		}),
		FailuresTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "failures_total",
		}),
		SamplesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "samples_total",
		}),
		SentBytesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "sent_bytes_total",
		}),
		SendDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:                   namespace,
			Subsystem:                   subsystem,
			Name:                        "send_duration_seconds",
			NativeHistogramBucketFactor: 1.1,
		}),
		NewestOutTimestampSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "newest_out_timestamp_seconds",
		}),
	}
	registry.MustRegister(
		s.RequestsTotal,
		s.FailuresTotal,
		s.SamplesTotal,
		s.SentBytesTotal,
		s.SendDuration,
		s.NewestOutTimestampSeconds,
	)
	return s
}

// Observe records one publish result. Pass it as the client's stats callback.
func (s *Stats) Observe(r types.Result) {
	s.RequestsTotal.Inc()
	if !r.Sent {
		s.FailuresTotal.Inc()
		return
	}
	s.SamplesTotal.Add(float64(r.Samples))
	s.SentBytesTotal.Add(float64(r.PayloadBytes))
	s.SendDuration.Observe(r.SendDuration.Seconds())
	if r.NewestTimestampSeconds > 0 {
		s.NewestOutTimestampSeconds.Set(float64(r.NewestTimestampSeconds))
	}
}

// Unregister removes the collectors from the registry.
func (s *Stats) Unregister() {
	s.register.Unregister(s.RequestsTotal)
	s.register.Unregister(s.FailuresTotal)
	s.register.Unregister(s.SamplesTotal)
	s.register.Unregister(s.SentBytesTotal)
	s.register.Unregister(s.SendDuration)
	s.register.Unregister(s.NewestOutTimestampSeconds)
}
