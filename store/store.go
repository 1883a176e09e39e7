// Package store owns all mutable metric state: counter values, gauge values,
// and histogram accumulators, keyed by (metric name, label set) identity.
// The store itself is not goroutine safe; the client serializes mutation and
// publish as one unit.
package store

import (
	"fmt"
	"math"
	"sort"

	"github.com/prometheus/prometheus/model/labels"

	"github.com/mcsrainbow/prometheus-remote-write-client/types"
)

// DefBuckets are the bucket upper bounds used when the caller configures none.
var DefBuckets = []float64{0.5, 1, 2.5, 5, 10}

// Config holds the store's construction-time options.
type Config struct {
	// Buckets are the finite histogram bucket upper bounds, strictly
	// ascending. Applied when a histogram series is first created; nil means
	// DefBuckets.
	Buckets []float64
}

type series struct {
	kind   types.Kind
	metric string
	lbls   labels.Labels

	// value holds the running counter total or the last gauge value.
	value float64
	hist  *accumulator
}

// Store maps series identity to typed state.
type Store struct {
	buckets []float64
	series  map[uint64]*series
}

func New(cfg Config) (*Store, error) {
	buckets := cfg.Buckets
	if buckets == nil {
		buckets = DefBuckets
	}
	if !sort.Float64sAreSorted(buckets) {
		return nil, fmt.Errorf("histogram buckets must be in ascending order: %v", buckets)
	}
	for i, b := range buckets {
		if math.IsNaN(b) || math.IsInf(b, 0) {
			return nil, fmt.Errorf("histogram bucket bound must be finite, got %v", b)
		}
		if i > 0 && buckets[i-1] == b {
			return nil, fmt.Errorf("duplicate histogram bucket bound %v", b)
		}
	}
	return &Store{
		buckets: buckets,
		series:  make(map[uint64]*series),
	}, nil
}

// lookup resolves or creates the series for (metric, lbls), rejecting kind
// conflicts. Validation happens before any map write, so a failed call leaves
// the store untouched.
func (s *Store) lookup(metric string, lbls map[string]string, kind types.Kind) (*series, error) {
	canonical, err := types.CanonicalLabels(metric, lbls)
	if err != nil {
		return nil, err
	}
	key := types.SeriesHash(metric, canonical)
	sr, ok := s.series[key]
	if !ok {
		sr = &series{kind: kind, metric: metric, lbls: canonical}
		if kind == types.KindHistogram {
			sr.hist = newAccumulator(s.buckets)
		}
		s.series[key] = sr
		return sr, nil
	}
	if sr.kind != kind {
		return nil, fmt.Errorf("%w: series %s already registered as %s, not %s", types.ErrInvalidValue, metric, sr.kind, kind)
	}
	return sr, nil
}

// CounterInc adds delta to the counter for (metric, lbls), creating it at 0.
// ts is unix milliseconds for the emitted sample.
func (s *Store) CounterInc(metric string, delta float64, lbls map[string]string, ts int64) (types.Snapshot, error) {
	if math.IsNaN(delta) || math.IsInf(delta, 0) || delta < 0 {
		return types.Snapshot{}, fmt.Errorf("%w: counter delta must be finite and >= 0, got %v", types.ErrInvalidValue, delta)
	}
	sr, err := s.lookup(metric, lbls, types.KindCounter)
	if err != nil {
		return types.Snapshot{}, err
	}
	sr.value += delta
	return types.Snapshot{
		Kind:   types.KindCounter,
		Metric: metric,
		Labels: sr.lbls,
		Series: []types.SubSeries{{
			Name:    metric + "_total",
			Samples: []types.Sample{{TS: ts, Value: sr.value}},
		}},
	}, nil
}

// GaugeSet overwrites the gauge for (metric, lbls). Last write wins.
func (s *Store) GaugeSet(metric string, value float64, lbls map[string]string, ts int64) (types.Snapshot, error) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return types.Snapshot{}, fmt.Errorf("%w: gauge value must be finite, got %v", types.ErrInvalidValue, value)
	}
	sr, err := s.lookup(metric, lbls, types.KindGauge)
	if err != nil {
		return types.Snapshot{}, err
	}
	sr.value = value
	return types.Snapshot{
		Kind:   types.KindGauge,
		Metric: metric,
		Labels: sr.lbls,
		Series: []types.SubSeries{{
			Name:    metric,
			Samples: []types.Sample{{TS: ts, Value: value}},
		}},
	}, nil
}

// HistogramQueue appends one observation to the accumulator for
// (metric, lbls), creating the accumulator with the configured buckets on
// first use. Queuing is local: nothing is published until HistogramFlush.
func (s *Store) HistogramQueue(metric string, value float64, lbls map[string]string, ts int64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return fmt.Errorf("%w: histogram observation must be finite, got %v", types.ErrInvalidValue, value)
	}
	sr, err := s.lookup(metric, lbls, types.KindHistogram)
	if err != nil {
		return err
	}
	sr.hist.queue = append(sr.hist.queue, types.Sample{TS: ts, Value: value})
	return nil
}

// HistogramFlush drains the queued observations for (metric, lbls) into the
// lifetime bucket/sum/count state and returns the resulting snapshot. ts is
// the flush time, used only when the queue is empty.
func (s *Store) HistogramFlush(metric string, lbls map[string]string, ts int64) (types.Snapshot, error) {
	canonical, err := types.CanonicalLabels(metric, lbls)
	if err != nil {
		return types.Snapshot{}, err
	}
	sr, ok := s.series[types.SeriesHash(metric, canonical)]
	if !ok || sr.kind != types.KindHistogram {
		return types.Snapshot{}, fmt.Errorf("%w: no queued samples for %s%s", types.ErrUnknownSeries, metric, canonical)
	}
	return types.Snapshot{
		Kind:   types.KindHistogram,
		Metric: metric,
		Labels: sr.lbls,
		Series: sr.hist.flush(metric, ts),
	}, nil
}
