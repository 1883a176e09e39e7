package types

import (
	"github.com/prometheus/prometheus/model/labels"
)

// Kind is the closed set of metric kinds the client tracks. Encoding and
// rendering switch over it exhaustively.
type Kind uint8

const (
	KindCounter Kind = iota + 1
	KindGauge
	KindHistogram
)

func (k Kind) String() string {
	switch k {
	case KindCounter:
		return "counter"
	case KindGauge:
		return "gauge"
	case KindHistogram:
		return "histogram"
	}
	return "unknown"
}

// Sample is one (timestamp, value) point. TS is unix milliseconds.
type Sample struct {
	TS    int64
	Value float64
}

// SubSeries is one wire-level time series of a snapshot: the fully suffixed
// metric name, the bucket bound for histogram buckets (empty otherwise), and
// the sample vector in timestamp order.
type SubSeries struct {
	Name    string
	Le      string
	Samples []Sample
}

// Snapshot is the read-only publish unit handed to the encoder and the debug
// renderer. Metric is the base (unsuffixed) name; Labels are the canonical
// caller labels without __name__ or le. A counter or gauge snapshot carries
// exactly one sub-series; a histogram snapshot carries one per bucket bound
// plus +Inf, then _sum, then _count.
type Snapshot struct {
	Kind   Kind
	Metric string
	Labels labels.Labels
	Series []SubSeries
}

// SampleCount returns the total number of sample points across all sub-series.
func (s Snapshot) SampleCount() int {
	n := 0
	for _, ss := range s.Series {
		n += len(ss.Samples)
	}
	return n
}

// NewestTS returns the newest sample timestamp in the snapshot, 0 if empty.
func (s Snapshot) NewestTS() int64 {
	var newest int64
	for _, ss := range s.Series {
		for _, sm := range ss.Samples {
			if sm.TS > newest {
				newest = sm.TS
			}
		}
	}
	return newest
}
