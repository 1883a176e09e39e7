package store

import (
	"strconv"

	"github.com/mcsrainbow/prometheus-remote-write-client/types"
)

// accumulator holds one histogram series: the finite bucket upper bounds, the
// observations queued since the last flush, and the lifetime totals. Bucket
// counts, sum, and count are cumulative over the whole life of the series;
// flushing drains the queue into them but never resets them.
type accumulator struct {
	bounds []float64
	queue  []types.Sample

	// counts[i] is the lifetime cumulative count for bounds[i] (all samples
	// with value <= bounds[i]). The +Inf count is always count.
	counts []uint64
	count  uint64
	sum    float64
}

func newAccumulator(bounds []float64) *accumulator {
	return &accumulator{
		bounds: bounds,
		counts: make([]uint64, len(bounds)),
	}
}

// flush converts the queued observations into the sub-series of one publish:
// a _bucket series per bound plus +Inf, then _sum, then _count. Each
// sub-series carries one sample per queued observation, the cumulative state
// as of that observation at that observation's timestamp, so the whole batch
// reads as a coherent evolution and all sub-series share the same timestamp
// vector. An empty queue (every prior observation already flushed) yields one
// sample per sub-series with the lifetime totals at flushTS.
func (a *accumulator) flush(metric string, flushTS int64) []types.SubSeries {
	steps := a.queue
	if len(steps) == 0 {
		steps = []types.Sample{{TS: flushTS, Value: 0}}
	}

	bucketSamples := make([][]types.Sample, len(a.bounds)+1)
	sumSamples := make([]types.Sample, 0, len(steps))
	countSamples := make([]types.Sample, 0, len(steps))

	for _, qs := range steps {
		if len(a.queue) > 0 {
			for j, b := range a.bounds {
				if qs.Value <= b {
					a.counts[j]++
				}
			}
			a.count++
			a.sum += qs.Value
		}
		for j := range a.bounds {
			bucketSamples[j] = append(bucketSamples[j], types.Sample{TS: qs.TS, Value: float64(a.counts[j])})
		}
		bucketSamples[len(a.bounds)] = append(bucketSamples[len(a.bounds)], types.Sample{TS: qs.TS, Value: float64(a.count)})
		sumSamples = append(sumSamples, types.Sample{TS: qs.TS, Value: a.sum})
		countSamples = append(countSamples, types.Sample{TS: qs.TS, Value: float64(a.count)})
	}
	a.queue = a.queue[:0]

	out := make([]types.SubSeries, 0, len(a.bounds)+3)
	for j := range a.bounds {
		out = append(out, types.SubSeries{
			Name:    metric + "_bucket",
			Le:      formatBound(a.bounds[j]),
			Samples: bucketSamples[j],
		})
	}
	out = append(out, types.SubSeries{
		Name:    metric + "_bucket",
		Le:      "+Inf",
		Samples: bucketSamples[len(a.bounds)],
	})
	out = append(out, types.SubSeries{Name: metric + "_sum", Samples: sumSamples})
	out = append(out, types.SubSeries{Name: metric + "_count", Samples: countSamples})
	return out
}

// formatBound renders a bucket bound the way the Prometheus text format does:
// shortest decimal that round-trips, so 1.0 becomes "1".
func formatBound(b float64) string {
	return strconv.FormatFloat(b, 'g', -1, 64)
}
