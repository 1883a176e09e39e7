package wire

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"
	"github.com/prometheus/prometheus/model/labels"
	"github.com/stretchr/testify/require"

	"github.com/mcsrainbow/prometheus-remote-write-client/types"
)

// BenchmarkCompression compares snappy (the wire format) against zstd on a
// realistic uncompressed WriteRequest, to keep an eye on what the mandated
// block compression costs us.
func BenchmarkCompression(b *testing.B) {
	/*
		Run with:
		go test -bench="BenchmarkCompression" -benchmem ./wire
	*/
	snapshots := gaugeSnapshots(1000)
	payload, err := Encode(snapshots)
	require.NoError(b, err)
	raw, err := snappy.Decode(nil, payload)
	require.NoError(b, err)
	b.Logf("uncompressed write request: %d bytes", len(raw))

	b.Run("snappy", func(b *testing.B) {
		var out []byte
		for i := 0; i < b.N; i++ {
			out = snappy.Encode(out[:0], raw)
		}
		b.ReportMetric(float64(len(out))/float64(len(raw)), "ratio")
	})

	b.Run("zstd", func(b *testing.B) {
		enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
		require.NoError(b, err)
		defer enc.Close()
		var out []byte
		for i := 0; i < b.N; i++ {
			out = enc.EncodeAll(raw, out[:0])
		}
		b.ReportMetric(float64(len(out))/float64(len(raw)), "ratio")
	})
}

func BenchmarkEncode(b *testing.B) {
	snapshots := gaugeSnapshots(100)
	for i := 0; i < b.N; i++ {
		if _, err := Encode(snapshots); err != nil {
			b.Fatal(err)
		}
	}
}

func gaugeSnapshots(n int) []types.Snapshot {
	r := rand.New(rand.NewSource(1))
	out := make([]types.Snapshot, 0, n)
	for i := 0; i < n; i++ {
		name := fmt.Sprintf("node_cpu_seconds_%d", i)
		out = append(out, types.Snapshot{
			Kind:   types.KindGauge,
			Metric: name,
			Labels: labels.FromStrings("cpu", fmt.Sprintf("%d", i%16), "mode", "user", "instance", "node-1:9100"),
			Series: []types.SubSeries{{
				Name:    name,
				Samples: []types.Sample{{TS: 1_710_000_000_000 + int64(i), Value: r.Float64() * 1000}},
			}},
		})
	}
	return out
}
