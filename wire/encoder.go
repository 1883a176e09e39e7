// Package wire turns publish snapshots into the remote_write wire format: a
// snappy block-compressed protobuf WriteRequest. It also renders the
// equivalent human-readable form for debug mode; both walk snapshots in the
// same order, so wire and debug output always agree on series and samples.
package wire

import (
	"github.com/gogo/protobuf/proto"
	"github.com/golang/snappy"
	"github.com/prometheus/prometheus/model/labels"
	"github.com/prometheus/prometheus/prompb"

	"github.com/mcsrainbow/prometheus-remote-write-client/types"
)

// Encode serializes the snapshots into one WriteRequest and compresses it.
// Sub-series become TimeSeries entries in snapshot order, with label pairs
// sorted by name.
func Encode(snapshots []types.Snapshot) ([]byte, error) {
	total := 0
	for _, snap := range snapshots {
		total += len(snap.Series)
	}
	wr := prompb.WriteRequest{
		Timeseries: make([]prompb.TimeSeries, 0, total),
	}
	for _, snap := range snapshots {
		for _, ss := range snap.Series {
			pts := prompb.TimeSeries{
				Labels:  protoLabels(seriesLabels(snap, ss)),
				Samples: make([]prompb.Sample, 0, len(ss.Samples)),
			}
			for _, sm := range ss.Samples {
				pts.Samples = append(pts.Samples, prompb.Sample{
					Timestamp: sm.TS,
					Value:     sm.Value,
				})
			}
			wr.Timeseries = append(wr.Timeseries, pts)
		}
	}
	data, err := proto.Marshal(&wr)
	if err != nil {
		return nil, &types.EncodingError{Err: err}
	}
	return snappy.Encode(nil, data), nil
}

// Decode is the inverse of Encode, for verifying payloads without a backend.
func Decode(payload []byte) (*prompb.WriteRequest, error) {
	data, err := snappy.Decode(nil, payload)
	if err != nil {
		return nil, &types.EncodingError{Err: err}
	}
	wr := &prompb.WriteRequest{}
	if err := proto.Unmarshal(data, wr); err != nil {
		return nil, &types.EncodingError{Err: err}
	}
	return wr, nil
}

// seriesLabels assembles the full sorted label set for one sub-series:
// __name__ with the suffixed name, the snapshot's base labels, and le for
// histogram buckets.
func seriesLabels(snap types.Snapshot, ss types.SubSeries) labels.Labels {
	b := labels.NewBuilder(snap.Labels)
	b.Set(labels.MetricName, ss.Name)
	if ss.Le != "" {
		b.Set(labels.BucketLabel, ss.Le)
	}
	return b.Labels()
}

func protoLabels(lbls labels.Labels) []prompb.Label {
	out := make([]prompb.Label, 0, lbls.Len())
	lbls.Range(func(l labels.Label) {
		out = append(out, prompb.Label{Name: l.Name, Value: l.Value})
	})
	return out
}
