package types

import (
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/prometheus/common/model"
	"github.com/prometheus/prometheus/model/labels"
)

// CanonicalLabels builds the sorted label set for a metric from caller input.
// Two calls with the same pairs always yield the same labels.Labels, so the
// result is usable as part of a series identity. The metric name itself is not
// included; see SeriesHash.
func CanonicalLabels(metric string, lbls map[string]string) (labels.Labels, error) {
	if !model.IsValidLegacyMetricName(metric) {
		return labels.EmptyLabels(), fmt.Errorf("%w: invalid metric name %q", ErrInvalidValue, metric)
	}
	for name := range lbls {
		if strings.HasPrefix(name, model.ReservedLabelPrefix) {
			return labels.EmptyLabels(), fmt.Errorf("%w: label name %q uses the reserved %q prefix", ErrInvalidValue, name, model.ReservedLabelPrefix)
		}
		if !model.LabelName(name).IsValidLegacy() {
			return labels.EmptyLabels(), fmt.Errorf("%w: invalid label name %q", ErrInvalidValue, name)
		}
	}
	// labels.FromMap sorts by name, which is all the canonicalization we need:
	// label names are unique because the input is a map.
	return labels.FromMap(lbls), nil
}

// SeriesHash computes the identity hash for (metric, labels). The metric name
// is hashed under __name__ so "foo{a=b}" and "bar{a=b}" stay distinct, and the
// "le" label is excluded so histogram sub-series share one identity.
func SeriesHash(metric string, lbls labels.Labels) uint64 {
	b := labels.NewBuilder(lbls)
	b.Set(labels.MetricName, metric)
	b.Del(labels.BucketLabel)
	buf := make([]byte, 0, 1024)
	return xxhash.Sum64(b.Labels().Bytes(buf))
}
