package wire

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/prometheus/prometheus/model/labels"

	"github.com/mcsrainbow/prometheus-remote-write-client/types"
)

// Render writes the debug form of one publish: the request sequence header,
// then per snapshot a # TYPE line and one line per sample, then a blank line.
// Series and samples appear in exactly the order Encode serializes them.
func Render(w io.Writer, seq int64, snapshots []types.Snapshot) error {
	if _, err := fmt.Fprintf(w, "[DEBUG] remote_write_req_seq: %d\n", seq); err != nil {
		return err
	}
	for _, snap := range snapshots {
		if _, err := fmt.Fprintf(w, "# TYPE %s %s\n", snap.Metric, snap.Kind); err != nil {
			return err
		}
		for _, ss := range snap.Series {
			line := sampleName(seriesLabels(snap, ss))
			for _, sm := range ss.Samples {
				if _, err := fmt.Fprintf(w, "%s %s\n", line, formatValue(sm.Value)); err != nil {
					return err
				}
			}
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}

// sampleName renders name{a="b",le="1"} from the full sorted label set;
// a series with no labels beyond __name__ renders bare.
func sampleName(lbls labels.Labels) string {
	var name string
	rest := make([]string, 0, lbls.Len())
	lbls.Range(func(l labels.Label) {
		if l.Name == labels.MetricName {
			name = l.Value
			return
		}
		rest = append(rest, fmt.Sprintf("%s=%q", l.Name, l.Value))
	})
	if len(rest) == 0 {
		return name
	}
	return name + "{" + strings.Join(rest, ",") + "}"
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
