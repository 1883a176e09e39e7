package store

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mcsrainbow/prometheus-remote-write-client/types"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(Config{})
	require.NoError(t, err)
	return s
}

func TestCounterAccumulates(t *testing.T) {
	s := newTestStore(t)
	lbls := map[string]string{"shop": "a"}

	snap, err := s.CounterInc("orders", 2, lbls, 1000)
	require.NoError(t, err)
	require.Equal(t, types.KindCounter, snap.Kind)
	require.Len(t, snap.Series, 1)
	require.Equal(t, "orders_total", snap.Series[0].Name)
	require.Equal(t, []types.Sample{{TS: 1000, Value: 2}}, snap.Series[0].Samples)

	snap, err = s.CounterInc("orders", 3, lbls, 2000)
	require.NoError(t, err)
	require.Equal(t, []types.Sample{{TS: 2000, Value: 5}}, snap.Series[0].Samples)
}

func TestCounterRejectsNegativeDelta(t *testing.T) {
	s := newTestStore(t)
	_, err := s.CounterInc("orders", 5, nil, 1000)
	require.NoError(t, err)

	_, err = s.CounterInc("orders", -1, nil, 2000)
	require.ErrorIs(t, err, types.ErrInvalidValue)

	// Prior value stays untouched.
	snap, err := s.CounterInc("orders", 0, nil, 3000)
	require.NoError(t, err)
	require.Equal(t, 5.0, snap.Series[0].Samples[0].Value)
}

func TestCounterRejectsNonFiniteDelta(t *testing.T) {
	s := newTestStore(t)
	for _, bad := range []float64{nan(), posInf(), negInf()} {
		_, err := s.CounterInc("orders", bad, nil, 1000)
		require.ErrorIs(t, err, types.ErrInvalidValue)
	}
}

func TestGaugeLastWriteWins(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GaugeSet("queue_depth", 5, map[string]string{"queue": "payments"}, 1000)
	require.NoError(t, err)
	_, err = s.GaugeSet("queue_depth", 7, map[string]string{"queue": "refunds"}, 1000)
	require.NoError(t, err)

	// Distinct label sets are independent series.
	snap, err := s.GaugeSet("queue_depth", 6, map[string]string{"queue": "payments"}, 2000)
	require.NoError(t, err)
	require.Equal(t, "queue_depth", snap.Series[0].Name)
	require.Equal(t, 6.0, snap.Series[0].Samples[0].Value)

	snap, err = s.GaugeSet("queue_depth", 7, map[string]string{"queue": "refunds"}, 2000)
	require.NoError(t, err)
	require.Equal(t, 7.0, snap.Series[0].Samples[0].Value)
}

func TestGaugeRejectsNonFinite(t *testing.T) {
	s := newTestStore(t)
	_, err := s.GaugeSet("queue_depth", nan(), nil, 1000)
	require.ErrorIs(t, err, types.ErrInvalidValue)
	_, err = s.GaugeSet("queue_depth", posInf(), nil, 1000)
	require.ErrorIs(t, err, types.ErrInvalidValue)
}

func TestKindConflictRejected(t *testing.T) {
	s := newTestStore(t)
	_, err := s.CounterInc("requests", 1, nil, 1000)
	require.NoError(t, err)

	_, err = s.GaugeSet("requests", 1, nil, 1000)
	require.ErrorIs(t, err, types.ErrInvalidValue)

	err = s.HistogramQueue("requests", 1, nil, 1000)
	require.ErrorIs(t, err, types.ErrInvalidValue)
}

func TestNewRejectsBadBuckets(t *testing.T) {
	_, err := New(Config{Buckets: []float64{1, 0.5}})
	require.Error(t, err)
	_, err = New(Config{Buckets: []float64{1, 1}})
	require.Error(t, err)
	_, err = New(Config{Buckets: []float64{1, posInf()}})
	require.Error(t, err)
}
