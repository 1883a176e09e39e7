package network

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-kit/log"
	"github.com/stretchr/testify/require"

	"github.com/mcsrainbow/prometheus-remote-write-client/types"
)

func TestSendSetsRemoteWriteHeaders(t *testing.T) {
	var gotHeaders http.Header
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeaders = r.Header.Clone()
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	wr := NewWrite(types.ConnectionConfig{URL: srv.URL}, log.NewNopLogger())
	require.NoError(t, wr.Send(context.Background(), []byte("payload")))

	require.Equal(t, "snappy", gotHeaders.Get("Content-Encoding"))
	require.Equal(t, "application/x-protobuf", gotHeaders.Get("Content-Type"))
	require.Equal(t, "0.1.0", gotHeaders.Get("X-Prometheus-Remote-Write-Version"))
	require.Equal(t, defaultUserAgent, gotHeaders.Get("User-Agent"))
	require.Equal(t, []byte("payload"), gotBody)
}

func TestSendBasicAuth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		require.Equal(t, "user", user)
		require.Equal(t, "secret", pass)
	}))
	defer srv.Close()

	wr := NewWrite(types.ConnectionConfig{
		URL:       srv.URL,
		BasicAuth: &types.BasicAuth{Username: "user", Password: "secret"},
	}, log.NewNopLogger())
	require.NoError(t, wr.Send(context.Background(), nil))
}

func TestSendNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("out of order sample\nsecond line ignored"))
	}))
	defer srv.Close()

	wr := NewWrite(types.ConnectionConfig{URL: srv.URL}, log.NewNopLogger())
	err := wr.Send(context.Background(), []byte("payload"))

	var de *types.DeliveryError
	require.ErrorAs(t, err, &de)
	require.Equal(t, http.StatusBadRequest, de.StatusCode)
	require.Equal(t, "out of order sample", de.Body)
}

func TestSendNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	wr := NewWrite(types.ConnectionConfig{URL: srv.URL}, log.NewNopLogger())
	err := wr.Send(context.Background(), []byte("payload"))

	var de *types.DeliveryError
	require.ErrorAs(t, err, &de)
	require.Equal(t, 0, de.StatusCode)
	require.Error(t, de.Err)
}

func TestSendHonorsContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	wr := NewWrite(types.ConnectionConfig{URL: srv.URL}, log.NewNopLogger())
	err := wr.Send(ctx, []byte("payload"))

	var de *types.DeliveryError
	require.ErrorAs(t, err, &de)
	require.Equal(t, 0, de.StatusCode)
}
