package loki

import (
	"compress/gzip"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type received struct {
	mu       sync.Mutex
	requests []pushRequest
	headers  []http.Header
}

func (r *received) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		gz, err := gzip.NewReader(req.Body)
		require.NoError(t, err)

		var body pushRequest
		require.NoError(t, json.NewDecoder(gz).Decode(&body))

		r.mu.Lock()
		r.requests = append(r.requests, body)
		r.headers = append(r.headers, req.Header.Clone())
		r.mu.Unlock()

		w.WriteHeader(http.StatusNoContent)
	}
}

func Test_NewShipper_ConfigValidation(t *testing.T) {
	_, err := NewShipper(Config{}, nil)
	assert.Error(t, err)

	_, err = NewShipper(Config{URL: "not a url"}, nil)
	assert.Error(t, err)

	shipper, err := NewShipper(Config{URL: "http://loki:3100/loki/api/v1/push"}, nil)
	require.NoError(t, err)
	assert.Equal(t, 500, shipper.config.BatchSize)
	assert.Equal(t, 5*time.Second, shipper.config.FlushInterval)
	assert.Equal(t, 2000, shipper.config.BufferSize)
	require.NoError(t, shipper.Close(context.Background()))
}

func Test_Shipper_Close_ShouldFlushByLevel(t *testing.T) {
	got := &received{}
	server := httptest.NewServer(got.handler(t))
	defer server.Close()

	shipper, err := NewShipper(Config{
		URL:           server.URL,
		Labels:        map[string]string{"app": "matcher"},
		TenantID:      "ssu",
		Username:      "user",
		Password:      "secret",
		FlushInterval: time.Hour,
	}, func(err error) { t.Errorf("unexpected ship error: %v", err) })
	require.NoError(t, err)

	now := time.Unix(1700000000, 0)
	assert.True(t, shipper.Ship(Entry{Time: now, Level: "error", Message: "db down", Fields: map[string]any{"error_type": "db"}}))
	assert.True(t, shipper.Ship(Entry{Time: now, Level: "warning", Message: "fallback"}))
	assert.True(t, shipper.Ship(Entry{Time: now, Level: "error", Message: "db still down"}))

	require.NoError(t, shipper.Close(context.Background()))

	got.mu.Lock()
	defer got.mu.Unlock()
	require.Len(t, got.requests, 1)
	streams := got.requests[0].Streams
	require.Len(t, streams, 2)

	assert.Equal(t, map[string]string{"app": "matcher", "level": "error"}, streams[0].Stream)
	require.Len(t, streams[0].Values, 2)
	assert.Equal(t, "1700000000000000000", streams[0].Values[0][0])
	assert.JSONEq(t, `{"msg":"db down","error_type":"db"}`, streams[0].Values[0][1])
	assert.Equal(t, "warning", streams[1].Stream["level"])

	assert.Equal(t, "ssu", got.headers[0].Get("X-Scope-OrgID"))
	user, password, ok := (&http.Request{Header: got.headers[0]}).BasicAuth()
	assert.True(t, ok)
	assert.Equal(t, "user", user)
	assert.Equal(t, "secret", password)
}

func Test_Shipper_ShouldFlushFullBatch(t *testing.T) {
	got := &received{}
	server := httptest.NewServer(got.handler(t))
	defer server.Close()

	shipper, err := NewShipper(Config{URL: server.URL, BatchSize: 2, FlushInterval: time.Hour}, nil)
	require.NoError(t, err)

	shipper.Ship(Entry{Time: time.Now(), Level: "info", Message: "a"})
	shipper.Ship(Entry{Time: time.Now(), Level: "info", Message: "b"})

	assert.Eventually(t, func() bool {
		got.mu.Lock()
		defer got.mu.Unlock()
		return len(got.requests) == 1
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, shipper.Close(context.Background()))
}

func Test_Shipper_ServerError_IsReported(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	errs := make(chan error, 1)
	shipper, err := NewShipper(Config{URL: server.URL, FlushInterval: time.Hour}, func(err error) { errs <- err })
	require.NoError(t, err)

	shipper.Ship(Entry{Time: time.Now(), Level: "error", Message: "boom"})
	require.NoError(t, shipper.Close(context.Background()))

	select {
	case err := <-errs:
		assert.Contains(t, err.Error(), "400")
	default:
		t.Fatal("expected ship error")
	}
}

func Test_Shipper_ShipAfterClose_IsDropped(t *testing.T) {
	got := &received{}
	server := httptest.NewServer(got.handler(t))
	defer server.Close()

	shipper, err := NewShipper(Config{URL: server.URL, FlushInterval: time.Hour}, nil)
	require.NoError(t, err)
	require.NoError(t, shipper.Close(context.Background()))

	assert.NotPanics(t, func() {
		assert.False(t, shipper.Ship(Entry{Time: time.Now(), Level: "error", Message: "late"}))
	})
	assert.Equal(t, int64(1), shipper.Dropped())
	require.NoError(t, shipper.Close(context.Background()))

	got.mu.Lock()
	defer got.mu.Unlock()
	assert.Empty(t, got.requests)
}
