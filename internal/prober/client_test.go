package prober

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestClient(t *testing.T, opts ClientOptions) *Client {
	t.Helper()
	if opts.Timeout == 0 {
		opts.Timeout = 2 * time.Second
	}
	client, err := NewClient(opts, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(client.Close)
	return client
}

func TestClientSampleSuccess(t *testing.T) {
	var gotCacheControl, gotAccept string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCacheControl = r.Header.Get("Cache-Control")
		gotAccept = r.Header.Get("Accept")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	client := newTestClient(t, ClientOptions{})
	ms := client.Sample(context.Background(), Endpoint{Name: "test", URL: server.URL})

	assert.GreaterOrEqual(t, ms, 0.0)
	assert.Equal(t, "no-cache", gotCacheControl)
	assert.Equal(t, "*/*", gotAccept)
}

func TestClientSampleErrorStatusIsSentinel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := newTestClient(t, ClientOptions{})
	ms := client.Sample(context.Background(), Endpoint{Name: "test", URL: server.URL})

	assert.Equal(t, SentinelFailure, ms)
}

func TestClientSampleUnreachableIsSentinel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := server.URL
	server.Close()

	client := newTestClient(t, ClientOptions{Timeout: 500 * time.Millisecond})
	ms := client.Sample(context.Background(), Endpoint{Name: "test", URL: url})

	assert.Equal(t, SentinelFailure, ms)
}

func TestClientSampleCancelledContextIsSentinel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	client := newTestClient(t, ClientOptions{})
	ms := client.Sample(ctx, Endpoint{Name: "test", URL: server.URL})

	assert.Equal(t, SentinelFailure, ms)
}

func TestClientReusesConnections(t *testing.T) {
	var mu sync.Mutex
	newConns := 0

	server := httptest.NewUnstartedServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}))
	server.Config.ConnState = func(_ net.Conn, state http.ConnState) {
		if state == http.StateNew {
			mu.Lock()
			newConns++
			mu.Unlock()
		}
	}
	server.Start()
	defer server.Close()

	client := newTestClient(t, ClientOptions{})
	ep := Endpoint{Name: "test", URL: server.URL}

	for i := 0; i < 3; i++ {
		require.GreaterOrEqual(t, client.Sample(context.Background(), ep), 0.0)
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, newConns)
}

func TestNewClientRejectsMissingTimeout(t *testing.T) {
	_, err := NewClient(ClientOptions{}, zap.NewNop())
	assert.Error(t, err)
}

func TestNewClientWithSOCKS5(t *testing.T) {
	client, err := NewClient(ClientOptions{
		Timeout: time.Second,
		SOCKS5:  "127.0.0.1:1080",
	}, zap.NewNop())
	require.NoError(t, err)
	client.Close()
}
