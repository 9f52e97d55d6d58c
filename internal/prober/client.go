package prober

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/proxy"
)

// Client is the HTTP sampler. It keeps one persistent client (and connection
// pool) for the whole run so that individual samples do not pay connection
// setup cost; the warm-up rounds absorb the first connections.
type Client struct {
	client   *http.Client
	fallback []*http.Client // progressively older TLS floors, tls_compat only
	timeout  time.Duration
	log      *zap.Logger

	warnOnce sync.Once
}

// ClientOptions configures the sampler client.
type ClientOptions struct {
	Timeout   time.Duration // Per-request timeout, must be set
	SOCKS5    string        // Optional SOCKS5 proxy address for all probes
	TLSCompat bool          // Opt-in retry of failed probes under older TLS versions
}

// NewClient creates the persistent sampler client.
func NewClient(opts ClientOptions, log *zap.Logger) (*Client, error) {
	if opts.Timeout <= 0 {
		return nil, fmt.Errorf("request timeout must be > 0")
	}
	if log == nil {
		log = zap.NewNop()
	}

	dialContext, err := newDialContext(opts.SOCKS5)
	if err != nil {
		return nil, err
	}

	newHTTPClient := func(tlsMin, tlsMax uint16) *http.Client {
		return &http.Client{
			Timeout: opts.Timeout,
			Transport: &http.Transport{
				DialContext:           dialContext,
				TLSClientConfig:       &tls.Config{MinVersion: tlsMin, MaxVersion: tlsMax},
				MaxIdleConnsPerHost:   2,
				IdleConnTimeout:       90 * time.Second,
				TLSHandshakeTimeout:   10 * time.Second,
				ExpectContinueTimeout: 1 * time.Second,
			},
		}
	}

	c := &Client{
		client:  newHTTPClient(tls.VersionTLS12, 0),
		timeout: opts.Timeout,
		log:     log,
	}

	if opts.TLSCompat {
		c.fallback = []*http.Client{
			newHTTPClient(tls.VersionTLS11, tls.VersionTLS11),
			newHTTPClient(tls.VersionTLS10, tls.VersionTLS10),
		}
	}

	return c, nil
}

// newDialContext returns the transport dial function, routed through a SOCKS5
// proxy when one is configured.
func newDialContext(socks5 string) (func(ctx context.Context, network, addr string) (net.Conn, error), error) {
	baseDialer := &net.Dialer{
		Timeout:   30 * time.Second,
		KeepAlive: 30 * time.Second,
	}

	if socks5 == "" {
		return baseDialer.DialContext, nil
	}

	s5, err := proxy.SOCKS5("tcp", socks5, nil, baseDialer)
	if err != nil {
		return nil, fmt.Errorf("failed to create SOCKS5 dialer: %w", err)
	}

	if cd, ok := s5.(proxy.ContextDialer); ok {
		return cd.DialContext, nil
	}

	return func(_ context.Context, network, addr string) (net.Conn, error) {
		return s5.Dial(network, addr)
	}, nil
}

// Sample performs one timed GET against the endpoint and returns the elapsed
// wall-clock time in milliseconds, or SentinelFailure on any error or
// non-success status. Failures never propagate as errors.
func (c *Client) Sample(ctx context.Context, ep Endpoint) float64 {
	ms, err := c.probe(ctx, c.client, ep.URL)
	if err == nil {
		return ms
	}

	for i, fb := range c.fallback {
		ms, fbErr := c.probe(ctx, fb, ep.URL)
		if fbErr == nil {
			c.warnOnce.Do(func() {
				c.log.Warn("probe succeeded only after TLS downgrade",
					zap.String("region", ep.Name),
					zap.Int("downgrade_steps", i+1))
			})
			return ms
		}
	}

	c.log.Debug("sample discarded",
		zap.String("region", ep.Name),
		zap.Error(err))
	return SentinelFailure
}

// probe issues the request and measures from just before it is sent until the
// response body is fully read. Draining the body keeps the pooled connection
// reusable for the next round.
func (c *Client) probe(ctx context.Context, client *http.Client, url string) (float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Accept", "*/*")

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if _, err := io.Copy(io.Discard, resp.Body); err != nil {
		return 0, fmt.Errorf("failed to read response: %w", err)
	}
	elapsed := time.Since(start)

	if resp.StatusCode < 200 || resp.StatusCode >= 400 {
		return 0, fmt.Errorf("HTTP %d", resp.StatusCode)
	}

	return float64(elapsed.Microseconds()) / 1000.0, nil
}

// Close releases idle pooled connections.
func (c *Client) Close() {
	c.client.CloseIdleConnections()
	for _, fb := range c.fallback {
		fb.CloseIdleConnections()
	}
}
