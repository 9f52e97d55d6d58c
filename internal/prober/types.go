package prober

import (
	"context"
	"time"
)

// SentinelFailure marks a probe that produced no usable measurement. It is
// returned by samplers and must never be appended to a sample series.
const SentinelFailure = -1.0

// Endpoint is a named probe target
type Endpoint struct {
	Name      string // Region name
	Geography string // Geography group used for report ordering
	URL       string // HTTPS URL of the probed blob
}

// Sampler produces one latency measurement, in milliseconds, for an endpoint.
// On any failure it returns SentinelFailure instead of an error.
type Sampler interface {
	Sample(ctx context.Context, ep Endpoint) float64
}

// RunResult represents the collected samples of one run
type RunResult struct {
	Endpoints []Endpoint           // Endpoints probed, in configuration order
	Series    map[string][]float64 // Endpoint name -> successful latencies (ms)
	Rounds    int                  // Timed rounds completed
	StartTime time.Time            // Start of the timed window
	EndTime   time.Time            // End of the timed window
	Cancelled bool                 // True when the run was aborted early
}
