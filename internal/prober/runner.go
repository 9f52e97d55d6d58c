package prober

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
)

// RunConfig holds the collection loop parameters.
type RunConfig struct {
	Interval     time.Duration // Target cadence between round starts
	Duration     time.Duration // Length of the timed collection window
	WarmupRounds int           // Discarded rounds before the timed window
	Parallel     bool          // Fan out each round across endpoints
}

// Runner drives the sampling rounds: warm-up first, then timed collection.
type Runner struct {
	sampler   Sampler
	endpoints []Endpoint
	cfg       RunConfig
	log       *zap.Logger

	// Progress receives the per-round progress lines. Defaults to stdout.
	Progress io.Writer
}

// NewRunner creates a collection loop over the given endpoints.
func NewRunner(sampler Sampler, endpoints []Endpoint, cfg RunConfig, log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{
		sampler:   sampler,
		endpoints: endpoints,
		cfg:       cfg,
		log:       log,
	}
}

// Run executes the warm-up rounds and then the timed collection window.
// Cancellation aborts between rounds; whatever was collected so far is
// returned so the caller can still produce a best-effort report.
func (r *Runner) Run(ctx context.Context) *RunResult {
	result := &RunResult{
		Endpoints: r.endpoints,
		Series:    make(map[string][]float64, len(r.endpoints)),
	}
	for _, ep := range r.endpoints {
		result.Series[ep.Name] = []float64{}
	}

	// Warm-up rounds absorb connection setup cost; their samples are
	// discarded and do not count toward the timed window.
	for i := 0; i < r.cfg.WarmupRounds; i++ {
		if ctx.Err() != nil {
			result.Cancelled = true
			return result
		}
		r.round(ctx)
		r.log.Debug("warm-up round complete", zap.Int("round", i+1))
	}

	result.StartTime = time.Now()
	deadline := result.StartTime.Add(r.cfg.Duration)

	for time.Now().Before(deadline) {
		if ctx.Err() != nil {
			result.Cancelled = true
			break
		}

		roundStart := time.Now()
		samples := r.round(ctx)

		for i, ep := range r.endpoints {
			if samples[i] == SentinelFailure {
				continue
			}
			result.Series[ep.Name] = append(result.Series[ep.Name], samples[i])
		}
		result.Rounds++

		r.reportProgress(result.StartTime, deadline, result.Rounds)

		// Sleep whatever part of the cadence the round's work did not consume.
		wait := r.cfg.Interval - time.Since(roundStart)
		if wait <= 0 {
			continue
		}
		select {
		case <-ctx.Done():
			result.Cancelled = true
		case <-time.After(wait):
		}
	}

	result.EndTime = time.Now()
	return result
}

// round samples every endpoint once and returns the raw results, indexed like
// r.endpoints. Sequential by default; with Parallel set, the requests fan out
// into per-endpoint slots and are merged here after all of them finish.
func (r *Runner) round(ctx context.Context) []float64 {
	samples := make([]float64, len(r.endpoints))

	if !r.cfg.Parallel {
		for i, ep := range r.endpoints {
			samples[i] = r.sampler.Sample(ctx, ep)
		}
		return samples
	}

	var wg sync.WaitGroup
	for i, ep := range r.endpoints {
		wg.Add(1)
		go func(i int, ep Endpoint) {
			defer wg.Done()
			samples[i] = r.sampler.Sample(ctx, ep)
		}(i, ep)
	}
	wg.Wait()

	return samples
}

func (r *Runner) reportProgress(start, deadline time.Time, rounds int) {
	w := r.Progress
	if w == nil {
		w = os.Stdout
	}

	total := deadline.Sub(start)
	if total <= 0 {
		return
	}

	elapsed := time.Since(start)
	pct := float64(elapsed) / float64(total) * 100.0
	if pct > 100 {
		pct = 100
	}
	remaining := deadline.Sub(time.Now())
	if remaining < 0 {
		remaining = 0
	}

	fmt.Fprintf(w, "  progress: %3.0f%% (round %d, ~%ds remaining)\n",
		pct, rounds, int(remaining.Seconds()))
}
