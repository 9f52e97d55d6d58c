package prober

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"regionping/internal/retry"
)

// Preflight probes every endpoint once to verify that at least one is
// reachable before the run starts. The whole pass is retried with backoff;
// when every endpoint stays unreachable the run is not worth starting and an
// error is returned.
func Preflight(ctx context.Context, sampler Sampler, endpoints []Endpoint, cfg retry.Config, log *zap.Logger) error {
	if log == nil {
		log = zap.NewNop()
	}

	err := retry.Do(ctx, cfg, func() error {
		reachable := 0
		for _, ep := range endpoints {
			if sampler.Sample(ctx, ep) != SentinelFailure {
				reachable++
			}
		}

		log.Debug("connectivity probe complete",
			zap.Int("probed", len(endpoints)),
			zap.Int("reachable", reachable))

		if reachable == 0 {
			return fmt.Errorf("none of the %d endpoints responded", len(endpoints))
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("connectivity check failed: %w", err)
	}

	return nil
}
