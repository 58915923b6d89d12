// Package monitoring probes backends. Probes run once at startup; a backend
// that fails its probe stays disabled for the life of the process.
package monitoring

import (
	"context"
	"log/slog"
	"time"
)

const PROBE_TIMEOUT = 10 * time.Second

type HealthCheck func(ctx context.Context) bool

// Probe runs check once and logs the outcome. A missing check counts as
// healthy: there is nothing to probe.
func Probe(ctx context.Context, name string, check HealthCheck) bool {
	if check == nil {
		return true
	}

	ctx, cancel := context.WithTimeout(ctx, PROBE_TIMEOUT)
	defer cancel()

	start := time.Now()
	if !check(ctx) {
		slog.Warn("[HealthCheck] Backend failed startup probe, disabling it",
			slog.String("backend", name),
			slog.Duration("elapsed", time.Since(start)))
		return false
	}
	slog.Info("[HealthCheck] Backend is healthy",
		slog.String("backend", name),
		slog.Duration("elapsed", time.Since(start)))
	return true
}
