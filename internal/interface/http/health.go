package http

import (
	"context"
	"sync"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH CHECKER
// ══════════════════════════════════════════════════════════════════════════════

// HealthCheckFunc is a single named health check. It returns an error
// if the backing service is unavailable.
type HealthCheckFunc func(ctx context.Context) error

// Checker aggregates named health checks for the /health endpoint.
// Typical checks are the Postgres pool ping and the Redis ping.
type Checker struct {
	mu      sync.RWMutex
	checks  map[string]HealthCheckFunc
	timeout time.Duration
}

// NewChecker creates an empty health checker.
func NewChecker() *Checker {
	return &Checker{
		checks:  make(map[string]HealthCheckFunc),
		timeout: 3 * time.Second,
	}
}

// AddCheck registers a named health check. Replaces any existing check
// with the same name.
func (c *Checker) AddCheck(name string, check HealthCheckFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checks[name] = check
}

// RemoveCheck removes a named health check.
func (c *Checker) RemoveCheck(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.checks, name)
}

// Check runs all registered checks and aggregates their results.
// A single failing check marks the whole service unhealthy.
func (c *Checker) Check(ctx context.Context) HealthStatus {
	c.mu.RLock()
	checks := make(map[string]HealthCheckFunc, len(c.checks))
	for name, fn := range c.checks {
		checks[name] = fn
	}
	c.mu.RUnlock()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	status := HealthStatus{
		Healthy: true,
		Checks:  make(map[string]string, len(checks)),
	}

	for name, fn := range checks {
		if err := fn(ctx); err != nil {
			status.Healthy = false
			status.Checks[name] = err.Error()
			continue
		}
		status.Checks[name] = "ok"
	}

	return status
}
