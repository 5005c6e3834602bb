package health

import (
	"context"
	"time"
)

// Pinger is satisfied by store adapters that can verify connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingChecker performs a health check by pinging a store.
type PingChecker struct {
	name   string
	pinger Pinger
}

// NewPingChecker creates a checker that reports healthy when the ping succeeds.
func NewPingChecker(name string, pinger Pinger) *PingChecker {
	return &PingChecker{name: name, pinger: pinger}
}

// Name returns the name of the health check.
func (c *PingChecker) Name() string {
	return c.name
}

// Check pings the store and reports the outcome.
func (c *PingChecker) Check(ctx context.Context) CheckResult {
	start := time.Now()
	result := CheckResult{
		Name:      c.name,
		Status:    StatusHealthy,
		Timestamp: start,
	}

	if err := c.pinger.Ping(ctx); err != nil {
		result.Status = StatusUnhealthy
		result.Error = err.Error()
	}

	result.Duration = time.Since(start)
	return result
}
