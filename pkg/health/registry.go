// Package health provides health check primitives for the service.
package health

import (
	"context"
	"sync"
	"time"
)

// Status represents the health status of a component.
type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
)

// CheckResult represents the result of a single health check.
type CheckResult struct {
	Name      string        `json:"name"`
	Status    Status        `json:"status"`
	Error     string        `json:"error,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
	Duration  time.Duration `json:"duration"`
}

// Checker is the interface health check implementations must satisfy.
type Checker interface {
	// Check performs the health check and returns the result
	Check(ctx context.Context) CheckResult

	// Name returns the name of the health check
	Name() string
}

// AggregatedResult is the combined outcome of all registered checks.
type AggregatedResult struct {
	Status   Status        `json:"status"`
	Checks   []CheckResult `json:"checks"`
	Duration time.Duration `json:"duration"`
}

// Registry manages a collection of health checks.
type Registry struct {
	checkers map[string]Checker
	mu       sync.RWMutex
}

// NewRegistry creates a new health check registry.
func NewRegistry() *Registry {
	return &Registry{checkers: make(map[string]Checker)}
}

// Register adds a health check to the registry, replacing any checker with
// the same name.
func (r *Registry) Register(checker Checker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.checkers[checker.Name()] = checker
}

// Unregister removes a health check from the registry.
func (r *Registry) Unregister(name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.checkers, name)
}

// Check runs all registered health checks concurrently and aggregates the
// results. Any unhealthy check makes the overall status unhealthy.
func (r *Registry) Check(ctx context.Context) AggregatedResult {
	r.mu.RLock()
	checkers := make([]Checker, 0, len(r.checkers))
	for _, checker := range r.checkers {
		checkers = append(checkers, checker)
	}
	r.mu.RUnlock()

	start := time.Now()
	resultsChan := make(chan CheckResult, len(checkers))
	var wg sync.WaitGroup

	for _, checker := range checkers {
		wg.Add(1)
		go func(c Checker) {
			defer wg.Done()
			resultsChan <- c.Check(ctx)
		}(checker)
	}

	go func() {
		wg.Wait()
		close(resultsChan)
	}()

	results := make([]CheckResult, 0, len(checkers))
	overall := StatusHealthy
	for result := range resultsChan {
		results = append(results, result)
		if result.Status == StatusUnhealthy {
			overall = StatusUnhealthy
		}
	}

	return AggregatedResult{
		Status:   overall,
		Checks:   results,
		Duration: time.Since(start),
	}
}
