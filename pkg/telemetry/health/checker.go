package health

import (
	"context"
	"sync"
	"time"
)

// CheckFunc performs a health check for one component. It returns nil
// when the component is healthy.
type CheckFunc func(ctx context.Context) error

// CheckResult is the outcome of a single component check.
type CheckResult struct {
	// Status is "ok" or "unhealthy".
	Status string `json:"status"`

	// Message carries the failure detail for unhealthy components.
	Message string `json:"message,omitempty"`
}

// Status is the aggregate health report.
type Status struct {
	// Status is "ok" or "degraded".
	Status string `json:"status"`

	// Checks holds per-component results, keyed by component name.
	Checks map[string]CheckResult `json:"checks,omitempty"`

	// Timestamp is when the checks ran.
	Timestamp time.Time `json:"timestamp"`
}

// Checker runs registered component checks. A degraded component makes
// the aggregate degraded but does not fail the health endpoint: the
// process is still serving, which is what external probes ask about.
type Checker struct {
	mu           sync.RWMutex
	checks       map[string]CheckFunc
	checkTimeout time.Duration
}

// New creates a checker. A zero timeout defaults to 2 seconds per
// check.
func New(checkTimeout time.Duration) *Checker {
	if checkTimeout == 0 {
		checkTimeout = 2 * time.Second
	}
	return &Checker{
		checks:       make(map[string]CheckFunc),
		checkTimeout: checkTimeout,
	}
}

// Register adds a named component check, replacing any existing check
// with the same name.
func (c *Checker) Register(name string, check CheckFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checks[name] = check
}

// Check runs all registered checks and aggregates the results.
func (c *Checker) Check(ctx context.Context) Status {
	c.mu.RLock()
	checks := make(map[string]CheckFunc, len(c.checks))
	for name, fn := range c.checks {
		checks[name] = fn
	}
	c.mu.RUnlock()

	status := Status{
		Status:    "ok",
		Timestamp: time.Now().UTC(),
	}
	if len(checks) > 0 {
		status.Checks = make(map[string]CheckResult, len(checks))
	}

	for name, fn := range checks {
		checkCtx, cancel := context.WithTimeout(ctx, c.checkTimeout)
		err := fn(checkCtx)
		cancel()

		if err != nil {
			status.Status = "degraded"
			status.Checks[name] = CheckResult{Status: "unhealthy", Message: err.Error()}
			continue
		}
		status.Checks[name] = CheckResult{Status: "ok"}
	}

	return status
}
