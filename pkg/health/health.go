// Package health reports whether the external services a session depends on
// (the redis backend, the analytics broker) are reachable. Checks are
// registered by name and served as liveness and readiness endpoints next to
// the metrics.
package health

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"sync"
	"time"
)

// Status represents the health state of a component or the system overall.
type Status string

const (
	StatusUp   Status = "up"
	StatusDown Status = "down"
)

// Check probes one dependency and returns nil when it is usable.
type Check func(ctx context.Context) error

// ComponentHealth holds the result of a single component check.
type ComponentHealth struct {
	Status  Status `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

// Report is the aggregated result of all component checks.
type Report struct {
	Status     Status                     `json:"status"`
	Components map[string]ComponentHealth `json:"components"`
	Timestamp  string                     `json:"timestamp"`
}

type Checker struct {
	mu     sync.RWMutex
	checks map[string]Check
}

func NewChecker() *Checker {
	return &Checker{checks: make(map[string]Check)}
}

// Register adds a named check, replacing any check with the same name.
func (c *Checker) Register(name string, check Check) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.checks[name] = check
}

// Names returns the registered check names in sorted order.
func (c *Checker) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.checks))
	for name := range c.checks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Run executes every check and reports down if any of them failed.
func (c *Checker) Run(ctx context.Context) Report {
	report := Report{
		Status:     StatusUp,
		Components: make(map[string]ComponentHealth),
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
	}
	for _, name := range c.Names() {
		c.mu.RLock()
		check := c.checks[name]
		c.mu.RUnlock()

		start := time.Now()
		result := ComponentHealth{Status: StatusUp}
		if err := check(ctx); err != nil {
			result.Status = StatusDown
			result.Message = err.Error()
			report.Status = StatusDown
		}
		result.Latency = time.Since(start).Round(time.Millisecond).String()
		report.Components[name] = result
	}
	return report
}

// LiveHandler answers liveness probes unconditionally.
func (c *Checker) LiveHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "alive"})
	}
}

// ReadyHandler runs the checks and answers 503 when any of them fails.
func (c *Checker) ReadyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()
		report := c.Run(ctx)
		w.Header().Set("Content-Type", "application/json")
		if report.Status == StatusUp {
			w.WriteHeader(http.StatusOK)
		} else {
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		json.NewEncoder(w).Encode(report)
	}
}
