package health

import (
	"context"
	"time"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates the UI and its backend are reachable.
	Healthy Status = "ok"
	// Degraded indicates the UI is up but searches will fail.
	Degraded Status = "degraded"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// defaultCheckTimeout bounds a single backend ping.
const defaultCheckTimeout = 2 * time.Second

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	backend BackendPinger
	timeout time.Duration
}

// New creates a Service.
func New(backend BackendPinger) *Service {
	return &Service{backend: backend, timeout: defaultCheckTimeout}
}

// Check pings the search backend. The UI itself is always considered up.
func (s *Service) Check(ctx context.Context) Report {
	checks := map[string]CheckResult{"ui": CheckOK}

	pingCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.backend.Ping(pingCtx); err != nil {
		checks["backend"] = CheckError
	} else {
		checks["backend"] = CheckOK
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}

	return Report{Status: status, Checks: checks}
}
