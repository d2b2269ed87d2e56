package observability

import (
	"context"
	"time"
)

// HealthStatus is the state reported by /health.
type HealthStatus string

const (
	HealthStatusUp HealthStatus = "up"
	// HealthStatusDegraded means the dependency is configured but did not
	// answer, e.g. a faster-whisper-server that is still loading its model.
	HealthStatusDegraded HealthStatus = "degraded"
	HealthStatusDown     HealthStatus = "down"
)

// Health is the state of one dependency, usually the active provider.
type Health struct {
	Name      string            `json:"name"`
	Status    HealthStatus      `json:"status"`
	Message   string            `json:"message,omitempty"`
	LatencyMS int64             `json:"latency_ms,omitempty"`
	Details   map[string]string `json:"details,omitempty"`
}

// Probe runs check with a deadline and converts its answer into a Health.
// A false answer, or no answer before timeout, is reported as degraded.
func Probe(ctx context.Context, name string, timeout time.Duration, check func(context.Context) bool) Health {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	ok := check(ctx)
	h := Health{Name: name, Status: HealthStatusUp, LatencyMS: time.Since(start).Milliseconds()}
	if !ok {
		h.Status = HealthStatusDegraded
		h.Message = "not reachable or not configured"
		if ctx.Err() != nil {
			h.Message = "probe timed out"
		}
	}
	return h
}

// ServiceHealth is the body served by /health.
type ServiceHealth struct {
	Service    string       `json:"service"`
	Status     HealthStatus `json:"status"`
	Version    string       `json:"version,omitempty"`
	Components []Health     `json:"components,omitempty"`
}

// NewServiceHealth starts as up with no components.
func NewServiceHealth(service, version string) *ServiceHealth {
	return &ServiceHealth{Service: service, Status: HealthStatusUp, Version: version}
}

// AddComponent records ch. The overall status is the worst component status.
func (sh *ServiceHealth) AddComponent(ch Health) {
	sh.Components = append(sh.Components, ch)
	if severity(ch.Status) > severity(sh.Status) {
		sh.Status = ch.Status
	}
}

func severity(s HealthStatus) int {
	switch s {
	case HealthStatusDown:
		return 2
	case HealthStatusDegraded:
		return 1
	default:
		return 0
	}
}
