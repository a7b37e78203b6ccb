package domain

import "time"

// HealthState classifies a probe outcome.
type HealthState string

// Probe outcomes.
const (
	HealthHealthy     HealthState = "healthy"
	HealthUnhealthy   HealthState = "unhealthy"
	HealthUnreachable HealthState = "unreachable"
)

// ServiceHealth is the result of probing one service endpoint.
type ServiceHealth struct {
	// Service is the probed service.
	Service ServiceName

	// State is the probe outcome.
	State HealthState

	// Latency is the round-trip time of the successful probe attempt.
	Latency time.Duration

	// Detail carries the failure reason when State is not healthy
	// (HTTP status, connection error).
	Detail string

	// CheckedAt is when the probe completed.
	CheckedAt time.Time
}

// Healthy reports whether the probe succeeded.
func (h ServiceHealth) Healthy() bool {
	return h.State == HealthHealthy
}

// StackHealth aggregates the probe results of one `check` run.
type StackHealth struct {
	// Services holds one entry per probed service, in catalogue order.
	Services []ServiceHealth
}

// Healthy reports whether every probed service is healthy.
func (s StackHealth) Healthy() bool {
	for _, h := range s.Services {
		if !h.Healthy() {
			return false
		}
	}
	return len(s.Services) > 0
}
