package domain

// ServiceName identifies one managed container in the stack.
type ServiceName string

// The four services of the stack, by compose service name.
const (
	ServiceEngine   ServiceName = "engine"
	ServiceGateway  ServiceName = "gateway"
	ServiceTracing  ServiceName = "tracing"
	ServiceDatabase ServiceName = "db"
)

// AllServices lists the stack services in dependency order: the
// database first, the user-facing gateway last.
func AllServices() []ServiceName {
	return []ServiceName{ServiceDatabase, ServiceEngine, ServiceTracing, ServiceGateway}
}

// ValidService reports whether name is a known stack service.
func ValidService(name string) bool {
	switch ServiceName(name) {
	case ServiceEngine, ServiceGateway, ServiceTracing, ServiceDatabase:
		return true
	}
	return false
}

// ServiceState is the container lifecycle state reported by the
// orchestrator.
type ServiceState string

// Container states as reported by compose ps.
const (
	StateRunning    ServiceState = "running"
	StateRestarting ServiceState = "restarting"
	StateExited     ServiceState = "exited"
	StateCreated    ServiceState = "created"
	StatePaused     ServiceState = "paused"
	StateDead       ServiceState = "dead"
	StateMissing    ServiceState = "missing"
)

// ServiceStatus is one service's row in the `status` output.
type ServiceStatus struct {
	// Name is the compose service name.
	Name ServiceName

	// Container is the container name, empty when not created.
	Container string

	// State is the container lifecycle state.
	State ServiceState

	// Health is the container health string when the image defines a
	// healthcheck ("healthy", "starting", "unhealthy"), else empty.
	Health string

	// Ports is the published port description, e.g. "127.0.0.1:8000->8000/tcp".
	Ports string
}

// Up reports whether the service is in a state that can serve traffic.
func (s ServiceStatus) Up() bool {
	return s.State == StateRunning && s.Health != "unhealthy"
}
