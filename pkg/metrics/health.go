package metrics

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"
)

// Status is the JSON body served by /health and /ready.
type Status struct {
	State      string            `json:"state"` // "up", "degraded", "down", "ready", "not_ready"
	Timestamp  time.Time         `json:"timestamp"`
	Components map[string]string `json:"components,omitempty"`
	Reason     string            `json:"reason,omitempty"`
	Version    string            `json:"version,omitempty"`
	Uptime     string            `json:"uptime,omitempty"`
}

// readinessComponents are the stores a worker process cannot run without:
// eventstream feeds the pipeline, kvtable and coordstore hold per-package
// state. /ready reports not_ready until all three have reported in.
var readinessComponents = []string{"eventstream", "kvtable", "coordstore"}

type component struct {
	healthy bool
	reason  string
	seen    time.Time
}

var registry = &struct {
	mu        sync.RWMutex
	parts     map[string]component
	startedAt time.Time
	version   string
}{
	parts:     make(map[string]component),
	startedAt: time.Now(),
}

// SetVersion stamps the version string reported by /health and /ready.
func SetVersion(version string) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.version = version
}

// RegisterComponent records the current health of a named store or
// subsystem (eventstream, kvtable, coordstore, ...). Call it again to
// update as status changes; there is no separate "update" entry point.
func RegisterComponent(name string, healthy bool, reason string) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.parts[name] = component{healthy: healthy, reason: reason, seen: time.Now()}
}

// GetHealth reports "up" only if every registered component is healthy.
// A component that was never registered does not count against it, unlike
// GetReadiness, since /health describes the process as a whole rather than
// gating on a fixed set of dependencies.
func GetHealth() Status {
	registry.mu.RLock()
	defer registry.mu.RUnlock()

	state := "up"
	comps := make(map[string]string, len(registry.parts))
	for name, c := range registry.parts {
		if c.healthy {
			comps[name] = "up"
			continue
		}
		state = "degraded"
		comps[name] = "down: " + c.reason
	}

	return Status{
		State:      state,
		Timestamp:  time.Now(),
		Components: comps,
		Version:    registry.version,
		Uptime:     time.Since(registry.startedAt).String(),
	}
}

// GetReadiness reports "ready" only once every readinessComponents entry
// has registered healthy; an entry that never registered reads
// "not registered" rather than being silently skipped.
func GetReadiness() Status {
	registry.mu.RLock()
	defer registry.mu.RUnlock()

	state := "ready"
	reason := ""
	comps := make(map[string]string, len(readinessComponents))

	for _, name := range readinessComponents {
		c, ok := registry.parts[name]
		switch {
		case !ok:
			state, reason = "not_ready", "waiting for "+name+" initialization"
			comps[name] = "not registered"
		case !c.healthy:
			state, reason = "not_ready", "waiting for "+name
			comps[name] = "down: " + c.reason
		default:
			comps[name] = "ready"
		}
	}

	return Status{
		State:      state,
		Timestamp:  time.Now(),
		Components: comps,
		Reason:     reason,
		Version:    registry.version,
		Uptime:     time.Since(registry.startedAt).String(),
	}
}

func writeStatus(w http.ResponseWriter, s Status, okState string) {
	w.Header().Set("Content-Type", "application/json")
	if s.State != okState {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	_ = json.NewEncoder(w).Encode(s)
}

// HealthHandler serves GetHealth as JSON, 503 when any component is down.
func HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, GetHealth(), "up")
	}
}

// ReadyHandler serves GetReadiness as JSON, 503 until every
// readinessComponents entry is registered healthy.
func ReadyHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, GetReadiness(), "ready")
	}
}

// LivenessHandler always reports 200 while the process is up; it answers
// "is this process alive at all", not "is it ready for traffic".
func LivenessHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{
			"state":  "alive",
			"uptime": time.Since(registry.startedAt).String(),
		})
	}
}
