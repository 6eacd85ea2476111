// Package orchestrator coordinates multi-agent processing of records
// requests: analysis, planning, staged execution, and aggregation.
package orchestrator

import (
	"log"
	"sort"
	"sync"

	"github.com/ShayCichocki/foiabuddy/internal/agent"
)

// Registry holds the available agents, keyed by name.
// It provides thread-safe registration and lookup.
type Registry struct {
	// agents maps agent names to implementations.
	agents map[string]agent.Agent
	// mu protects agents.
	mu sync.RWMutex
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		agents: make(map[string]agent.Agent),
	}
}

// Register adds an agent under its reported name. Registering a second
// agent with the same name replaces the first.
func (r *Registry) Register(a agent.Agent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := a.Name()
	if _, exists := r.agents[name]; exists {
		log.Printf("[registry] replacing agent %q", name)
	}
	r.agents[name] = a
}

// Get retrieves an agent by name.
func (r *Registry) Get(name string) (agent.Agent, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.agents[name]
	return a, ok
}

// Names returns the registered agent names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.agents))
	for name := range r.agents {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Count returns the number of registered agents.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.agents)
}

// DependsOn returns the declared dependencies of every registered agent.
func (r *Registry) DependsOn() map[string][]string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	deps := make(map[string][]string, len(r.agents))
	for name, a := range r.agents {
		deps[name] = a.DependsOn()
	}
	return deps
}
