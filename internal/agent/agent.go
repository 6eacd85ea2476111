// Package agent defines the capability contract every specialized agent
// implements, plus the concrete discovery, parser, researcher, and
// synthesizer agents.
package agent

import (
	"context"
	"time"

	"github.com/ShayCichocki/foiabuddy/pkg/models"
)

// Role names for the built-in agents. The coordinator's deterministic
// fallback plan uses these in a fixed order.
const (
	RoleDiscovery   = "discovery"
	RoleParser      = "parser"
	RoleResearcher  = "researcher"
	RoleSynthesizer = "synthesizer"
)

// Sink receives advisory reasoning events from a running agent. A nil Sink
// is valid and discards events; delivery is never required for correctness.
type Sink func(models.ReasoningEvent)

// Agent is a named unit of work with a declared capability set.
//
// Execute must return a Failure result, never panic, for any input problem
// it can anticipate; the coordinator converts unexpected panics to
// Failure(internal_error). Implementations must honor ctx cancellation.
type Agent interface {
	// Name is the registry name of this agent.
	Name() string
	// Capabilities describes what this agent can do.
	Capabilities() []string
	// DependsOn lists agent names whose outputs this agent consumes.
	// The planner uses these to place the agent in a later stage than
	// its dependencies.
	DependsOn() []string
	// Execute performs the task and returns a tagged result.
	Execute(ctx context.Context, task models.Task, events Sink) models.AgentResult
}

// emit sends a reasoning event through a possibly-nil sink.
func emit(events Sink, agent string, kind models.ReasoningKind, text string) {
	if events == nil {
		return
	}
	events(models.ReasoningEvent{
		Agent:     agent,
		Kind:      kind,
		Text:      text,
		Timestamp: time.Now(),
	})
}
