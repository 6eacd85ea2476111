package models

import "time"

// ActorCoordinator is the actor name used for coordinator-level decisions.
const ActorCoordinator = "coordinator"

// DecisionLogEntry records one orchestration decision. Entries are
// append-only and never mutated after creation.
type DecisionLogEntry struct {
	// Seq is the position of this entry in the run's log, starting at 0.
	Seq int `json:"seq"`
	// Timestamp is when the decision was recorded.
	Timestamp time.Time `json:"timestamp"`
	// Actor is the agent name or "coordinator".
	Actor string `json:"actor"`
	// Decision describes what was decided.
	Decision string `json:"decision"`
	// Reasoning explains why, when available.
	Reasoning string `json:"reasoning,omitempty"`
}

// ReasoningKind is the category of a reasoning event.
type ReasoningKind string

const (
	// ReasoningThinking is model reasoning text emitted while an agent works.
	ReasoningThinking ReasoningKind = "thinking"
	// ReasoningProgress is a short progress note ("parsed 3 of 8 files").
	ReasoningProgress ReasoningKind = "progress"
	// ReasoningWarning flags a recoverable problem the agent worked around.
	ReasoningWarning ReasoningKind = "warning"
)

// ReasoningEvent is an advisory event an agent emits while executing.
// Events are for observability only: correctness of the returned
// AgentResult never depends on them being delivered.
type ReasoningEvent struct {
	// Agent is the name of the emitting agent.
	Agent string `json:"agent"`
	// Kind categorizes the event.
	Kind ReasoningKind `json:"kind"`
	// Text is the event body.
	Text string `json:"text"`
	// Timestamp is when the event was emitted.
	Timestamp time.Time `json:"timestamp"`
}
