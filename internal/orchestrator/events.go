package orchestrator

import (
	"time"

	"github.com/ShayCichocki/foiabuddy/pkg/models"
)

// EventType represents the type of coordinator event.
type EventType string

const (
	// EventRunStarted indicates processing of a request has begun.
	EventRunStarted EventType = "run_started"
	// EventAnalysisDone indicates request analysis finished.
	EventAnalysisDone EventType = "analysis_done"
	// EventPlanBuilt indicates the execution plan is ready.
	EventPlanBuilt EventType = "plan_built"
	// EventPlanFallback indicates the deterministic default plan was used.
	EventPlanFallback EventType = "plan_fallback"
	// EventStageStarted indicates a stage began executing.
	EventStageStarted EventType = "stage_started"
	// EventStageDone indicates a stage finished executing.
	EventStageDone EventType = "stage_done"
	// EventAgentStarted indicates an agent invocation began.
	EventAgentStarted EventType = "agent_started"
	// EventAgentDone indicates an agent invocation succeeded.
	EventAgentDone EventType = "agent_done"
	// EventAgentFailed indicates an agent invocation failed.
	EventAgentFailed EventType = "agent_failed"
	// EventReasoning carries an agent's streamed reasoning or progress text.
	EventReasoning EventType = "reasoning"
	// EventRunDone indicates the run finished and a bundle is available.
	EventRunDone EventType = "run_done"
)

// Event is emitted by the coordinator while processing a request.
// Events are advisory; the returned bundle never depends on delivery.
type Event struct {
	// Type is the kind of event.
	Type EventType
	// RequestID is the ID of the request being processed.
	RequestID string
	// Agent is the name of the related agent, if applicable.
	Agent string
	// Stage is the index of the related stage, if applicable.
	Stage int
	// Message provides additional context about the event.
	Message string
	// Kind categorizes reasoning events.
	Kind models.ReasoningKind
	// ErrKind is set on agent_failed events.
	ErrKind models.ErrorKind
	// Timestamp is when the event occurred.
	Timestamp time.Time
}
