package models

import "time"

// ResultStatus is the outcome tag on an AgentResult.
type ResultStatus string

const (
	// ResultSuccess indicates the agent produced a payload.
	ResultSuccess ResultStatus = "success"
	// ResultFailure indicates the agent failed; ErrKind and Message explain why.
	ResultFailure ResultStatus = "failure"
)

// ResultMetadata carries execution accounting for one agent invocation.
type ResultMetadata struct {
	// Elapsed is how long the invocation took.
	Elapsed time.Duration `json:"elapsed"`
	// APICalls is the number of LLM calls the agent made.
	APICalls int `json:"api_calls,omitempty"`
	// TokensIn is the number of input tokens consumed.
	TokensIn int64 `json:"tokens_in,omitempty"`
	// TokensOut is the number of output tokens produced.
	TokensOut int64 `json:"tokens_out,omitempty"`
}

// AgentResult is the tagged outcome of one agent invocation.
type AgentResult struct {
	// Agent is the name of the agent that produced this result.
	Agent string `json:"agent"`
	// Status tags the result as success or failure.
	Status ResultStatus `json:"status"`
	// Payload is the agent-specific output; nil on failure.
	Payload Payload `json:"payload,omitempty"`
	// Metadata carries execution accounting.
	Metadata ResultMetadata `json:"metadata"`
	// ErrKind classifies the failure; empty on success.
	ErrKind ErrorKind `json:"err_kind,omitempty"`
	// Message describes the failure; empty on success.
	Message string `json:"message,omitempty"`
}

// Success creates a successful AgentResult.
func Success(agent string, payload Payload, meta ResultMetadata) AgentResult {
	return AgentResult{
		Agent:    agent,
		Status:   ResultSuccess,
		Payload:  payload,
		Metadata: meta,
	}
}

// Failure creates a failed AgentResult.
func Failure(agent string, kind ErrorKind, message string) AgentResult {
	return AgentResult{
		Agent:   agent,
		Status:  ResultFailure,
		ErrKind: kind,
		Message: message,
	}
}

// OK returns true if the result is a success.
func (r AgentResult) OK() bool {
	return r.Status == ResultSuccess
}

// BundleStatus is the overall outcome of a processing run.
type BundleStatus string

const (
	// BundleCompleted indicates every agent in the plan succeeded.
	BundleCompleted BundleStatus = "completed"
	// BundlePartial indicates some non-required agent failed.
	BundlePartial BundleStatus = "partial"
	// BundleFailed indicates a required stage failed entirely.
	BundleFailed BundleStatus = "failed"
)

// Valid returns true if the status is a known value.
func (s BundleStatus) Valid() bool {
	switch s {
	case BundleCompleted, BundlePartial, BundleFailed:
		return true
	default:
		return false
	}
}

// ResultBundle is the final aggregate returned to the caller: every agent's
// result keyed by name, the overall status, and the decision trail recorded
// during the run.
type ResultBundle struct {
	// RequestID is the request this bundle answers.
	RequestID string `json:"request_id"`
	// PlanID is the plan that was executed.
	PlanID string `json:"plan_id"`
	// Status is the overall outcome.
	Status BundleStatus `json:"status"`
	// Fallback is true when the executed plan was the deterministic
	// default rather than an LLM-derived one.
	Fallback bool `json:"fallback,omitempty"`
	// Results maps agent name to its result.
	Results map[string]AgentResult `json:"results"`
	// Decisions is the full decision log for the run, in recorded order.
	Decisions []DecisionLogEntry `json:"decisions"`
	// StartedAt is when processing began.
	StartedAt time.Time `json:"started_at"`
	// Elapsed is the total processing duration.
	Elapsed time.Duration `json:"elapsed"`
}

// FailedAgents returns the names of agents whose result is a failure,
// in no particular order.
func (b ResultBundle) FailedAgents() []string {
	var failed []string
	for name, res := range b.Results {
		if !res.OK() {
			failed = append(failed, name)
		}
	}
	return failed
}
