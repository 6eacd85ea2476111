package models

// Payload is the agent-specific result data. Its shape is opaque to the
// coordinator beyond being mergeable into the aggregate bundle.
type Payload map[string]any

// Task is the input handed to one agent invocation: the originating request,
// the outputs of prior stages the agent may consume, and role parameters.
type Task struct {
	// RequestID is the ID of the originating request.
	RequestID string `json:"request_id"`
	// Agent is the name of the agent this task is addressed to.
	Agent string `json:"agent"`
	// Objective describes what the agent should accomplish.
	Objective string `json:"objective"`
	// Text is the free-text body of the originating request.
	Text string `json:"text"`
	// Topics are the topics extracted by analysis (or caller hints).
	Topics []string `json:"topics,omitempty"`
	// Priority carries the request's urgency hint.
	Priority Priority `json:"priority"`
	// PriorOutputs maps agent names from earlier stages to their payloads.
	// These are read-only snapshots; agents must not mutate them.
	PriorOutputs map[string]Payload `json:"prior_outputs,omitempty"`
	// Params are role-specific parameters from configuration.
	Params map[string]string `json:"params,omitempty"`
}

// PriorOutput returns the payload a named agent produced in an earlier
// stage, or nil if that agent did not run or failed.
func (t Task) PriorOutput(agent string) Payload {
	return t.PriorOutputs[agent]
}

// Param returns a role parameter, or the fallback if unset.
func (t Task) Param(key, fallback string) string {
	if v, ok := t.Params[key]; ok && v != "" {
		return v
	}
	return fallback
}
