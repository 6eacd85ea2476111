package models

// Complexity is the analyzer's rough estimate of how much work a request needs.
type Complexity string

const (
	// ComplexityLow indicates a request a subset of agents can satisfy.
	ComplexityLow Complexity = "low"
	// ComplexityMedium indicates a typical multi-agent request.
	ComplexityMedium Complexity = "medium"
	// ComplexityHigh indicates a request needing every agent and long outputs.
	ComplexityHigh Complexity = "high"
)

// Valid returns true if the complexity is a known value.
func (c Complexity) Valid() bool {
	switch c {
	case ComplexityLow, ComplexityMedium, ComplexityHigh:
		return true
	default:
		return false
	}
}

// SuggestedStep is one agent the analyzer wants in the plan, with its objective.
type SuggestedStep struct {
	// Agent is the registry name of the suggested agent.
	Agent string `json:"agent"`
	// Objective describes what this agent should accomplish.
	Objective string `json:"objective"`
	// Reasoning explains why the analyzer selected this agent.
	Reasoning string `json:"reasoning,omitempty"`
}

// Analysis is the derived summary of a Request: extracted topics, estimated
// complexity, and the agent set the analyzer suggests. Produced once per
// request; when the LLM call fails or its output cannot be parsed, the
// coordinator substitutes a deterministic default and sets Fallback.
type Analysis struct {
	// RequestID is the ID of the analyzed request.
	RequestID string `json:"request_id"`
	// Topics are the key topics extracted from the request text.
	Topics []string `json:"topics"`
	// Complexity is the estimated effort for this request.
	Complexity Complexity `json:"complexity"`
	// Suggested lists the agents the analyzer wants, in suggestion order.
	Suggested []SuggestedStep `json:"suggested"`
	// Fallback is true when this analysis is the deterministic default
	// rather than an LLM product.
	Fallback bool `json:"fallback,omitempty"`
}
