package orchestrator

import (
	"time"
)

// Option configures a Coordinator. Use With* functions to create Options.
type Option func(*coordinatorOptions)

// coordinatorOptions holds all optional configuration.
type coordinatorOptions struct {
	emitter      *EventEmitter
	agentTimeout time.Duration
	llmTimeout   time.Duration
	required     []string
	roleParams   map[string]map[string]string

	// Injectable dependencies for testing
	analyzer analyzeFunc
}

// WithEmitter sets the event emitter subscribers receive run events on.
func WithEmitter(e *EventEmitter) Option {
	return func(o *coordinatorOptions) { o.emitter = e }
}

// WithAgentTimeout bounds each agent invocation.
func WithAgentTimeout(d time.Duration) Option {
	return func(o *coordinatorOptions) { o.agentTimeout = d }
}

// WithLLMTimeout bounds the analysis completion.
func WithLLMTimeout(d time.Duration) Option {
	return func(o *coordinatorOptions) { o.llmTimeout = d }
}

// WithRequiredAgents sets the agents whose total failure aborts a run.
func WithRequiredAgents(names ...string) Option {
	return func(o *coordinatorOptions) { o.required = names }
}

// WithRoleParams sets the per-agent parameters handed to every task.
func WithRoleParams(params map[string]map[string]string) Option {
	return func(o *coordinatorOptions) { o.roleParams = params }
}

// withAnalyzeFunc replaces the analysis step, for tests.
func withAnalyzeFunc(f analyzeFunc) Option {
	return func(o *coordinatorOptions) { o.analyzer = f }
}
