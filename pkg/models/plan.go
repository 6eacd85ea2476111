package models

import (
	"errors"
	"fmt"
)

// ErrEmptyPlan is returned when a plan has no stages or a stage has no steps.
var ErrEmptyPlan = errors.New("plan has no executable stages")

// PlanStep names one agent invocation within a stage.
type PlanStep struct {
	// Agent is the registry name of the agent to invoke.
	Agent string `json:"agent"`
	// Objective describes what this invocation should accomplish.
	Objective string `json:"objective"`
	// Required marks steps whose total failure aborts the run.
	Required bool `json:"required"`
}

// Stage is a set of steps that may run concurrently. Stages execute
// strictly in sequence.
type Stage struct {
	// Steps are the agent invocations in this stage.
	Steps []PlanStep `json:"steps"`
}

// AgentNames returns the agent names in this stage.
func (s Stage) AgentNames() []string {
	names := make([]string, 0, len(s.Steps))
	for _, step := range s.Steps {
		names = append(names, step.Agent)
	}
	return names
}

// Plan is an ordered list of stages: a dependency DAG flattened so that
// every agent in stage k depends only on outputs of stages before k.
type Plan struct {
	// ID is the unique identifier for this plan.
	ID string `json:"id"`
	// RequestID is the request this plan was built for.
	RequestID string `json:"request_id"`
	// Stages are the execution stages, in order.
	Stages []Stage `json:"stages"`
	// Fallback is true when the plan came from the deterministic default
	// rather than an LLM analysis.
	Fallback bool `json:"fallback,omitempty"`
}

// Agents returns every agent name in the plan, in stage order.
func (p Plan) Agents() []string {
	var names []string
	for _, stage := range p.Stages {
		names = append(names, stage.AgentNames()...)
	}
	return names
}

// Validate checks structural soundness against the declared dependencies of
// each agent: non-empty stages, no duplicate agents, and the stage-ordering
// invariant that a step in stage k only depends on agents placed in stages
// before k.
func (p Plan) Validate(deps map[string][]string) error {
	if len(p.Stages) == 0 {
		return ErrEmptyPlan
	}

	seen := make(map[string]int) // agent -> stage index it appears in
	for i, stage := range p.Stages {
		if len(stage.Steps) == 0 {
			return fmt.Errorf("stage %d: %w", i, ErrEmptyPlan)
		}
		for _, step := range stage.Steps {
			if prev, dup := seen[step.Agent]; dup {
				return fmt.Errorf("agent %q appears in stage %d and stage %d", step.Agent, prev, i)
			}
			seen[step.Agent] = i
		}
	}

	for i, stage := range p.Stages {
		for _, step := range stage.Steps {
			for _, dep := range deps[step.Agent] {
				depStage, present := seen[dep]
				if !present {
					// Dependency not in the plan at all: allowed, the agent
					// runs without that input.
					continue
				}
				if depStage >= i {
					return fmt.Errorf("agent %q in stage %d depends on %q in stage %d", step.Agent, i, dep, depStage)
				}
			}
		}
	}

	return nil
}
