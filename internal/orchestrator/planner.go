package orchestrator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gammazero/toposort"
	"github.com/google/uuid"

	"github.com/ShayCichocki/foiabuddy/pkg/models"
)

// Planner turns an analysis into an executable plan: suggested agents are
// resolved against the registry and flattened into stages so every agent
// runs after the agents it depends on.
type Planner struct {
	registry *Registry
	// required marks agent names whose total failure aborts a run.
	required map[string]bool
}

// NewPlanner creates a planner over the given registry. requiredNames
// lists the agents that must succeed for a run to continue.
func NewPlanner(registry *Registry, requiredNames []string) *Planner {
	required := make(map[string]bool, len(requiredNames))
	for _, name := range requiredNames {
		required[name] = true
	}
	return &Planner{registry: registry, required: required}
}

// Build constructs the plan for an analysis. Suggested agents missing
// from the registry are dropped with a logged decision. If no suggested
// agent resolves, Build returns a fatal registry error.
func (p *Planner) Build(analysis models.Analysis, decisions *DecisionLog) (*models.Plan, error) {
	objectives := make(map[string]string, len(analysis.Suggested))
	var resolved []string
	for _, step := range analysis.Suggested {
		if _, dup := objectives[step.Agent]; dup {
			decisions.Record(models.ActorCoordinator,
				fmt.Sprintf("dropping duplicate suggestion %q", step.Agent), "")
			continue
		}
		if _, ok := p.registry.Get(step.Agent); !ok {
			decisions.Record(models.ActorCoordinator,
				fmt.Sprintf("dropping unknown agent %q", step.Agent),
				"not present in the registry")
			continue
		}
		objectives[step.Agent] = step.Objective
		resolved = append(resolved, step.Agent)
	}

	if len(resolved) == 0 {
		return nil, &models.KindError{
			Kind:    models.ErrRegistry,
			Message: "no suggested agent is registered",
		}
	}

	stages, err := p.flatten(resolved)
	if err != nil {
		return nil, &models.KindError{
			Kind:    models.ErrRegistry,
			Message: "flatten plan stages",
			Err:     err,
		}
	}

	plan := &models.Plan{
		ID:        uuid.New().String(),
		RequestID: analysis.RequestID,
		Fallback:  analysis.Fallback,
	}
	for _, names := range stages {
		var stage models.Stage
		for _, name := range names {
			stage.Steps = append(stage.Steps, models.PlanStep{
				Agent:     name,
				Objective: objectives[name],
				Required:  p.required[name],
			})
		}
		plan.Stages = append(plan.Stages, stage)
	}

	if err := plan.Validate(p.registry.DependsOn()); err != nil {
		return nil, &models.KindError{
			Kind:    models.ErrRegistry,
			Message: "built plan failed validation",
			Err:     err,
		}
	}

	decisions.Record(models.ActorCoordinator,
		fmt.Sprintf("plan built with %d stages", len(plan.Stages)),
		strings.Join(plan.Agents(), " -> "))
	return plan, nil
}

// flatten groups the resolved agents into dependency levels. Dependencies
// outside the resolved set are ignored; those agents run without that
// input. The declared dependency graph must be acyclic.
func (p *Planner) flatten(resolved []string) ([][]string, error) {
	inPlan := make(map[string]bool, len(resolved))
	for _, name := range resolved {
		inPlan[name] = true
	}

	deps := make(map[string][]string, len(resolved))
	var edges []toposort.Edge
	for _, name := range resolved {
		a, _ := p.registry.Get(name)
		var kept []string
		for _, dep := range a.DependsOn() {
			if inPlan[dep] {
				kept = append(kept, dep)
				edges = append(edges, toposort.Edge{dep, name})
			}
		}
		deps[name] = kept
		if len(kept) == 0 {
			edges = append(edges, toposort.Edge{nil, name})
		}
	}

	order, err := toposort.Toposort(edges)
	if err != nil {
		return nil, fmt.Errorf("dependency cycle: %w", err)
	}

	// Level of an agent is one past the deepest in-plan dependency.
	levels := make(map[string]int, len(resolved))
	for _, v := range order {
		name, ok := v.(string)
		if !ok {
			continue
		}
		level := 0
		for _, dep := range deps[name] {
			if levels[dep]+1 > level {
				level = levels[dep] + 1
			}
		}
		levels[name] = level
	}

	maxLevel := 0
	for _, l := range levels {
		if l > maxLevel {
			maxLevel = l
		}
	}
	stages := make([][]string, maxLevel+1)
	for name, l := range levels {
		stages[l] = append(stages[l], name)
	}
	for _, names := range stages {
		sort.Strings(names)
	}
	return stages, nil
}
