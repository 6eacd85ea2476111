package models

import (
	"errors"
	"testing"
)

func TestPlanValidateEmpty(t *testing.T) {
	p := Plan{ID: "p1"}
	if err := p.Validate(nil); !errors.Is(err, ErrEmptyPlan) {
		t.Errorf("expected ErrEmptyPlan, got %v", err)
	}
}

func TestPlanValidateEmptyStage(t *testing.T) {
	p := Plan{
		ID: "p1",
		Stages: []Stage{
			{Steps: []PlanStep{{Agent: "discovery"}}},
			{},
		},
	}
	if err := p.Validate(nil); !errors.Is(err, ErrEmptyPlan) {
		t.Errorf("expected ErrEmptyPlan for empty stage, got %v", err)
	}
}

func TestPlanValidateDuplicateAgent(t *testing.T) {
	p := Plan{
		ID: "p1",
		Stages: []Stage{
			{Steps: []PlanStep{{Agent: "discovery"}}},
			{Steps: []PlanStep{{Agent: "discovery"}}},
		},
	}
	if err := p.Validate(nil); err == nil {
		t.Error("expected error for duplicate agent")
	}
}

func TestPlanValidateOrderingInvariant(t *testing.T) {
	deps := map[string][]string{
		"parser":      {"discovery"},
		"researcher":  {"discovery"},
		"synthesizer": {"parser", "researcher"},
	}

	good := Plan{
		ID: "p1",
		Stages: []Stage{
			{Steps: []PlanStep{{Agent: "discovery"}}},
			{Steps: []PlanStep{{Agent: "parser"}, {Agent: "researcher"}}},
			{Steps: []PlanStep{{Agent: "synthesizer", Required: true}}},
		},
	}
	if err := good.Validate(deps); err != nil {
		t.Fatalf("unexpected error for valid plan: %v", err)
	}

	// parser placed in the same stage as its dependency
	bad := Plan{
		ID: "p2",
		Stages: []Stage{
			{Steps: []PlanStep{{Agent: "discovery"}, {Agent: "parser"}}},
		},
	}
	if err := bad.Validate(deps); err == nil {
		t.Error("expected error when a step shares a stage with its dependency")
	}

	// synthesizer placed before parser
	reversed := Plan{
		ID: "p3",
		Stages: []Stage{
			{Steps: []PlanStep{{Agent: "synthesizer"}}},
			{Steps: []PlanStep{{Agent: "parser"}}},
		},
	}
	if err := reversed.Validate(deps); err == nil {
		t.Error("expected error when a step precedes its dependency")
	}
}

func TestPlanValidateMissingDependencyAllowed(t *testing.T) {
	deps := map[string][]string{"parser": {"discovery"}}

	// discovery absent from the plan: parser runs without that input.
	p := Plan{
		ID: "p1",
		Stages: []Stage{
			{Steps: []PlanStep{{Agent: "parser"}}},
		},
	}
	if err := p.Validate(deps); err != nil {
		t.Errorf("unexpected error when dependency absent from plan: %v", err)
	}
}

func TestPlanAgents(t *testing.T) {
	p := Plan{
		Stages: []Stage{
			{Steps: []PlanStep{{Agent: "a"}, {Agent: "b"}}},
			{Steps: []PlanStep{{Agent: "c"}}},
		},
	}
	agents := p.Agents()
	if len(agents) != 3 {
		t.Fatalf("expected 3 agents, got %d", len(agents))
	}
	if agents[0] != "a" || agents[1] != "b" || agents[2] != "c" {
		t.Errorf("expected stage order preserved, got %v", agents)
	}
}
