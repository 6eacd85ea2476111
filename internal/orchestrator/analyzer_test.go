package orchestrator

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/ShayCichocki/foiabuddy/internal/agent"
	"github.com/ShayCichocki/foiabuddy/pkg/models"
)

func TestAnalyzerParsesModelResponse(t *testing.T) {
	client := &stubClient{response: "Here is the plan:\n```json\n" +
		`{"topics":["budget","road repair"],"complexity":"low",` +
		`"steps":[{"agent":"researcher","objective":"find passages"},` +
		`{"agent":"synthesizer","objective":"draft response"}]}` + "\n```"}

	a := NewAnalyzer(client)
	decisions := NewDecisionLog()
	req := models.NewRequest("records about the road repair budget")

	analysis := a.Analyze(context.Background(), req, decisions)
	if analysis.Fallback {
		t.Fatal("parseable response must not fall back")
	}
	if !reflect.DeepEqual(analysis.Topics, []string{"budget", "road repair"}) {
		t.Errorf("unexpected topics: %v", analysis.Topics)
	}
	if analysis.Complexity != models.ComplexityLow {
		t.Errorf("unexpected complexity: %s", analysis.Complexity)
	}
	if len(analysis.Suggested) != 2 || analysis.Suggested[1].Agent != "synthesizer" {
		t.Errorf("unexpected steps: %+v", analysis.Suggested)
	}
}

func TestAnalyzerFallsBackOnProviderError(t *testing.T) {
	a := NewAnalyzer(&stubClient{err: errors.New("api unreachable")})
	decisions := NewDecisionLog()
	req := models.NewRequest("budget records", "budget")

	analysis := a.Analyze(context.Background(), req, decisions)
	if !analysis.Fallback {
		t.Fatal("provider error must produce the fallback analysis")
	}
	if decisions.Len() == 0 {
		t.Error("fallback must be recorded in the decision log")
	}
}

func TestAnalyzerFallsBackOnGarbage(t *testing.T) {
	for _, response := range []string{
		"I cannot help with that.",
		`{"topics": [}`,
		`{"topics":["x"],"complexity":"low","steps":[]}`,
		`{"steps":[{"agent":""}]}`,
	} {
		a := NewAnalyzer(&stubClient{response: response})
		analysis := a.Analyze(context.Background(), models.NewRequest("budget records"), NewDecisionLog())
		if !analysis.Fallback {
			t.Errorf("response %q must produce the fallback analysis", response)
		}
	}
}

func TestAnalyzerNormalizesUnknownComplexity(t *testing.T) {
	client := &stubClient{response: `{"topics":["x"],"complexity":"severe",` +
		`"steps":[{"agent":"synthesizer","objective":"draft"}]}`}
	analysis := NewAnalyzer(client).Analyze(context.Background(), models.NewRequest("budget records"), NewDecisionLog())
	if analysis.Complexity != models.ComplexityMedium {
		t.Errorf("unknown complexity should normalize to medium, got %s", analysis.Complexity)
	}
}

func TestDefaultAnalysisIsDeterministic(t *testing.T) {
	req := models.NewRequest("anything at all", "topic")
	first := DefaultAnalysis(req)
	second := DefaultAnalysis(req)
	if !reflect.DeepEqual(first, second) {
		t.Error("default analysis must be identical across calls")
	}

	want := []string{agent.RoleDiscovery, agent.RoleParser, agent.RoleResearcher, agent.RoleSynthesizer}
	if len(first.Suggested) != len(want) {
		t.Fatalf("expected %d steps, got %d", len(want), len(first.Suggested))
	}
	for i, name := range want {
		if first.Suggested[i].Agent != name {
			t.Errorf("step %d = %q, want %q", i, first.Suggested[i].Agent, name)
		}
	}
	if !first.Fallback {
		t.Error("default analysis must be marked as fallback")
	}
}
