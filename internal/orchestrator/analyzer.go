package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ShayCichocki/foiabuddy/internal/agent"
	"github.com/ShayCichocki/foiabuddy/internal/llm"
	"github.com/ShayCichocki/foiabuddy/pkg/models"
)

const analysisPrompt = `Analyze this public records request and decide which agents should process it.

Request:
%s

Available agents:
- discovery: locates candidate PDF documents in the records corpus
- parser: extracts text from located PDF documents
- researcher: searches corpus text for passages relevant to the request
- synthesizer: drafts the final response document

Respond with ONLY a JSON object in this exact format:
{
  "topics": ["topic1", "topic2"],
  "complexity": "low|medium|high",
  "steps": [
    {"agent": "discovery", "objective": "what to do", "reasoning": "why"}
  ]
}

Rules:
- topics: 2-5 key topics from the request text
- steps: the agents to run, in dependency order
- the synthesizer must always be the last step`

// analysisResponse is the JSON shape the model is asked to produce.
type analysisResponse struct {
	Topics     []string               `json:"topics"`
	Complexity string                 `json:"complexity"`
	Steps      []models.SuggestedStep `json:"steps"`
}

// Analyzer derives an Analysis from a request with one LLM completion.
// Any provider failure or unparseable output falls back to the
// deterministic default analysis, so analysis never fails a run.
type Analyzer struct {
	client llm.Client
}

// NewAnalyzer creates an Analyzer backed by the given client.
func NewAnalyzer(client llm.Client) *Analyzer {
	return &Analyzer{client: client}
}

// Analyze produces the analysis for a request. The decision log records
// whether the LLM analysis was used or the default substituted.
func (a *Analyzer) Analyze(ctx context.Context, req models.Request, decisions *DecisionLog) models.Analysis {
	response, err := a.client.Complete(ctx, llm.CompletionRequest{
		Prompt:    fmt.Sprintf(analysisPrompt, req.Text),
		MaxTokens: 1024,
	})
	if err != nil {
		decisions.Record(models.ActorCoordinator,
			"substituting default analysis",
			"analysis completion failed: "+err.Error())
		return DefaultAnalysis(req)
	}

	analysis, err := parseAnalysisResponse(req, response)
	if err != nil {
		decisions.Record(models.ActorCoordinator,
			"substituting default analysis",
			"analysis response unusable: "+err.Error())
		return DefaultAnalysis(req)
	}

	decisions.Record(models.ActorCoordinator,
		fmt.Sprintf("analysis selected %d agents, complexity %s", len(analysis.Suggested), analysis.Complexity),
		strings.Join(analysis.Topics, ", "))
	return analysis
}

// parseAnalysisResponse extracts the JSON object from the model's output.
// The model sometimes wraps JSON in markdown fences or prose, so parsing
// targets the outermost braces rather than the whole response.
func parseAnalysisResponse(req models.Request, response string) (models.Analysis, error) {
	start := strings.Index(response, "{")
	end := strings.LastIndex(response, "}")
	if start == -1 || end == -1 || end <= start {
		return models.Analysis{}, fmt.Errorf("no JSON object found in response")
	}

	var parsed analysisResponse
	if err := json.Unmarshal([]byte(response[start:end+1]), &parsed); err != nil {
		return models.Analysis{}, fmt.Errorf("unmarshal analysis: %w", err)
	}
	if len(parsed.Steps) == 0 {
		return models.Analysis{}, fmt.Errorf("empty step list returned")
	}
	for _, s := range parsed.Steps {
		if s.Agent == "" {
			return models.Analysis{}, fmt.Errorf("step with empty agent name")
		}
	}

	complexity := models.Complexity(parsed.Complexity)
	if !complexity.Valid() {
		complexity = models.ComplexityMedium
	}

	return models.Analysis{
		RequestID:  req.ID,
		Topics:     parsed.Topics,
		Complexity: complexity,
		Suggested:  parsed.Steps,
	}, nil
}

// DefaultAnalysis is the deterministic fallback: the full fixed agent
// chain, identical for every request. It makes no LLM calls.
func DefaultAnalysis(req models.Request) models.Analysis {
	return models.Analysis{
		RequestID:  req.ID,
		Topics:     req.Topics,
		Complexity: models.ComplexityMedium,
		Fallback:   true,
		Suggested: []models.SuggestedStep{
			{Agent: agent.RoleDiscovery, Objective: "locate candidate documents in the records corpus"},
			{Agent: agent.RoleParser, Objective: "extract text from located documents"},
			{Agent: agent.RoleResearcher, Objective: "find passages relevant to the request"},
			{Agent: agent.RoleSynthesizer, Objective: "draft the response document"},
		},
	}
}
