package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ShayCichocki/foiabuddy/internal/llm"
	"github.com/ShayCichocki/foiabuddy/pkg/models"
)

const synthesizerSystemPrompt = `You are drafting the response to a public
records request. Write a clear, factual response document with these
sections: Summary, Responsive Records, and Findings. Cite the source file
for every finding. If no responsive records were located, say so plainly.`

// SynthesizerAgent produces the final response document from every prior
// agent's output via one LLM completion. It streams the model's reasoning
// tokens to the event sink while it works.
type SynthesizerAgent struct {
	client llm.Client
}

// NewSynthesizerAgent creates a synthesizer backed by the given client.
func NewSynthesizerAgent(client llm.Client) *SynthesizerAgent {
	return &SynthesizerAgent{client: client}
}

// Name implements Agent.
func (a *SynthesizerAgent) Name() string { return RoleSynthesizer }

// Capabilities implements Agent.
func (a *SynthesizerAgent) Capabilities() []string {
	return []string{"report_synthesis", "llm_completion"}
}

// DependsOn implements Agent.
func (a *SynthesizerAgent) DependsOn() []string {
	return []string{RoleResearcher, RoleParser, RoleDiscovery}
}

// Execute implements Agent.
func (a *SynthesizerAgent) Execute(ctx context.Context, task models.Task, events Sink) models.AgentResult {
	start := time.Now()

	if task.Text == "" {
		return models.Failure(a.Name(), models.ErrInputInvalid, "task has no request text")
	}

	prompt := a.buildPrompt(task)
	emit(events, a.Name(), models.ReasoningProgress, "drafting response document")

	stream, err := a.client.CompleteStream(ctx, llm.CompletionRequest{
		Prompt:    prompt,
		System:    synthesizerSystemPrompt,
		Reasoning: true,
	})
	if err != nil {
		return a.failFromClient(err)
	}

	for c := range stream.Chunks() {
		if c.Thinking {
			emit(events, a.Name(), models.ReasoningThinking, c.Text)
		}
	}
	if err := stream.Err(); err != nil {
		return a.failFromClient(err)
	}

	report := strings.TrimSpace(stream.Text())
	if report == "" {
		return models.Failure(a.Name(), models.ErrParse, "model returned an empty response document")
	}

	return models.Success(a.Name(), models.Payload{
		"report":     report,
		"word_count": len(strings.Fields(report)),
	}, models.ResultMetadata{
		Elapsed:  time.Since(start),
		APICalls: 1,
	})
}

// failFromClient converts a client error into a classified failure.
func (a *SynthesizerAgent) failFromClient(err error) models.AgentResult {
	var ke *models.KindError
	if errors.As(err, &ke) {
		return models.Failure(a.Name(), ke.Kind, ke.Error())
	}
	return models.Failure(a.Name(), llm.Classify(err), err.Error())
}

// buildPrompt assembles the synthesis prompt from the request and every
// prior stage's output.
func (a *SynthesizerAgent) buildPrompt(task models.Task) string {
	var sb strings.Builder

	sb.WriteString("Records request:\n")
	sb.WriteString(task.Text)
	sb.WriteString("\n\n")

	if len(task.Topics) > 0 {
		sb.WriteString("Key topics: ")
		sb.WriteString(strings.Join(task.Topics, ", "))
		sb.WriteString("\n\n")
	}

	if prior := task.PriorOutput(RoleDiscovery); prior != nil {
		fmt.Fprintf(&sb, "Discovered documents (%v PDFs found):\n", prior["pdfs_found"])
		writeDocList(&sb, prior, "name")
		sb.WriteString("\n")
	}

	if prior := task.PriorOutput(RoleParser); prior != nil {
		fmt.Fprintf(&sb, "Parsed document excerpts (%v parsed):\n", prior["parsed"])
		if docs, ok := prior["documents"].([]any); ok {
			for _, d := range docs {
				if m, ok := d.(models.Payload); ok {
					text, _ := m["text"].(string)
					fmt.Fprintf(&sb, "--- %v ---\n%s\n", m["path"], truncate(text, 2000))
				}
			}
		}
		sb.WriteString("\n")
	}

	if prior := task.PriorOutput(RoleResearcher); prior != nil {
		sb.WriteString("Relevant passages:\n")
		if chunks, ok := prior["chunks"].([]any); ok {
			for _, c := range chunks {
				if m, ok := c.(models.Payload); ok {
					fmt.Fprintf(&sb, "[%v] %v\n", m["source"], m["text"])
				}
			}
		}
		sb.WriteString("\n")
	}

	sb.WriteString("Draft the response document now.")
	if limit := task.Param("max_words", ""); limit != "" {
		fmt.Fprintf(&sb, " Keep it under %s words.", limit)
	}
	return sb.String()
}

// writeDocList appends one line per discovered document.
func writeDocList(sb *strings.Builder, payload models.Payload, field string) {
	docs, ok := payload["documents"].([]any)
	if !ok {
		return
	}
	for _, d := range docs {
		if m, ok := d.(models.Payload); ok {
			fmt.Fprintf(sb, "- %v\n", m[field])
		}
	}
}

// truncate shortens s to at most n bytes, backing off to the nearest
// rune boundary so the cut never produces invalid UTF-8.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
