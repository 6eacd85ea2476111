package orchestrator

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ShayCichocki/foiabuddy/internal/agent"
	"github.com/ShayCichocki/foiabuddy/internal/llm"
	"github.com/ShayCichocki/foiabuddy/pkg/models"
)

// stubAgent is a configurable Agent for exercising the coordinator.
type stubAgent struct {
	name      string
	deps      []string
	execute   func(ctx context.Context, task models.Task, events agent.Sink) models.AgentResult
	callCount atomic.Int32

	mu        sync.Mutex
	lastTask  models.Task
	taskTaken bool
}

func (s *stubAgent) Name() string           { return s.name }
func (s *stubAgent) Capabilities() []string { return []string{"stub"} }
func (s *stubAgent) DependsOn() []string    { return s.deps }

func (s *stubAgent) Execute(ctx context.Context, task models.Task, events agent.Sink) models.AgentResult {
	s.callCount.Add(1)
	s.mu.Lock()
	s.lastTask = task
	s.taskTaken = true
	s.mu.Unlock()
	if s.execute != nil {
		return s.execute(ctx, task, events)
	}
	return models.Success(s.name, models.Payload{"from": s.name}, models.ResultMetadata{})
}

func (s *stubAgent) task() (models.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastTask, s.taskTaken
}

// succeeding returns a stub that always succeeds.
func succeeding(name string, deps ...string) *stubAgent {
	return &stubAgent{name: name, deps: deps}
}

// failing returns a stub that always fails with the given kind.
func failing(name string, kind models.ErrorKind, deps ...string) *stubAgent {
	return &stubAgent{
		name: name,
		deps: deps,
		execute: func(ctx context.Context, task models.Task, events agent.Sink) models.AgentResult {
			return models.Failure(name, kind, "induced failure")
		},
	}
}

// stalling returns a stub that sleeps for d without watching its
// context, modelling an agent stuck in a blocking call.
func stalling(name string, d time.Duration, deps ...string) *stubAgent {
	return &stubAgent{
		name: name,
		deps: deps,
		execute: func(ctx context.Context, task models.Task, events agent.Sink) models.AgentResult {
			time.Sleep(d)
			return models.Success(name, models.Payload{"from": name}, models.ResultMetadata{})
		},
	}
}

// panicking returns a stub that panics when executed.
func panicking(name string, deps ...string) *stubAgent {
	return &stubAgent{
		name: name,
		deps: deps,
		execute: func(ctx context.Context, task models.Task, events agent.Sink) models.AgentResult {
			panic("stub blew up")
		},
	}
}

// stubClient is an llm.Client returning a canned completion.
type stubClient struct {
	response string
	err      error
}

func (s *stubClient) Complete(ctx context.Context, req llm.CompletionRequest) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func (s *stubClient) CompleteStream(ctx context.Context, req llm.CompletionRequest) (*llm.Stream, error) {
	if s.err != nil {
		return nil, s.err
	}
	st := llm.NewStream(1)
	go func() {
		st.Send(ctx, llm.Chunk{Text: s.response})
		st.Finish(s.response, nil)
	}()
	return st, nil
}

// defaultSuggestion is a ready analysis over the given agent names.
func defaultSuggestion(names ...string) []models.SuggestedStep {
	steps := make([]models.SuggestedStep, 0, len(names))
	for _, n := range names {
		steps = append(steps, models.SuggestedStep{Agent: n, Objective: "exercise " + n})
	}
	return steps
}

// fixedAnalysis returns an analyzeFunc that always yields the given steps.
func fixedAnalysis(steps ...models.SuggestedStep) analyzeFunc {
	return func(ctx context.Context, req models.Request, decisions *DecisionLog) models.Analysis {
		return models.Analysis{
			RequestID:  req.ID,
			Topics:     req.Topics,
			Complexity: models.ComplexityMedium,
			Suggested:  steps,
		}
	}
}
