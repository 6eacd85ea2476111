package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ShayCichocki/foiabuddy/internal/agent"
	"github.com/ShayCichocki/foiabuddy/internal/llm"
	"github.com/ShayCichocki/foiabuddy/pkg/models"
)

const (
	// defaultAgentTimeout bounds one agent invocation.
	defaultAgentTimeout = 5 * time.Minute
	// defaultLLMTimeout bounds the analysis completion.
	defaultLLMTimeout = 2 * time.Minute
)

// analyzeFunc produces the analysis for a request.
type analyzeFunc func(ctx context.Context, req models.Request, decisions *DecisionLog) models.Analysis

// Coordinator drives the full processing of a records request: analyze,
// plan, execute stages, aggregate. It is safe for concurrent Process
// calls; per-run state lives on the stack of each call and the registry
// is read-only during runs.
type Coordinator struct {
	registry     *Registry
	planner      *Planner
	analyze      analyzeFunc
	emitter      *EventEmitter
	agentTimeout time.Duration
	llmTimeout   time.Duration
	roleParams   map[string]map[string]string
}

// New creates a Coordinator over the given registry and LLM client.
func New(registry *Registry, client llm.Client, opts ...Option) *Coordinator {
	o := &coordinatorOptions{
		agentTimeout: defaultAgentTimeout,
		llmTimeout:   defaultLLMTimeout,
		required:     []string{agent.RoleSynthesizer},
	}
	for _, opt := range opts {
		opt(o)
	}

	c := &Coordinator{
		registry:     registry,
		planner:      NewPlanner(registry, o.required),
		emitter:      o.emitter,
		agentTimeout: o.agentTimeout,
		llmTimeout:   o.llmTimeout,
		roleParams:   o.roleParams,
	}
	if o.analyzer != nil {
		c.analyze = o.analyzer
	} else {
		c.analyze = NewAnalyzer(client).Analyze
	}
	return c
}

// Process handles one records request end to end and returns the
// aggregated bundle. Agent failures are reported inside the bundle;
// Process itself errors only on an invalid request or when no usable
// plan can be built.
func (c *Coordinator) Process(ctx context.Context, req models.Request) (*models.ResultBundle, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	started := time.Now()
	decisions := NewDecisionLog()
	c.emitter.Emit(Event{Type: EventRunStarted, RequestID: req.ID, Message: req.Text})

	actx, cancel := context.WithTimeout(ctx, c.llmTimeout)
	analysis := c.analyze(actx, req, decisions)
	cancel()

	c.emitter.Emit(Event{
		Type:      EventAnalysisDone,
		RequestID: req.ID,
		Message:   fmt.Sprintf("%d topics, complexity %s", len(analysis.Topics), analysis.Complexity),
	})
	if analysis.Fallback {
		c.emitter.Emit(Event{Type: EventPlanFallback, RequestID: req.ID})
	}

	plan, err := c.planner.Build(analysis, decisions)
	if err != nil {
		return nil, err
	}
	c.emitter.Emit(Event{
		Type:      EventPlanBuilt,
		RequestID: req.ID,
		Message:   strings.Join(plan.Agents(), " -> "),
	})

	bundle := c.executeStages(ctx, req, analysis, plan, decisions)
	bundle.StartedAt = started
	bundle.Elapsed = time.Since(started)
	bundle.Decisions = decisions.Drain()

	c.emitter.Emit(Event{Type: EventRunDone, RequestID: req.ID, Message: string(bundle.Status)})
	return bundle, nil
}

// executeStages runs the plan stage by stage. Steps within a stage run
// concurrently; stage k+1 starts only after every step of stage k has
// returned. A failed required step aborts the remaining stages.
func (c *Coordinator) executeStages(ctx context.Context, req models.Request, analysis models.Analysis, plan *models.Plan, decisions *DecisionLog) *models.ResultBundle {
	results := make(map[string]models.AgentResult, len(plan.Agents()))
	var mu sync.Mutex
	aborted := false

	for i, stage := range plan.Stages {
		if aborted {
			for _, step := range stage.Steps {
				decisions.Record(models.ActorCoordinator,
					fmt.Sprintf("skipping agent %q", step.Agent),
					"a required agent failed in an earlier stage")
			}
			continue
		}

		c.emitter.Emit(Event{
			Type:      EventStageStarted,
			RequestID: req.ID,
			Stage:     i,
			Message:   strings.Join(stage.AgentNames(), ", "),
		})

		prior := snapshotOutputs(results)
		var g errgroup.Group
		for _, step := range stage.Steps {
			step := step
			task := models.Task{
				RequestID:    req.ID,
				Agent:        step.Agent,
				Objective:    step.Objective,
				Text:         req.Text,
				Topics:       analysis.Topics,
				Priority:     req.Priority,
				PriorOutputs: prior,
				Params:       c.roleParams[step.Agent],
			}
			g.Go(func() error {
				res := c.runStep(ctx, req.ID, step, task)
				mu.Lock()
				results[step.Agent] = res
				mu.Unlock()

				if res.OK() {
					c.emitter.Emit(Event{Type: EventAgentDone, RequestID: req.ID, Stage: i, Agent: step.Agent})
				} else {
					decisions.Record(step.Agent,
						fmt.Sprintf("failed with %s", res.ErrKind), res.Message)
					c.emitter.Emit(Event{
						Type:      EventAgentFailed,
						RequestID: req.ID,
						Stage:     i,
						Agent:     step.Agent,
						ErrKind:   res.ErrKind,
						Message:   res.Message,
					})
				}
				return nil
			})
		}
		// Steps never return errors; Wait is the stage barrier.
		_ = g.Wait()

		c.emitter.Emit(Event{Type: EventStageDone, RequestID: req.ID, Stage: i})

		for _, step := range stage.Steps {
			if step.Required && !results[step.Agent].OK() {
				aborted = true
				decisions.Record(models.ActorCoordinator,
					fmt.Sprintf("aborting run, required agent %q failed", step.Agent),
					results[step.Agent].Message)
			}
		}
	}

	return &models.ResultBundle{
		RequestID: req.ID,
		PlanID:    plan.ID,
		Status:    bundleStatus(results, aborted),
		Fallback:  plan.Fallback,
		Results:   results,
	}
}

// runStep executes one agent invocation with a bounded context, turning
// panics into internal failures so one agent cannot take down the run.
// The deadline is enforced here, not trusted to the agent: an invocation
// that outlives it becomes a timeout failure and releases the stage
// barrier, while the in-flight goroutine is left to finish naturally.
func (c *Coordinator) runStep(ctx context.Context, requestID string, step models.PlanStep, task models.Task) models.AgentResult {
	a, ok := c.registry.Get(step.Agent)
	if !ok {
		return models.Failure(step.Agent, models.ErrInternal, "agent missing from registry")
	}

	c.emitter.Emit(Event{Type: EventAgentStarted, RequestID: requestID, Agent: step.Agent, Message: step.Objective})

	stepCtx, cancel := context.WithTimeout(ctx, c.agentTimeout)
	defer cancel()

	sink := func(ev models.ReasoningEvent) {
		c.emitter.Emit(Event{
			Type:      EventReasoning,
			RequestID: requestID,
			Agent:     ev.Agent,
			Kind:      ev.Kind,
			Message:   ev.Text,
			Timestamp: ev.Timestamp,
		})
	}

	// Buffered so a late-finishing goroutine never blocks after the
	// deadline branch has been taken.
	done := make(chan models.AgentResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- models.Failure(step.Agent, models.ErrInternal,
					fmt.Sprintf("agent panicked: %v", r))
			}
		}()
		done <- a.Execute(stepCtx, task, sink)
	}()

	select {
	case res := <-done:
		return res
	case <-stepCtx.Done():
		return models.Failure(step.Agent, models.ErrTimeout,
			fmt.Sprintf("agent %q did not finish within %s", step.Agent, c.agentTimeout))
	}
}

// snapshotOutputs copies the payloads of every successful result so far.
// Agents receive copies, never the shared map.
func snapshotOutputs(results map[string]models.AgentResult) map[string]models.Payload {
	prior := make(map[string]models.Payload, len(results))
	for name, res := range results {
		if !res.OK() {
			continue
		}
		payload := make(models.Payload, len(res.Payload))
		for k, v := range res.Payload {
			payload[k] = v
		}
		prior[name] = payload
	}
	return prior
}

// bundleStatus derives the overall run status from per-agent results.
func bundleStatus(results map[string]models.AgentResult, aborted bool) models.BundleStatus {
	if aborted {
		return models.BundleFailed
	}
	for _, res := range results {
		if !res.OK() {
			return models.BundlePartial
		}
	}
	return models.BundleCompleted
}
