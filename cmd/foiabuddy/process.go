package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ShayCichocki/foiabuddy/internal/agent"
	"github.com/ShayCichocki/foiabuddy/internal/config"
	"github.com/ShayCichocki/foiabuddy/internal/docsource"
	"github.com/ShayCichocki/foiabuddy/internal/orchestrator"
	"github.com/ShayCichocki/foiabuddy/internal/state"
	"github.com/ShayCichocki/foiabuddy/pkg/models"
)

// timeRounding keeps printed durations readable.
const timeRounding = 10 * time.Millisecond

var (
	processCorpus   string
	processTopics   []string
	processRoles    string
	processUrgent   bool
	processQuiet    bool
	processThinking bool
)

var processCmd = &cobra.Command{
	Use:   "process <request>",
	Short: "Process a records request against the corpus",
	Long: `Process a public records request through the agent pipeline.

The request text is analyzed to extract topics and select agents, the
selected agents run in dependency order over the document corpus, and
the synthesizer drafts a response document from their combined output.

If the analysis call fails, a deterministic default plan runs the full
pipeline instead, so a provider outage degrades the run rather than
failing it.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runProcess(cmd.Context(), strings.Join(args, " "))
	},
}

func init() {
	processCmd.Flags().StringVar(&processCorpus, "corpus", "", "Corpus directory (overrides config)")
	processCmd.Flags().StringSliceVar(&processTopics, "topic", nil, "Topic hints (repeatable)")
	processCmd.Flags().StringVar(&processRoles, "roles", "", "Path to a roles YAML file")
	processCmd.Flags().BoolVar(&processUrgent, "urgent", false, "Mark the request high priority")
	processCmd.Flags().BoolVarP(&processQuiet, "quiet", "q", false, "Suppress progress output")
	processCmd.Flags().BoolVar(&processThinking, "thinking", false, "Show model reasoning while agents work")
}

func runProcess(ctx context.Context, text string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if processCorpus != "" {
		cfg.Corpus.Dir = processCorpus
	}
	if _, err := os.Stat(cfg.Corpus.Dir); err != nil {
		return fmt.Errorf("corpus directory %q: %w", cfg.Corpus.Dir, err)
	}

	roles := config.DefaultRoles()
	if processRoles != "" {
		roles, err = config.LoadRoles(processRoles)
		if err != nil {
			return err
		}
	}

	client, err := newClient(cfg)
	if err != nil {
		return err
	}

	source := docsource.NewDirSource(cfg.Corpus.Dir)
	if cfg.Corpus.Watch {
		watcher, err := docsource.NewWatcher(source)
		if err != nil {
			log.Printf("[process] corpus watcher unavailable: %v", err)
		} else {
			defer watcher.Close()
		}
	}

	registry := orchestrator.NewRegistry()
	registry.Register(agent.NewDiscoveryAgent(source))
	registry.Register(agent.NewParserAgent(source))
	registry.Register(agent.NewResearcherAgent(source))
	registry.Register(agent.NewSynthesizerAgent(client))

	emitter := orchestrator.NewEventEmitter(cfg.Events.BufferSize)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		printEvents(emitter.Events())
	}()

	coord := orchestrator.New(registry, client,
		orchestrator.WithEmitter(emitter),
		orchestrator.WithAgentTimeout(cfg.Timeouts.Agent),
		orchestrator.WithLLMTimeout(cfg.Timeouts.LLM),
		orchestrator.WithRequiredAgents(config.RequiredNames(roles)...),
		orchestrator.WithRoleParams(config.RoleParams(roles)),
	)

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	req := models.NewRequest(text, processTopics...)
	if processUrgent {
		req.Priority = models.PriorityHigh
	}

	bundle, err := coord.Process(ctx, req)
	emitter.Close()
	wg.Wait()
	if err != nil {
		return err
	}

	if cfg.History.Enabled {
		saveRun(cfg, req, bundle)
	}

	return printBundle(bundle)
}

// printEvents renders run events to stderr until the channel closes.
func printEvents(events <-chan orchestrator.Event) {
	dim := color.New(color.Faint)
	warn := color.New(color.FgYellow)
	fail := color.New(color.FgRed)
	ok := color.New(color.FgGreen)

	for ev := range events {
		if processQuiet {
			continue
		}
		switch ev.Type {
		case orchestrator.EventPlanBuilt:
			fmt.Fprintf(os.Stderr, "%s %s\n", ok.Sprint("plan"), ev.Message)
		case orchestrator.EventPlanFallback:
			warn.Fprintln(os.Stderr, "analysis unavailable, using the default plan")
		case orchestrator.EventStageStarted:
			fmt.Fprintf(os.Stderr, "stage %d: %s\n", ev.Stage+1, ev.Message)
		case orchestrator.EventAgentDone:
			fmt.Fprintf(os.Stderr, "  %s %s\n", ok.Sprint("✓"), ev.Agent)
		case orchestrator.EventAgentFailed:
			fmt.Fprintf(os.Stderr, "  %s %s: %s (%s)\n", fail.Sprint("✗"), ev.Agent, ev.Message, ev.ErrKind)
		case orchestrator.EventReasoning:
			switch ev.Kind {
			case models.ReasoningThinking:
				if processThinking {
					dim.Fprint(os.Stderr, ev.Message)
				}
			case models.ReasoningWarning:
				warn.Fprintf(os.Stderr, "  ⚠ %s: %s\n", ev.Agent, ev.Message)
			default:
				dim.Fprintf(os.Stderr, "  %s: %s\n", ev.Agent, ev.Message)
			}
		}
	}
}

// saveRun persists a finished run, logging rather than failing on error.
func saveRun(cfg *config.Config, req models.Request, bundle *models.ResultBundle) {
	path := cfg.History.Path
	if path == "" {
		path = state.DefaultDBPath()
	}
	db, err := state.Open(path)
	if err != nil {
		log.Printf("[process] history unavailable: %v", err)
		return
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Printf("[process] history migration failed: %v", err)
		return
	}

	if err := db.SaveBundle(req, bundle, bundle.Fallback); err != nil {
		log.Printf("[process] saving run failed: %v", err)
	}
}

// printBundle writes the response document and a run summary to stdout.
func printBundle(bundle *models.ResultBundle) error {
	if res, ok := bundle.Results["synthesizer"]; ok && res.OK() {
		if report, ok := res.Payload["report"].(string); ok {
			fmt.Println(report)
			fmt.Println()
		}
	}

	status := color.GreenString(string(bundle.Status))
	switch bundle.Status {
	case models.BundlePartial:
		status = color.YellowString(string(bundle.Status))
	case models.BundleFailed:
		status = color.RedString(string(bundle.Status))
	}
	fmt.Printf("run %s in %s (%d agents", status, bundle.Elapsed.Round(timeRounding), len(bundle.Results))
	if failed := bundle.FailedAgents(); len(failed) > 0 {
		fmt.Printf(", failed: %s", strings.Join(failed, ", "))
	}
	fmt.Println(")")

	if bundle.Status == models.BundleFailed {
		return fmt.Errorf("run failed; see decision log with: foiabuddy history show %s", bundle.RequestID)
	}
	return nil
}
