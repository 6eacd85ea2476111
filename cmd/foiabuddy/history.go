package main

import (
	"fmt"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ShayCichocki/foiabuddy/internal/config"
	"github.com/ShayCichocki/foiabuddy/internal/state"
	"github.com/ShayCichocki/foiabuddy/pkg/models"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect saved runs",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved runs, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openHistory()
		if err != nil {
			return err
		}
		defer db.Close()

		runs, err := db.ListRuns(historyLimit)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Println("no saved runs")
			return nil
		}

		for _, run := range runs {
			text := run.RequestText
			if len(text) > 60 {
				text = text[:57] + "..."
			}
			fmt.Printf("%s  %-8s  %-9s  %s\n",
				run.StartedAt.Format("2006-01-02 15:04"),
				shortID(run.RequestID),
				statusColor(run.Status),
				text)
		}
		return nil
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <request-id>",
	Short: "Show one run with its decision log",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openHistory()
		if err != nil {
			return err
		}
		defer db.Close()

		run, err := findRun(db, args[0])
		if err != nil {
			return err
		}

		fmt.Printf("request:  %s\n", run.RequestID)
		fmt.Printf("text:     %s\n", run.RequestText)
		fmt.Printf("status:   %s\n", statusColor(run.Status))
		fmt.Printf("started:  %s\n", run.StartedAt.Format("2006-01-02 15:04:05"))
		fmt.Printf("elapsed:  %s\n", run.Elapsed.Round(timeRounding))
		if run.Fallback {
			fmt.Println("plan:     default (analysis unavailable)")
		}

		fmt.Println("\nagents:")
		names := make([]string, 0, len(run.Results))
		for name := range run.Results {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			res := run.Results[name]
			if res.OK() {
				fmt.Printf("  %s %s (%s)\n", color.GreenString("✓"), name, res.Metadata.Elapsed.Round(timeRounding))
			} else {
				fmt.Printf("  %s %s: %s (%s)\n", color.RedString("✗"), name, res.Message, res.ErrKind)
			}
		}

		decisions, err := db.GetDecisions(run.RequestID)
		if err != nil {
			return err
		}
		if len(decisions) > 0 {
			fmt.Println("\ndecisions:")
			for _, d := range decisions {
				fmt.Printf("  %2d  %-12s  %s", d.Seq, d.Actor, d.Decision)
				if d.Reasoning != "" {
					fmt.Printf("  (%s)", d.Reasoning)
				}
				fmt.Println()
			}
		}
		return nil
	},
}

func init() {
	historyListCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum runs to list")
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
}

// openHistory opens the run-history database from configuration.
func openHistory() (*state.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	path := cfg.History.Path
	if path == "" {
		path = state.DefaultDBPath()
	}
	db, err := state.Open(path)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// findRun resolves a full or prefix request ID to a stored run.
func findRun(db *state.DB, id string) (*state.Run, error) {
	run, err := db.GetRun(id)
	if err != nil {
		return nil, err
	}
	if run != nil {
		return run, nil
	}

	// Allow the short prefix the list command prints.
	runs, err := db.ListRuns(0)
	if err != nil {
		return nil, err
	}
	var match *state.Run
	for i := range runs {
		if len(id) >= 4 && len(runs[i].RequestID) >= len(id) && runs[i].RequestID[:len(id)] == id {
			if match != nil {
				return nil, fmt.Errorf("request ID prefix %q is ambiguous", id)
			}
			match = &runs[i]
		}
	}
	if match == nil {
		return nil, fmt.Errorf("no saved run matches %q", id)
	}
	return match, nil
}

// shortID returns the display prefix of a request ID. IDs shorter than
// the prefix, such as hand-inserted rows, are shown whole.
func shortID(id string) string {
	if len(id) < 8 {
		return id
	}
	return id[:8]
}

// statusColor renders a bundle status with its conventional color.
func statusColor(s models.BundleStatus) string {
	switch s {
	case models.BundleCompleted:
		return color.GreenString(string(s))
	case models.BundlePartial:
		return color.YellowString(string(s))
	default:
		return color.RedString(string(s))
	}
}
