package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/ShayCichocki/foiabuddy/internal/agent"
	"github.com/ShayCichocki/foiabuddy/internal/config"
	"github.com/ShayCichocki/foiabuddy/internal/docsource"
	"github.com/ShayCichocki/foiabuddy/internal/orchestrator"
)

var agentsCmd = &cobra.Command{
	Use:   "agents",
	Short: "List the available agents",
	RunE: func(cmd *cobra.Command, args []string) error {
		// The listing needs no corpus or credentials; wire the agents
		// with inert dependencies just to read their contracts.
		source := docsource.NewDirSource(".")
		registry := orchestrator.NewRegistry()
		registry.Register(agent.NewDiscoveryAgent(source))
		registry.Register(agent.NewParserAgent(source))
		registry.Register(agent.NewResearcherAgent(source))
		registry.Register(agent.NewSynthesizerAgent(nil))

		required := make(map[string]bool)
		for _, name := range config.RequiredNames(config.DefaultRoles()) {
			required[name] = true
		}

		bold := color.New(color.Bold)
		for _, name := range registry.Names() {
			a, _ := registry.Get(name)
			bold.Print(name)
			if required[name] {
				fmt.Print(" (required)")
			}
			fmt.Println()
			fmt.Printf("  capabilities: %s\n", strings.Join(a.Capabilities(), ", "))
			if deps := a.DependsOn(); len(deps) > 0 {
				fmt.Printf("  depends on:   %s\n", strings.Join(deps, ", "))
			}
		}
		return nil
	},
}
