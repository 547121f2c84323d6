package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "locationqa",
	Short: "Travel question assistant",
	Long: `locationqa answers natural-language travel questions by splitting them
across specialized map-query workers and assembling one coherent answer.

With no arguments, launches the interactive chat. Controller modes:
  pipeline  classify the question, fan out to workers, synthesize (default)
  steps     stage-gated loop: geocode, route, nearby search
  delegate  a coordinator delegating whole sub-conversations to workers
  graph     sibling nodes transferring full control to each other
  skills    capability bundles disclosed on explicit skill load`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runChat(cmd)
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().String("mode", "", "controller mode (pipeline, steps, delegate, graph, skills)")
	rootCmd.Flags().String("thread", "", "resume an existing thread by ID")

	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(threadsCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}
