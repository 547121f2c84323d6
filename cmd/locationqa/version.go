package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dhr613/Location-QA-Assistant/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("locationqa " + version.Get())
	},
}
