// Package cmd implements the leadflow command line interface.
package cmd

import (
	"github.com/spf13/cobra"
)

var (
	envFile string
	baseURL string
)

var rootCmd = &cobra.Command{
	Use:   "leadflow",
	Short: "Declarative prospect-to-lead workflow orchestrator",
	Long: `Leadflow executes declarative prospecting workflows defined in JSON or
YAML. Each workflow step names a capability (search, enrichment, scoring,
outreach, tracking, feedback) and an input template resolved against the
outputs of earlier steps.`,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&envFile, "env", "e", ".env", "dotenv file with tool API keys")
	rootCmd.PersistentFlags().StringVarP(&baseURL, "base-url", "b", "", "base URL workflow locations are resolved against")
}
