package cmd

import (
	"context"
	"fmt"

	"github.com/prospectio/leadflow"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate a workflow definition",
	Long: `Load the workflow at the given location, validate its structure and
check that every step references a registered capability.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		options := []leadflow.Option{
			leadflow.WithEnvFiles(envFile),
		}
		if baseURL != "" {
			options = append(options, leadflow.WithMetaBaseURL(baseURL))
		}
		srv := leadflow.New(options...)

		wf, err := srv.Runtime().LoadWorkflow(context.Background(), workflowLocation)
		if err != nil {
			return fmt.Errorf("workflow validation failed: %w", err)
		}
		if _, err := srv.Runtime().Compile(wf); err != nil {
			return fmt.Errorf("workflow validation failed: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "workflow %q is valid\n", wf.Name)
		fmt.Fprintf(out, "  steps: %d\n", len(wf.Steps))
		for _, step := range wf.Steps {
			fmt.Fprintf(out, "  - %s (%s)\n", step.ID, step.Agent)
		}
		return nil
	},
}

func init() {
	validateCmd.Flags().StringVarP(&workflowLocation, "workflow", "w", "", "workflow location (required)")
	_ = validateCmd.MarkFlagRequired("workflow")
	rootCmd.AddCommand(validateCmd)
}
