package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/prospectio/leadflow"
	"github.com/prospectio/leadflow/runtime/execution"
	"github.com/spf13/cobra"
)

var (
	workflowLocation string
	traceFile        string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a prospecting workflow",
	Long:  `Load, compile and execute the workflow at the given location.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		options := []leadflow.Option{
			leadflow.WithEnvFiles(envFile),
		}
		if baseURL != "" {
			options = append(options, leadflow.WithMetaBaseURL(baseURL))
		}
		if traceFile != "" {
			options = append(options, leadflow.WithTracing("leadflow", "1.0", traceFile))
		}
		srv := leadflow.New(options...)

		state, err := srv.Runtime().Execute(context.Background(), workflowLocation)
		if err != nil {
			return fmt.Errorf("workflow execution failed: %w", err)
		}
		printSummary(cmd, state)
		return nil
	},
}

// printSummary renders a per-stage digest of the run, keyed by output shape
// rather than step id so renamed steps still report.
func printSummary(cmd *cobra.Command, state *execution.State) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out)
	fmt.Fprintln(out, "============================================================")
	fmt.Fprintln(out, "WORKFLOW EXECUTION SUMMARY")
	fmt.Fprintln(out, "============================================================")

	for _, stepID := range state.Completed() {
		output, _ := state.Output(stepID)
		switch {
		case has(output, "leads"):
			fmt.Fprintf(out, "Prospect Search: %d leads found\n", count(output, "leads"))
		case has(output, "enriched_leads"):
			fmt.Fprintf(out, "Data Enrichment: %d leads enriched\n", count(output, "enriched_leads"))
		case has(output, "ranked_leads"):
			printScoringSummary(out, output)
		case has(output, "messages"):
			fmt.Fprintf(out, "Outreach Content: %d emails generated\n", count(output, "messages"))
		case has(output, "sent_status"):
			printSendSummary(out, output)
		case has(output, "responses"):
			printTrackingSummary(out, output)
		case has(output, "recommendations"):
			printFeedbackSummary(out, output)
		}
	}
	fmt.Fprintln(out, "============================================================")

	for _, entry := range state.Trace() {
		if entry.Kind == execution.TraceWarning {
			fmt.Fprintf(out, "warning [%s]: %s\n", entry.StepID, entry.Message)
		}
	}
}

func has(output map[string]interface{}, key string) bool {
	_, ok := output[key]
	return ok
}

func count(output map[string]interface{}, key string) int {
	items, _ := output[key].([]interface{})
	return len(items)
}

func items(output map[string]interface{}, key string) []map[string]interface{} {
	raw, _ := output[key].([]interface{})
	ret := make([]map[string]interface{}, 0, len(raw))
	for _, entry := range raw {
		if m, ok := entry.(map[string]interface{}); ok {
			ret = append(ret, m)
		}
	}
	return ret
}

func printScoringSummary(out io.Writer, output map[string]interface{}) {
	ranked := items(output, "ranked_leads")
	if len(ranked) == 0 {
		fmt.Fprintln(out, "Lead Scoring: no leads above threshold")
		return
	}
	var sum float64
	for _, lead := range ranked {
		score, _ := lead["score"].(float64)
		sum += score
	}
	topScore, _ := ranked[0]["score"].(float64)
	fmt.Fprintf(out, "Lead Scoring: %d qualified leads\n", len(ranked))
	fmt.Fprintf(out, "   Average score: %.1f/100\n", sum/float64(len(ranked)))
	fmt.Fprintf(out, "   Top lead: %v (%.1f)\n", ranked[0]["company"], topScore)
}

func printSendSummary(out io.Writer, output map[string]interface{}) {
	sent := items(output, "sent_status")
	successful := 0
	for _, status := range sent {
		if status["status"] == "sent" || status["status"] == "simulated" {
			successful++
		}
	}
	fmt.Fprintf(out, "Email Sending: %d/%d successful\n", successful, len(sent))
}

func printTrackingSummary(out io.Writer, output map[string]interface{}) {
	responses := items(output, "responses")
	var opened, replied, meetings int
	for _, response := range responses {
		if response["opened"] == true {
			opened++
		}
		if response["replied"] == true {
			replied++
		}
		if response["meeting_booked"] == true {
			meetings++
		}
	}
	fmt.Fprintln(out, "Response Tracking:")
	fmt.Fprintf(out, "   Opens: %d/%d\n", opened, len(responses))
	fmt.Fprintf(out, "   Replies: %d/%d\n", replied, len(responses))
	fmt.Fprintf(out, "   Meetings: %d/%d\n", meetings, len(responses))
}

func printFeedbackSummary(out io.Writer, output map[string]interface{}) {
	recommendations := items(output, "recommendations")
	fmt.Fprintf(out, "Feedback Analysis: %d recommendations\n", len(recommendations))
	for _, recommendation := range recommendations {
		fmt.Fprintf(out, "   [%v] %v\n", recommendation["category"], recommendation["suggestion"])
	}
}

func init() {
	runCmd.Flags().StringVarP(&workflowLocation, "workflow", "w", "", "workflow location (required)")
	runCmd.Flags().StringVarP(&traceFile, "trace", "t", "", "write OpenTelemetry spans to this file")
	_ = runCmd.MarkFlagRequired("workflow")
	rootCmd.AddCommand(runCmd)
}
