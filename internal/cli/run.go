package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run lifecycle commands",
	}

	cmd.AddCommand(newRunStartCmd())
	cmd.AddCommand(newRunSubmitCmd())

	return cmd
}

func newRunStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start a run and print its id",
		RunE: func(cmd *cobra.Command, args []string) error {
			playerID, err := requirePlayerID()
			if err != nil {
				return err
			}

			req := map[string]string{"playerId": playerID}
			var result StartRunResult
			if err := client.Post("/api/v1/start-run", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newRunSubmitCmd() *cobra.Command {
	var (
		runID     string
		score     float64
		name      string
		intervals []float64
	)

	cmd := &cobra.Command{
		Use:   "submit",
		Short: "Submit a finished run's score",
		RunE: func(cmd *cobra.Command, args []string) error {
			playerID, err := requirePlayerID()
			if err != nil {
				return err
			}

			if cfg.Verbose && len(intervals) > 0 {
				fmt.Printf("submitting %d jump intervals: %s\n", len(intervals), formatIntervals(intervals))
			}

			req := map[string]any{
				"playerId": playerID,
				"runId":    runID,
				"score":    score,
			}
			if name != "" {
				req["playerName"] = name
			}
			if len(intervals) > 0 {
				req["jumpIntervals"] = intervals
			}

			var result SubmitResult
			if err := client.Post("/api/v1/submit-score", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&runID, "run-id", "", "Run id from 'run start' (required)")
	cmd.Flags().Float64Var(&score, "score", 0, "Final score (required)")
	cmd.Flags().StringVar(&name, "name", "", "Refresh the display name with the submission")
	cmd.Flags().Float64SliceVar(&intervals, "intervals", nil, "Jump intervals in ms, comma-separated")
	_ = cmd.MarkFlagRequired("run-id")
	_ = cmd.MarkFlagRequired("score")

	return cmd
}
