package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newWinnerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "winner",
		Short: "Winner and claim commands",
	}

	cmd.AddCommand(newWinnerMeCmd())
	cmd.AddCommand(newWinnerYesterdayCmd())
	cmd.AddCommand(newWinnerListCmd())
	cmd.AddCommand(newWinnerVerifyCmd())
	cmd.AddCommand(newWinnerAdminVerifyCmd())

	return cmd
}

func newWinnerMeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the current player's most recent win, if any",
		RunE: func(cmd *cobra.Command, args []string) error {
			playerID, err := requirePlayerID()
			if err != nil {
				return err
			}

			var result *Winner
			path := withQuery("/api/v1/me/winner", map[string]string{"playerId": playerID})
			if err := client.Get(path, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newWinnerYesterdayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "yesterday",
		Short: "Show the most recently crowned winner",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result *Winner
			if err := client.Get("/api/v1/yesterday-winner", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newWinnerListCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent winners, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Winners
			path := withQuery("/api/v1/winners", map[string]string{"limit": itoaIfSet(limit)})
			if err := client.Get(path, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 0, "Number of records (server default 10, max 30)")

	return cmd
}

func newWinnerVerifyCmd() *cobra.Command {
	var claimCode, claimSecret string

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify a win with your claim code and secret",
		RunE: func(cmd *cobra.Command, args []string) error {
			playerID, err := requirePlayerID()
			if err != nil {
				return err
			}

			req := map[string]string{
				"playerId":    playerID,
				"claimCode":   claimCode,
				"claimSecret": claimSecret,
			}
			var result VerifyResult
			if err := client.Post("/api/v1/verify-winner", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&claimCode, "claim-code", "", "Claim code from registration (required)")
	cmd.Flags().StringVar(&claimSecret, "claim-secret", "", "Secret delivered with the youWon event (required)")
	_ = cmd.MarkFlagRequired("claim-code")
	_ = cmd.MarkFlagRequired("claim-secret")

	return cmd
}

func newWinnerAdminVerifyCmd() *cobra.Command {
	var adminKey, day, playerID, claimSecret string

	cmd := &cobra.Command{
		Use:   "admin-verify",
		Short: "Verify a specific day's claim using the admin key",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{
				"day":         day,
				"playerId":    playerID,
				"claimSecret": claimSecret,
			}
			var result VerifyResult
			path := withQuery("/api/v1/admin/verify-claim", map[string]string{"key": adminKey})
			if err := client.Post(path, req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&adminKey, "admin-key", "", "Shared admin key (required)")
	cmd.Flags().StringVar(&day, "day", "", "Day key, YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&playerID, "winner-id", "", "Winning player's id (required)")
	cmd.Flags().StringVar(&claimSecret, "claim-secret", "", "Claim secret presented by the winner (required)")
	_ = cmd.MarkFlagRequired("admin-key")
	_ = cmd.MarkFlagRequired("day")
	_ = cmd.MarkFlagRequired("winner-id")
	_ = cmd.MarkFlagRequired("claim-secret")

	return cmd
}

func itoaIfSet(n int) string {
	if n <= 0 {
		return ""
	}
	return fmt.Sprintf("%d", n)
}
