package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPlayerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "player",
		Short: "Player management commands",
	}

	cmd.AddCommand(newPlayerRegisterCmd())
	cmd.AddCommand(newPlayerMeCmd())
	cmd.AddCommand(newPlayerGrantsCmd())

	return cmd
}

func newPlayerRegisterCmd() *cobra.Command {
	var name, adminKey string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Register a new player",
		RunE: func(cmd *cobra.Command, args []string) error {
			req := map[string]string{"name": name}
			if adminKey != "" {
				req["adminKey"] = adminKey
			}

			var result RegisterResult
			if err := client.Post("/api/v1/register", req, &result); err != nil {
				return err
			}

			// Save the id so later commands can act as this player
			if err := cfg.SavePlayerID(result.PlayerID); err != nil {
				return fmt.Errorf("failed to save player id: %w", err)
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name (required)")
	cmd.Flags().StringVar(&adminKey, "admin-key", "", "Admin key for privileged registration")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newPlayerMeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "me",
		Short: "Show the current player's profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			playerID, err := requirePlayerID()
			if err != nil {
				return err
			}

			var result Player
			path := withQuery("/api/v1/me", map[string]string{"playerId": playerID})
			if err := client.Get(path, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newPlayerGrantsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "grants",
		Short: "Drain pending item grants for the current player",
		RunE: func(cmd *cobra.Command, args []string) error {
			playerID, err := requirePlayerID()
			if err != nil {
				return err
			}

			var result Grants
			path := withQuery("/api/v1/claim-grants", map[string]string{"playerId": playerID})
			if err := client.Get(path, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current day, item prices, and prize pool",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result StatusResult
			if err := client.Get("/api/v1/status", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newLeaderboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "leaderboard",
		Short: "Show the current day's leaderboard",
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Leaderboard
			if err := client.Get("/api/v1/leaderboard", &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
