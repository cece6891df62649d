package cli

import (
	"github.com/spf13/cobra"
)

func newShopCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shop",
		Short: "Item shop commands",
	}

	cmd.AddCommand(newShopBuyCmd())
	cmd.AddCommand(newShopUseCmd())

	return cmd
}

func newShopBuyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "buy <item>",
		Short: "Buy an item",
		Long: `Buy an item from the shop.

Known items:
  FLASH_SHIELD       Blocks incoming flashbangs for the rest of the day
  SAVE_FROM_RESET    Carries your score through one leaderboard reset
  FLASHBANG          Blinds every unshielded connected player
  RESET_LEADERBOARD  Wipes the current day's board`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			playerID, err := requirePlayerID()
			if err != nil {
				return err
			}

			req := map[string]string{"playerId": playerID, "item": args[0]}
			var result PurchaseResult
			if err := client.Post("/api/v1/purchase", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newShopUseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "use <item>",
		Short: "Use a held consumable item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			playerID, err := requirePlayerID()
			if err != nil {
				return err
			}

			req := map[string]string{"playerId": playerID, "item": args[0]}
			var result UseItemResult
			if err := client.Post("/api/v1/use-item", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}
