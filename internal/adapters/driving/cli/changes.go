package cli

import (
	"context"
	"errors"
	"strconv"

	"github.com/spf13/cobra"
)

var changesCmd = &cobra.Command{
	Use:   "changes",
	Short: "Show products touched during this session",
}

var changesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List session change marks",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if inventoryService == nil {
			return errors.New("inventory service not configured")
		}
		changes, err := inventoryService.RecentChanges(context.Background())
		if err != nil {
			return err
		}
		if len(changes) == 0 {
			cmd.Println("No changes recorded this session.")
			return nil
		}
		for _, change := range changes {
			qty := "-"
			if change.LastQty != nil {
				qty = strconv.Itoa(*change.LastQty)
			}
			cmd.Printf("product %-6d qty %-5s %-12s %s\n",
				change.ProductID, qty, change.LastLocationLabel,
				change.UpdatedAt.Format("15:04:05"))
		}
		return nil
	},
}

var changesClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Forget all session change marks",
	RunE: func(_ *cobra.Command, _ []string) error {
		if inventoryService == nil {
			return errors.New("inventory service not configured")
		}
		return inventoryService.ClearChanges(context.Background())
	},
}

func init() {
	changesCmd.AddCommand(changesListCmd)
	changesCmd.AddCommand(changesClearCmd)
	rootCmd.AddCommand(changesCmd)
}
