package cli

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/stockctl/internal/core/domain"
)

var movementCmd = &cobra.Command{
	Use:   "movement",
	Short: "Record stock movements",
}

var movementInCmd = &cobra.Command{
	Use:   "in",
	Short: "Record stock entering a location",
	Example: `  stockctl movement in --product 42 --location 3 --qty 10 --reason 1`,
	RunE: func(_ *cobra.Command, _ []string) error {
		return runMovement(domain.DirectionIn)
	},
}

var movementOutCmd = &cobra.Command{
	Use:   "out",
	Short: "Record stock leaving a location",
	Example: `  stockctl movement out --product 42 --location 3 --qty 2 --reason 4 --customer "ACME"`,
	RunE: func(_ *cobra.Command, _ []string) error {
		return runMovement(domain.DirectionOut)
	},
}

var transferCmd = &cobra.Command{
	Use:   "transfer",
	Short: "Move a product's balance to another location",
	Example: `  stockctl transfer --product 42 --to-location 7`,
	RunE:    runTransfer,
}

// Flags shared by movement in/out.
var (
	movementProduct  int
	movementLocation int
	movementQty      int
	movementReason   int
	movementCustomer string
	movementNote     string
)

// Flags for transfer.
var (
	transferProduct    int
	transferToLocation int
	transferNote       string
)

func init() {
	for _, cmd := range []*cobra.Command{movementInCmd, movementOutCmd} {
		cmd.Flags().IntVar(&movementProduct, "product", 0, "Product ID (required)")
		cmd.Flags().IntVar(&movementLocation, "location", 0, "Location ID (required)")
		cmd.Flags().IntVar(&movementQty, "qty", 0, "Quantity (required)")
		cmd.Flags().IntVar(&movementReason, "reason", 0, "Movement reason ID (required)")
		cmd.Flags().StringVar(&movementCustomer, "customer", "", "Customer name")
		cmd.Flags().StringVar(&movementNote, "note", "", "Free-form note")
	}
	movementCmd.AddCommand(movementInCmd)
	movementCmd.AddCommand(movementOutCmd)
	rootCmd.AddCommand(movementCmd)

	transferCmd.Flags().IntVar(&transferProduct, "product", 0, "Product ID (required)")
	transferCmd.Flags().IntVar(&transferToLocation, "to-location", 0, "Destination location ID (required)")
	transferCmd.Flags().StringVar(&transferNote, "note", "", "Free-form note")
	rootCmd.AddCommand(transferCmd)
}

func runMovement(direction domain.Direction) error {
	if inventoryService == nil {
		return errors.New("inventory service not configured")
	}
	if movementProduct <= 0 || movementLocation <= 0 || movementQty <= 0 || movementReason <= 0 {
		return errors.New("--product, --location, --qty, and --reason are required")
	}

	return inventoryService.RecordMovement(context.Background(), direction, domain.MovementPayload{
		ProductID:  movementProduct,
		LocationID: movementLocation,
		Qty:        movementQty,
		ReasonID:   movementReason,
		Customer:   movementCustomer,
		Note:       movementNote,
	})
}

func runTransfer(_ *cobra.Command, _ []string) error {
	if inventoryService == nil {
		return errors.New("inventory service not configured")
	}
	if transferProduct <= 0 || transferToLocation <= 0 {
		return errors.New("--product and --to-location are required")
	}

	return inventoryService.Transfer(context.Background(), domain.TransferPayload{
		ProductID:    transferProduct,
		ToLocationID: transferToLocation,
		Note:         transferNote,
	})
}
