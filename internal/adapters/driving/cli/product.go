package cli

import (
	"context"
	"errors"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/stockctl/internal/core/domain"
)

var productCmd = &cobra.Command{
	Use:   "product",
	Short: "Find and manage catalogue entries",
}

var productFindCmd = &cobra.Command{
	Use:   "find [part-number]",
	Short: "Find a product by exact part number",
	Args:  cobra.ExactArgs(1),
	RunE:  runProductFind,
}

var productCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a catalogue entry",
	Example: `  stockctl product create --part-number "AB-100" --manufacturer 3 --description "M8 bolt"`,
	RunE:    runProductCreate,
}

var productUpdateCmd = &cobra.Command{
	Use:   "update [product-id]",
	Short: "Update a catalogue entry",
	Long: `Update a catalogue entry. Only the given flags are changed.

Older backend versions do not expose product updates; the command is a
no-op against them rather than an error.`,
	Args: cobra.ExactArgs(1),
	RunE: runProductUpdate,
}

var familyCreateCmd = &cobra.Command{
	Use:   "create [name]",
	Short: "Create a product family",
	Args:  cobra.ExactArgs(1),
	RunE:  runFamilyCreate,
}

var familyCmd = &cobra.Command{
	Use:   "family",
	Short: "Manage product families",
}

// Flags for product create.
var (
	productPartNumber   string
	productDescription  string
	productManufacturer int
	productFamily       int
)

// Flags for product update.
var (
	updatePartNumber   string
	updateDescription  string
	updateManufacturer int
	updateFamily       int
	updateActive       bool
)

func init() {
	productCreateCmd.Flags().StringVar(&productPartNumber, "part-number", "", "Part number (required)")
	productCreateCmd.Flags().StringVar(&productDescription, "description", "", "Description")
	productCreateCmd.Flags().IntVar(&productManufacturer, "manufacturer", 0, "Manufacturer ID (required)")
	productCreateCmd.Flags().IntVar(&productFamily, "family", 0, "Family ID")

	productUpdateCmd.Flags().StringVar(&updatePartNumber, "part-number", "", "New part number")
	productUpdateCmd.Flags().StringVar(&updateDescription, "description", "", "New description")
	productUpdateCmd.Flags().IntVar(&updateManufacturer, "manufacturer", 0, "New manufacturer ID")
	productUpdateCmd.Flags().IntVar(&updateFamily, "family", 0, "New family ID")
	productUpdateCmd.Flags().BoolVar(&updateActive, "active", true, "Whether the product is active")

	productCmd.AddCommand(productFindCmd)
	productCmd.AddCommand(productCreateCmd)
	productCmd.AddCommand(productUpdateCmd)
	rootCmd.AddCommand(productCmd)

	familyCmd.AddCommand(familyCreateCmd)
	rootCmd.AddCommand(familyCmd)
}

func runProductFind(cmd *cobra.Command, args []string) error {
	if inventoryService == nil {
		return errors.New("inventory service not configured")
	}

	product, err := inventoryService.FindProductByCode(context.Background(), args[0])
	if err != nil {
		return err
	}

	cmd.Printf("ID:           %d\n", product.ProductID)
	cmd.Printf("Part number:  %s\n", product.PartNumber)
	cmd.Printf("Description:  %s\n", product.Description)
	if product.Manufacturer != "" {
		cmd.Printf("Manufacturer: %s\n", product.Manufacturer)
	}
	if product.IsActive != nil {
		cmd.Printf("Active:       %t\n", *product.IsActive)
	}
	return nil
}

func runProductCreate(cmd *cobra.Command, _ []string) error {
	if inventoryService == nil {
		return errors.New("inventory service not configured")
	}
	if productPartNumber == "" || productManufacturer <= 0 {
		return errors.New("--part-number and --manufacturer are required")
	}

	payload := domain.ProductCreatePayload{
		PartNumber:     productPartNumber,
		Description:    productDescription,
		ManufacturerID: productManufacturer,
	}
	if productFamily > 0 {
		payload.FamilyID = &productFamily
	}

	id, err := inventoryService.CreateProduct(context.Background(), payload)
	if err != nil {
		return err
	}
	cmd.Printf("Created product %d\n", id)
	return nil
}

func runProductUpdate(cmd *cobra.Command, args []string) error {
	if inventoryService == nil {
		return errors.New("inventory service not configured")
	}
	productID, err := strconv.Atoi(args[0])
	if err != nil {
		return errors.New("product-id must be a number")
	}

	var patch domain.ProductPatch
	if cmd.Flags().Changed("part-number") {
		patch.PartNumber = &updatePartNumber
	}
	if cmd.Flags().Changed("description") {
		patch.Description = &updateDescription
	}
	if cmd.Flags().Changed("manufacturer") {
		patch.ManufacturerID = &updateManufacturer
	}
	if cmd.Flags().Changed("family") {
		patch.FamilyID = &updateFamily
	}
	if cmd.Flags().Changed("active") {
		patch.IsActive = &updateActive
	}

	return inventoryService.UpdateProduct(context.Background(), productID, patch)
}

func runFamilyCreate(cmd *cobra.Command, args []string) error {
	if inventoryService == nil {
		return errors.New("inventory service not configured")
	}

	family, err := inventoryService.CreateFamily(context.Background(), args[0])
	if err != nil {
		return err
	}
	cmd.Printf("Created family %d (%s)\n", family.ID, family.Name)
	return nil
}
