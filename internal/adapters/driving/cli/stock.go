package cli

import (
	"context"
	"errors"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/stockctl/internal/core/domain"
)

var stockCmd = &cobra.Command{
	Use:   "stock",
	Short: "Browse stock balances and movement history",
}

var stockListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stock balances",
	Long: `List stock balances, one page at a time.

The free-text search matches part numbers and descriptions; partial terms
match by default. Products touched during this session are flagged with *.

Examples:
  stockctl stock list
  stockctl stock list --search M8 --manufacturer 3 --manufacturer 7
  stockctl stock list --sort qty --order desc --offset 30`,
	RunE: runStockList,
}

var stockHistoryCmd = &cobra.Command{
	Use:   "history [product-id]",
	Short: "Show the movement history of a product",
	Args:  cobra.ExactArgs(1),
	RunE:  runStockHistory,
}

// Flags for stock list.
var (
	stockSearch        string
	stockManufacturers []int
	stockFamilies      []int
	stockLocation      string
	stockSort          string
	stockOrder         string
	stockLimit         int
	stockOffset        int
)

func init() {
	stockListCmd.Flags().StringVarP(&stockSearch, "search", "s", "", "Free-text search term")
	stockListCmd.Flags().IntSliceVar(&stockManufacturers, "manufacturer", nil, "Filter by manufacturer ID (can be repeated)")
	stockListCmd.Flags().IntSliceVar(&stockFamilies, "family", nil, "Filter by family ID (can be repeated)")
	stockListCmd.Flags().StringVar(&stockLocation, "location", "", "Filter by warehouse address label")
	stockListCmd.Flags().StringVar(&stockSort, "sort", "code", "Sort column: code, qty, or loc")
	stockListCmd.Flags().StringVar(&stockOrder, "order", "asc", "Sort order: asc or desc")
	stockListCmd.Flags().IntVar(&stockLimit, "limit", domain.DefaultPageSize, "Page size")
	stockListCmd.Flags().IntVar(&stockOffset, "offset", 0, "Page offset")

	stockCmd.AddCommand(stockListCmd)
	stockCmd.AddCommand(stockHistoryCmd)
	rootCmd.AddCommand(stockCmd)
}

func runStockList(cmd *cobra.Command, _ []string) error {
	if inventoryService == nil {
		return errors.New("inventory service not configured")
	}

	ctx := context.Background()
	page, err := inventoryService.FetchStock(ctx, domain.StockQuery{
		Search:          stockSearch,
		ManufacturerIDs: stockManufacturers,
		FamilyIDs:       stockFamilies,
		LocationLabel:   stockLocation,
		Sort:            domain.SortKey(stockSort),
		Order:           domain.SortOrder(stockOrder),
		Limit:           stockLimit,
		Offset:          stockOffset,
	})
	if err != nil {
		return err
	}

	if len(page.Items) == 0 {
		cmd.Println("No stock found.")
		return nil
	}

	changed := changedProductIDs(ctx)
	for _, item := range page.Items {
		flag := " "
		if changed[item.ProductID] {
			flag = "*"
		}
		cmd.Printf("%s %-20s %5d  %-12s %s\n", flag, item.Code, item.Qty, item.LocationLabel, item.Description)
	}
	if page.HasMore() {
		cmd.Printf("\nNext page: --offset %d\n", page.NextOffset)
	}
	return nil
}

func runStockHistory(cmd *cobra.Command, args []string) error {
	if inventoryService == nil {
		return errors.New("inventory service not configured")
	}
	productID, err := strconv.Atoi(args[0])
	if err != nil {
		return errors.New("product-id must be a number")
	}

	rows, err := inventoryService.FetchHistory(context.Background(), productID)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		cmd.Println("No movements found.")
		return nil
	}

	for _, row := range rows {
		cmd.Printf("%-25s %-3s %5d  %-15s %s\n", row.OccurredAt, row.Direction, row.Qty, row.Reason, row.User)
	}
	return nil
}

// changedProductIDs returns the products marked changed in this session.
// Listing still works when the change store is unavailable.
func changedProductIDs(ctx context.Context) map[int]bool {
	changes, err := inventoryService.RecentChanges(ctx)
	if err != nil {
		return nil
	}
	ids := make(map[int]bool, len(changes))
	for _, change := range changes {
		ids[change.ProductID] = true
	}
	return ids
}
