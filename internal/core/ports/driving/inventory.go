package driving

import (
	"context"

	"github.com/custodia-labs/stockctl/internal/core/domain"
)

// InventoryService exposes the inventory operations driven by the CLI.
// Every method either returns a typed value or an error whose message is
// suitable for direct display (HTTP status plus best-effort server message).
type InventoryService interface {
	// FetchStock returns one page of stock balances matching the query.
	FetchStock(ctx context.Context, query domain.StockQuery) (domain.StockPage, error)

	// FetchHistory returns the movement history for a product.
	FetchHistory(ctx context.Context, productID int) ([]domain.MovementRow, error)

	// Manufacturers returns the manufacturer lookup list.
	Manufacturers(ctx context.Context) ([]domain.Manufacturer, error)

	// Families returns the product family lookup list.
	Families(ctx context.Context) ([]domain.Family, error)

	// MovementReasons returns the movement reason lookup list.
	MovementReasons(ctx context.Context) ([]domain.MovementReason, error)

	// ListLocations returns all warehouse addresses sorted by label.
	ListLocations(ctx context.Context) ([]domain.LocationOption, error)

	// SearchLocations returns the addresses matching a prefix query.
	// Wildcard markers are stripped; an empty query returns the full list.
	SearchLocations(ctx context.Context, query string) ([]domain.LocationOption, error)

	// FindProductByCode returns the product whose part number matches
	// exactly (case-insensitive), or domain.ErrNotFound.
	FindProductByCode(ctx context.Context, partNumber string) (*domain.ProductBasic, error)

	// RecordMovement posts one stock entry or withdrawal.
	RecordMovement(ctx context.Context, direction domain.Direction, payload domain.MovementPayload) error

	// Transfer moves a product's balance to another location.
	Transfer(ctx context.Context, payload domain.TransferPayload) error

	// CreateLocation creates a warehouse address on the fly.
	CreateLocation(ctx context.Context, label string) (domain.LocationOption, error)

	// CreateProduct creates a catalogue entry and returns its new ID.
	CreateProduct(ctx context.Context, payload domain.ProductCreatePayload) (int, error)

	// CreateFamily creates a product family.
	CreateFamily(ctx context.Context, name string) (domain.Family, error)

	// UpdateProduct applies a partial product update, best-effort: a 404
	// on either the PUT or the PATCH variant is tolerated.
	UpdateProduct(ctx context.Context, productID int, patch domain.ProductPatch) error

	// RecentChanges lists products touched during this session.
	RecentChanges(ctx context.Context) ([]domain.ChangeRecord, error)

	// ClearChanges forgets the session change marks.
	ClearChanges(ctx context.Context) error
}
