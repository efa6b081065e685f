// Package services implements the core inventory operations on top of the
// api request pipeline and the normalisers.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/stockctl/internal/api"
	"github.com/custodia-labs/stockctl/internal/core/domain"
	"github.com/custodia-labs/stockctl/internal/core/ports/driven"
	"github.com/custodia-labs/stockctl/internal/core/ports/driving"
	"github.com/custodia-labs/stockctl/internal/normalisers/inventory"
)

// Ensure InventoryService implements the interface.
var _ driving.InventoryService = (*InventoryService)(nil)

// Fallback candidate lists for resources that historically lived under
// more than one endpoint. Order is priority order.
var (
	stockPaths          = []string{"/api/stock", "/api/stock-balances", "/api/lookup/stock"}
	manufacturerPaths   = []string{"/api/manufacturers", "/api/lookup/manufacturers"}
	familyPaths         = []string{"/api/families", "/api/product-families", "/api/lookup/families"}
	movementReasonPaths = []string{"/api/movement-reasons", "/api/lookup/movement-reasons"}
	locationPaths       = []string{"/api/locations", "/api/lookup/locations"}
)

// historyPaths builds the movement-history candidates. The per-product
// legacy paths need the product ID baked into the path itself; aggregator
// endpoints receive it as a query parameter instead.
func historyPaths(productID int) []string {
	return []string{
		"/api/movements-history",
		"/api/movements/history",
		"/api/history/movements",
		fmt.Sprintf("/api/stock/%d/history", productID),
		fmt.Sprintf("/api/products/%d/history", productID),
		"/api/history",
	}
}

// InventoryService is the default InventoryService implementation.
type InventoryService struct {
	client  *api.Client
	changes driven.ChangeStore
	logger  *slog.Logger
}

// NewInventoryService creates the service on top of an API client and a
// session change store.
func NewInventoryService(client *api.Client, changes driven.ChangeStore, logger *slog.Logger) *InventoryService {
	if logger == nil {
		logger = slog.Default()
	}
	return &InventoryService{client: client, changes: changes, logger: logger}
}

// FetchStock returns one page of stock balances. Unset query fields fall
// back to the listing defaults; multi-valued filters are CSV encoded.
func (s *InventoryService) FetchStock(ctx context.Context, query domain.StockQuery) (domain.StockPage, error) {
	sortKey := query.Sort
	if sortKey == "" {
		sortKey = domain.SortByCode
	}
	order := query.Order
	if order == "" {
		order = domain.SortAsc
	}
	limit := query.Limit
	if limit <= 0 {
		limit = domain.DefaultPageSize
	}
	offset := query.Offset
	if offset < 0 {
		offset = 0
	}

	params := map[string]api.QueryValue{
		"sort":   string(sortKey),
		"order":  string(order),
		"limit":  limit,
		"offset": offset,
		"q":      wildcardTerm(query.Search),
	}
	if csv := joinIDs(query.ManufacturerIDs); csv != "" {
		params["manufacturer_id"] = csv
	}
	if csv := joinIDs(query.FamilyIDs); csv != "" {
		params["family_id"] = csv
	}
	if query.LocationLabel != "" {
		params["location_label"] = query.LocationLabel
	}

	raw, err := s.client.GetFallback(ctx, stockPaths, params)
	if err != nil {
		return domain.StockPage{}, err
	}
	return inventory.StockPageFromRaw(raw, offset, limit), nil
}

// FetchHistory returns the movement history for a product.
func (s *InventoryService) FetchHistory(ctx context.Context, productID int) ([]domain.MovementRow, error) {
	raw, err := s.client.GetFallback(ctx, historyPaths(productID), map[string]api.QueryValue{
		"product_id": productID,
	})
	if err != nil {
		return nil, err
	}
	return inventory.MovementRowsFromRaw(raw), nil
}

// Manufacturers returns the manufacturer lookup list.
func (s *InventoryService) Manufacturers(ctx context.Context) ([]domain.Manufacturer, error) {
	raw, err := s.client.GetFallback(ctx, manufacturerPaths, nil)
	if err != nil {
		return nil, err
	}
	return inventory.ManufacturersFromRaw(raw), nil
}

// Families returns the product family lookup list.
func (s *InventoryService) Families(ctx context.Context) ([]domain.Family, error) {
	raw, err := s.client.GetFallback(ctx, familyPaths, nil)
	if err != nil {
		return nil, err
	}
	return inventory.FamiliesFromRaw(raw), nil
}

// MovementReasons returns the movement reason lookup list.
func (s *InventoryService) MovementReasons(ctx context.Context) ([]domain.MovementReason, error) {
	raw, err := s.client.GetFallback(ctx, movementReasonPaths, nil)
	if err != nil {
		return nil, err
	}
	return inventory.MovementReasonsFromRaw(raw), nil
}

// ListLocations returns all warehouse addresses sorted by label.
func (s *InventoryService) ListLocations(ctx context.Context) ([]domain.LocationOption, error) {
	raw, err := s.client.GetFallback(ctx, locationPaths, nil)
	if err != nil {
		return nil, err
	}
	return sortLocations(inventory.LocationsFromRaw(raw)), nil
}

// SearchLocations returns the addresses matching a prefix query.
// Wildcard markers are stripped; a query that ends up empty falls back to
// the full listing rather than hitting the search endpoint with "*".
func (s *InventoryService) SearchLocations(ctx context.Context, query string) ([]domain.LocationOption, error) {
	stripped := strings.TrimSpace(strings.ReplaceAll(query, "*", ""))
	if stripped == "" {
		return s.ListLocations(ctx)
	}

	raw, err := s.client.Get(ctx, "/api/locations/search", map[string]api.QueryValue{
		"q": stripped,
	})
	if err != nil {
		return nil, err
	}
	return sortLocations(inventory.LocationsFromRaw(raw)), nil
}

// FindProductByCode returns the product whose part number matches exactly,
// case-insensitive. The backend search is a contains-match, so the result
// set is filtered client-side.
func (s *InventoryService) FindProductByCode(ctx context.Context, partNumber string) (*domain.ProductBasic, error) {
	trimmed := strings.TrimSpace(partNumber)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: empty part number", domain.ErrInvalidInput)
	}

	raw, err := s.client.Get(ctx, "/api/products", map[string]api.QueryValue{
		"q":      trimmed,
		"limit":  50,
		"offset": 0,
	})
	if err != nil {
		return nil, err
	}

	for _, product := range inventory.ProductsFromRaw(raw) {
		if strings.EqualFold(product.PartNumber, trimmed) {
			match := product
			return &match, nil
		}
	}
	return nil, fmt.Errorf("%w: product %q", domain.ErrNotFound, trimmed)
}

// RecordMovement posts one stock entry or withdrawal and marks the
// product changed for this session.
func (s *InventoryService) RecordMovement(ctx context.Context, direction domain.Direction, payload domain.MovementPayload) error {
	if direction != domain.DirectionIn && direction != domain.DirectionOut {
		return fmt.Errorf("%w: direction %q", domain.ErrInvalidInput, direction)
	}

	body := map[string]interface{}{
		"direction":   string(direction),
		"product_id":  payload.ProductID,
		"location_id": payload.LocationID,
		"qty":         payload.Qty,
		"reason_id":   payload.ReasonID,
		"customer":    payload.Customer,
		"note":        nullableString(payload.Note),
		"occurred_at": nullableTime(payload.OccurredAt),
	}
	if _, err := s.client.Post(ctx, "/api/movements", body); err != nil {
		return err
	}

	s.markChanged(ctx, payload.ProductID, nil, "")
	return nil
}

// Transfer moves a product's balance to another location.
func (s *InventoryService) Transfer(ctx context.Context, payload domain.TransferPayload) error {
	body := map[string]interface{}{
		"product_id":     payload.ProductID,
		"to_location_id": payload.ToLocationID,
		"note":           nullableString(payload.Note),
		"occurred_at":    nullableTime(payload.OccurredAt),
	}
	if _, err := s.client.Post(ctx, "/api/transfer", body); err != nil {
		return err
	}

	s.markChanged(ctx, payload.ProductID, nil, "")
	return nil
}

// CreateLocation creates a warehouse address on the fly.
func (s *InventoryService) CreateLocation(ctx context.Context, label string) (domain.LocationOption, error) {
	trimmed := strings.TrimSpace(label)
	if trimmed == "" {
		return domain.LocationOption{}, fmt.Errorf("%w: empty location label", domain.ErrInvalidInput)
	}

	raw, err := s.client.Post(ctx, "/api/locations", map[string]interface{}{"label": trimmed})
	if err != nil {
		return domain.LocationOption{}, err
	}

	location, ok := inventory.LocationFromRaw(raw)
	if !ok {
		return domain.LocationOption{}, fmt.Errorf("%w: creating location", domain.ErrInvalidResponse)
	}
	return location, nil
}

// CreateProduct creates a catalogue entry and returns the new product ID.
func (s *InventoryService) CreateProduct(ctx context.Context, payload domain.ProductCreatePayload) (int, error) {
	if strings.TrimSpace(payload.PartNumber) == "" {
		return 0, fmt.Errorf("%w: empty part number", domain.ErrInvalidInput)
	}
	if payload.ManufacturerID <= 0 {
		return 0, fmt.Errorf("%w: missing manufacturer", domain.ErrInvalidInput)
	}

	body := map[string]interface{}{
		"part_number":     payload.PartNumber,
		"description":     nullableString(payload.Description),
		"manufacturer_id": payload.ManufacturerID,
		"family_id":       nullableInt(payload.FamilyID),
	}
	raw, err := s.client.Post(ctx, "/api/products", body)
	if err != nil {
		return 0, err
	}

	product, ok := inventory.ProductFromRaw(raw)
	if ok && product.ProductID > 0 {
		return product.ProductID, nil
	}
	// Some backend versions return only {"product_id": n}.
	if record, isRecord := raw.(map[string]interface{}); isRecord {
		if id, found := record["product_id"].(float64); found && id > 0 {
			return int(id), nil
		}
	}
	return 0, fmt.Errorf("%w: creating product", domain.ErrInvalidResponse)
}

// CreateFamily creates a product family.
func (s *InventoryService) CreateFamily(ctx context.Context, name string) (domain.Family, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return domain.Family{}, fmt.Errorf("%w: empty family name", domain.ErrInvalidInput)
	}

	raw, err := s.client.Post(ctx, "/api/families", map[string]interface{}{"name": trimmed})
	if err != nil {
		return domain.Family{}, err
	}

	family, ok := inventory.FamilyFromRaw(raw)
	if !ok {
		return domain.Family{}, fmt.Errorf("%w: creating family", domain.ErrInvalidResponse)
	}
	return family, nil
}

// UpdateProduct applies a partial product update, best-effort. Older
// backend versions only accept PATCH, so a 404 on PUT falls through to
// PATCH; a 404 there too means the endpoint simply does not exist and is
// ignored. Any other error surfaces.
func (s *InventoryService) UpdateProduct(ctx context.Context, productID int, patch domain.ProductPatch) error {
	path := fmt.Sprintf("/api/products/%d", productID)

	_, err := s.client.Do(ctx, api.Request{Method: http.MethodPut, Path: path, Body: patch})
	if err == nil {
		return nil
	}
	if !api.IsNotFound(err) {
		return err
	}

	_, err = s.client.Do(ctx, api.Request{Method: http.MethodPatch, Path: path, Body: patch})
	if err != nil && !api.IsNotFound(err) {
		return err
	}
	return nil
}

// RecentChanges lists products touched during this session.
func (s *InventoryService) RecentChanges(ctx context.Context) ([]domain.ChangeRecord, error) {
	if s.changes == nil {
		return nil, nil
	}
	return s.changes.List(ctx)
}

// ClearChanges forgets the session change marks.
func (s *InventoryService) ClearChanges(ctx context.Context) error {
	if s.changes == nil {
		return nil
	}
	return s.changes.Clear(ctx)
}

// markChanged records a session change mark. Failures are logged, never
// surfaced: change tracking must not fail a movement that the backend
// already accepted.
func (s *InventoryService) markChanged(ctx context.Context, productID int, lastQty *int, lastLabel string) {
	if s.changes == nil {
		return
	}
	err := s.changes.Mark(ctx, domain.ChangeRecord{
		ProductID:         productID,
		LastQty:           lastQty,
		LastLocationLabel: lastLabel,
		UpdatedAt:         time.Now(),
	})
	if err != nil {
		s.logger.Warn("recording session change failed",
			"product_id", productID,
			"error", err)
	}
}

// wildcardTerm wraps a free-text search term in wildcards unless the
// caller already placed one, so partial code matches work by default.
func wildcardTerm(term string) string {
	trimmed := strings.TrimSpace(term)
	if trimmed == "" || strings.Contains(trimmed, "*") {
		return trimmed
	}
	return "*" + trimmed + "*"
}

// joinIDs CSV-encodes a multi-valued ID filter; empty means "all".
func joinIDs(ids []int) string {
	if len(ids) == 0 {
		return ""
	}
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ",")
}

func sortLocations(locations []domain.LocationOption) []domain.LocationOption {
	sort.Slice(locations, func(i, j int) bool {
		return locations[i].Label < locations[j].Label
	})
	return locations
}

func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func nullableInt(n *int) interface{} {
	if n == nil {
		return nil
	}
	return *n
}

func nullableTime(t time.Time) interface{} {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}
