package domain

// SortKey identifies a stock listing sort column.
type SortKey string

const (
	// SortByCode orders by part number.
	SortByCode SortKey = "code"
	// SortByQty orders by on-hand quantity.
	SortByQty SortKey = "qty"
	// SortByLocation orders by warehouse address.
	SortByLocation SortKey = "loc"
)

// SortOrder is the listing direction.
type SortOrder string

const (
	// SortAsc is ascending order.
	SortAsc SortOrder = "asc"
	// SortDesc is descending order.
	SortDesc SortOrder = "desc"
)

// DefaultPageSize is the stock listing page size used when the caller
// does not specify a limit.
const DefaultPageSize = 30

// StockItem is the canonical view of one product balance at one location.
// Instances are only ever built by the normaliser from payloads that carry
// every required field; a raw item that fails validation is dropped, never
// defaulted.
type StockItem struct {
	ProductID     int
	Code          string
	Description   string
	Manufacturer  string
	Qty           int
	LocationID    int
	LocationLabel string
	Family        string
}

// StockQuery describes a stock listing request.
// Zero values select the documented defaults (sort=code, order=asc,
// limit=DefaultPageSize, offset=0).
type StockQuery struct {
	// Search is a free-text term matched against code and description.
	// It is wrapped in wildcard markers before being sent unless the
	// caller already supplied them.
	Search string
	// ManufacturerIDs filters to the given manufacturers (CSV-encoded).
	ManufacturerIDs []int
	// FamilyIDs filters to the given families (CSV-encoded).
	FamilyIDs []int
	// LocationLabel filters to one warehouse address.
	LocationLabel string
	Sort          SortKey
	Order         SortOrder
	Limit         int
	Offset        int
}

// StockPage is one page of a stock listing.
type StockPage struct {
	Items []StockItem
	// NextOffset is the offset for the following page. When the backend
	// does not report one it is computed as requested offset + requested
	// limit, which is only correct when the backend honoured the
	// requested page size.
	NextOffset int
}

// HasMore reports whether a further page should be requested.
// An empty page terminates pagination.
func (p StockPage) HasMore() bool {
	return len(p.Items) > 0
}
