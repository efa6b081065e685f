package inventory

import (
	"github.com/custodia-labs/stockctl/internal/core/domain"
)

// StockItemFromRaw builds a StockItem from one raw payload item.
// Required: product id (product_id|id), code (code|part_number), qty
// (qty|quantity), location label (location_label|label). Returns false
// when any required field is missing or malformed; the item is dropped.
func StockItemFromRaw(value interface{}) (domain.StockItem, bool) {
	record, ok := asRecord(value)
	if !ok {
		return domain.StockItem{}, false
	}

	productID, ok := readInt(record, "product_id", "id")
	if !ok {
		return domain.StockItem{}, false
	}
	code, ok := readString(record, "code", "part_number")
	if !ok {
		return domain.StockItem{}, false
	}
	qty, ok := readInt(record, "qty", "quantity")
	if !ok {
		return domain.StockItem{}, false
	}
	locationLabel, ok := readString(record, "location_label", "label")
	if !ok {
		return domain.StockItem{}, false
	}

	item := domain.StockItem{
		ProductID:     productID,
		Code:          code,
		Qty:           qty,
		LocationLabel: locationLabel,
	}
	item.Description, _ = readString(record, "description", "desc")
	item.Manufacturer, _ = readString(record, "manufacturer")
	item.LocationID, _ = readInt(record, "location_id")
	item.Family, _ = readString(record, "family")
	return item, true
}

// StockPageFromRaw normalises one stock listing response. The next-page
// offset is read from the payload when reported (nextOffset|next_offset);
// otherwise it is computed as offset+limit, which assumes the backend
// honoured the requested page size.
func StockPageFromRaw(raw interface{}, offset, limit int) domain.StockPage {
	page := domain.StockPage{NextOffset: offset + limit}

	for _, value := range collectionItems(raw) {
		if item, ok := StockItemFromRaw(value); ok {
			page.Items = append(page.Items, item)
		}
	}

	if record, ok := asRecord(raw); ok {
		if next, ok := readInt(record, "nextOffset", "next_offset"); ok {
			page.NextOffset = next
		}
	}
	return page
}
