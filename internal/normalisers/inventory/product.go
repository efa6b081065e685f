package inventory

import (
	"github.com/custodia-labs/stockctl/internal/core/domain"
)

// ProductFromRaw builds a catalogue entry. Required: product id
// (product_id|id) and part number (part_number|code). Everything else is
// optional.
func ProductFromRaw(value interface{}) (domain.ProductBasic, bool) {
	record, ok := asRecord(value)
	if !ok {
		return domain.ProductBasic{}, false
	}
	id, ok := readInt(record, "product_id", "id")
	if !ok {
		return domain.ProductBasic{}, false
	}
	partNumber, ok := readString(record, "part_number", "code")
	if !ok {
		return domain.ProductBasic{}, false
	}

	product := domain.ProductBasic{ProductID: id, PartNumber: partNumber}
	if description, ok := readString(record, "description", "desc"); ok {
		product.Description = description
	}
	if manufacturer, ok := readString(record, "manufacturer", "manufacturer_name"); ok {
		product.Manufacturer = manufacturer
	}
	if familyID, ok := readInt(record, "family_id"); ok {
		product.FamilyID = familyID
	}
	if active, ok := readBool(record, "is_active", "active"); ok {
		product.IsActive = &active
	}
	return product, true
}

// ProductsFromRaw normalises a product collection response.
func ProductsFromRaw(raw interface{}) []domain.ProductBasic {
	var products []domain.ProductBasic
	for _, value := range collectionItems(raw) {
		if product, ok := ProductFromRaw(value); ok {
			products = append(products, product)
		}
	}
	return products
}
