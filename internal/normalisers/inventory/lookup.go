package inventory

import (
	"github.com/custodia-labs/stockctl/internal/core/domain"
)

// LocationFromRaw builds a location option. Required: id and a non-empty
// label (label|location_label).
func LocationFromRaw(value interface{}) (domain.LocationOption, bool) {
	record, ok := asRecord(value)
	if !ok {
		return domain.LocationOption{}, false
	}
	id, ok := readInt(record, "id")
	if !ok {
		return domain.LocationOption{}, false
	}
	label, ok := readString(record, "label", "location_label")
	if !ok {
		return domain.LocationOption{}, false
	}
	return domain.LocationOption{ID: id, Label: label}, true
}

// LocationsFromRaw normalises a location collection response.
func LocationsFromRaw(raw interface{}) []domain.LocationOption {
	var locations []domain.LocationOption
	for _, value := range collectionItems(raw) {
		if location, ok := LocationFromRaw(value); ok {
			locations = append(locations, location)
		}
	}
	return locations
}

// namedEntry extracts the id/name pair shared by the lookup records.
func namedEntry(value interface{}) (int, string, bool) {
	record, ok := asRecord(value)
	if !ok {
		return 0, "", false
	}
	id, ok := readInt(record, "id")
	if !ok {
		return 0, "", false
	}
	name, ok := readString(record, "name")
	if !ok {
		return 0, "", false
	}
	return id, name, true
}

// ManufacturersFromRaw normalises a manufacturer lookup response.
func ManufacturersFromRaw(raw interface{}) []domain.Manufacturer {
	var entries []domain.Manufacturer
	for _, value := range collectionItems(raw) {
		if id, name, ok := namedEntry(value); ok {
			entries = append(entries, domain.Manufacturer{ID: id, Name: name})
		}
	}
	return entries
}

// FamiliesFromRaw normalises a family lookup response.
func FamiliesFromRaw(raw interface{}) []domain.Family {
	var entries []domain.Family
	for _, value := range collectionItems(raw) {
		if id, name, ok := namedEntry(value); ok {
			entries = append(entries, domain.Family{ID: id, Name: name})
		}
	}
	return entries
}

// MovementReasonsFromRaw normalises a movement reason lookup response.
func MovementReasonsFromRaw(raw interface{}) []domain.MovementReason {
	var entries []domain.MovementReason
	for _, value := range collectionItems(raw) {
		if id, name, ok := namedEntry(value); ok {
			entries = append(entries, domain.MovementReason{ID: id, Name: name})
		}
	}
	return entries
}

// FamilyFromRaw builds a single family record, used to validate create
// responses.
func FamilyFromRaw(value interface{}) (domain.Family, bool) {
	if id, name, ok := namedEntry(value); ok {
		return domain.Family{ID: id, Name: name}, true
	}
	return domain.Family{}, false
}
