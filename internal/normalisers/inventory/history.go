package inventory

import (
	"github.com/custodia-labs/stockctl/internal/core/domain"
)

// MovementRowFromRaw builds one history entry from a raw payload item.
// Required: id, occurred_at (occurred_at|created_at|timestamp), qty
// (qty|quantity). The direction (direction|dir|movement) defaults to OUT
// only when genuinely absent; a present-but-unrecognised value is
// malformed and drops the record.
func MovementRowFromRaw(value interface{}) (domain.MovementRow, bool) {
	record, ok := asRecord(value)
	if !ok {
		return domain.MovementRow{}, false
	}

	id, ok := readInt(record, "id")
	if !ok {
		return domain.MovementRow{}, false
	}
	occurredAt, ok := readString(record, "occurred_at", "created_at", "timestamp")
	if !ok {
		return domain.MovementRow{}, false
	}
	qty, ok := readInt(record, "qty", "quantity")
	if !ok {
		return domain.MovementRow{}, false
	}

	direction := domain.DirectionOut
	if rawDirection, present := readString(record, "direction", "dir", "movement"); present {
		parsed, valid := domain.ParseDirection(rawDirection)
		if !valid {
			return domain.MovementRow{}, false
		}
		direction = parsed
	}

	row := domain.MovementRow{
		ID:         id,
		OccurredAt: occurredAt,
		Direction:  direction,
		Qty:        qty,
	}
	row.Reason, _ = readString(record, "reason", "reason_name")
	row.Customer, _ = readString(record, "customer")
	row.User, _ = readString(record, "user", "display_name", "upn")
	row.Note, _ = readString(record, "note")
	row.LocationLabel, _ = readString(record, "location_label", "label")
	return row, true
}

// MovementRowsFromRaw normalises a history collection response.
func MovementRowsFromRaw(raw interface{}) []domain.MovementRow {
	var rows []domain.MovementRow
	for _, value := range collectionItems(raw) {
		if row, ok := MovementRowFromRaw(value); ok {
			rows = append(rows, row)
		}
	}
	return rows
}
