package domain

import "time"

// Direction is the movement direction enum.
type Direction string

const (
	// DirectionIn is stock entering a location.
	DirectionIn Direction = "IN"
	// DirectionOut is stock leaving a location.
	DirectionOut Direction = "OUT"
)

// ParseDirection case-normalises a raw direction value.
// Returns false when the value is not in the closed IN/OUT set; the
// caller decides whether that means "drop the record" (malformed) or
// "use the documented default" (absent).
func ParseDirection(raw string) (Direction, bool) {
	switch Direction(normaliseUpper(raw)) {
	case DirectionIn:
		return DirectionIn, true
	case DirectionOut:
		return DirectionOut, true
	default:
		return "", false
	}
}

// MovementRow is one normalised stock-movement history entry.
type MovementRow struct {
	ID         int
	OccurredAt string // ISO 8601 as reported by the backend
	Direction  Direction
	Qty        int
	Reason     string
	Customer   string
	User       string
	Note       string
	// LocationLabel is the warehouse address the movement touched,
	// empty when the backend did not report one.
	LocationLabel string
}

// MovementPayload describes one stock entry or withdrawal to record.
type MovementPayload struct {
	ProductID  int
	LocationID int
	Qty        int
	ReasonID   int
	Customer   string
	Note       string
	OccurredAt time.Time
}

// TransferPayload moves a product's balance to another location.
type TransferPayload struct {
	ProductID    int
	ToLocationID int
	Note         string
	OccurredAt   time.Time
}
