package domain

import "strings"

// Manufacturer is a product manufacturer lookup entry.
type Manufacturer struct {
	ID   int
	Name string
}

// Family is a product family lookup entry.
type Family struct {
	ID   int
	Name string
}

// MovementReason is a movement reason lookup entry.
type MovementReason struct {
	ID   int
	Name string
}

// LocationOption is a warehouse address lookup entry.
type LocationOption struct {
	ID    int
	Label string
}

// normaliseUpper trims and upper-cases an enum value for comparison.
func normaliseUpper(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
