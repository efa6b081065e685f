package driven

import (
	"context"

	"github.com/custodia-labs/stockctl/internal/core/domain"
)

// TokenStore persists the session credential between runs.
// The identity manager is its only writer.
type TokenStore interface {
	// Get returns the stored token for the issuer, or (nil, nil) when no
	// account has been established yet.
	Get(ctx context.Context, issuer string) (*domain.SessionToken, error)

	// Put stores or replaces the token for its issuer.
	Put(ctx context.Context, token *domain.SessionToken) error

	// Clear removes the stored token for the issuer.
	Clear(ctx context.Context, issuer string) error
}

// ChangeStore tracks products touched during the current working session
// so listings can flag recently changed items.
type ChangeStore interface {
	// Mark records a change for a product, merging with any earlier mark.
	Mark(ctx context.Context, change domain.ChangeRecord) error

	// List returns all marked changes, most recent first.
	List(ctx context.Context) ([]domain.ChangeRecord, error)

	// Clear forgets all marked changes.
	Clear(ctx context.Context) error
}
