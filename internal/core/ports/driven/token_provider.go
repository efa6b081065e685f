package driven

import "context"

// TokenProvider supplies bearer tokens for outgoing API requests.
// Every request acquires its token through this port; implementations must
// be safe for concurrent use and must collapse concurrent acquisitions into
// a single identity-provider round trip.
type TokenProvider interface {
	// GetToken returns a currently valid access token, performing silent
	// renewal or an interactive login as needed.
	GetToken(ctx context.Context) (string, error)

	// InvalidateToken drops any cached access token so the next GetToken
	// forces a renewal. Called by the request pipeline after a 401.
	InvalidateToken()
}
