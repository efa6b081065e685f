package domain

import "time"

// SessionToken is the credential set issued for the authenticated account.
// It is owned exclusively by the identity manager; callers receive only the
// bearer access token string and never persist it themselves.
type SessionToken struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
	Expiry       time.Time
	// Account is the authenticated account identity (email or UPN) the
	// token was issued for.
	Account string
	Scope   string
	// Issuer is the identity-provider authority that issued the token.
	Issuer    string
	CreatedAt time.Time
}

// tokenExpiryMargin accounts for clock skew and network latency when
// deciding whether an access token is still usable.
const tokenExpiryMargin = 30 * time.Second

// Expired reports whether the access token has expired or is about to.
// Tokens without an expiry never expire here; the backend's 401 is the
// authority in that case.
func (t *SessionToken) Expired() bool {
	if t.Expiry.IsZero() {
		return false
	}
	return time.Now().Add(tokenExpiryMargin).After(t.Expiry)
}

// ChangeRecord marks a product touched by a movement or transfer in the
// current working session, together with the last observed quantity and
// location so listings can highlight what changed.
type ChangeRecord struct {
	ProductID         int
	LastQty           *int
	LastLocationLabel string
	UpdatedAt         time.Time
}
