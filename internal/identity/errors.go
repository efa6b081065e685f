package identity

import (
	"errors"

	"golang.org/x/oauth2"
)

// Error types for the identity manager.
var (
	// ErrInteractionRequired indicates silent renewal is impossible and
	// an interactive login is needed.
	ErrInteractionRequired = errors.New("identity: user interaction required")

	// ErrLoginFailed indicates the interactive flow was cancelled or
	// rejected by the identity provider.
	ErrLoginFailed = errors.New("identity: interactive login failed")

	// ErrStateMismatch indicates the callback state did not match the
	// authorization request. The response is discarded.
	ErrStateMismatch = errors.New("identity: state parameter mismatch")
)

// interactionRequiredCodes are the OAuth error codes that mean the
// provider needs the user, not a retry.
var interactionRequiredCodes = map[string]bool{
	"invalid_grant":        true,
	"interaction_required": true,
	"login_required":       true,
	"consent_required":     true,
}

// interactionRequired reports whether an acquisition failure belongs to
// the "user interaction required" class. Only this class escalates from
// silent to interactive acquisition; everything else propagates unchanged.
func interactionRequired(err error) bool {
	if errors.Is(err, ErrInteractionRequired) {
		return true
	}
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		return interactionRequiredCodes[retrieveErr.ErrorCode]
	}
	return false
}
