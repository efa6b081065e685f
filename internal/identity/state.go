package identity

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"strings"
)

// stateBytes is the number of random bytes for the OAuth state parameter.
// 32 bytes encodes to 43 base64url characters, satisfying providers that
// require a minimum of 32.
const stateBytes = 32

// generateState generates a random state parameter linking the callback
// response to the authorization request.
func generateState() (string, error) {
	buf := make([]byte, stateBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate state: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// idTokenClaims holds the identity claims read from an OIDC ID token.
// The token is decoded without signature validation; it is used only to
// label the local account, never for authorization.
type idTokenClaims struct {
	Subject           string `json:"sub"`
	Email             string `json:"email"`
	PreferredUsername string `json:"preferred_username"`
}

// accountIdentity returns the best available account label from the claims.
func (c *idTokenClaims) accountIdentity() string {
	if c.Email != "" {
		return c.Email
	}
	if c.PreferredUsername != "" {
		return c.PreferredUsername
	}
	return c.Subject
}

// decodeIDTokenClaims extracts the claims from a JWT ID token payload.
func decodeIDTokenClaims(idToken string) (*idTokenClaims, error) {
	parts := strings.Split(idToken, ".")
	if len(parts) != 3 {
		return nil, fmt.Errorf("malformed id token")
	}
	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, fmt.Errorf("decode id token payload: %w", err)
	}
	var claims idTokenClaims
	if err := json.Unmarshal(payload, &claims); err != nil {
		return nil, fmt.Errorf("parse id token claims: %w", err)
	}
	return &claims, nil
}
