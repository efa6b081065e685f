package identity

import (
	"fmt"
	"strings"

	"golang.org/x/oauth2"
)

// DefaultCallbackPort is the default port for the local login callback
// server.
const DefaultCallbackPort = 3000

// loginScopes are the baseline identity scopes requested on first login.
// offline_access is required for refresh tokens.
var loginScopes = []string{"openid", "profile", "offline_access"}

// Config holds the identity-provider client configuration.
// ClientID, Authority, and APIScope are required; a missing value is a
// fatal configuration error raised when the manager is constructed, not
// at first token use.
type Config struct {
	// ClientID is the registered public client identifier.
	ClientID string
	// Authority is the identity provider's issuer URL,
	// e.g. https://login.microsoftonline.com/<tenant>.
	Authority string
	// APIScope is the OAuth scope of the target API,
	// e.g. api://<api-app-id>/user_impersonation.
	APIScope string
	// AuthURL overrides the authorization endpoint. Defaults to the
	// v2.0 endpoint under Authority.
	AuthURL string
	// TokenURL overrides the token endpoint. Defaults to the v2.0
	// endpoint under Authority.
	TokenURL string
	// CallbackPort is the local port for the login redirect.
	// Defaults to DefaultCallbackPort.
	CallbackPort int
}

// Validate checks that all required parameters are present.
func (c *Config) Validate() error {
	var missing []string
	if strings.TrimSpace(c.ClientID) == "" {
		missing = append(missing, "client_id")
	}
	if strings.TrimSpace(c.Authority) == "" {
		missing = append(missing, "authority")
	}
	if strings.TrimSpace(c.APIScope) == "" {
		missing = append(missing, "api_scope")
	}
	if len(missing) > 0 {
		return fmt.Errorf("identity: missing required configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}

// endpoint returns the OAuth2 endpoints, deriving the v2.0 defaults from
// the authority when no override is configured.
func (c *Config) endpoint() oauth2.Endpoint {
	authority := strings.TrimSuffix(c.Authority, "/")
	authURL := c.AuthURL
	if authURL == "" {
		authURL = authority + "/oauth2/v2.0/authorize"
	}
	tokenURL := c.TokenURL
	if tokenURL == "" {
		tokenURL = authority + "/oauth2/v2.0/token"
	}
	return oauth2.Endpoint{AuthURL: authURL, TokenURL: tokenURL}
}

// scopes returns the full scope set for interactive logins: the baseline
// identity scopes plus the API audience.
func (c *Config) scopes() []string {
	return append(append([]string{}, loginScopes...), c.APIScope)
}

// callbackPort returns the configured callback port or the default.
func (c *Config) callbackPort() int {
	if c.CallbackPort > 0 {
		return c.CallbackPort
	}
	return DefaultCallbackPort
}
