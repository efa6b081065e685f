// Package identity owns the OAuth2 session with the identity provider.
// It produces bearer tokens for the API audience, handling first login,
// silent renewal, and the escalation to an interactive browser flow.
package identity

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"

	"github.com/custodia-labs/stockctl/internal/core/domain"
	"github.com/custodia-labs/stockctl/internal/core/ports/driven"
)

// LoginTimeout bounds the interactive flow. A login abandoned in the
// browser fails with context.DeadlineExceeded instead of occupying the
// acquisition slot forever.
const LoginTimeout = 10 * time.Minute

// Manager implements driven.TokenProvider against an OAuth2/OIDC identity
// provider. There is one Manager per process; it is the only writer of the
// stored session credential.
type Manager struct {
	cfg        Config
	store      driven.TokenStore
	httpClient *http.Client
	logger     *slog.Logger

	initOnce sync.Once
	initErr  error
	oauth    *oauth2.Config

	// group collapses concurrent acquisitions: while one is outstanding,
	// later callers attach to its outcome instead of starting a second
	// interactive prompt.
	group singleflight.Group

	mu          sync.Mutex
	invalidated bool

	// loginFn and refreshFn are indirections over the interactive and
	// silent flows so tests can substitute fakes.
	loginFn   func(ctx context.Context) (*domain.SessionToken, error)
	refreshFn func(ctx context.Context, stored *domain.SessionToken) (*domain.SessionToken, error)
}

// Option configures the manager.
type Option func(*Manager)

// WithHTTPClient sets a custom HTTP client for token-endpoint traffic.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(m *Manager) {
		m.httpClient = httpClient
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates the identity manager. Configuration errors are
// reported here, before any token is requested.
func NewManager(cfg Config, store driven.TokenStore, opts ...Option) (*Manager, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	m := &Manager{
		cfg:        cfg,
		store:      store,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.loginFn = m.interactiveLogin
	m.refreshFn = m.silentRenew
	return m, nil
}

// Initialize performs the one-time client setup. Concurrent and repeated
// calls return the first outcome without re-running the setup.
func (m *Manager) Initialize() error {
	m.initOnce.Do(func() {
		m.oauth = &oauth2.Config{
			ClientID: m.cfg.ClientID,
			Endpoint: m.cfg.endpoint(),
			Scopes:   m.cfg.scopes(),
		}
		m.logger.Debug("identity client initialised",
			"authority", m.cfg.Authority,
			"client_id", m.cfg.ClientID)
	})
	return m.initErr
}

// GetToken returns a currently valid access token for the API audience.
// Safe to call concurrently from every outgoing request; while one
// acquisition is in flight all callers share its result.
func (m *Manager) GetToken(ctx context.Context) (string, error) {
	if err := m.Initialize(); err != nil {
		return "", err
	}

	v, err, _ := m.group.Do("acquire", func() (interface{}, error) {
		return m.acquire(ctx)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// InvalidateToken drops the cached access token so the next acquisition
// forces a renewal. Called by the request pipeline after a 401.
func (m *Manager) InvalidateToken() {
	m.mu.Lock()
	m.invalidated = true
	m.mu.Unlock()
}

// Account returns the authenticated account identity, or "" when no
// session has been established yet.
func (m *Manager) Account(ctx context.Context) (string, error) {
	stored, err := m.store.Get(ctx, m.cfg.Authority)
	if err != nil || stored == nil {
		return "", err
	}
	return stored.Account, nil
}

// Login forces an interactive login regardless of stored state.
func (m *Manager) Login(ctx context.Context) (*domain.SessionToken, error) {
	if err := m.Initialize(); err != nil {
		return nil, err
	}
	token, err := m.loginFn(ctx)
	if err != nil {
		return nil, err
	}
	if err := m.store.Put(ctx, token); err != nil {
		return nil, fmt.Errorf("store session token: %w", err)
	}
	return token, nil
}

// Logout discards the stored session credential.
func (m *Manager) Logout(ctx context.Context) error {
	return m.store.Clear(ctx, m.cfg.Authority)
}

// acquire runs one acquisition: cached token, then silent renewal, then
// interactive escalation when the failure class demands the user.
func (m *Manager) acquire(ctx context.Context) (string, error) {
	stored, err := m.store.Get(ctx, m.cfg.Authority)
	if err != nil {
		return "", fmt.Errorf("read token store: %w", err)
	}

	m.mu.Lock()
	invalidated := m.invalidated
	m.invalidated = false
	m.mu.Unlock()

	// No account yet: establish one interactively.
	if stored == nil {
		return m.loginAndStore(ctx)
	}

	if !invalidated && stored.AccessToken != "" && !stored.Expired() {
		return stored.AccessToken, nil
	}

	token, err := m.refreshFn(ctx, stored)
	if err == nil {
		if err := m.store.Put(ctx, token); err != nil {
			return "", fmt.Errorf("store session token: %w", err)
		}
		return token.AccessToken, nil
	}

	if !interactionRequired(err) {
		// Any other failure class propagates to the caller unchanged.
		return "", err
	}

	m.logger.Debug("silent renewal requires interaction, escalating",
		"account", stored.Account)
	return m.loginAndStore(ctx)
}

func (m *Manager) loginAndStore(ctx context.Context) (string, error) {
	token, err := m.loginFn(ctx)
	if err != nil {
		return "", err
	}
	if err := m.store.Put(ctx, token); err != nil {
		return "", fmt.Errorf("store session token: %w", err)
	}
	m.logger.Debug("interactive login completed", "account", token.Account)
	return token.AccessToken, nil
}

// silentRenew obtains a fresh access token with the refresh-token grant.
func (m *Manager) silentRenew(ctx context.Context, stored *domain.SessionToken) (*domain.SessionToken, error) {
	if stored.RefreshToken == "" {
		return nil, ErrInteractionRequired
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, m.httpClient)
	src := m.oauth.TokenSource(ctx, &oauth2.Token{RefreshToken: stored.RefreshToken})
	token, err := src.Token()
	if err != nil {
		return nil, fmt.Errorf("silent renewal: %w", err)
	}

	return m.sessionToken(token, stored.Account, stored.RefreshToken), nil
}

// interactiveLogin runs the authorization-code flow with PKCE: local
// callback server, browser launch, code exchange. It blocks until the
// redirect arrives or the (bounded) context ends.
func (m *Manager) interactiveLogin(ctx context.Context) (*domain.SessionToken, error) {
	state, err := generateState()
	if err != nil {
		return nil, err
	}
	verifier := oauth2.GenerateVerifier()

	loginCtx, cancel := context.WithTimeout(ctx, LoginTimeout)
	defer cancel()

	server := newCallbackServer(m.cfg.callbackPort())
	redirectURL, err := server.Start(loginCtx)
	if err != nil {
		return nil, err
	}
	defer server.Stop()

	oauthCfg := *m.oauth
	oauthCfg.RedirectURL = redirectURL
	authURL := oauthCfg.AuthCodeURL(state, oauth2.S256ChallengeOption(verifier))

	m.logger.Info("opening browser for sign-in", "url", authURL)
	if err := openBrowser(authURL); err != nil {
		// Not fatal: the user can follow the printed URL manually.
		m.logger.Warn("could not open browser, open the URL manually", "error", err)
	}

	result, err := server.Wait(loginCtx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoginFailed, err)
	}
	if result.IsError() {
		return nil, fmt.Errorf("%w: %s (%s)", ErrLoginFailed, result.Error, result.ErrorDescription)
	}
	if result.State != state {
		return nil, ErrStateMismatch
	}

	exchangeCtx := context.WithValue(loginCtx, oauth2.HTTPClient, m.httpClient)
	token, err := oauthCfg.Exchange(exchangeCtx, result.Code, oauth2.VerifierOption(verifier))
	if err != nil {
		return nil, fmt.Errorf("exchange authorization code: %w", err)
	}

	account := ""
	if idToken, ok := token.Extra("id_token").(string); ok && idToken != "" {
		if claims, err := decodeIDTokenClaims(idToken); err == nil {
			account = claims.accountIdentity()
		}
	}

	return m.sessionToken(token, account, ""), nil
}

// sessionToken converts an oauth2 token into the stored credential. The
// provider may omit the refresh token on renewal; the previous one is
// kept in that case.
func (m *Manager) sessionToken(token *oauth2.Token, account, priorRefreshToken string) *domain.SessionToken {
	refreshToken := token.RefreshToken
	if refreshToken == "" {
		refreshToken = priorRefreshToken
	}
	return &domain.SessionToken{
		AccessToken:  token.AccessToken,
		RefreshToken: refreshToken,
		TokenType:    token.TokenType,
		Expiry:       token.Expiry,
		Account:      account,
		Scope:        m.cfg.APIScope,
		Issuer:       m.cfg.Authority,
		CreatedAt:    time.Now(),
	}
}
