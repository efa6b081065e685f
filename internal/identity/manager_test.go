package identity

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/stockctl/internal/core/domain"
)

// memoryTokenStore is an in-memory TokenStore for tests.
type memoryTokenStore struct {
	mu    sync.Mutex
	token *domain.SessionToken
}

func (s *memoryTokenStore) Get(_ context.Context, _ string) (*domain.SessionToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token, nil
}

func (s *memoryTokenStore) Put(_ context.Context, token *domain.SessionToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	return nil
}

func (s *memoryTokenStore) Clear(_ context.Context, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = nil
	return nil
}

func testConfig() Config {
	return Config{
		ClientID:  "client-123",
		Authority: "https://login.example.com/tenant",
		APIScope:  "api://backend/user_impersonation",
	}
}

func newTestManager(t *testing.T, store *memoryTokenStore) *Manager {
	t.Helper()
	m, err := NewManager(testConfig(), store)
	require.NoError(t, err)
	return m
}

func validStoredToken() *domain.SessionToken {
	return &domain.SessionToken{
		AccessToken:  "cached-token",
		RefreshToken: "refresh-1",
		Account:      "user@example.com",
		Expiry:       time.Now().Add(time.Hour),
	}
}

func TestNewManager_MissingConfigFailsFast(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		missing string
	}{
		{
			name:    "missing client id",
			mutate:  func(c *Config) { c.ClientID = "" },
			missing: "client_id",
		},
		{
			name:    "missing authority",
			mutate:  func(c *Config) { c.Authority = "  " },
			missing: "authority",
		},
		{
			name:    "missing api scope",
			mutate:  func(c *Config) { c.APIScope = "" },
			missing: "api_scope",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(&cfg)

			_, err := NewManager(cfg, &memoryTokenStore{})

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.missing)
		})
	}
}

func TestGetToken_ReturnsCachedToken(t *testing.T) {
	store := &memoryTokenStore{token: validStoredToken()}
	m := newTestManager(t, store)

	var refreshes, logins int32
	m.refreshFn = func(context.Context, *domain.SessionToken) (*domain.SessionToken, error) {
		atomic.AddInt32(&refreshes, 1)
		return nil, errors.New("should not be called")
	}
	m.loginFn = func(context.Context) (*domain.SessionToken, error) {
		atomic.AddInt32(&logins, 1)
		return nil, errors.New("should not be called")
	}

	token, err := m.GetToken(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "cached-token", token)
	assert.Zero(t, atomic.LoadInt32(&refreshes))
	assert.Zero(t, atomic.LoadInt32(&logins))
}

func TestGetToken_SilentRenewalOnExpiredToken(t *testing.T) {
	expired := validStoredToken()
	expired.Expiry = time.Now().Add(-time.Minute)
	store := &memoryTokenStore{token: expired}
	m := newTestManager(t, store)

	m.refreshFn = func(_ context.Context, stored *domain.SessionToken) (*domain.SessionToken, error) {
		assert.Equal(t, "refresh-1", stored.RefreshToken)
		renewed := validStoredToken()
		renewed.AccessToken = "renewed-token"
		return renewed, nil
	}
	m.loginFn = func(context.Context) (*domain.SessionToken, error) {
		return nil, errors.New("should not be called")
	}

	token, err := m.GetToken(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "renewed-token", token)
	assert.Equal(t, "renewed-token", store.token.AccessToken, "renewed token should be persisted")
}

func TestGetToken_NoAccountTriggersInteractiveLogin(t *testing.T) {
	store := &memoryTokenStore{}
	m := newTestManager(t, store)

	m.loginFn = func(context.Context) (*domain.SessionToken, error) {
		fresh := validStoredToken()
		fresh.AccessToken = "first-login-token"
		return fresh, nil
	}

	token, err := m.GetToken(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "first-login-token", token)
	require.NotNil(t, store.token)
	assert.Equal(t, "user@example.com", store.token.Account)
}

func TestGetToken_EscalatesToInteractiveWhenInteractionRequired(t *testing.T) {
	expired := validStoredToken()
	expired.Expiry = time.Now().Add(-time.Minute)
	store := &memoryTokenStore{token: expired}
	m := newTestManager(t, store)

	m.refreshFn = func(context.Context, *domain.SessionToken) (*domain.SessionToken, error) {
		return nil, ErrInteractionRequired
	}
	m.loginFn = func(context.Context) (*domain.SessionToken, error) {
		fresh := validStoredToken()
		fresh.AccessToken = "interactive-token"
		return fresh, nil
	}

	token, err := m.GetToken(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "interactive-token", token)
}

func TestGetToken_OtherRenewalErrorsPropagateUnchanged(t *testing.T) {
	expired := validStoredToken()
	expired.Expiry = time.Now().Add(-time.Minute)
	store := &memoryTokenStore{token: expired}
	m := newTestManager(t, store)

	renewErr := errors.New("identity provider unreachable")
	var logins int32
	m.refreshFn = func(context.Context, *domain.SessionToken) (*domain.SessionToken, error) {
		return nil, renewErr
	}
	m.loginFn = func(context.Context) (*domain.SessionToken, error) {
		atomic.AddInt32(&logins, 1)
		return validStoredToken(), nil
	}

	_, err := m.GetToken(context.Background())

	require.ErrorIs(t, err, renewErr)
	assert.Zero(t, atomic.LoadInt32(&logins), "network errors must not trigger an interactive prompt")
}

func TestGetToken_ConcurrentCallersShareOneInteractiveFlow(t *testing.T) {
	store := &memoryTokenStore{}
	m := newTestManager(t, store)

	var logins int32
	m.loginFn = func(context.Context) (*domain.SessionToken, error) {
		atomic.AddInt32(&logins, 1)
		time.Sleep(50 * time.Millisecond) // hold the acquisition slot open
		fresh := validStoredToken()
		fresh.AccessToken = "shared-token"
		return fresh, nil
	}

	const callers = 10
	tokens := make([]string, callers)
	errs := make([]error, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			tokens[i], errs[i] = m.GetToken(context.Background())
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&logins), "at most one interactive flow may run")
	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, "shared-token", tokens[i], "all callers observe the same outcome")
	}
}

func TestInvalidateToken_ForcesRenewal(t *testing.T) {
	store := &memoryTokenStore{token: validStoredToken()}
	m := newTestManager(t, store)

	var refreshes int32
	m.refreshFn = func(context.Context, *domain.SessionToken) (*domain.SessionToken, error) {
		atomic.AddInt32(&refreshes, 1)
		renewed := validStoredToken()
		renewed.AccessToken = "forced-renewal-token"
		return renewed, nil
	}

	m.InvalidateToken()
	token, err := m.GetToken(context.Background())

	require.NoError(t, err)
	assert.Equal(t, "forced-renewal-token", token)
	assert.Equal(t, int32(1), atomic.LoadInt32(&refreshes))

	// The invalidation is consumed: the next call uses the cache again.
	token, err = m.GetToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "forced-renewal-token", token)
	assert.Equal(t, int32(1), atomic.LoadInt32(&refreshes))
}

func TestInitialize_Memoized(t *testing.T) {
	m := newTestManager(t, &memoryTokenStore{})

	require.NoError(t, m.Initialize())
	first := m.oauth
	require.NoError(t, m.Initialize())

	assert.Same(t, first, m.oauth, "repeated initialisation must not rebuild the client")
	assert.Equal(t, "https://login.example.com/tenant/oauth2/v2.0/token", m.oauth.Endpoint.TokenURL)
	assert.Contains(t, m.oauth.Scopes, "api://backend/user_impersonation")
	assert.Contains(t, m.oauth.Scopes, "offline_access")
}

func TestLogout_ClearsStoredSession(t *testing.T) {
	store := &memoryTokenStore{token: validStoredToken()}
	m := newTestManager(t, store)

	require.NoError(t, m.Logout(context.Background()))

	assert.Nil(t, store.token)
}
