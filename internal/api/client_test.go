package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTokens is a scripted TokenProvider for pipeline tests.
type fakeTokens struct {
	mu            sync.Mutex
	tokens        []string
	calls         int
	invalidations int
}

func (f *fakeTokens) GetToken(_ context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	token := "token-static"
	if len(f.tokens) > 0 {
		if f.calls < len(f.tokens) {
			token = f.tokens[f.calls]
		} else {
			token = f.tokens[len(f.tokens)-1]
		}
	}
	f.calls++
	return token, nil
}

func (f *fakeTokens) InvalidateToken() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.invalidations++
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *fakeTokens) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	tokens := &fakeTokens{}
	return NewClient(server.URL, tokens), tokens
}

func TestDo_QuerySerialisation(t *testing.T) {
	var gotQuery string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{}`))
	})

	_, err := client.Do(context.Background(), Request{
		Path: "/api/stock",
		Query: map[string]QueryValue{
			"limit":   30,
			"q":       "abc",
			"ids":     []int{1, 2, 3},
			"skipped": nil,
		},
	})

	require.NoError(t, err)
	values := mustParseQuery(t, gotQuery)
	assert.Equal(t, []string{"30"}, values["limit"])
	assert.Equal(t, []string{"abc"}, values["q"])
	assert.Equal(t, []string{"1", "2", "3"}, values["ids"], "array values serialise as repeated keys")
	assert.NotContains(t, values, "skipped", "nil values are omitted")
}

func TestDo_AttachesBearerAndContentType(t *testing.T) {
	var auth, contentType string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		contentType = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusNoContent)
	})

	_, err := client.Do(context.Background(), Request{
		Method: http.MethodPost,
		Path:   "/api/movements",
		Body:   map[string]interface{}{"qty": 1},
	})

	require.NoError(t, err)
	assert.Equal(t, "Bearer token-static", auth)
	assert.Equal(t, "application/json", contentType)
}

func TestDo_NoContentTypeWithoutBody(t *testing.T) {
	var contentType string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusNoContent)
	})

	_, err := client.Do(context.Background(), Request{Path: "/api/stock"})

	require.NoError(t, err)
	assert.Empty(t, contentType)
}

func TestDo_IdempotencyKeyOnMutatingRequests(t *testing.T) {
	var key string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		key = r.Header.Get(IdempotencyHeader)
		w.WriteHeader(http.StatusNoContent)
	})

	_, err := client.Do(context.Background(), Request{Method: http.MethodPost, Path: "/api/movements"})
	require.NoError(t, err)
	assert.NotEmpty(t, key, "mutating requests carry a generated key")
	first := key

	_, err = client.Do(context.Background(), Request{Method: http.MethodPost, Path: "/api/movements"})
	require.NoError(t, err)
	assert.NotEqual(t, first, key, "each logical mutation gets its own key")

	_, err = client.Do(context.Background(), Request{
		Method:         http.MethodPost,
		Path:           "/api/movements",
		IdempotencyKey: "caller-key",
	})
	require.NoError(t, err)
	assert.Equal(t, "caller-key", key, "caller-supplied key wins")

	_, err = client.Do(context.Background(), Request{Path: "/api/stock"})
	require.NoError(t, err)
	assert.Empty(t, key, "reads carry no key")
}

func TestDo_RetriesOnceAfter401WithSameKey(t *testing.T) {
	var keys, authHeaders []string
	client, tokens := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		keys = append(keys, r.Header.Get(IdempotencyHeader))
		authHeaders = append(authHeaders, r.Header.Get("Authorization"))
		if len(keys) == 1 {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true}`))
	})
	tokens.tokens = []string{"stale-token", "fresh-token"}

	result, err := client.Do(context.Background(), Request{Method: http.MethodPost, Path: "/api/movements"})

	require.NoError(t, err, "a 401 followed by a 200 is a success")
	assert.Equal(t, map[string]interface{}{"ok": true}, result)
	require.Len(t, keys, 2)
	assert.Equal(t, keys[0], keys[1], "retry reuses the original idempotency key")
	assert.Equal(t, "Bearer stale-token", authHeaders[0])
	assert.Equal(t, "Bearer fresh-token", authHeaders[1], "retry carries the renewed credential")
	assert.Equal(t, 1, tokens.invalidations)
}

func TestDo_SecondUnauthorizedIsTerminal(t *testing.T) {
	var attempts int
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := client.Do(context.Background(), Request{Path: "/api/stock"})

	require.Error(t, err)
	assert.True(t, IsUnauthorised(err))
	assert.Equal(t, 2, attempts, "exactly one retry")
}

func TestDo_NoContent(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	result, err := client.Do(context.Background(), Request{Path: "/api/stock"})

	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestDo_ErrorMessageExtraction(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		contentType string
		want        string
	}{
		{
			name:   "json error field",
			status: http.StatusConflict,
			body:   `{"error":"duplicate movement"}`,
			want:   "409 Conflict - duplicate movement",
		},
		{
			name:   "json message field",
			status: http.StatusBadRequest,
			body:   `{"message":"qty must be positive"}`,
			want:   "400 Bad Request - qty must be positive",
		},
		{
			name:   "raw text body",
			status: http.StatusInternalServerError,
			body:   "boom",
			want:   "500 Internal Server Error - boom",
		},
		{
			name:   "json without known field falls back to raw body",
			status: http.StatusBadRequest,
			body:   `{"detail":"nope"}`,
			want:   `400 Bad Request - {"detail":"nope"}`,
		},
		{
			name:   "empty body",
			status: http.StatusBadGateway,
			want:   "502 Bad Gateway",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			_, err := client.Do(context.Background(), Request{Path: "/api/stock"})

			require.Error(t, err)
			assert.Equal(t, tt.want, err.Error())
		})
	}
}

func TestDo_DecodesJSONResponse(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Write([]byte(`{"items":[{"id":1}]}`))
	})

	result, err := client.Do(context.Background(), Request{Path: "/api/stock"})

	require.NoError(t, err)
	payload, ok := result.(map[string]interface{})
	require.True(t, ok)
	assert.Contains(t, payload, "items")
}

func TestDo_InvalidJSONIsTerminal(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"items":`))
	})

	_, err := client.Do(context.Background(), Request{Path: "/api/stock"})

	assert.ErrorIs(t, err, ErrInvalidResponse)
}

func TestDo_NonJSONResponseReturnsRawText(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		w.Write([]byte("pong"))
	})

	result, err := client.Do(context.Background(), Request{Path: "/health"})

	require.NoError(t, err)
	assert.Equal(t, "pong", result)
}

func mustParseQuery(t *testing.T, raw string) map[string][]string {
	t.Helper()
	values, err := url.ParseQuery(raw)
	require.NoError(t, err)
	return values
}
