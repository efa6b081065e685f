// Package api is the resilient request pipeline for the inventory
// backend: bearer credentials, idempotency keys, one authorization retry,
// endpoint fallback, and defensive outcome classification.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/stockctl/internal/core/ports/driven"
)

// DefaultHTTPTimeout is the default timeout for backend requests.
const DefaultHTTPTimeout = 30 * time.Second

// IdempotencyHeader carries the per-mutation deduplication key.
const IdempotencyHeader = "Idempotency-Key"

// Client executes logical HTTP operations against the inventory backend.
// All resource access goes through it; it owns header handling, the
// 401-renew-retry cycle, and response classification.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     driven.TokenProvider
	limiter    *RateLimiter
	logger     *slog.Logger
}

// ClientOption configures the client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a client for the given base URL. Tokens are acquired
// per request through the provider; the client never stores credentials.
func NewClient(baseURL string, tokens driven.TokenProvider, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultHTTPTimeout},
		tokens:     tokens,
		limiter:    NewRateLimiter(),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Do executes one logical operation. The result is nil for 204, the
// decoded JSON value for JSON responses, and the raw text otherwise.
//
// A 401 triggers exactly one credential renewal and retry carrying the
// same idempotency key; a second 401 is terminal.
func (c *Client) Do(ctx context.Context, req Request) (interface{}, error) {
	targetURL, err := buildURL(c.baseURL, req.Path, req.Query)
	if err != nil {
		return nil, err
	}

	var payload []byte
	if req.Body != nil {
		payload, err = json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
	}

	// The key is fixed before the attempt loop so the post-401 retry of
	// the same logical mutation reuses it and the backend can deduplicate.
	idemKey := req.IdempotencyKey
	if idemKey == "" && req.mutating() {
		idemKey = uuid.NewString()
	}

	var resp *http.Response
	for attempt := 0; attempt < 2; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		token, err := c.tokens.GetToken(ctx)
		if err != nil {
			return nil, fmt.Errorf("acquire token: %w", err)
		}

		httpReq, err := http.NewRequestWithContext(ctx, req.method(), targetURL, bytes.NewReader(payload))
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		httpReq.Header.Set("Authorization", "Bearer "+token)
		httpReq.Header.Set("Accept", "application/json")
		if req.Body != nil {
			httpReq.Header.Set("Content-Type", "application/json")
		}
		if idemKey != "" {
			httpReq.Header.Set(IdempotencyHeader, idemKey)
		}

		resp, err = c.httpClient.Do(httpReq)
		if err != nil {
			return nil, fmt.Errorf("%s %s: %w", req.method(), req.Path, err)
		}

		if resp.StatusCode == http.StatusUnauthorized && attempt == 0 {
			io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			c.logger.Debug("credential rejected, renewing and retrying once",
				"method", req.method(),
				"path", req.Path)
			c.tokens.InvalidateToken()
			continue
		}
		break
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		c.limiter.RecordRateLimitError(retryAfterSeconds(resp))
	}

	return c.classify(req, resp)
}

// Get performs a GET returning the decoded response.
func (c *Client) Get(ctx context.Context, path string, query map[string]QueryValue) (interface{}, error) {
	return c.Do(ctx, Request{Path: path, Query: query})
}

// Post performs a POST with a JSON body returning the decoded response.
func (c *Client) Post(ctx context.Context, path string, body interface{}) (interface{}, error) {
	return c.Do(ctx, Request{Method: http.MethodPost, Path: path, Body: body})
}

// classify converts the final HTTP response into the pipeline outcome.
func (c *Client) classify(req Request, resp *http.Response) (interface{}, error) {
	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}

	text, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &Error{
			Status:     resp.StatusCode,
			StatusText: http.StatusText(resp.StatusCode),
			Message:    serverMessage(text),
		}
	}

	contentType := resp.Header.Get("Content-Type")
	if strings.Contains(contentType, "application/json") {
		var decoded interface{}
		if err := json.Unmarshal(text, &decoded); err != nil {
			return nil, fmt.Errorf("%w: %s %s returned unparseable JSON", ErrInvalidResponse, req.method(), req.Path)
		}
		return decoded, nil
	}

	return string(text), nil
}

// serverMessage extracts a human-readable message from an error body:
// the JSON error/message field when present, else the raw text.
func serverMessage(body []byte) string {
	if len(body) == 0 {
		return ""
	}
	var parsed map[string]interface{}
	if err := json.Unmarshal(body, &parsed); err == nil {
		for _, key := range []string{"error", "message"} {
			if msg, ok := parsed[key].(string); ok && msg != "" {
				return msg
			}
		}
	}
	return string(body)
}

// retryAfterSeconds reads the Retry-After header, 0 when absent.
func retryAfterSeconds(resp *http.Response) int {
	header := resp.Header.Get("Retry-After")
	if header == "" {
		return 0
	}
	seconds, err := strconv.Atoi(header)
	if err != nil {
		return 0
	}
	return seconds
}
