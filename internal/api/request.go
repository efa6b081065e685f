package api

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// QueryValue is a query parameter value. Scalars are stringified; slices
// serialise as repeated keys; nil values are omitted.
type QueryValue interface{}

// Request describes one logical HTTP operation. It has no identity beyond
// the call; construct one per operation.
type Request struct {
	// Method defaults to GET when empty.
	Method string
	// Path is appended to the client base URL unless it is already
	// absolute.
	Path string
	// Query holds the query parameters.
	Query map[string]QueryValue
	// Body is JSON-marshalled when non-nil.
	Body interface{}
	// IdempotencyKey overrides the generated key for mutating requests.
	IdempotencyKey string
}

// method returns the effective HTTP method.
func (r Request) method() string {
	if r.Method == "" {
		return http.MethodGet
	}
	return r.Method
}

// mutating reports whether the request needs an idempotency key.
func (r Request) mutating() bool {
	switch r.method() {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return false
	default:
		return true
	}
}

// buildURL joins the base address, the path, and the serialised query.
func buildURL(baseURL, path string, query map[string]QueryValue) (string, error) {
	full := path
	if !strings.HasPrefix(path, "http") {
		base := strings.TrimSuffix(baseURL, "/")
		if !strings.HasPrefix(path, "/") {
			path = "/" + path
		}
		full = base + path
	}

	u, err := url.Parse(full)
	if err != nil {
		return "", fmt.Errorf("invalid request URL %q: %w", full, err)
	}

	if len(query) > 0 {
		values := u.Query()
		for key, value := range query {
			if value == nil {
				continue
			}
			switch v := value.(type) {
			case []string:
				for _, item := range v {
					values.Add(key, item)
				}
			case []int:
				for _, item := range v {
					values.Add(key, fmt.Sprint(item))
				}
			case []interface{}:
				for _, item := range v {
					values.Add(key, fmt.Sprint(item))
				}
			default:
				values.Set(key, fmt.Sprint(v))
			}
		}
		u.RawQuery = values.Encode()
	}

	return u.String(), nil
}
