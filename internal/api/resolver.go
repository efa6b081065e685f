package api

import "context"

// DoFallback tries each candidate path in priority order for resources
// that historically lived under more than one endpoint. A 404 is a soft
// miss and the next candidate is tried; any other failure aborts
// immediately so genuine server errors are never masked by a misleading
// "not found" chain. When every candidate misses, the last candidate's
// error is surfaced.
func (c *Client) DoFallback(ctx context.Context, paths []string, req Request) (interface{}, error) {
	var lastErr error
	for _, path := range paths {
		req.Path = path
		result, err := c.Do(ctx, req)
		if err != nil {
			if IsNotFound(err) {
				lastErr = err
				continue
			}
			return nil, err
		}
		return result, nil
	}

	if lastErr == nil {
		lastErr = ErrNotFound
	}
	return nil, lastErr
}

// GetFallback is DoFallback for plain GET requests.
func (c *Client) GetFallback(ctx context.Context, paths []string, query map[string]QueryValue) (interface{}, error) {
	return c.DoFallback(ctx, paths, Request{Query: query})
}
