package api

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetFallback_SoftMissOn404(t *testing.T) {
	var paths []string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		if r.URL.Path == "/api/manufacturers" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"id":1,"name":"Acme"}]`))
	})

	result, err := client.GetFallback(context.Background(),
		[]string{"/api/manufacturers", "/api/lookup/manufacturers"}, nil)

	require.NoError(t, err, "the first candidate's 404 must not surface")
	assert.Equal(t, []string{"/api/manufacturers", "/api/lookup/manufacturers"}, paths)
	assert.NotNil(t, result)
}

func TestGetFallback_ServerErrorAbortsImmediately(t *testing.T) {
	var paths []string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		w.WriteHeader(http.StatusInternalServerError)
	})

	_, err := client.GetFallback(context.Background(),
		[]string{"/api/families", "/api/product-families"}, nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrServerError)
	assert.Equal(t, []string{"/api/families"}, paths, "later candidates must not mask a server error")
}

func TestGetFallback_AllCandidatesMissSurfacesLastError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.GetFallback(context.Background(),
		[]string{"/api/a", "/api/b", "/api/c"}, nil)

	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestGetFallback_EmptyCandidateList(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})

	_, err := client.GetFallback(context.Background(), nil, nil)

	assert.True(t, IsNotFound(err))
}

func TestDoFallback_QueryCarriedToEveryCandidate(t *testing.T) {
	var queries []string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		queries = append(queries, r.URL.RawQuery)
		if len(queries) == 1 {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	})

	_, err := client.DoFallback(context.Background(),
		[]string{"/api/movements-history", "/api/history"},
		Request{Query: map[string]QueryValue{"product_id": 7}})

	require.NoError(t, err)
	assert.Equal(t, []string{"product_id=7", "product_id=7"}, queries)
}
