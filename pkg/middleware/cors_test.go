package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/savannah/pkg/middleware"
)

func corsRequest(t *testing.T, opts middleware.CORSOptions, method, origin string) *httptest.ResponseRecorder {
	t.Helper()

	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := middleware.CORS(opts)(next)

	req := httptest.NewRequest(method, "/api/orders", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestCORSMatchedPreflight(t *testing.T) {
	opts := middleware.CORSOptions{
		AllowedOrigins: []string{"https://shop.example"},
		AllowedMethods: []string{"GET", "POST"},
		AllowedHeaders: []string{"Authorization"},
	}

	rec := corsRequest(t, opts, http.MethodOptions, "https://shop.example")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://shop.example", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSUnmatchedPreflightNotShortCircuited(t *testing.T) {
	opts := middleware.CORSOptions{
		AllowedOrigins: []string{"https://shop.example"},
		AllowedMethods: []string{"GET", "POST"},
	}

	rec := corsRequest(t, opts, http.MethodOptions, "https://evil.example")
	assert.NotEqual(t, http.StatusNoContent, rec.Code, "unmatched origin must not get a preflight answer")
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSPassThroughSetsHeaders(t *testing.T) {
	opts := middleware.DefaultCORSOptions()

	rec := corsRequest(t, opts, http.MethodGet, "https://anywhere.example")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
