package response_test

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/savannah/pkg/apperr"
	"github.com/shashiranjanraj/savannah/pkg/response"
)

type body struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

func appError(t *testing.T, err error) (int, body) {
	t.Helper()
	rec := httptest.NewRecorder()
	response.AppError(rec, err)

	var b body
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&b))
	return rec.Code, b
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestAppErrorHidesWrappedCause(t *testing.T) {
	err := apperr.Fail(discard(), apperr.NotFound, "customer not found", errors.New("record not found"))

	code, b := appError(t, err)
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "customer not found", b.Message)
	assert.NotContains(t, b.Message, "record not found")
}

func TestAppErrorMasksInternal(t *testing.T) {
	err := apperr.Fail(discard(), apperr.Internal, "order lookup failed", errors.New("sqlite: disk I/O error"))

	code, b := appError(t, err)
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "Internal Server Error", b.Message)
}

func TestAppErrorMasksUntaggedErrors(t *testing.T) {
	code, b := appError(t, errors.New("raw store failure"))
	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, "Internal Server Error", b.Message)
}
