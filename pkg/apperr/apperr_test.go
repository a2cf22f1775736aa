package apperr_test

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"testing"

	"github.com/shashiranjanraj/savannah/pkg/apperr"
)

func TestKindStatusMapping(t *testing.T) {
	cases := map[apperr.Kind]int{
		apperr.Validation:      http.StatusBadRequest,
		apperr.Unauthenticated: http.StatusUnauthorized,
		apperr.Forbidden:       http.StatusForbidden,
		apperr.NotFound:        http.StatusNotFound,
		apperr.Conflict:        http.StatusConflict,
		apperr.Internal:        http.StatusInternalServerError,
	}
	for kind, want := range cases {
		if got := kind.Status(); got != want {
			t.Errorf("%s: status = %d, want %d", kind, got, want)
		}
	}
}

func TestFailLogsAndTags(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))

	cause := errors.New("disk on fire")
	err := apperr.Fail(log, apperr.Internal, "order create failed", cause)

	if !apperr.IsKind(err, apperr.Internal) {
		t.Fatalf("kind = %s, want internal", apperr.KindOf(err))
	}
	if !errors.Is(err, cause) {
		t.Error("cause should stay reachable through Unwrap")
	}
	if out := buf.String(); out == "" || !bytes.Contains(buf.Bytes(), []byte("order create failed")) {
		t.Errorf("message not logged, got %q", out)
	}
}

func TestKindOfDefaultsToInternal(t *testing.T) {
	if got := apperr.KindOf(errors.New("plain")); got != apperr.Internal {
		t.Errorf("KindOf(plain) = %s, want internal", got)
	}
	if got := apperr.StatusOf(nil); got != http.StatusInternalServerError {
		t.Errorf("StatusOf(nil) = %d", got)
	}
}

func TestKindSurvivesWrapping(t *testing.T) {
	inner := apperr.New(apperr.NotFound, "customer with id 7 not found")
	wrapped := fmt.Errorf("workflow: %w", inner)

	if !apperr.IsKind(wrapped, apperr.NotFound) {
		t.Error("kind lost through fmt.Errorf wrapping")
	}
	if apperr.StatusOf(wrapped) != http.StatusNotFound {
		t.Error("status lost through wrapping")
	}
}
