// Package logger builds the structured slog logger used across the service.
//
// The logger is constructed once in main and handed to each component; it is
// a capability, not a global. Handlers are picked per environment: JSON on
// stdout for production (log aggregators), text for development. When the
// audit log is configured, records additionally fan out to MongoDB through
// an asynchronous handler so the hot path never blocks on the database.
//
// HTTP middleware stores a request-scoped logger (pre-tagged with the
// request id) in the context; WithCtx retrieves it:
//
//	log := logger.WithCtx(r.Context(), base)
//	log.Info("order created", "order_id", order.ID)
package logger

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/shashiranjanraj/savannah/config"
)

// New builds the process logger from cfg. The returned close function flushes
// the audit handler (if any) and must be called on shutdown.
func New(cfg *config.Config) (*slog.Logger, func()) {
	return newWithWriter(cfg, os.Stdout)
}

func newWithWriter(cfg *config.Config, w io.Writer) (*slog.Logger, func()) {
	var handler slog.Handler
	if cfg.IsProduction() {
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})
	} else {
		handler = slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug})
	}

	closeFn := func() {}

	if cfg.AuditLog.URI != "" {
		audit, err := NewAuditHandler(cfg.AuditLog)
		if err != nil {
			// The service must come up even when the audit store is down.
			slog.New(handler).Warn("audit log disabled", "error", err)
		} else {
			handler = NewFanoutHandler(handler, audit)
			closeFn = audit.Close
		}
	}

	log := slog.New(handler)
	slog.SetDefault(log)
	return log, closeFn
}

// ctxKey stores the request-scoped logger in a context.
type ctxKey struct{}

// Inject stores a request-scoped logger in ctx. Called by the request-logging
// middleware; application code only reads via WithCtx.
func Inject(ctx context.Context, log *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

// WithCtx returns the request-scoped logger stored in ctx, or fallback when
// none is present (background jobs, tests).
func WithCtx(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if log, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && log != nil {
		return log
	}
	if fallback != nil {
		return fallback
	}
	return slog.Default()
}
