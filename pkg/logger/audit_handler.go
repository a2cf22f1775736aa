package logger

// audit_handler.go — an slog.Handler that mirrors workflow log records into a
// MongoDB collection for after-the-fact auditing.
//
//   - Records are enqueued on a buffered channel; a full channel drops the
//     record. Logging must never block request handling.
//   - One background goroutine drains the channel and writes batches with
//     InsertMany.
//   - Close flushes what is queued and disconnects.

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/shashiranjanraj/savannah/config"
)

const (
	auditQueueSize = 4096
	auditBatchSize = 50
	auditFlushTick = 2 * time.Second
)

// auditRecord is the document shape stored in MongoDB.
type auditRecord struct {
	Time      time.Time `bson:"time"`
	Level     string    `bson:"level"`
	Msg       string    `bson:"msg"`
	RequestID string    `bson:"request_id,omitempty"`
	Attrs     bson.M    `bson:"attrs,omitempty"`
}

// auditSink is the slice of *mongo.Collection the drain goroutine writes
// through.
type auditSink interface {
	InsertMany(ctx context.Context, documents []interface{}, opts ...*options.InsertManyOptions) (*mongo.InsertManyResult, error)
}

// AuditHandler is the asynchronous MongoDB slog.Handler.
type AuditHandler struct {
	sink    auditSink
	client  *mongo.Client
	queue   chan auditRecord
	done    chan struct{}
	flushed chan struct{}
	attrs   []slog.Attr
}

// NewAuditHandler connects to MongoDB and starts the drain goroutine.
func NewAuditHandler(cfg config.AuditLogConfig) (*AuditHandler, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(5*time.Second).
		SetServerSelectionTimeout(5*time.Second).
		SetMaxPoolSize(10))
	if err != nil {
		return nil, fmt.Errorf("logger/audit: connect: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("logger/audit: ping: %w", err)
	}

	col := client.Database(cfg.Database).Collection(cfg.Collection)

	// Descending time index so recent records are cheap to query.
	_, _ = col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "time", Value: -1}},
	})

	h := &AuditHandler{
		sink:    col,
		client:  client,
		queue:   make(chan auditRecord, auditQueueSize),
		done:    make(chan struct{}),
		flushed: make(chan struct{}),
	}
	go h.drain()
	return h, nil
}

func (h *AuditHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= slog.LevelInfo
}

func (h *AuditHandler) Handle(_ context.Context, r slog.Record) error {
	doc := auditRecord{
		Time:  r.Time,
		Level: r.Level.String(),
		Msg:   r.Message,
		Attrs: bson.M{},
	}

	collect := func(a slog.Attr) {
		if a.Key == "request_id" {
			doc.RequestID = a.Value.String()
			return
		}
		doc.Attrs[a.Key] = a.Value.Any()
	}
	for _, a := range h.attrs {
		collect(a)
	}
	r.Attrs(func(a slog.Attr) bool {
		collect(a)
		return true
	})

	select {
	case h.queue <- doc:
	default:
		// queue full — drop rather than block
	}
	return nil
}

func (h *AuditHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	merged := make([]slog.Attr, 0, len(h.attrs)+len(attrs))
	merged = append(merged, h.attrs...)
	merged = append(merged, attrs...)

	clone := *h
	clone.attrs = merged
	return &clone
}

func (h *AuditHandler) WithGroup(string) slog.Handler {
	// Audit documents are flat; groups add nothing worth the bookkeeping.
	return h
}

func (h *AuditHandler) drain() {
	defer close(h.flushed)

	ticker := time.NewTicker(auditFlushTick)
	defer ticker.Stop()

	batch := make([]interface{}, 0, auditBatchSize)

	flush := func() {
		if len(batch) == 0 {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_, _ = h.sink.InsertMany(ctx, batch)
		cancel()
		batch = batch[:0]
	}

	for {
		select {
		case doc := <-h.queue:
			batch = append(batch, doc)
			if len(batch) >= auditBatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-h.done:
			for len(h.queue) > 0 {
				batch = append(batch, <-h.queue)
			}
			flush()
			return
		}
	}
}

// Close flushes queued records and disconnects. Safe to call twice. The
// drain goroutine is joined before disconnecting so the final batch is
// written, not dropped.
func (h *AuditHandler) Close() {
	select {
	case <-h.done:
	default:
		close(h.done)
	}

	select {
	case <-h.flushed:
	case <-time.After(10 * time.Second):
	}

	if h.client == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = h.client.Disconnect(ctx)
}

// FanoutHandler duplicates records to several handlers.
type FanoutHandler struct {
	handlers []slog.Handler
}

// NewFanoutHandler returns a handler forwarding each record to all hs.
func NewFanoutHandler(hs ...slog.Handler) *FanoutHandler {
	return &FanoutHandler{handlers: hs}
}

func (f *FanoutHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f *FanoutHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, h := range f.handlers {
		if h.Enabled(ctx, r.Level) {
			_ = h.Handle(ctx, r.Clone())
		}
	}
	return nil
}

func (f *FanoutHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	hs := make([]slog.Handler, len(f.handlers))
	for i, h := range f.handlers {
		hs[i] = h.WithAttrs(attrs)
	}
	return &FanoutHandler{handlers: hs}
}

func (f *FanoutHandler) WithGroup(name string) slog.Handler {
	hs := make([]slog.Handler, len(f.handlers))
	for i, h := range f.handlers {
		hs[i] = h.WithGroup(name)
	}
	return &FanoutHandler{handlers: hs}
}
