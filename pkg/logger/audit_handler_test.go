package logger

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// captureSink records every InsertMany batch.
type captureSink struct {
	mu      sync.Mutex
	batches [][]interface{}
}

func (s *captureSink) InsertMany(_ context.Context, documents []interface{}, _ ...*options.InsertManyOptions) (*mongo.InsertManyResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	batch := make([]interface{}, len(documents))
	copy(batch, documents)
	s.batches = append(s.batches, batch)
	return &mongo.InsertManyResult{}, nil
}

func (s *captureSink) total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, b := range s.batches {
		n += len(b)
	}
	return n
}

func newTestAuditHandler(sink auditSink) *AuditHandler {
	h := &AuditHandler{
		sink:    sink,
		queue:   make(chan auditRecord, auditQueueSize),
		done:    make(chan struct{}),
		flushed: make(chan struct{}),
	}
	go h.drain()
	return h
}

func TestAuditCloseWritesFinalBatch(t *testing.T) {
	sink := &captureSink{}
	h := newTestAuditHandler(sink)

	for i := 0; i < 7; i++ {
		rec := slog.NewRecord(time.Now(), slog.LevelInfo, "order placed", 0)
		rec.AddAttrs(slog.Int("order_id", i))
		require.NoError(t, h.Handle(context.Background(), rec))
	}

	// Close must join the drain goroutine, so by the time it returns every
	// queued record has been written — including the batch below the
	// flush threshold.
	h.Close()
	assert.Equal(t, 7, sink.total())
}

func TestAuditCloseTwice(t *testing.T) {
	h := newTestAuditHandler(&captureSink{})
	h.Close()
	h.Close()
}
