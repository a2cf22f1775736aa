package queue

import (
	"context"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"
)

type countJob struct {
	Label string `json:"label"`
}

var handled atomic.Int64

func (j *countJob) Handle() error {
	handled.Add(1)
	return nil
}

type failJob struct{}

func (j *failJob) Handle() error {
	return io.ErrUnexpectedEOF
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met within deadline")
}

func TestDispatchAndProcess(t *testing.T) {
	handled.Store(0)

	m := NewManager(NewMemoryDriver(), discardLogger())
	m.Register("test.count", func() Job { return &countJob{} })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m.Start(ctx, 2)

	for i := 0; i < 5; i++ {
		if err := m.Dispatch("test.count", &countJob{Label: "x"}); err != nil {
			t.Fatalf("dispatch: %v", err)
		}
	}

	waitFor(t, func() bool { return handled.Load() == 5 })
}

func TestUnregisteredJobIsDropped(t *testing.T) {
	handled.Store(0)

	m := NewManager(NewMemoryDriver(), discardLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m.Start(ctx, 1)

	if err := m.Dispatch("test.unknown", &countJob{}); err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	time.Sleep(100 * time.Millisecond)
	if got := handled.Load(); got != 0 {
		t.Fatalf("expected no jobs handled, got %d", got)
	}
}

func TestFailedJobRecordedAfterRetries(t *testing.T) {
	m := NewManager(NewMemoryDriver(), discardLogger(), WithMaxRetry(1))
	m.Register("test.fail", func() Job { return &failJob{} })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	m.Start(ctx, 1)

	if err := m.Dispatch("test.fail", &failJob{}); err != nil {
		t.Fatalf("dispatch: %v", err)
	}

	waitFor(t, func() bool { return len(m.Failed()) == 1 })

	failed := m.Failed()[0]
	if failed.Name != "test.fail" {
		t.Fatalf("wrong job name recorded: %s", failed.Name)
	}
	if failed.Attempts != 1 {
		t.Fatalf("expected 1 attempt, got %d", failed.Attempts)
	}
}

func TestMemoryDriverBackpressure(t *testing.T) {
	d := NewMemoryDriver()
	var err error
	for i := 0; i < 300; i++ {
		if err = d.Push([]byte("{}")); err != nil {
			break
		}
	}
	if err != ErrQueueFull {
		t.Fatalf("expected ErrQueueFull, got %v", err)
	}
}
