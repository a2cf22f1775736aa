package workerpool_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shashiranjanraj/savannah/pkg/workerpool"
)

func TestSubmitRunsTasks(t *testing.T) {
	p := workerpool.New(4)
	defer p.Shutdown()

	var ran atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		err := p.SubmitWait(context.Background(), func() {
			defer wg.Done()
			ran.Add(1)
		})
		if err != nil {
			t.Fatalf("submit %d: %v", i, err)
		}
	}
	wg.Wait()

	if got := ran.Load(); got != 8 {
		t.Errorf("ran = %d, want 8", got)
	}
}

func TestSubmitBackpressure(t *testing.T) {
	p := workerpool.New(1)
	defer p.Shutdown()

	release := make(chan struct{})
	// Occupy the single worker, then fill the buffer (size 2).
	p.SubmitWait(context.Background(), func() { <-release }) //nolint:errcheck
	time.Sleep(20 * time.Millisecond)
	p.Submit(func() {}) //nolint:errcheck
	p.Submit(func() {}) //nolint:errcheck

	if err := p.Submit(func() {}); !errors.Is(err, workerpool.ErrFull) {
		t.Errorf("expected ErrFull, got %v", err)
	}
	close(release)
}

func TestSubmitAfterShutdown(t *testing.T) {
	p := workerpool.New(2)
	p.Shutdown()
	p.Shutdown() // idempotent

	if err := p.Submit(func() {}); !errors.Is(err, workerpool.ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
	if err := p.SubmitWait(context.Background(), func() {}); !errors.Is(err, workerpool.ErrClosed) {
		t.Errorf("expected ErrClosed from SubmitWait, got %v", err)
	}
}

func TestShutdownRacingSubmitWait(t *testing.T) {
	// Submitters hammer a pool that shuts down mid-flight. Every call must
	// return nil or ErrClosed; closing the tasks channel under a pending
	// send would panic here instead.
	for i := 0; i < 50; i++ {
		p := workerpool.New(2)

		done := make(chan struct{})
		go func() {
			defer close(done)
			for {
				err := p.SubmitWait(context.Background(), func() {})
				if err != nil {
					if !errors.Is(err, workerpool.ErrClosed) {
						t.Errorf("unexpected error: %v", err)
					}
					return
				}
			}
		}()

		p.Shutdown()
		<-done
	}
}

func TestSubmitWaitHonoursContext(t *testing.T) {
	p := workerpool.New(1)
	defer p.Shutdown()

	release := make(chan struct{})
	defer close(release)
	p.SubmitWait(context.Background(), func() { <-release }) //nolint:errcheck
	time.Sleep(20 * time.Millisecond)
	p.Submit(func() {}) //nolint:errcheck
	p.Submit(func() {}) //nolint:errcheck

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if err := p.SubmitWait(ctx, func() {}); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected DeadlineExceeded, got %v", err)
	}
}

func TestPanicDoesNotKillWorker(t *testing.T) {
	p := workerpool.New(1)
	defer p.Shutdown()

	p.SubmitWait(context.Background(), func() { panic("boom") }) //nolint:errcheck

	done := make(chan struct{})
	if err := p.SubmitWait(context.Background(), func() { close(done) }); err != nil {
		t.Fatalf("submit after panic: %v", err)
	}

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("worker did not survive a panicking task")
	}
}
