// Package workerpool provides a bounded goroutine pool with backpressure.
//
// The pool caps how many tasks run concurrently so bursty load cannot create
// goroutines without bound. Submit never blocks: when the queue is at
// capacity it returns ErrFull and the caller decides what to do (drop,
// retry, reject). SubmitWait blocks until a slot frees or ctx is done.
package workerpool

import (
	"context"
	"errors"
	"sync"
)

// ErrFull is returned by Submit when every worker is busy and the task
// buffer is at capacity.
var ErrFull = errors.New("workerpool: pool is full")

// ErrClosed is returned after Shutdown has been called.
var ErrClosed = errors.New("workerpool: pool is closed")

// Pool runs submitted tasks on a fixed set of worker goroutines.
type Pool struct {
	mu       sync.RWMutex
	closed   bool
	tasks    chan func()
	wg       sync.WaitGroup
	stopOnce sync.Once
	stopped  chan struct{}
}

// New starts a pool with workers goroutines and a task buffer twice that
// size. workers below 1 is treated as 1.
func New(workers int) *Pool {
	if workers < 1 {
		workers = 1
	}

	p := &Pool{
		tasks:   make(chan func(), workers*2),
		stopped: make(chan struct{}),
	}

	p.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go p.run()
	}
	return p
}

// Submit enqueues task without blocking. Returns ErrFull when the buffer is
// at capacity and ErrClosed after Shutdown.
func (p *Pool) Submit(task func()) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrClosed
	}

	select {
	case p.tasks <- task:
		return nil
	default:
		return ErrFull
	}
}

// SubmitWait blocks until the task is accepted, ctx is done, or the pool
// shuts down.
//
// The read lock is held while blocked on the send. The tasks channel is
// never closed, so a send racing Shutdown either lands before the workers
// drain (and runs) or fails over to the stopped branch; it can never panic.
func (p *Pool) SubmitWait(ctx context.Context, task func()) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrClosed
	}

	select {
	case <-p.stopped:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	case p.tasks <- task:
		return nil
	}
}

// Shutdown stops accepting tasks and waits for in-flight and queued ones
// to finish. Safe to call more than once.
func (p *Pool) Shutdown() {
	p.stopOnce.Do(func() {
		p.mu.Lock()
		p.closed = true
		close(p.stopped)
		p.mu.Unlock()
		p.wg.Wait()
	})
}

func (p *Pool) run() {
	defer p.wg.Done()
	for {
		select {
		case task := <-p.tasks:
			guarded(task)
		case <-p.stopped:
			// Drain whatever was queued before the pool closed.
			for {
				select {
				case task := <-p.tasks:
					guarded(task)
				default:
					return
				}
			}
		}
	}
}

// guarded keeps a panicking task from killing its worker goroutine.
func guarded(task func()) {
	defer func() { _ = recover() }()
	task()
}
