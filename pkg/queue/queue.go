// Package queue runs background jobs decoupled from the request path.
//
// A Job is registered by type name so it can be serialised through any
// Driver (in-memory channel for a single process, Redis for durability
// across processes) and reconstructed by a worker:
//
//	m := queue.NewManager(queue.NewMemoryDriver(), log)
//	m.Register("notifications.order_placed", func() queue.Job { return &OrderPlacedJob{} })
//	m.Start(ctx, 4)
//
//	m.Dispatch("notifications.order_placed", &OrderPlacedJob{OrderID: 7})
//
// Job execution happens on a bounded worker pool; a job returning an error
// is retried with linear backoff up to the retry limit, then recorded as
// failed.
package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/shashiranjanraj/savannah/pkg/workerpool"
)

// ErrQueueFull is returned by Dispatch when the driver cannot accept more
// pending jobs.
var ErrQueueFull = errors.New("queue: full")

// Job is implemented by everything that can run on the queue.
type Job interface {
	// Handle executes the job. A non-nil error triggers a retry.
	Handle() error
}

// Driver is the storage backend moving payloads between Dispatch and the
// workers.
type Driver interface {
	Push(payload []byte) error
	Pop(ctx context.Context) ([]byte, error)
}

// FailedJob records a job that exhausted its retries.
type FailedJob struct {
	Name     string
	Payload  []byte
	Err      error
	FailedAt time.Time
	Attempts int
}

type envelope struct {
	Name    string          `json:"name"`
	Payload json.RawMessage `json:"payload"`
}

// Manager owns the driver, the job registry and the workers.
type Manager struct {
	driver   Driver
	log      *slog.Logger
	pool     *workerpool.Pool
	maxRetry int

	mu       sync.RWMutex
	registry map[string]func() Job
	failed   []FailedJob
}

// Option tweaks a Manager.
type Option func(*Manager)

// WithMaxRetry sets how often a failing job is attempted (default 3).
func WithMaxRetry(n int) Option {
	return func(m *Manager) {
		if n > 0 {
			m.maxRetry = n
		}
	}
}

// NewManager builds a Manager over driver. log must not be nil.
func NewManager(driver Driver, log *slog.Logger, opts ...Option) *Manager {
	m := &Manager{
		driver:   driver,
		log:      log,
		maxRetry: 3,
		registry: map[string]func() Job{},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Register makes a job constructor available under name. Call once at boot
// for every job type.
func (m *Manager) Register(name string, factory func() Job) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.registry[name] = factory
}

// Dispatch serialises job and pushes it onto the driver under name.
func (m *Manager) Dispatch(name string, job Job) error {
	payload, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("queue: marshal job %s: %w", name, err)
	}

	raw, err := json.Marshal(envelope{Name: name, Payload: payload})
	if err != nil {
		return fmt.Errorf("queue: marshal envelope: %w", err)
	}

	return m.driver.Push(raw)
}

// Start launches the popper loop and a bounded execution pool of the given
// size. Workers drain until ctx is cancelled; Start returns immediately.
func (m *Manager) Start(ctx context.Context, workers int) {
	m.pool = workerpool.New(workers)
	go m.popLoop(ctx)
	m.log.Info("queue: workers started", "count", workers)
}

// Stop waits for in-flight jobs after the context driving Start is done.
func (m *Manager) Stop() {
	if m.pool != nil {
		m.pool.Shutdown()
	}
}

func (m *Manager) popLoop(ctx context.Context) {
	for {
		raw, err := m.driver.Pop(ctx)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			m.log.Warn("queue: pop failed", "error", err)
			time.Sleep(500 * time.Millisecond)
			continue
		}
		if raw == nil {
			continue
		}

		payload := raw
		if err := m.pool.SubmitWait(ctx, func() { m.process(payload) }); err != nil {
			return
		}
	}
}

func (m *Manager) process(raw []byte) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		m.log.Error("queue: bad envelope", "error", err)
		return
	}

	m.mu.RLock()
	factory, ok := m.registry[env.Name]
	m.mu.RUnlock()
	if !ok {
		m.log.Warn("queue: unregistered job", "name", env.Name)
		return
	}

	job := factory()
	if err := json.Unmarshal(env.Payload, job); err != nil {
		m.log.Error("queue: unmarshal payload", "name", env.Name, "error", err)
		return
	}

	m.runWithRetry(env.Name, env.Payload, job)
}

func (m *Manager) runWithRetry(name string, payload []byte, job Job) {
	var lastErr error
	for attempt := 1; attempt <= m.maxRetry; attempt++ {
		if lastErr = job.Handle(); lastErr == nil {
			m.log.Debug("queue: job processed", "name", name, "attempt", attempt)
			return
		}
		m.log.Warn("queue: job failed",
			"name", name, "attempt", attempt, "error", lastErr)
		if attempt < m.maxRetry {
			time.Sleep(time.Duration(attempt) * time.Second)
		}
	}

	m.mu.Lock()
	m.failed = append(m.failed, FailedJob{
		Name: name, Payload: payload, Err: lastErr,
		FailedAt: time.Now(), Attempts: m.maxRetry,
	})
	m.mu.Unlock()
	m.log.Error("queue: job exhausted retries", "name", name, "error", lastErr)
}

// Failed returns a snapshot of jobs that exhausted their retries.
func (m *Manager) Failed() []FailedJob {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]FailedJob, len(m.failed))
	copy(out, m.failed)
	return out
}
