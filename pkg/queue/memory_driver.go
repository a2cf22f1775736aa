package queue

import "context"

// MemoryDriver backs the queue with a buffered channel. Jobs survive only
// as long as the process does; use the Redis driver when durability across
// restarts matters.
type MemoryDriver struct {
	jobs chan []byte
}

// NewMemoryDriver returns a driver that buffers up to 256 pending jobs.
func NewMemoryDriver() *MemoryDriver {
	return &MemoryDriver{jobs: make(chan []byte, 256)}
}

func (d *MemoryDriver) Push(payload []byte) error {
	select {
	case d.jobs <- payload:
		return nil
	default:
		return ErrQueueFull
	}
}

func (d *MemoryDriver) Pop(ctx context.Context) ([]byte, error) {
	select {
	case payload := <-d.jobs:
		return payload, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
