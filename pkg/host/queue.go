package host

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// TaskQueue runs tasks one at a time, in enqueue order, on the UI thread
type TaskQueue interface {
	// Enqueue schedules task and reports whether it was accepted
	Enqueue(task func()) bool
}

// UIQueue is a TaskQueue backed by a single worker goroutine
type UIQueue struct {
	tasks  chan func()
	logger *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.RWMutex

	isRunning bool
}

// NewUIQueue creates a queue holding up to capacity pending tasks
func NewUIQueue(capacity int, logger *slog.Logger) *UIQueue {
	if capacity <= 0 {
		capacity = 64
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &UIQueue{
		tasks:  make(chan func(), capacity),
		logger: logger,
	}
}

// Start launches the worker
func (q *UIQueue) Start() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.isRunning {
		return fmt.Errorf("ui queue is already running")
	}

	q.ctx, q.cancel = context.WithCancel(context.Background())
	q.isRunning = true

	q.wg.Add(1)
	go q.run(q.ctx)

	return nil
}

// Stop rejects new tasks, runs the ones already queued and waits for the
// worker to exit or ctx to expire
func (q *UIQueue) Stop(ctx context.Context) error {
	q.mu.Lock()
	if !q.isRunning {
		q.mu.Unlock()
		return nil
	}
	q.isRunning = false
	q.cancel()
	q.mu.Unlock()

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for ui queue: %w", ctx.Err())
	}
}

// IsRunning returns whether the worker is accepting tasks
func (q *UIQueue) IsRunning() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	return q.isRunning
}

// Enqueue implements TaskQueue. It never blocks the caller for longer than
// it takes the worker to free a slot.
func (q *UIQueue) Enqueue(task func()) bool {
	if task == nil {
		return false
	}

	q.mu.RLock()
	defer q.mu.RUnlock()

	if !q.isRunning {
		return false
	}

	select {
	case q.tasks <- task:
		return true
	case <-q.ctx.Done():
		return false
	}
}

// Wait blocks until every task enqueued before the call has run, or timeout
// elapses. It reports whether the queue drained in time.
func (q *UIQueue) Wait(timeout time.Duration) bool {
	done := make(chan struct{})
	if !q.Enqueue(func() { close(done) }) {
		return false
	}

	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}

func (q *UIQueue) run(ctx context.Context) {
	defer q.wg.Done()

	for {
		select {
		case task := <-q.tasks:
			q.runTask(task)
		case <-ctx.Done():
			// Drain what was accepted before Stop.
			for {
				select {
				case task := <-q.tasks:
					q.runTask(task)
				default:
					return
				}
			}
		}
	}
}

func (q *UIQueue) runTask(task func()) {
	defer func() {
		if r := recover(); r != nil {
			q.logger.Error("ui task panicked", "panic", r)
		}
	}()
	task()
}
