package toposim

import (
	"context"
	"fmt"
	"sync"
	"time"

	logs "github.com/danmuck/smplog"
)

// DefaultTaskBacklog bounds the queued tasks of a fixed-size executor.
const DefaultTaskBacklog = 4096

// Task is a unit of work run by an Executor. ctx is cancelled by ShutdownNow.
type Task func(ctx context.Context)

// Executor runs tasks on goroutines it owns. A fixed executor runs at most
// size tasks at once and queues the rest in submission order; a cached one
// starts a goroutine per task.
type Executor struct {
	name string
	size int

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu         sync.Mutex
	tasks      chan Task
	workers    int
	shutdown   bool
	terminated chan struct{}
}

// NewFixedExecutor creates an executor limited to size concurrent tasks.
func NewFixedExecutor(name string, size int) *Executor {
	if size <= 0 {
		size = 1
	}
	e := newExecutor(name, size)
	e.tasks = make(chan Task, DefaultTaskBacklog)
	return e
}

// NewCachedExecutor creates an executor without a concurrency limit.
func NewCachedExecutor(name string) *Executor {
	return newExecutor(name, 0)
}

func newExecutor(name string, size int) *Executor {
	ctx, cancel := context.WithCancel(context.Background())
	return &Executor{
		name:       name,
		size:       size,
		ctx:        ctx,
		cancel:     cancel,
		terminated: make(chan struct{}),
	}
}

// Submit schedules task. It fails once the executor is shut down or when the
// backlog of a fixed executor is full.
func (e *Executor) Submit(task Task) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.shutdown {
		return fmt.Errorf("%w: %s", ErrExecutorShutdown, e.name)
	}

	if e.size == 0 {
		e.wg.Add(1)
		go func() {
			defer e.wg.Done()
			e.run(task)
		}()
		return nil
	}

	select {
	case e.tasks <- task:
	default:
		return fmt.Errorf("%w: %s task backlog", ErrQueueFull, e.name)
	}

	if e.workers < e.size {
		e.workers++
		e.wg.Add(1)
		go e.worker()
	}
	return nil
}

func (e *Executor) worker() {
	defer e.wg.Done()
	for task := range e.tasks {
		if e.ctx.Err() != nil {
			continue
		}
		e.run(task)
	}
}

func (e *Executor) run(task Task) {
	defer func() {
		if r := recover(); r != nil {
			logs.Errorf(fmt.Errorf("panic: %v", r), "executor %s: task failed", e.name)
		}
	}()
	task(e.ctx)
}

// Shutdown stops accepting tasks. Queued and running tasks are left to finish.
func (e *Executor) Shutdown() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.shutdown {
		return
	}
	e.shutdown = true
	if e.tasks != nil {
		close(e.tasks)
	}

	go func() {
		e.wg.Wait()
		e.cancel()
		close(e.terminated)
	}()
}

// ShutdownNow shuts down, cancels the context of running tasks and discards
// the queued ones.
func (e *Executor) ShutdownNow() {
	e.Shutdown()
	e.cancel()
}

// AwaitTermination waits up to timeout for every task to return after a
// shutdown. It reports whether the executor terminated.
func (e *Executor) AwaitTermination(timeout time.Duration) bool {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-e.terminated:
		return true
	case <-timer.C:
		return false
	}
}

// Terminate performs the two-phase stop: a polite shutdown with a bounded
// wait, then a forced one with another bounded wait. It reports whether the
// executor terminated.
func (e *Executor) Terminate(timeout time.Duration) bool {
	e.Shutdown()
	if e.AwaitTermination(timeout) {
		return true
	}

	logs.Warnf("executor %s: tasks still running after %s, forcing termination", e.name, timeout)
	e.ShutdownNow()
	return e.AwaitTermination(timeout)
}

// IsShutdown reports whether Shutdown has been called.
func (e *Executor) IsShutdown() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.shutdown
}

// IsTerminated reports whether all tasks returned after a shutdown.
func (e *Executor) IsTerminated() bool {
	select {
	case <-e.terminated:
		return true
	default:
		return false
	}
}
