// Package taskq provides the named serial task queues the shell uses for
// thread-affine browser work. Each queue is a single goroutine draining a
// FIFO channel; an operation that must run on a particular queue checks
// CurrentlyOn and, when off-queue, re-posts itself and returns.
package taskq

import (
	"context"
	"fmt"
	"sync"
)

// ID names one of the predefined queues.
type ID int

const (
	// UI runs browser-facing calls (extension registration, navigation).
	UI ID = iota
	// File runs blocking file and resource-bundle reads.
	File
	// IO runs resource-manager and request plumbing.
	IO

	numQueues
)

func (id ID) String() string {
	switch id {
	case UI:
		return "ui"
	case File:
		return "file"
	case IO:
		return "io"
	}
	return fmt.Sprintf("taskq.ID(%d)", int(id))
}

// Task is a unit of work delivered on a queue. The context carries the
// queue identity (see CurrentlyOn) and the dispatcher's base context.
type Task func(ctx context.Context)

type ctxKey struct{}

// CurrentlyOn reports whether the calling task is running on queue id.
// It is false for any context not produced by a queue.
func CurrentlyOn(ctx context.Context, id ID) bool {
	v, ok := ctx.Value(ctxKey{}).(ID)
	return ok && v == id
}

const queueDepth = 64

type queue struct {
	id    ID
	tasks chan Task
}

// Dispatcher owns the queue set. Queues start running on New and stop on
// Shutdown; there is no FIFO guarantee across queues, only within one.
type Dispatcher struct {
	base   context.Context
	queues [numQueues]*queue

	mu     sync.Mutex
	closed bool
	posted int
	wg     sync.WaitGroup
}

// New starts the queue set. The context becomes the base context of every
// delivered task; cancelling it does not stop the queues, Shutdown does.
func New(ctx context.Context) *Dispatcher {
	d := &Dispatcher{base: ctx}
	for i := range d.queues {
		q := &queue{id: ID(i), tasks: make(chan Task, queueDepth)}
		d.queues[i] = q
		d.wg.Add(1)
		go d.run(q)
	}
	return d
}

func (d *Dispatcher) run(q *queue) {
	defer d.wg.Done()
	ctx := context.WithValue(d.base, ctxKey{}, q.id)
	for task := range q.tasks {
		task(ctx)
	}
}

// Post enqueues a task for FIFO delivery on queue id. Posting after
// Shutdown drops the task and reports false.
func (d *Dispatcher) Post(id ID, task Task) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return false
	}
	d.posted++
	d.queues[id].tasks <- task
	return true
}

// Flush blocks until every queue is idle at once: tasks posted before the
// call have run, along with any tasks they posted onto other queues,
// transitively. Reports false when the dispatcher is shut down.
func (d *Dispatcher) Flush() bool {
	for {
		d.mu.Lock()
		before := d.posted
		d.mu.Unlock()

		for i := 0; i < int(numQueues); i++ {
			if !d.PostAndWait(ID(i), func(context.Context) {}) {
				return false
			}
		}

		// A clean round posts only its own markers; anything beyond that
		// means a drained task re-posted work, so go around again.
		d.mu.Lock()
		after := d.posted
		d.mu.Unlock()
		if after == before+int(numQueues) {
			return true
		}
	}
}

// PostAndWait enqueues a task on queue id and blocks until it has run.
// It must not be called from a task already running on that queue.
func (d *Dispatcher) PostAndWait(id ID, task Task) bool {
	done := make(chan struct{})
	ok := d.Post(id, func(ctx context.Context) {
		defer close(done)
		task(ctx)
	})
	if ok {
		<-done
	}
	return ok
}

// Shutdown stops accepting tasks, drains every queue, and waits for the
// queue goroutines to exit.
func (d *Dispatcher) Shutdown() {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	for _, q := range d.queues {
		close(q.tasks)
	}
	d.mu.Unlock()
	d.wg.Wait()
}
