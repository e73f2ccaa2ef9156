// Package pool implements a fixed-size set of long-lived worker goroutines
// with submit and wait-until-idle semantics. The intended usage is bulk
// synchronous: a single producer submits a batch of independent tasks, blocks
// on Wait until every task has finished, and only then touches the results.
package pool

import (
	"fmt"
	"runtime"
	"sync"
)

// Task is a deferred unit of work. A task takes no arguments and returns no
// values; everything it reads or writes is captured by the closure.
type Task func()

// Pool owns its worker goroutines for the lifetime of the process. Submitted
// tasks are consumed in FIFO order by whichever worker wakes first. One mutex
// guards the queue, the active-task counter and the closing flag, so the idle
// condition (empty queue and zero active tasks) is always observed atomically.
type Pool struct {
	mu      sync.Mutex
	hasWork *sync.Cond // signaled once per submit, broadcast on close
	idle    *sync.Cond // broadcast when the queue drains and no task is running
	queue   []Task
	active  int
	closing bool
	workers int
	joined  sync.WaitGroup
}

// New constructs a pool of n workers and starts them immediately. n must be
// at least one.
func New(n int) (*Pool, error) {
	if n < 1 {
		return nil, fmt.Errorf("pool: worker count must be at least 1, got %d", n)
	}
	p := &Pool{workers: n}
	p.hasWork = sync.NewCond(&p.mu)
	p.idle = sync.NewCond(&p.mu)
	p.joined.Add(n)
	for i := 0; i < n; i++ {
		go p.workerLoop()
	}
	return p, nil
}

// DefaultWorkers reports the worker count to use when the caller has no
// preference: the detected CPU parallelism, never less than one.
func DefaultWorkers() int {
	if n := runtime.NumCPU(); n > 1 {
		return n
	}
	return 1
}

// Workers reports the fixed number of worker goroutines.
func (p *Pool) Workers() int { return p.workers }

// Submit queues one task and wakes one idle worker. It never blocks. The pool
// assumes a single producer, so Submit must not race with Close; submitting
// on a closed pool panics. A task that panics is not recovered and brings the
// process down.
func (p *Pool) Submit(t Task) {
	p.mu.Lock()
	if p.closing {
		p.mu.Unlock()
		panic("pool: Submit on closed pool")
	}
	p.queue = append(p.queue, t)
	p.mu.Unlock()
	p.hasWork.Signal()
}

// Wait blocks the caller until no tasks are queued and no worker is executing
// one. On a pool with nothing outstanding it returns immediately. Wait has no
// deadline; a stuck task stalls the barrier forever.
func (p *Pool) Wait() {
	p.mu.Lock()
	for len(p.queue) > 0 || p.active > 0 {
		p.idle.Wait()
	}
	p.mu.Unlock()
}

// Close wakes every worker, lets them drain the queue, and joins them all.
// Tasks queued before Close still execute; only future waits are cut short.
// Close is idempotent and returns once the last worker has exited.
func (p *Pool) Close() {
	p.mu.Lock()
	p.closing = true
	p.mu.Unlock()
	p.hasWork.Broadcast()
	p.joined.Wait()
}

// workerLoop blocks until a task is queued or shutdown is requested, executes
// tasks one at a time, and exits once the pool is closing and the queue has
// drained. The active counter moves inside the same critical section that
// pops the queue, so a dequeued-but-uncounted task can never slip past Wait.
func (p *Pool) workerLoop() {
	defer p.joined.Done()
	p.mu.Lock()
	for {
		for len(p.queue) == 0 && !p.closing {
			p.hasWork.Wait()
		}
		if len(p.queue) == 0 {
			p.mu.Unlock()
			return
		}
		t := p.queue[0]
		p.queue[0] = nil
		p.queue = p.queue[1:]
		p.active++
		p.mu.Unlock()

		t()

		p.mu.Lock()
		p.active--
		if len(p.queue) == 0 && p.active == 0 {
			p.idle.Broadcast()
		}
	}
}
