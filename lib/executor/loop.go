package executor

import (
	"sync"
	"sync/atomic"

	"github.com/lni/dragonboat/v4/logger"

	"github.com/ValentinKolb/omap/lib/metrics"
)

var log = logger.GetLogger("executor")

// --------------------------------------------------------------------------
// Loop Executor
// --------------------------------------------------------------------------

// task is one unit of work posted to the loop. done is closed once the
// action has run (or panicked).
type task struct {
	action func()
	done   chan struct{}
}

// loopExecutor implements IExecutor with a dedicated goroutine consuming
// a FIFO task channel
type loopExecutor struct {
	tasks   chan task
	homeGID atomic.Uint64
	closed  atomic.Bool
	loop    sync.WaitGroup
}

// NewLoopExecutor creates a new executor and starts its home goroutine.
// The executor must be closed with Close() when no longer needed.
func NewLoopExecutor() IExecutor {
	e := &loopExecutor{
		tasks: make(chan task),
	}

	// Handshake so IsHomeContext is reliable as soon as the
	// constructor returns
	ready := make(chan struct{})

	e.loop.Add(1)
	go func() {
		defer e.loop.Done()
		e.homeGID.Store(goroutineID())
		close(ready)

		for t := range e.tasks {
			runTask(t)
		}
	}()
	<-ready

	return e
}

// runTask executes one action, containing any panic so the waiting
// caller is always released
func runTask(t task) {
	defer close(t.done)
	defer func() {
		if r := recover(); r != nil {
			metrics.ExecutorPanics.Inc()
			log.Errorf("posted action panicked: %v", r)
		}
	}()
	t.action()
}

// --------------------------------------------------------------------------
// Interface Methods (docu see executor/interface.go)
// --------------------------------------------------------------------------

func (e *loopExecutor) IsHomeContext() bool {
	return goroutineID() == e.homeGID.Load()
}

func (e *loopExecutor) PostAndWait(action func()) {
	// Posting from the home goroutine would deadlock, run inline instead.
	// Same for a closed executor: there is no loop left to post to.
	if e.closed.Load() || e.IsHomeContext() {
		runTask(task{action: action, done: make(chan struct{})})
		return
	}

	metrics.ExecutorPosts.Inc()

	t := task{action: action, done: make(chan struct{})}
	e.tasks <- t
	<-t.done
}

func (e *loopExecutor) DrainPending() {
	// The task channel is FIFO, so an empty action completes only after
	// everything queued before it has run
	e.PostAndWait(func() {})
}

func (e *loopExecutor) Close() error {
	if e.closed.CompareAndSwap(false, true) {
		close(e.tasks)
		e.loop.Wait()
	}
	return nil
}
