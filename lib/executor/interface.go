package executor

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// IExecutor is the generic interface for a designated single-threaded
// execution context ("home context"). All implementations guarantee that
// actions passed to PostAndWait run on exactly one goroutine, in FIFO order.
type IExecutor interface {
	// IsHomeContext returns whether the calling goroutine is the executor's
	// home goroutine. Actions may run inline in that case without violating
	// the single-context guarantee.
	IsHomeContext() (ok bool)

	// PostAndWait schedules the action on the home goroutine and blocks the
	// caller until the action has completed. All work posted before the
	// action is guaranteed to have run by the time PostAndWait returns.
	// A panic inside the action is recovered and logged; the caller is
	// always released.
	PostAndWait(action func())

	// DrainPending blocks until all work currently queued on the home
	// goroutine has been executed.
	DrainPending()

	// Close stops the executor. After Close, PostAndWait runs actions
	// inline on the calling goroutine. Close must not be called
	// concurrently with PostAndWait.
	Close() (err error)
}
