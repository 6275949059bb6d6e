package worker

import "fmt"

// panicError wraps a recovered panic so it can flow through the same
// FailJob path as any other handler error — v0 has no separate
// dead-letter concept beyond the DEAD state already in the job state
// machine, so a panicking handler is recorded exactly like an error,
// not routed anywhere special.
type panicError struct {
	value any
}

func (e panicError) Error() string {
	return fmt.Sprintf("panic: %v", e.value)
}

// noHandlerError is recorded when a job names a handler the registry
// does not have.
type noHandlerError struct {
	name string
}

func (e noHandlerError) Error() string {
	return fmt.Sprintf("no handler registered for job name %q", e.name)
}
