// Package worker implements the long-running acquire-dispatch-record
// loop: error handling split into dedicated types, a usecase.Service
// dependency passed in rather than looked up globally.
// Heartbeat/lease-extension and dead-letter-queue machinery is
// intentionally not included here: lock-expiry reclamation is an
// accepted v0 gap, and a fixed-duration "lease" isn't reclaimed by
// anything in this design.
package worker

import (
	"context"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"github.com/rezkam/taskflow/internal/usecase"
)

// Config configures one worker process instance.
type Config struct {
	// WorkerID uniquely identifies this process to the lease fields on
	// acquired jobs. Generated from a fresh UUIDv7 when empty.
	WorkerID string

	// Queue is the single queue this worker instance drains.
	Queue string

	// PollInterval is how long the loop sleeps after finding nothing
	// runnable. Defaults to 1.0s.
	PollInterval time.Duration

	// OperationTimeout bounds each AcquireNextJob/CompleteJob/FailJob
	// call. It does NOT bound the handler invocation itself — v0 does
	// not enforce a handler timeout.
	OperationTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.WorkerID == "" {
		c.WorkerID = uuid.Must(uuid.NewV7()).String()
	}
	if c.Queue == "" {
		c.Queue = "default"
	}
	if c.PollInterval <= 0 {
		c.PollInterval = time.Second
	}
	if c.OperationTimeout <= 0 {
		c.OperationTimeout = 30 * time.Second
	}
	return c
}

// Worker runs the acquire → dispatch → record-outcome loop against a
// single usecase.Service until its context is cancelled.
type Worker struct {
	svc      *usecase.Service
	registry *Registry
	cfg      Config
}

// New builds a Worker. cfg's zero values take spec-documented defaults.
func New(svc *usecase.Service, registry *Registry, cfg Config) *Worker {
	return &Worker{svc: svc, registry: registry, cfg: cfg.withDefaults()}
}

// Run blocks until ctx is cancelled. Shutdown is cooperative: a
// cancelled context is only observed between iterations, so the current
// job (if any) always finishes before Run returns, never mid-handler.
func (w *Worker) Run(ctx context.Context) error {
	slog.InfoContext(ctx, "worker started", "worker_id", w.cfg.WorkerID, "queue", w.cfg.Queue)

	for {
		select {
		case <-ctx.Done():
			slog.InfoContext(ctx, "worker shutting down", "worker_id", w.cfg.WorkerID)
			return nil
		default:
		}

		ran, err := w.runOnce(ctx)
		if err != nil {
			slog.ErrorContext(ctx, "worker iteration failed", "worker_id", w.cfg.WorkerID, "error", err)
			continue
		}
		if !ran {
			select {
			case <-ctx.Done():
				slog.InfoContext(ctx, "worker shutting down", "worker_id", w.cfg.WorkerID)
				return nil
			case <-time.After(w.cfg.PollInterval):
			}
		}
	}
}

// runOnce performs one acquire/dispatch/record cycle. It returns
// ran=true when a job was claimed (whether it ultimately succeeded or
// failed) so Run knows whether to poll-sleep.
func (w *Worker) runOnce(ctx context.Context) (ran bool, err error) {
	acquireCtx, cancel := context.WithTimeout(ctx, w.cfg.OperationTimeout)
	job, found, err := w.svc.AcquireNextJob(acquireCtx, w.cfg.Queue, w.cfg.WorkerID)
	cancel()
	if err != nil {
		// Repository errors are not caught by the handler-failure path:
		// they bubble up and end this iteration; the outer loop
		// continues on the next tick.
		return false, err
	}
	if !found {
		return false, nil
	}

	startedAt := time.Now().UTC()
	handler, ok := w.registry.Lookup(job.Name)

	var runErr error
	if !ok {
		runErr = noHandlerError{name: job.Name}
	} else {
		runErr = w.dispatch(ctx, handler, job.Payload)
	}
	finishedAt := time.Now().UTC()

	// The outcome is recorded even if ctx was cancelled while the handler
	// ran, so a shutdown signal never leaves the claimed job un-recorded.
	recordCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), w.cfg.OperationTimeout)
	defer cancel()

	if runErr == nil {
		if _, err := w.svc.CompleteJob(recordCtx, job.ID, startedAt, finishedAt, w.cfg.WorkerID); err != nil {
			return true, err
		}
		return true, nil
	}

	errType := "handler_error"
	switch runErr.(type) {
	case panicError:
		errType = "panic"
	case noHandlerError:
		errType = "no_handler"
	}

	if _, err := w.svc.FailJob(recordCtx, job.ID, startedAt, finishedAt, w.cfg.WorkerID, errType, runErr.Error()); err != nil {
		return true, err
	}
	return true, nil
}

// dispatch runs handler, recovering any panic into a panicError so a
// single bad handler can never crash the worker process.
func (w *Worker) dispatch(ctx context.Context, handler Handler, payload map[string]any) (err error) {
	defer func() {
		if p := recover(); p != nil {
			slog.ErrorContext(ctx, "handler panicked", "panic", p, "stack", string(debug.Stack()))
			err = panicError{value: p}
		}
	}()
	return handler(ctx, payload)
}
