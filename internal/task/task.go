// Package task runs background work detached from the request path. Callers
// get an explicit handle; the HTTP layer discards it, tests await it.
package task

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Handle tracks one background task to completion.
type Handle struct {
	name string
	done chan struct{}
	err  error
}

// Go starts fn in its own goroutine. The task owns its context: request
// cancellation must not abort work that outlives the response.
func Go(name string, fn func(ctx context.Context) error) *Handle {
	h := &Handle{name: name, done: make(chan struct{})}
	logger := slog.Default().With("task", name)

	go func() {
		defer close(h.done)
		defer func() {
			if r := recover(); r != nil {
				h.err = fmt.Errorf("task panicked: %v", r)
				logger.Error("task panicked", "panic", r)
			}
		}()

		start := time.Now()
		if err := fn(context.Background()); err != nil {
			h.err = err
			logger.Error("task failed", "error", err, "duration", time.Since(start))
			return
		}
		logger.Info("task completed", "duration", time.Since(start))
	}()

	return h
}

// Wait blocks until the task finishes and returns its error.
func (h *Handle) Wait() error {
	<-h.done
	return h.err
}

// Name returns the task name used for logging.
func (h *Handle) Name() string {
	return h.name
}
