package executor

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidWorkerCount is wrapped by PoolStartupError when the pool size
	// is below one.
	ErrInvalidWorkerCount = errors.New("worker count must be >= 1")

	// ErrNoWorkFunc is wrapped by PoolStartupError when no work function was
	// supplied.
	ErrNoWorkFunc = errors.New("work function is nil")
)

// PoolStartupError reports that a pool could not be started. No item was
// processed.
type PoolStartupError struct {
	WorkerCount int
	Err         error
}

func (e *PoolStartupError) Error() string {
	return fmt.Sprintf("starting pool with %d workers: %v", e.WorkerCount, e.Err)
}

func (e *PoolStartupError) Unwrap() error {
	return e.Err
}

// ItemProcessingError reports a work-function failure for a single item.
type ItemProcessingError struct {
	Item string
	Err  error
}

func (e *ItemProcessingError) Error() string {
	return fmt.Sprintf("processing %s: %v", e.Item, e.Err)
}

func (e *ItemProcessingError) Unwrap() error {
	return e.Err
}
