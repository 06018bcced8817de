package executor

import (
	"fmt"

	"github.com/wesleyorama2/scaleup/internal/bench"
)

// NewExecutor creates a new executor of the specified type.
//
// Supported types:
//   - "bulk" - static partition over a fixed worker set, submission order
//   - "completion-ordered" - one task per item on a bounded pool, completion order
func NewExecutor(executorType Type, fn bench.WorkFunc, opts ...Option) (Executor, error) {
	switch executorType {
	case TypeBulk:
		return NewBulk(fn, opts...), nil
	case TypeCompletionOrdered:
		return NewCompletionOrdered(fn, opts...), nil
	default:
		return nil, fmt.Errorf("unknown executor type: %s", executorType)
	}
}

// NewExecutorFromString creates a new executor from a string type name.
func NewExecutorFromString(executorType string, fn bench.WorkFunc, opts ...Option) (Executor, error) {
	return NewExecutor(Type(executorType), fn, opts...)
}

// IsValidExecutorType returns true if the type is a valid executor type.
func IsValidExecutorType(executorType string) bool {
	switch Type(executorType) {
	case TypeBulk, TypeCompletionOrdered:
		return true
	default:
		return false
	}
}

// GetSupportedExecutors returns a list of all supported executor types.
func GetSupportedExecutors() []Type {
	return []Type{
		TypeBulk,
		TypeCompletionOrdered,
	}
}

// ExecutorDescription provides documentation for an executor type.
type ExecutorDescription struct {
	Type        Type
	Name        string
	Description string
	UseCases    []string
}

// GetExecutorDescription returns documentation for an executor type.
func GetExecutorDescription(executorType Type) *ExecutorDescription {
	switch executorType {
	case TypeBulk:
		return &ExecutorDescription{
			Type:        TypeBulk,
			Name:        "Bulk",
			Description: "Splits the batch into one static share per worker and waits for every worker to finish. Durations are reported in submission order.",
			UseCases: []string{
				"Uniform per-item cost",
				"Lowest scheduling overhead",
				"Reproducing a map-style pool",
			},
		}
	case TypeCompletionOrdered:
		return &ExecutorDescription{
			Type:        TypeCompletionOrdered,
			Name:        "Completion Ordered",
			Description: "Submits every item as its own task to a bounded pool and collects results as they finish. Durations are reported in completion order with attribution back to each item.",
			UseCases: []string{
				"Skewed per-item cost",
				"Observing completion order",
				"Dynamic load balancing across workers",
			},
		}
	default:
		return nil
	}
}
