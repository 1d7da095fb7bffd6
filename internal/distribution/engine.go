package distribution

import (
	"runtime"
	"sync"

	"github.com/hashicorp/go-multierror"
)

// Signal tells the engine what the emitting worker should do next.
type Signal int

const (
	// SignalContinue moves on to the worker's next item.
	SignalContinue Signal = iota
	// SignalSkip records that the item was deliberately not acted upon.
	SignalSkip
	// SignalStop abandons the rest of the emitting worker's slice.
	SignalStop
)

// String renders the signal for logs.
func (signal Signal) String() string {
	switch signal {
	case SignalSkip:
		return "skip"
	case SignalStop:
		return "stop"
	default:
		return "continue"
	}
}

// WorkResult is the outcome of processing one item.
type WorkResult[R any] struct {
	Index            int
	WorkerIdentifier int
	Value            R
	Signal           Signal
	Error            error
}

// Workflow processes one item. workerIdentifier is stable for every item a worker handles.
type Workflow[T any, R any] func(workerIdentifier int, item T) (R, Signal, error)

// Results is the collected output of a distribution run in arrival order.
type Results[R any] []WorkResult[R]

// Errors aggregates every per-item error, or returns nil when all items succeeded.
func (results Results[R]) Errors() error {
	var aggregated *multierror.Error
	for _, result := range results {
		if result.Error != nil {
			aggregated = multierror.Append(aggregated, result.Error)
		}
	}
	return aggregated.ErrorOrNil()
}

// Count returns how many results carry the signal.
func (results Results[R]) Count(signal Signal) int {
	matching := 0
	for _, result := range results {
		if result.Signal == signal {
			matching++
		}
	}
	return matching
}

// availableParallelism reports the host's hardware parallelism.
var availableParallelism = runtime.NumCPU

// ResolveWorkerCount applies the default and caps the pool at the number of items.
func ResolveWorkerCount(requestedWorkers int, itemCount int) int {
	workerCount := requestedWorkers
	if workerCount <= 0 {
		workerCount = availableParallelism()
	}
	if workerCount > itemCount {
		workerCount = itemCount
	}
	if workerCount < 1 {
		workerCount = 1
	}
	return workerCount
}

// Distribute runs workflow over items with workerCount workers. A non-positive
// workerCount uses the host's hardware parallelism. Panics inside workflow are
// not recovered.
func Distribute[T any, R any](workerCount int, items []T, workflow Workflow[T, R]) Results[R] {
	if len(items) == 0 {
		return Results[R]{}
	}
	resolvedWorkers := ResolveWorkerCount(workerCount, len(items))

	resultChannel := make(chan WorkResult[R], len(items))
	var waitGroup sync.WaitGroup
	for workerIdentifier := 0; workerIdentifier < resolvedWorkers; workerIdentifier++ {
		waitGroup.Add(1)
		go func() {
			defer waitGroup.Done()
			for _, itemIndex := range Slice(workerIdentifier, resolvedWorkers, len(items)) {
				value, signal, workError := workflow(workerIdentifier, items[itemIndex])
				resultChannel <- WorkResult[R]{
					Index:            itemIndex,
					WorkerIdentifier: workerIdentifier,
					Value:            value,
					Signal:           signal,
					Error:            workError,
				}
				if signal == SignalStop {
					return
				}
			}
		}()
	}

	go func() {
		waitGroup.Wait()
		close(resultChannel)
	}()

	results := make(Results[R], 0, len(items))
	for result := range resultChannel {
		results = append(results, result)
	}
	return results
}

// Slice returns the indices a worker handles under round-robin assignment.
func Slice(workerIdentifier int, workerCount int, itemCount int) []int {
	indices := make([]int, 0)
	if workerCount <= 0 {
		return indices
	}
	for itemIndex := workerIdentifier; itemIndex < itemCount; itemIndex += workerCount {
		indices = append(indices, itemIndex)
	}
	return indices
}
