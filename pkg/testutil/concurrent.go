// Package testutil carries shared helpers for concurrent and fixture-heavy
// tests.
package testutil

import (
	"sync"
	"sync/atomic"
)

// ConcurrentResult tallies outcomes of parallel test operations.
type ConcurrentResult struct {
	Passed int32
	Denied int32
	Errors int32
}

// Total returns the number of operations executed.
func (r *ConcurrentResult) Total() int32 {
	return r.Passed + r.Denied + r.Errors
}

// RunConcurrent executes fn in parallel goroutines and tallies results. fn
// reports (allowed, err); a nil error with allowed=false counts as a denial.
// Replaces the WaitGroup-plus-channel boilerplate in throttling tests.
func RunConcurrent(goroutines int, fn func(idx int) (bool, error)) *ConcurrentResult {
	var wg sync.WaitGroup
	var passed, denied, errs atomic.Int32

	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			allowed, err := fn(idx)
			switch {
			case err != nil:
				errs.Add(1)
			case allowed:
				passed.Add(1)
			default:
				denied.Add(1)
			}
		}(i)
	}
	wg.Wait()

	return &ConcurrentResult{
		Passed: passed.Load(),
		Denied: denied.Load(),
		Errors: errs.Load(),
	}
}
