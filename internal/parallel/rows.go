// Package parallel splits row-oriented pixel work across goroutines.
//
// Work is fanned out per call and joined before returning; nothing runs in
// the background between calls.
package parallel

import (
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
)

// MinRowsPerBand keeps bands large enough that goroutine startup stays
// negligible next to the per-row work.
const MinRowsPerBand = 16

// Workers resolves a configured worker count: n <= 0 means GOMAXPROCS.
func Workers(n int) int {
	if n <= 0 {
		return runtime.GOMAXPROCS(0)
	}
	return n
}

// Rows calls fn over [0, height) split into contiguous bands [y0, y1).
// Small inputs, or workers == 1, run on the calling goroutine.
func Rows(workers, height int, fn func(y0, y1 int)) {
	workers = Workers(workers)
	bands := min(workers, height/MinRowsPerBand)
	if bands <= 1 {
		fn(0, height)
		return
	}

	var wg sync.WaitGroup
	wg.Add(bands)
	for i := range bands {
		y0 := i * height / bands
		y1 := (i + 1) * height / bands
		go func() {
			defer wg.Done()
			fn(y0, y1)
		}()
	}
	wg.Wait()
}

// For calls fn(i) for i in [0, n) with at most workers calls in flight.
func For(workers, n int, fn func(i int)) {
	sem := make(chan struct{}, Workers(workers))
	var wg sync.WaitGroup
	wg.Add(n)
	for i := range n {
		sem <- struct{}{}
		go func() {
			defer func() {
				<-sem
				wg.Done()
			}()
			fn(i)
		}()
	}
	wg.Wait()
}

// Each calls fn(i) for i in [0, n) with at most workers calls in flight.
// It returns the first error; remaining calls still run to completion.
func Each(workers, n int, fn func(i int) error) error {
	var g errgroup.Group
	g.SetLimit(Workers(workers))
	for i := range n {
		g.Go(func() error { return fn(i) })
	}
	return g.Wait()
}
