package download

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

// Group manages a batch of concurrent async downloads.
type Group struct {
	wg       sync.WaitGroup
	mu       sync.Mutex
	sem      chan struct{}
	shutdown atomic.Bool
	errs     []error
}

// NewGroup creates a Group with the given concurrency limit.
// If maxConcurrent <= 0, concurrency is unlimited.
func NewGroup(maxConcurrent int) *Group {
	g := &Group{}
	if maxConcurrent > 0 {
		g.sem = make(chan struct{}, maxConcurrent)
	}

	return g
}

// Wait blocks until all downloads in the group complete.
// Returns all errors joined via errors.Join.
func (g *Group) Wait() error {
	g.wg.Wait()

	g.mu.Lock()
	defer g.mu.Unlock()

	return errors.Join(g.errs...)
}

// Shutdown prevents new work from executing in this group.
func (g *Group) Shutdown() {
	g.shutdown.Store(true)
}

// Start launches fn in a new goroutine managed by the group
// and returns a Result for tracking the individual download.
func (g *Group) Start(ctx context.Context, fn WorkFunc, adder Adder) *Result {
	ctx, cancel := context.WithCancel(ctx)
	r := &Result{
		adder:  adder,
		done:   make(chan struct{}),
		cancel: cancel,
		group:  g,
	}

	g.wg.Add(1)
	go func() {
		defer func() {
			cancel()
			close(r.done)
			g.wg.Done()
		}()

		if g.sem != nil {
			select {
			case g.sem <- struct{}{}:
				defer func() {
					<-g.sem
				}()
			case <-ctx.Done():
				r.err = ctx.Err()
				g.recordErr(r.err)
				return
			}
		}

		if g.shutdown.Load() {
			r.err = ErrGroupShutdown
			g.recordErr(r.err)
			return
		}

		r.err = fn(ctx)
		if r.err != nil {
			g.recordErr(r.err)
		}
	}()

	return r
}

// recordErr appends err to the group's error slice under the mutex.
func (g *Group) recordErr(err error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.errs = append(g.errs, err)
}
