package solver

import (
	"context"
	"runtime"
)

// handle represents exclusive use of one solver instance for the duration
// of a single solve call. The simplex capability itself is re-entrant,
// but handles keep the number of concurrent solves bounded and give
// cancellation a single deterministic release point.
type handle struct {
	id int
}

// pool hands out solver handles. It is a buffered channel used as a
// counting semaphore: acquire takes a handle or gives up when the caller
// cancels, release always succeeds.
type pool struct {
	slots chan handle
}

func newPool(size int) *pool {
	if size <= 0 {
		size = runtime.NumCPU()
	}
	p := &pool{slots: make(chan handle, size)}
	for i := 0; i < size; i++ {
		p.slots <- handle{id: i}
	}
	return p
}

// acquire blocks until a handle is free or ctx is done.
func (p *pool) acquire(ctx context.Context) (handle, error) {
	select {
	case h := <-p.slots:
		return h, nil
	case <-ctx.Done():
		return handle{}, ctx.Err()
	}
}

// release returns a handle to the pool. Every acquired handle must be
// released exactly once, on all exit paths.
func (p *pool) release(h handle) {
	p.slots <- h
}
