package sandbox

import (
	"context"
)

// pool bounds how many evaluations run in parallel.
//
// A buffered channel of empty structs is the idiomatic Go counting semaphore:
// sending acquires a slot, receiving releases one. Unlike a container pool
// there is nothing to pre-warm — a slot is just permission to run — but the
// acquire path still honours context cancellation so a caller that gives up
// waiting doesn't occupy a worker later.
type pool struct {
	slots chan struct{}
}

func newPool(size int) *pool {
	if size < 1 {
		size = 1
	}
	return &pool{slots: make(chan struct{}, size)}
}

// acquire blocks until a slot is free or the context is canceled.
func (p *pool) acquire(ctx context.Context) error {
	select {
	case p.slots <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// release frees a slot acquired with acquire.
func (p *pool) release() {
	<-p.slots
}
