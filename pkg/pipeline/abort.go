package pipeline

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
)

// Abort is the shared abort signal. Any stage may raise it; every stage
// polls it at the top of each loop iteration and shuts down locally.
//
// The first reason wins. Raising also cancels Context, which unblocks a
// producer stuck in Queue.PushContext.
type Abort struct {
	raised atomic.Bool
	mu     sync.Mutex
	reason error
	ctx    context.Context
	cancel context.CancelFunc
	stop   func() bool
}

// NewAbort creates an abort signal tied to parent: when parent ends, the
// signal is raised with ErrCancelled.
func NewAbort(parent context.Context) *Abort {
	ctx, cancel := context.WithCancel(context.Background())
	a := &Abort{ctx: ctx, cancel: cancel}
	a.stop = context.AfterFunc(parent, func() {
		a.Raise(fmt.Errorf("%w: %w", ErrCancelled, context.Cause(parent)))
	})
	return a
}

// Raise sets the signal. It reports whether this call supplied the reason.
func (a *Abort) Raise(reason error) bool {
	if reason == nil {
		reason = ErrAborted
	}
	a.mu.Lock()
	first := a.reason == nil
	if first {
		a.reason = reason
	}
	a.mu.Unlock()

	a.raised.Store(true)
	a.cancel()
	return first
}

// Raised reports whether the signal is set.
func (a *Abort) Raised() bool {
	return a.raised.Load()
}

// Reason returns the first reason raised, or nil.
func (a *Abort) Reason() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.reason
}

// Context is cancelled once the signal is raised.
func (a *Abort) Context() context.Context {
	return a.ctx
}

// Stop detaches the signal from its parent context and releases resources.
func (a *Abort) Stop() {
	a.stop()
	a.cancel()
}
