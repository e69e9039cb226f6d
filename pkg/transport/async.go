package transport

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
)

// OperationState represents the state of an asynchronous send
type OperationState int32

const (
	StatePending OperationState = iota
	StateCompleted
	StateFailed
)

func (s OperationState) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// Handle is a single awaitable result.
type Handle struct {
	id    string
	state atomic.Int32
	done  chan struct{}
	err   error
}

func newHandle() *Handle {
	return &Handle{
		id:   uuid.NewString(),
		done: make(chan struct{}),
	}
}

// Resolved returns a handle that has already completed with err.
func Resolved(err error) *Handle {
	h := newHandle()
	h.resolve(err)
	return h
}

func (h *Handle) resolve(err error) {
	h.err = err
	if err != nil {
		h.state.Store(int32(StateFailed))
	} else {
		h.state.Store(int32(StateCompleted))
	}
	close(h.done)
}

// ID returns the handle identifier.
func (h *Handle) ID() string { return h.id }

// State returns the current state without blocking.
func (h *Handle) State() OperationState { return OperationState(h.state.Load()) }

// Done is closed once the result is available.
func (h *Handle) Done() <-chan struct{} { return h.done }

// Wait blocks until the send finishes or ctx is done. Cancelling ctx does
// not cancel the send itself.
func (h *Handle) Wait(ctx context.Context) error {
	select {
	case <-h.done:
		return h.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Async runs requests on their own goroutines.
type Async struct {
	client Client
	wg     sync.WaitGroup
}

// NewAsync wraps client.
func NewAsync(client Client) *Async {
	return &Async{client: client}
}

// Submit starts req and returns immediately.
func (a *Async) Submit(ctx context.Context, req *Request) *Handle {
	return a.Go(ctx, func(ctx context.Context) error {
		return a.client.Do(ctx, req)
	})
}

// Go runs fn in the background and returns its handle.
func (a *Async) Go(ctx context.Context, fn func(context.Context) error) *Handle {
	h := newHandle()
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		h.resolve(fn(ctx))
	}()
	return h
}

// Wait blocks until every submitted send has finished.
func (a *Async) Wait() {
	a.wg.Wait()
}
