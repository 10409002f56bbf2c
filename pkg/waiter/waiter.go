package waiter

import (
	"context"
	"sync"
)

// Result là kết quả terminal của một async transfer.
type Result struct {
	CorrelationID string
	Successful    bool
	Detail        string
}

// Registry hands out one-shot futures keyed by correlation id.
// Callers block in Wait until someone calls Resolve with the same id;
// the completion-bus subscriber is the only resolver in practice.
// Thay thế pattern "broadcast filtering" rải rác ở từng caller.
type Registry struct {
	mu      sync.Mutex
	waiting map[string][]chan Result
}

func NewRegistry() *Registry {
	return &Registry{
		waiting: make(map[string][]chan Result),
	}
}

// Wait blocks until the id is resolved or ctx is done.
// Multiple callers may wait on the same id; all receive the result.
func (r *Registry) Wait(ctx context.Context, correlationID string) (Result, error) {
	ch := make(chan Result, 1)

	r.mu.Lock()
	r.waiting[correlationID] = append(r.waiting[correlationID], ch)
	r.mu.Unlock()

	select {
	case res := <-ch:
		return res, nil
	case <-ctx.Done():
		r.drop(correlationID, ch)
		return Result{}, ctx.Err()
	}
}

// Resolve delivers the result to every waiter registered for the id.
// Resolving an id nobody waits on is a no-op - the bus carries every
// transfer on the deployment, not just ours.
func (r *Registry) Resolve(res Result) {
	r.mu.Lock()
	chans := r.waiting[res.CorrelationID]
	delete(r.waiting, res.CorrelationID)
	r.mu.Unlock()

	for _, ch := range chans {
		ch <- res
	}
}

// drop removes a single cancelled waiter without touching the others.
func (r *Registry) drop(correlationID string, ch chan Result) {
	r.mu.Lock()
	defer r.mu.Unlock()

	chans := r.waiting[correlationID]
	for i, c := range chans {
		if c == ch {
			r.waiting[correlationID] = append(chans[:i], chans[i+1:]...)
			break
		}
	}
	if len(r.waiting[correlationID]) == 0 {
		delete(r.waiting, correlationID)
	}
}
