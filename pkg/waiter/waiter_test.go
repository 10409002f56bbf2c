package waiter

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWaitResolve(t *testing.T) {
	r := NewRegistry()

	go func() {
		time.Sleep(10 * time.Millisecond)
		r.Resolve(Result{CorrelationID: "t1", Successful: true})
	}()

	res, err := r.Wait(context.Background(), "t1")
	require.NoError(t, err)
	assert.True(t, res.Successful)
	assert.Equal(t, "t1", res.CorrelationID)
}

func TestWaitContextCancelled(t *testing.T) {
	r := NewRegistry()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := r.Wait(ctx, "never-resolved")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	// cancelled waiter must not linger
	r.mu.Lock()
	assert.Empty(t, r.waiting)
	r.mu.Unlock()
}

func TestMultipleWaitersSameID(t *testing.T) {
	r := NewRegistry()

	var wg sync.WaitGroup
	results := make(chan Result, 3)
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := r.Wait(context.Background(), "shared")
			require.NoError(t, err)
			results <- res
		}()
	}

	// give the waiters time to register
	time.Sleep(20 * time.Millisecond)
	r.Resolve(Result{CorrelationID: "shared", Successful: false, Detail: "storage error"})
	wg.Wait()
	close(results)

	count := 0
	for res := range results {
		count++
		assert.False(t, res.Successful)
	}
	assert.Equal(t, 3, count)
}

func TestResolveWithoutWaitersIsNoop(t *testing.T) {
	r := NewRegistry()
	// someone else's transfer on the shared bus
	r.Resolve(Result{CorrelationID: "foreign", Successful: true})
}
