package taskq

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestFIFOWithinQueue(t *testing.T) {
	d := New(context.Background())
	defer d.Shutdown()

	var mu sync.Mutex
	var order []int
	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		i := i
		wg.Add(1)
		require.True(t, d.Post(File, func(context.Context) {
			defer wg.Done()
			mu.Lock()
			order = append(order, i)
			mu.Unlock()
		}))
	}
	wg.Wait()

	for i, got := range order {
		assert.Equal(t, i, got)
	}
}

func TestCurrentlyOn(t *testing.T) {
	d := New(context.Background())
	defer d.Shutdown()

	assert.False(t, CurrentlyOn(context.Background(), UI))

	d.PostAndWait(UI, func(ctx context.Context) {
		assert.True(t, CurrentlyOn(ctx, UI))
		assert.False(t, CurrentlyOn(ctx, IO))
	})
}

func TestRepostIdiom(t *testing.T) {
	d := New(context.Background())
	defer d.Shutdown()

	done := make(chan ID, 1)
	var op func(ctx context.Context)
	op = func(ctx context.Context) {
		if !CurrentlyOn(ctx, IO) {
			d.Post(IO, op)
			return
		}
		done <- IO
	}
	op(context.Background())
	assert.Equal(t, IO, <-done)
}

func TestFlushCoversCrossQueueHops(t *testing.T) {
	d := New(context.Background())
	defer d.Shutdown()

	var done bool
	d.Post(UI, func(context.Context) {
		d.Post(File, func(context.Context) {
			d.Post(IO, func(context.Context) {
				d.Post(UI, func(context.Context) { done = true })
			})
		})
	})

	require.True(t, d.Flush())
	assert.True(t, done)
}

func TestFlushAfterShutdown(t *testing.T) {
	d := New(context.Background())
	d.Shutdown()
	assert.False(t, d.Flush())
}

func TestPostAfterShutdown(t *testing.T) {
	d := New(context.Background())
	d.Shutdown()
	assert.False(t, d.Post(UI, func(context.Context) {}))
	// Shutdown is idempotent.
	d.Shutdown()
}

func TestShutdownDrains(t *testing.T) {
	d := New(context.Background())

	var mu sync.Mutex
	ran := 0
	for i := 0; i < 20; i++ {
		d.Post(IO, func(context.Context) {
			mu.Lock()
			ran++
			mu.Unlock()
		})
	}
	d.Shutdown()
	assert.Equal(t, 20, ran)
}
