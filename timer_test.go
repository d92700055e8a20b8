package keepalive

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimerPool(t *testing.T) {
	t.Parallel()

	pool := NewTimerPool(1)

	first := pool.Get(10 * time.Millisecond)
	require.NotNil(t, first)

	// the pool is empty now, Get must not block.
	second := pool.Get(10 * time.Millisecond)
	require.NotNil(t, second)
	assert.NotSame(t, first, second)

	select {
	case <-first.C:
	case <-time.After(time.Second):
		t.Fatal("pooled timer did not fire")
	}

	pool.Put(first)
	pool.Put(second) // pool is full, discarded

	reused := pool.Get(time.Hour)
	assert.Same(t, first, reused)

	select {
	case <-reused.C:
		t.Fatal("reused timer fired with a stale value")
	default:
	}

	pool.Put(reused)
}

func TestTimerPoolSleep(t *testing.T) {
	t.Parallel()

	pool := NewTimerPool(1)

	start := time.Now()
	require.NoError(t, pool.Sleep(context.Background(), 20*time.Millisecond))
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)

	require.NoError(t, pool.Sleep(context.Background(), 0))
	require.NoError(t, pool.Sleep(context.Background(), -time.Second))

	// Sleep hands its timer back to the pool.
	timer := pool.Get(time.Hour)
	pool.Put(timer)
	require.NoError(t, pool.Sleep(context.Background(), time.Millisecond))
	assert.Same(t, timer, pool.Get(time.Hour))
}

func TestTimerPoolSleepCancelled(t *testing.T) {
	t.Parallel()

	pool := NewTimerPool(1)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	err := pool.Sleep(ctx, time.Minute)

	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestTimerPoolSleepEmptyPool(t *testing.T) {
	t.Parallel()

	pool := NewTimerPool(1)
	held := pool.Get(time.Hour)

	require.NoError(t, pool.Sleep(context.Background(), time.Millisecond))

	pool.Put(held)
}
