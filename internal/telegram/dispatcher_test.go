package telegram

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcher_PreservesOrderPerKey(t *testing.T) {
	d := NewDispatcher(8)

	var (
		mu  sync.Mutex
		got = map[int64][]int{}
	)

	for i := range 100 {
		for _, key := range []int64{1, 2, 3} {
			require.True(t, d.Dispatch(key, func() {
				mu.Lock()
				got[key] = append(got[key], i)
				mu.Unlock()
			}))
		}
	}

	require.NoError(t, d.Close(context.Background()))

	for _, key := range []int64{1, 2, 3} {
		require.Len(t, got[key], 100)
		for i, v := range got[key] {
			assert.Equal(t, i, v)
		}
	}
	assert.Zero(t, d.pending())
}

func TestDispatcher_NoParallelismWithinKey(t *testing.T) {
	d := NewDispatcher(8)

	var active, overlaps atomic.Int32

	for range 20 {
		d.Dispatch(42, func() {
			if active.Add(1) > 1 {
				overlaps.Add(1)
			}
			time.Sleep(time.Millisecond)
			active.Add(-1)
		})
	}

	require.NoError(t, d.Close(context.Background()))
	assert.Zero(t, overlaps.Load())
}

func TestDispatcher_LimitsWorkers(t *testing.T) {
	d := NewDispatcher(2)

	var active, peak atomic.Int32

	for key := range int64(10) {
		d.Dispatch(key, func() {
			n := active.Add(1)
			for {
				p := peak.Load()
				if n <= p || peak.CompareAndSwap(p, n) {
					break
				}
			}
			time.Sleep(5 * time.Millisecond)
			active.Add(-1)
		})
	}

	require.NoError(t, d.Close(context.Background()))
	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestDispatcher_CloseRejectsAndTimesOut(t *testing.T) {
	d := NewDispatcher(1)
	release := make(chan struct{})

	require.True(t, d.Dispatch(1, func() { <-release }))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	require.ErrorIs(t, d.Close(ctx), context.DeadlineExceeded)
	assert.False(t, d.Dispatch(1, func() {}))

	close(release)
	require.NoError(t, d.Close(context.Background()))
}
