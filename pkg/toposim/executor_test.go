package toposim

import (
	"context"
	"sync/atomic"
	"testing"
	"testing/synctest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecutor_ConcurrencyLimit(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		executor func() *Executor
		expected int64
	}{
		{"fixed", func() *Executor { return NewFixedExecutor("fixed", 2) }, 2},
		{"fixed with bad size", func() *Executor { return NewFixedExecutor("fixed", 0) }, 1},
		{"cached", func() *Executor { return NewCachedExecutor("cached") }, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			synctest.Test(t, func(t *testing.T) {
				executor := tt.executor()
				release := make(chan struct{})
				var live, completed atomic.Int64

				for i := 0; i < 5; i++ {
					require.NoError(t, executor.Submit(func(context.Context) {
						live.Add(1)
						<-release
						completed.Add(1)
					}))
				}
				synctest.Wait()
				assert.Equal(t, tt.expected, live.Load())

				close(release)
				executor.Shutdown()
				require.True(t, executor.AwaitTermination(time.Second))
				assert.Equal(t, int64(5), completed.Load())
			})
		})
	}
}

func TestExecutor_SubmitAfterShutdown(t *testing.T) {
	t.Parallel()
	synctest.Test(t, func(t *testing.T) {
		executor := NewFixedExecutor("pool", 1)
		executor.Shutdown()
		executor.Shutdown()

		assert.True(t, executor.IsShutdown())
		assert.ErrorIs(t, executor.Submit(func(context.Context) {}), ErrExecutorShutdown)
		assert.True(t, executor.AwaitTermination(time.Second))
		assert.True(t, executor.IsTerminated())
	})
}

func TestExecutor_BacklogFull(t *testing.T) {
	t.Parallel()
	synctest.Test(t, func(t *testing.T) {
		executor := NewFixedExecutor("pool", 1)
		release := make(chan struct{})
		require.NoError(t, executor.Submit(func(context.Context) { <-release }))
		synctest.Wait()

		for i := 0; i < DefaultTaskBacklog; i++ {
			require.NoError(t, executor.Submit(func(context.Context) {}))
		}
		assert.ErrorIs(t, executor.Submit(func(context.Context) {}), ErrQueueFull)

		close(release)
		assert.True(t, executor.Terminate(time.Second))
	})
}

func TestExecutor_RecoversPanics(t *testing.T) {
	t.Parallel()
	synctest.Test(t, func(t *testing.T) {
		executor := NewFixedExecutor("pool", 1)
		var ran atomic.Bool

		require.NoError(t, executor.Submit(func(context.Context) { panic("task bug") }))
		require.NoError(t, executor.Submit(func(context.Context) { ran.Store(true) }))

		assert.True(t, executor.Terminate(time.Second))
		assert.True(t, ran.Load())
	})
}

func TestExecutor_ShutdownNowDiscardsQueued(t *testing.T) {
	t.Parallel()
	synctest.Test(t, func(t *testing.T) {
		executor := NewFixedExecutor("pool", 1)
		var ran atomic.Bool

		require.NoError(t, executor.Submit(func(ctx context.Context) { <-ctx.Done() }))
		require.NoError(t, executor.Submit(func(context.Context) { ran.Store(true) }))
		synctest.Wait()

		executor.ShutdownNow()
		assert.True(t, executor.AwaitTermination(time.Second))
		assert.False(t, ran.Load())
	})
}

func TestExecutor_Terminate_ForcesAfterTimeout(t *testing.T) {
	t.Parallel()
	synctest.Test(t, func(t *testing.T) {
		executor := NewCachedExecutor("pool")
		require.NoError(t, executor.Submit(func(ctx context.Context) { <-ctx.Done() }))
		synctest.Wait()

		begin := time.Now()
		assert.True(t, executor.Terminate(5*time.Second))
		assert.Equal(t, 5*time.Second, time.Since(begin))
	})
}

func TestExecutor_Terminate_GivesUp(t *testing.T) {
	t.Parallel()
	synctest.Test(t, func(t *testing.T) {
		executor := NewCachedExecutor("pool")
		release := make(chan struct{})
		require.NoError(t, executor.Submit(func(context.Context) { <-release }))
		synctest.Wait()

		assert.False(t, executor.Terminate(time.Second))
		assert.False(t, executor.IsTerminated())

		close(release)
		assert.True(t, executor.AwaitTermination(time.Second))
	})
}
