package dedup

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_FirstSeen(t *testing.T) {
	ctx := context.Background()

	t.Run("first appearance reports true, repeat false", func(t *testing.T) {
		store := NewMemory()

		first, err := store.FirstSeen(ctx, "rule|loan|2026-04-10", time.Hour)
		require.NoError(t, err)
		assert.True(t, first)

		again, err := store.FirstSeen(ctx, "rule|loan|2026-04-10", time.Hour)
		require.NoError(t, err)
		assert.False(t, again)
	})

	t.Run("distinct keys are independent", func(t *testing.T) {
		store := NewMemory()

		_, err := store.FirstSeen(ctx, "rule|loan-a|2026-04-10", time.Hour)
		require.NoError(t, err)

		first, err := store.FirstSeen(ctx, "rule|loan-b|2026-04-10", time.Hour)
		require.NoError(t, err)
		assert.True(t, first)
	})

	t.Run("expired entries are seen again", func(t *testing.T) {
		store := NewMemory()
		base := time.Date(2026, 4, 10, 9, 0, 0, 0, time.UTC)
		store.now = func() time.Time { return base }

		first, err := store.FirstSeen(ctx, "key", time.Hour)
		require.NoError(t, err)
		assert.True(t, first)

		store.now = func() time.Time { return base.Add(2 * time.Hour) }
		again, err := store.FirstSeen(ctx, "key", time.Hour)
		require.NoError(t, err)
		assert.True(t, again)
	})

	t.Run("concurrent callers admit exactly one", func(t *testing.T) {
		store := NewMemory()

		var (
			wg    sync.WaitGroup
			mu    sync.Mutex
			count int
		)
		for range 50 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				first, err := store.FirstSeen(ctx, "contended", time.Hour)
				assert.NoError(t, err)
				if first {
					mu.Lock()
					count++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, 1, count)
	})
}
