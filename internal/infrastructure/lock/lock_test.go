package lock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockscope/internal/domain/accesslog"
)

func TestLocal(t *testing.T) {
	ctx := context.Background()
	clock := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	l := NewLocal()
	l.now = func() time.Time { return clock }

	release, err := l.Obtain(ctx, "k", time.Minute)
	require.NoError(t, err)

	t.Run("held key is locked", func(t *testing.T) {
		_, err := l.Obtain(ctx, "k", time.Minute)
		assert.ErrorIs(t, err, accesslog.ErrLocked)
	})

	t.Run("other keys are free", func(t *testing.T) {
		rel, err := l.Obtain(ctx, "other", time.Minute)
		require.NoError(t, err)
		require.NoError(t, rel(ctx))
	})

	t.Run("release frees the key", func(t *testing.T) {
		require.NoError(t, release(ctx))
		rel, err := l.Obtain(ctx, "k", time.Minute)
		require.NoError(t, err)
		require.NoError(t, rel(ctx))
	})

	t.Run("expired key is taken over", func(t *testing.T) {
		stale, err := l.Obtain(ctx, "k", time.Minute)
		require.NoError(t, err)

		clock = clock.Add(2 * time.Minute)
		fresh, err := l.Obtain(ctx, "k", time.Minute)
		require.NoError(t, err)

		require.NoError(t, stale(ctx))
		_, err = l.Obtain(ctx, "k", time.Minute)
		assert.ErrorIs(t, err, accesslog.ErrLocked, "stale release must not free the new holder")
		require.NoError(t, fresh(ctx))
	})
}
