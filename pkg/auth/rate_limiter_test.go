package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiter(t *testing.T) {
	ctx := context.Background()

	t.Run("allows up to the limit then blocks", func(t *testing.T) {
		limiter := NewRateLimiter(3)

		for i := 0; i < 3; i++ {
			ok, err := limiter.Allow(ctx, "user-1")
			require.NoError(t, err)
			assert.True(t, ok)
		}

		ok, err := limiter.Allow(ctx, "user-1")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("keys are independent", func(t *testing.T) {
		limiter := NewRateLimiter(1)

		ok, err := limiter.Allow(ctx, "user-1")
		require.NoError(t, err)
		require.True(t, ok)

		ok, err = limiter.Allow(ctx, "user-2")
		require.NoError(t, err)
		assert.True(t, ok)
	})
}
