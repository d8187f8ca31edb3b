// Package storetest holds behaviour checks every store.Backend must pass.
package storetest

import (
	"context"
	"testing"

	"github.com/loganlanou/podstore/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunBackendTests exercises get/set/delete semantics and session isolation.
func RunBackendTests(t *testing.T, backend store.Backend) {
	t.Helper()
	ctx := context.Background()

	t.Run("missing value", func(t *testing.T) {
		_, err := backend.Get(ctx, "sess-missing", store.CartKey)
		assert.ErrorIs(t, err, store.ErrNoValue)
	})

	t.Run("set then get", func(t *testing.T) {
		require.NoError(t, backend.Set(ctx, "sess-a", store.CartKey, []byte(`[{"id":"p1"}]`)))

		got, err := backend.Get(ctx, "sess-a", store.CartKey)
		require.NoError(t, err)
		assert.JSONEq(t, `[{"id":"p1"}]`, string(got))
	})

	t.Run("overwrite", func(t *testing.T) {
		require.NoError(t, backend.Set(ctx, "sess-b", store.CartKey, []byte(`[1]`)))
		require.NoError(t, backend.Set(ctx, "sess-b", store.CartKey, []byte(`[2]`)))

		got, err := backend.Get(ctx, "sess-b", store.CartKey)
		require.NoError(t, err)
		assert.Equal(t, `[2]`, string(got))
	})

	t.Run("keys and sessions are isolated", func(t *testing.T) {
		require.NoError(t, backend.Set(ctx, "sess-c", store.CartKey, []byte(`["cart"]`)))
		require.NoError(t, backend.Set(ctx, "sess-c", store.WishlistKey, []byte(`["wish"]`)))
		require.NoError(t, backend.Set(ctx, "sess-d", store.CartKey, []byte(`["other"]`)))

		cart, err := backend.Get(ctx, "sess-c", store.CartKey)
		require.NoError(t, err)
		assert.Equal(t, `["cart"]`, string(cart))

		wish, err := backend.Get(ctx, "sess-c", store.WishlistKey)
		require.NoError(t, err)
		assert.Equal(t, `["wish"]`, string(wish))

		other, err := backend.Get(ctx, "sess-d", store.CartKey)
		require.NoError(t, err)
		assert.Equal(t, `["other"]`, string(other))
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, backend.Set(ctx, "sess-e", store.CartKey, []byte(`[]`)))
		require.NoError(t, backend.Set(ctx, "sess-e", store.WishlistKey, []byte(`["keep"]`)))
		require.NoError(t, backend.Delete(ctx, "sess-e", store.CartKey))

		_, err := backend.Get(ctx, "sess-e", store.CartKey)
		assert.ErrorIs(t, err, store.ErrNoValue)

		wish, err := backend.Get(ctx, "sess-e", store.WishlistKey)
		require.NoError(t, err)
		assert.Equal(t, `["keep"]`, string(wish))
	})

	t.Run("delete missing is not an error", func(t *testing.T) {
		assert.NoError(t, backend.Delete(ctx, "sess-never", store.CartKey))
	})
}
