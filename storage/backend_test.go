package storage

import (
	"context"
	"testing"
	"time"

	"github.com/loganlanou/podstore/internal/store"
	"github.com/loganlanou/podstore/internal/store/storetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBackend(t *testing.T) (*Storage, *EntryBackend) {
	t.Helper()

	s, cleanup, err := NewTestDB()
	require.NoError(t, err)
	t.Cleanup(cleanup)

	return s, s.EntryBackend()
}

func TestEntryBackend(t *testing.T) {
	_, backend := newTestBackend(t)
	storetest.RunBackendTests(t, backend)
}

func TestEntryBackend_CartRoundTrip(t *testing.T) {
	_, backend := newTestBackend(t)
	ctx := context.Background()
	sess := store.NewManager(backend).ForSession("sess-sqlite")

	require.NoError(t, sess.Cart.Add(ctx, store.CartItem{ID: "p1", Name: "Logo Tee", Price: "19.99", Quantity: 2}))
	require.NoError(t, sess.Wishlist.Add(ctx, store.WishlistItem{ID: "p2", Name: "Hat", Price: "24.00"}))

	items, err := sess.Cart.Load(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)

	require.NoError(t, sess.Cart.Clear(ctx))
	items, err = sess.Cart.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)

	wish, err := sess.Wishlist.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, wish, 1)

	count, err := backend.SessionCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestEntryBackend_PruneBefore(t *testing.T) {
	s, backend := newTestBackend(t)
	ctx := context.Background()

	require.NoError(t, backend.Set(ctx, "old", store.CartKey, []byte(`[]`)))
	require.NoError(t, backend.Set(ctx, "recent", store.WishlistKey, []byte(`[]`)))
	require.NoError(t, backend.Set(ctx, "fresh", store.CartKey, []byte(`[]`)))

	_, err := s.DB().ExecContext(ctx,
		`UPDATE store_entries SET updated_at = datetime('now', '-40 days') WHERE session_id = 'old'`)
	require.NoError(t, err)
	_, err = s.DB().ExecContext(ctx,
		`UPDATE store_entries SET updated_at = datetime('now', '-20 days') WHERE session_id = 'recent'`)
	require.NoError(t, err)

	pruned, err := backend.PruneBefore(ctx, time.Now().Add(-30*24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), pruned)

	_, err = backend.Get(ctx, "old", store.CartKey)
	assert.ErrorIs(t, err, store.ErrNoValue)

	_, err = backend.Get(ctx, "recent", store.WishlistKey)
	assert.NoError(t, err)
	_, err = backend.Get(ctx, "fresh", store.CartKey)
	assert.NoError(t, err)

	pruned, err = backend.PruneBefore(ctx, time.Now().Add(-30*24*time.Hour))
	require.NoError(t, err)
	assert.Zero(t, pruned)
}

func TestEntryBackend_PruneEverythingOlderThanNow(t *testing.T) {
	s, backend := newTestBackend(t)
	ctx := context.Background()

	require.NoError(t, backend.Set(ctx, "a", store.CartKey, []byte(`[]`)))
	_, err := s.DB().ExecContext(ctx,
		`UPDATE store_entries SET updated_at = datetime('now', '-1 hour')`)
	require.NoError(t, err)

	pruned, err := backend.PruneBefore(ctx, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(1), pruned)

	count, err := backend.SessionCount(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}
