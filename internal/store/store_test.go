package store

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSession(t *testing.T) (*Session, *MemoryBackend) {
	t.Helper()
	backend := NewMemoryBackend()
	return NewManager(backend).ForSession("sess-test"), backend
}

func tee() CartItem {
	return CartItem{ID: "p1", Name: "Logo Tee", Image: "https://files.cdn.printful.com/p1.png", Price: "19.99", Quantity: 1}
}

func TestCart_LoadDefaultsToEmpty(t *testing.T) {
	sess, _ := newTestSession(t)

	items, err := sess.Cart.Load(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestCart_AddThenLoad(t *testing.T) {
	sess, _ := newTestSession(t)
	ctx := context.Background()

	require.NoError(t, sess.Cart.Add(ctx, tee()))

	items, err := sess.Cart.Load(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "p1", items[0].ID)
}

func TestCart_RepeatAddIncrementsQuantity(t *testing.T) {
	sess, _ := newTestSession(t)
	ctx := context.Background()

	require.NoError(t, sess.Cart.Add(ctx, tee()))
	require.NoError(t, sess.Cart.Add(ctx, tee()))
	require.NoError(t, sess.Cart.Add(ctx, CartItem{ID: "p2", Name: "Hat", Price: "5.00", Quantity: 0}))

	items, err := sess.Cart.Load(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, 2, items[0].Quantity)
	assert.Equal(t, 1, items[1].Quantity, "quantity below one is added as one")
}

func TestCart_Remove(t *testing.T) {
	sess, _ := newTestSession(t)
	ctx := context.Background()

	require.NoError(t, sess.Cart.Add(ctx, tee()))
	require.NoError(t, sess.Cart.Add(ctx, CartItem{ID: "p2", Name: "Hat", Price: "5.00", Quantity: 1}))
	require.NoError(t, sess.Cart.Remove(ctx, "p1"))

	items, err := sess.Cart.Load(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "p2", items[0].ID)

	require.NoError(t, sess.Cart.Remove(ctx, "unknown"))
}

func TestCart_SetQuantity(t *testing.T) {
	sess, _ := newTestSession(t)
	ctx := context.Background()
	require.NoError(t, sess.Cart.Add(ctx, tee()))

	require.NoError(t, sess.Cart.SetQuantity(ctx, "p1", 4))
	items, err := sess.Cart.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, items[0].Quantity)

	for _, n := range []int{0, -3} {
		require.NoError(t, sess.Cart.SetQuantity(ctx, "p1", n))
		items, err = sess.Cart.Load(ctx)
		require.NoError(t, err)
		require.Len(t, items, 1, "setQuantity(%d) must not remove", n)
		assert.Equal(t, 4, items[0].Quantity, "setQuantity(%d) must be a no-op", n)
	}

	require.NoError(t, sess.Cart.SetQuantity(ctx, "missing", 2))
	items, err = sess.Cart.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestCart_ClearIsIdempotent(t *testing.T) {
	sess, _ := newTestSession(t)
	ctx := context.Background()
	require.NoError(t, sess.Cart.Add(ctx, tee()))

	for i := 0; i < 2; i++ {
		require.NoError(t, sess.Cart.Clear(ctx))
		items, err := sess.Cart.Load(ctx)
		require.NoError(t, err)
		assert.Empty(t, items)
	}
}

func TestCart_ClearLeavesWishlist(t *testing.T) {
	sess, _ := newTestSession(t)
	ctx := context.Background()
	require.NoError(t, sess.Cart.Add(ctx, tee()))
	require.NoError(t, sess.Wishlist.Add(ctx, WishlistItem{ID: "p9", Name: "Poster", Price: "15.00"}))

	require.NoError(t, sess.Cart.Clear(ctx))

	wish, err := sess.Wishlist.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, wish, 1)
}

func TestCart_MutationRewritesWholeSequence(t *testing.T) {
	sess, backend := newTestSession(t)
	ctx := context.Background()

	require.NoError(t, sess.Cart.Add(ctx, tee()))
	require.NoError(t, sess.Cart.SetQuantity(ctx, "p1", 2))

	raw, err := backend.Get(ctx, "sess-test", CartKey)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"p1","name":"Logo Tee","image":"https://files.cdn.printful.com/p1.png","price":"19.99","quantity":2}]`, string(raw))
}

func TestCart_CorruptValue(t *testing.T) {
	sess, backend := newTestSession(t)
	ctx := context.Background()
	require.NoError(t, backend.Set(ctx, "sess-test", CartKey, []byte(`{not json`)))

	_, err := sess.Cart.Load(ctx)
	assert.ErrorIs(t, err, ErrCorrupt)

	assert.ErrorIs(t, sess.Cart.Add(ctx, tee()), ErrCorrupt)

	require.NoError(t, sess.Cart.Clear(ctx))
	items, err := sess.Cart.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCart_NullValueLoadsEmpty(t *testing.T) {
	sess, backend := newTestSession(t)
	ctx := context.Background()
	require.NoError(t, backend.Set(ctx, "sess-test", CartKey, []byte(`null`)))

	items, err := sess.Cart.Load(ctx)
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestSubtotalCents(t *testing.T) {
	items := []CartItem{
		{ID: "p1", Price: "19.99", Quantity: 2},
	}
	assert.Equal(t, int64(3998), SubtotalCents(items))

	items = append(items, CartItem{ID: "p2", Price: "5.50", Quantity: 3}, CartItem{ID: "p3", Price: "bogus", Quantity: 1})
	assert.Equal(t, int64(3998+1650), SubtotalCents(items))
	assert.Equal(t, int64(0), SubtotalCents(nil))
}

func TestCount(t *testing.T) {
	sess, _ := newTestSession(t)
	ctx := context.Background()
	require.NoError(t, sess.Cart.Add(ctx, CartItem{ID: "p1", Price: "1.00", Quantity: 3}))
	require.NoError(t, sess.Cart.Add(ctx, CartItem{ID: "p2", Price: "1.00", Quantity: 1}))

	n, err := Count(ctx, sess.Cart)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestWishlist(t *testing.T) {
	sess, _ := newTestSession(t)
	ctx := context.Background()
	poster := WishlistItem{ID: "p9", Name: "Poster", Price: "15.00"}

	require.NoError(t, sess.Wishlist.Add(ctx, poster))
	require.NoError(t, sess.Wishlist.Add(ctx, poster))

	items, err := sess.Wishlist.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 1, "wishlist dedupes by id")

	on, err := Contains(ctx, sess.Wishlist, "p9")
	require.NoError(t, err)
	assert.True(t, on)

	added, err := sess.Wishlist.Toggle(ctx, poster)
	require.NoError(t, err)
	assert.False(t, added)

	on, err = Contains(ctx, sess.Wishlist, "p9")
	require.NoError(t, err)
	assert.False(t, on)

	added, err = sess.Wishlist.Toggle(ctx, poster)
	require.NoError(t, err)
	assert.True(t, added)

	require.NoError(t, sess.Wishlist.Remove(ctx, "p9"))
	items, err = sess.Wishlist.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)

	require.NoError(t, sess.Wishlist.Clear(ctx))
	require.NoError(t, sess.Wishlist.Clear(ctx))
}

func TestManager_SessionsAreIndependent(t *testing.T) {
	manager := NewManager(NewMemoryBackend())
	ctx := context.Background()

	a := manager.ForSession("a")
	b := manager.ForSession("b")
	require.NoError(t, a.Cart.Add(ctx, tee()))

	items, err := b.Cart.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestMemoryBackend_ConcurrentSessions(t *testing.T) {
	manager := NewManager(NewMemoryBackend())
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(id string) {
			defer wg.Done()
			sess := manager.ForSession(id)
			assert.NoError(t, sess.Cart.Add(ctx, tee()))
		}(string(rune('a' + i)))
	}
	wg.Wait()

	items, err := manager.ForSession("a").Cart.Load(ctx)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}
