package service

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"testing"

	"github.com/a-h/templ"
	"github.com/loganlanou/podstore/internal/catalog"
	"github.com/loganlanou/podstore/internal/checkout"
	"github.com/loganlanou/podstore/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHome_FiltersAndSorts(t *testing.T) {
	env := setupTestEcho(t)
	client := env.shopper(t)

	rec := client.get("/?category=T-Shirts")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Logo Tee")
	assert.NotContains(t, rec.Body.String(), "Dad Hat")

	rec = client.get("/?q=MUG")
	assert.Contains(t, rec.Body.String(), "Enamel Mug")
	assert.NotContains(t, rec.Body.String(), "Logo Tee")
}

func TestHome_UpstreamFailure(t *testing.T) {
	env := setupTestEcho(t)
	env.catalog.listErr = catalog.ErrUpstream

	rec := env.shopper(t).get("/")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestProduct_NotFoundPage(t *testing.T) {
	env := setupTestEcho(t)

	rec := env.shopper(t).get("/product/missing")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Product not found")
}

func TestCartFlow(t *testing.T) {
	env := setupTestEcho(t)
	client := env.shopper(t)

	rec := client.postForm("/product/p1/cart", url.Values{"quantity": {"2"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/cart", rec.Header().Get("Location"))

	rec = client.get("/cart")
	body := rec.Body.String()
	assert.Contains(t, body, "Logo Tee")
	assert.Contains(t, body, `<dd id="subtotal">$39.98</dd>`)
	assert.Contains(t, body, `<dd id="shipping">Free</dd>`)
	assert.Contains(t, body, `<span id="cart-count"`)

	// quantity 0 is a no-op
	rec = client.postForm("/cart/items/p1/quantity", url.Values{"quantity": {"0"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	items, err := env.svc.stores.ForSession(client.sessionID()).Cart.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)

	client.postForm("/cart/items/p1/quantity", url.Values{"quantity": {"5"}})
	items, _ = env.svc.stores.ForSession(client.sessionID()).Cart.Load(context.Background())
	assert.Equal(t, 5, items[0].Quantity)

	client.postForm("/cart/items/p1/remove", nil)
	rec = client.get("/cart")
	assert.Contains(t, rec.Body.String(), "Your cart is empty")
}

func TestCart_CorruptValueIsReset(t *testing.T) {
	env := setupTestEcho(t)
	client := env.shopper(t)
	client.get("/cart")

	require.NoError(t, env.backend.Set(context.Background(), client.sessionID(), store.CartKey, []byte(`{not json`)))

	rec := client.get("/cart")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Your cart is empty")

	_, err := env.backend.Get(context.Background(), client.sessionID(), store.CartKey)
	assert.ErrorIs(t, err, store.ErrNoValue)
}

func TestCheckout_EmptyCartNeverCallsGateway(t *testing.T) {
	env := setupTestEcho(t)
	client := env.shopper(t)

	rec := client.get("/checkout")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Your cart is empty")
	assert.Contains(t, rec.Body.String(), `href="/"`)

	rec = client.postForm("/checkout", url.Values{"name": {"Dana"}, "email": {"dana@example.com"}})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Your cart is empty")

	assert.Equal(t, 0, env.checkout.callCount())
}

func TestCheckout_RedirectsToHostedPage(t *testing.T) {
	env := setupTestEcho(t)
	client := env.shopper(t)

	client.postForm("/product/p1/cart", url.Values{"quantity": {"2"}})

	rec := client.postForm("/checkout", url.Values{
		"name":    {" Dana Smith "},
		"email":   {"dana@example.com"},
		"address": {"1 Main St"},
		"city":    {"Springfield"},
		"state":   {"IL"},
		"zip":     {"62701"},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "https://checkout.stripe.com/c/pay/cs_test_123", rec.Header().Get("Location"))

	require.Equal(t, 1, env.checkout.callCount())
	assert.Equal(t, "Dana Smith", env.checkout.lastCust.Name)
	assert.Equal(t, "62701", env.checkout.lastCust.Zip)
	require.Len(t, env.checkout.lastItems, 1)
	assert.Equal(t, 2, env.checkout.lastItems[0].Quantity)
}

func TestCheckout_GatewayFailureShowsGenericError(t *testing.T) {
	env := setupTestEcho(t)
	env.checkout.createErr = errors.Join(checkout.ErrProvider, errors.New("No such price: secret detail"))
	client := env.shopper(t)

	client.postForm("/product/p1/cart", nil)
	rec := client.postForm("/checkout", url.Values{"name": {"Dana"}})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), templ.EscapeString(checkoutFailedMessage))
	assert.NotContains(t, rec.Body.String(), "secret detail")
	assert.Contains(t, rec.Body.String(), `value="Dana"`)
}

func TestCheckout_LoadsStripeJSWithPublishableKey(t *testing.T) {
	env := setupTestEcho(t)
	env.svc.config.Stripe.PublishableKey = "pk_test_storefront"
	client := env.shopper(t)

	client.postForm("/product/p1/cart", nil)

	rec := client.get("/checkout")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `<meta name="stripe-key" content="pk_test_storefront">`)
	assert.Contains(t, rec.Body.String(), `src="https://js.stripe.com/v3/"`)

	env.checkout.createErr = checkout.ErrProvider
	rec = client.postForm("/checkout", url.Values{"name": {"Dana"}})
	assert.Contains(t, rec.Body.String(), `content="pk_test_storefront"`)

	rec = client.get("/cart")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "js.stripe.com")
}

func TestSuccess_ClearsCartButNotWishlist(t *testing.T) {
	env := setupTestEcho(t)
	client := env.shopper(t)

	client.postForm("/product/p1/cart", url.Values{"quantity": {"2"}})
	client.postForm("/product/p2/wishlist", nil)

	rec := client.get("/success?session_id=cs_test_123")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `<code id="order-reference">cs_test_123</code>`)

	sess := env.svc.stores.ForSession(client.sessionID())
	cart, err := sess.Cart.Load(context.Background())
	require.NoError(t, err)
	assert.Empty(t, cart)

	wishlist, err := sess.Wishlist.Load(context.Background())
	require.NoError(t, err)
	require.Len(t, wishlist, 1)
	assert.Equal(t, "p2", wishlist[0].ID)
}

func TestSuccess_UnverifiedSessionHidesReference(t *testing.T) {
	env := setupTestEcho(t)
	env.checkout.getErr = checkout.ErrProvider

	rec := env.shopper(t).get("/success?session_id=cs_forged")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "cs_forged")
}

func TestCancel_LeavesStoreUntouched(t *testing.T) {
	env := setupTestEcho(t)
	client := env.shopper(t)

	client.postForm("/product/p1/cart", nil)
	rec := client.get("/cancel")
	assert.Contains(t, rec.Body.String(), "Order canceled")

	cart, err := env.svc.stores.ForSession(client.sessionID()).Cart.Load(context.Background())
	require.NoError(t, err)
	assert.Len(t, cart, 1)
}

func TestWishlistFlow(t *testing.T) {
	env := setupTestEcho(t)
	client := env.shopper(t)

	rec := client.postForm("/product/p2/wishlist", url.Values{"return_to": {"/"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))

	rec = client.get("/product/p2")
	assert.Contains(t, rec.Body.String(), "Remove from wishlist")

	rec = client.postForm("/wishlist/p2/cart", nil)
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/cart", rec.Header().Get("Location"))

	sess := env.svc.stores.ForSession(client.sessionID())
	cart, _ := sess.Cart.Load(context.Background())
	require.Len(t, cart, 1)
	assert.Equal(t, "p2", cart[0].ID)
	assert.Equal(t, 1, cart[0].Quantity)

	wishlist, _ := sess.Wishlist.Load(context.Background())
	assert.Empty(t, wishlist)
}

func TestReturnTo_RejectsOffsiteTargets(t *testing.T) {
	env := setupTestEcho(t)
	client := env.shopper(t)

	rec := client.postForm("/product/p2/wishlist", url.Values{"return_to": {"//evil.example.com"}})
	assert.Equal(t, "/product/p2", rec.Header().Get("Location"))
}
