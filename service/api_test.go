package service

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/loganlanou/podstore/internal/catalog"
	"github.com/loganlanou/podstore/internal/checkout"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeJSON[T any](t *testing.T, body []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(body, &v))
	return v
}

func TestAPIProducts(t *testing.T) {
	env := setupTestEcho(t)
	client := env.shopper(t)

	rec := client.get("/api/products")
	require.Equal(t, http.StatusOK, rec.Code)
	products := decodeJSON[[]catalog.Product](t, rec.Body.Bytes())
	assert.Len(t, products, 3)

	rec = client.get("/api/products?sort=price-asc")
	products = decodeJSON[[]catalog.Product](t, rec.Body.Bytes())
	require.Len(t, products, 3)
	assert.Equal(t, "p3", products[0].ID)

	rec = client.get("/api/products/p1")
	require.Equal(t, http.StatusOK, rec.Code)
	product := decodeJSON[catalog.Product](t, rec.Body.Bytes())
	assert.Equal(t, "19.99", product.Price)
}

func TestAPIProducts_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		path       string
		wantStatus int
		wantCode   string
	}{
		{"unknown id", nil, "/api/products/nope", http.StatusNotFound, CodeNotFound},
		{"not configured", catalog.ErrNotConfigured, "/api/products", http.StatusInternalServerError, CodeNotConfigured},
		{"upstream", catalog.ErrUpstream, "/api/products", http.StatusInternalServerError, CodeUpstream},
		{"upstream detail", catalog.ErrUpstream, "/api/products/p1", http.StatusInternalServerError, CodeUpstream},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTestEcho(t)
			env.catalog.listErr = tt.err
			env.catalog.getErr = tt.err

			rec := env.shopper(t).get(tt.path)
			assert.Equal(t, tt.wantStatus, rec.Code)

			body := decodeJSON[errorResponse](t, rec.Body.Bytes())
			assert.Equal(t, tt.wantCode, body.Code)
			assert.NotEmpty(t, body.Error)
		})
	}
}

func TestAPICheckout(t *testing.T) {
	env := setupTestEcho(t)
	client := env.shopper(t)

	rec := client.sendJSON(http.MethodPost, "/api/checkout", `{
		"items": [{"id":"p1","name":"Logo Tee","price":"19.99","quantity":2}],
		"customer": {"name":"Dana","email":"dana@example.com","zip":"62701"}
	}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":"cs_test_123","url":"https://checkout.stripe.com/c/pay/cs_test_123"}`, rec.Body.String())

	require.Len(t, env.checkout.lastItems, 1)
	assert.Equal(t, 2, env.checkout.lastItems[0].Quantity)
	assert.Equal(t, "62701", env.checkout.lastCust.Zip)
}

func TestAPICheckout_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"invalid input", checkout.ErrInvalidInput, http.StatusBadRequest, CodeInvalidInput},
		{"not configured", checkout.ErrNotConfigured, http.StatusBadRequest, CodeNotConfigured},
		{"provider", errors.Join(checkout.ErrProvider, errors.New("Your card was declined: internal detail")), http.StatusInternalServerError, CodeProvider},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTestEcho(t)
			env.checkout.createErr = tt.err

			rec := env.shopper(t).sendJSON(http.MethodPost, "/api/checkout", `{"items":[],"customer":{}}`)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.NotContains(t, rec.Body.String(), "internal detail")

			body := decodeJSON[errorResponse](t, rec.Body.Bytes())
			assert.Equal(t, tt.wantCode, body.Code)
		})
	}
}

func TestAPICheckout_MalformedBody(t *testing.T) {
	env := setupTestEcho(t)

	rec := env.shopper(t).sendJSON(http.MethodPost, "/api/checkout", `{"items": "nope"`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, env.checkout.callCount())
}

func TestAPICart_RoundTrip(t *testing.T) {
	env := setupTestEcho(t)
	client := env.shopper(t)

	rec := client.sendJSON(http.MethodPost, "/api/cart", `{"id":"p1","quantity":2}`)
	require.Equal(t, http.StatusOK, rec.Code)
	cart := decodeJSON[cartResponse](t, rec.Body.Bytes())
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "Logo Tee", cart.Items[0].Name)
	assert.Equal(t, "39.98", cart.Subtotal)
	assert.Equal(t, int64(3998), cart.SubtotalCents)
	assert.Equal(t, "Free", cart.Shipping)

	// repeat add merges
	rec = client.sendJSON(http.MethodPost, "/api/cart", `{"id":"p1","name":"Logo Tee","price":"19.99","quantity":1}`)
	cart = decodeJSON[cartResponse](t, rec.Body.Bytes())
	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)
	assert.Equal(t, 1, cart.Count)

	// quantity 0 leaves it alone
	rec = client.sendJSON(http.MethodPut, "/api/cart/p1", `{"quantity":0}`)
	cart = decodeJSON[cartResponse](t, rec.Body.Bytes())
	assert.Equal(t, 3, cart.Items[0].Quantity)

	rec = client.sendJSON(http.MethodPut, "/api/cart/p1", `{"quantity":1}`)
	cart = decodeJSON[cartResponse](t, rec.Body.Bytes())
	assert.Equal(t, 1, cart.Items[0].Quantity)

	rec = client.sendJSON(http.MethodDelete, "/api/cart/p1", "")
	cart = decodeJSON[cartResponse](t, rec.Body.Bytes())
	assert.Empty(t, cart.Items)

	// clearing twice is fine
	for i := 0; i < 2; i++ {
		rec = client.sendJSON(http.MethodDelete, "/api/cart", "")
		require.Equal(t, http.StatusOK, rec.Code)
		cart = decodeJSON[cartResponse](t, rec.Body.Bytes())
		assert.Empty(t, cart.Items)
	}
}

func TestAPICart_Validation(t *testing.T) {
	env := setupTestEcho(t)
	client := env.shopper(t)

	rec := client.sendJSON(http.MethodPost, "/api/cart", `{"quantity":1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = client.sendJSON(http.MethodPost, "/api/cart", `{"id":"nope"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAPICart_IgnoresClientProductFields(t *testing.T) {
	env := setupTestEcho(t)
	client := env.shopper(t)

	rec := client.sendJSON(http.MethodPost, "/api/cart", `{"id":"p1","name":"Free Tee","price":"0.01","quantity":2}`)
	require.Equal(t, http.StatusOK, rec.Code)
	cart := decodeJSON[cartResponse](t, rec.Body.Bytes())
	require.Len(t, cart.Items, 1)
	assert.Equal(t, "Logo Tee", cart.Items[0].Name)
	assert.Equal(t, "19.99", cart.Items[0].Price)
	assert.Equal(t, int64(3998), cart.SubtotalCents)

	rec = client.sendJSON(http.MethodPost, "/api/wishlist", `{"id":"p2","name":"Cheap Hat","price":"0.01"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"items":[{"id":"p2","name":"Dad Hat","image":"","price":"24.00"}],"count":1}`, rec.Body.String())
}

func TestAPICart_SessionsAreIsolated(t *testing.T) {
	env := setupTestEcho(t)
	alice := env.shopper(t)
	bob := env.shopper(t)

	alice.sendJSON(http.MethodPost, "/api/cart", `{"id":"p1"}`)

	rec := bob.get("/api/cart")
	cart := decodeJSON[cartResponse](t, rec.Body.Bytes())
	assert.Empty(t, cart.Items)
}

func TestAPIWishlist(t *testing.T) {
	env := setupTestEcho(t)
	client := env.shopper(t)

	client.sendJSON(http.MethodPost, "/api/wishlist", `{"id":"p2"}`)
	rec := client.sendJSON(http.MethodPost, "/api/wishlist", `{"id":"p2"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"items":[{"id":"p2","name":"Dad Hat","image":"","price":"24.00"}],"count":1}`, rec.Body.String())

	rec = client.sendJSON(http.MethodDelete, "/api/wishlist/p2", "")
	assert.JSONEq(t, `{"items":[],"count":0}`, rec.Body.String())
}
