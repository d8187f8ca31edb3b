package service

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestPublicRoutes tests that storefront routes exist and are accessible
func TestPublicRoutes(t *testing.T) {
	env := setupTestEcho(t)

	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
	}{
		// Core pages
		{"Home page", "GET", "/", http.StatusOK},
		{"Health check", "GET", "/health", http.StatusOK},

		// Shop pages
		{"Product page", "GET", "/product/p1", http.StatusOK},
		{"Unknown product", "GET", "/product/nope", http.StatusNotFound},
		{"Cart page", "GET", "/cart", http.StatusOK},
		{"Checkout page", "GET", "/checkout", http.StatusOK},
		{"Success page", "GET", "/success", http.StatusOK},
		{"Cancel page", "GET", "/cancel", http.StatusOK},
		{"Wishlist page", "GET", "/wishlist", http.StatusOK},

		// API
		{"Products API", "GET", "/api/products", http.StatusOK},
		{"Product API", "GET", "/api/products/p2", http.StatusOK},
		{"Unknown product API", "GET", "/api/products/nope", http.StatusNotFound},
		{"Cart API", "GET", "/api/cart", http.StatusOK},
		{"Wishlist API", "GET", "/api/wishlist", http.StatusOK},

		// Removed routes
		{"Admin", "GET", "/admin", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			rec := httptest.NewRecorder()

			env.e.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code,
				"Route %s %s should return %d, got %d",
				tt.method, tt.path, tt.wantStatus, rec.Code)
		})
	}
}

func TestSecurityHeaders(t *testing.T) {
	env := setupTestEcho(t)

	for _, path := range []string{"/", "/api/products", "/product/nope"} {
		rec := httptest.NewRecorder()
		env.e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))

		h := rec.Header()
		assert.Contains(t, h.Get("Content-Security-Policy"), "https://js.stripe.com", path)
		assert.Contains(t, h.Get("Content-Security-Policy"), "img-src 'self' data: https://files.cdn.printful.com", path)
		assert.Equal(t, "SAMEORIGIN", h.Get("X-Frame-Options"), path)
		assert.Equal(t, "nosniff", h.Get("X-Content-Type-Options"), path)
		assert.Equal(t, "1; mode=block", h.Get("X-XSS-Protection"), path)
	}
}

func TestSessionCookie(t *testing.T) {
	env := setupTestEcho(t)
	client := env.shopper(t)

	rec := client.get("/cart")
	cookies := rec.Result().Cookies()
	if assert.Len(t, cookies, 1) {
		c := cookies[0]
		assert.Equal(t, sessionCookieName, c.Name)
		assert.True(t, c.HttpOnly)
		assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
		assert.Equal(t, sessionMaxAge, c.MaxAge)
	}

	// an existing valid cookie is reused, not reissued
	rec = client.get("/cart")
	assert.Empty(t, rec.Result().Cookies())

	// a garbage cookie is replaced
	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "../../etc"})
	rec = httptest.NewRecorder()
	env.e.ServeHTTP(rec, req)
	assert.Len(t, rec.Result().Cookies(), 1)
}

func TestHealth(t *testing.T) {
	env := setupTestEcho(t)

	rec := env.shopper(t).get("/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"healthy","environment":"test","store":"connected","backend":"memory"}`, rec.Body.String())
}
