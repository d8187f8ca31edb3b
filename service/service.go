package service

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
	"github.com/loganlanou/podstore/internal/catalog"
	"github.com/loganlanou/podstore/internal/checkout"
	"github.com/loganlanou/podstore/internal/merch"
	"github.com/loganlanou/podstore/internal/store"
	"github.com/loganlanou/podstore/views/layout"
)

// Catalog is the product source the storefront renders.
type Catalog interface {
	ListProducts(ctx context.Context) ([]catalog.Product, error)
	GetProduct(ctx context.Context, id string) (*catalog.Product, error)
	Overlay() *merch.Overlay
}

// Checkout opens and looks up hosted checkout sessions.
type Checkout interface {
	CreateSession(ctx context.Context, items []store.CartItem, customer checkout.Customer) (*checkout.Session, error)
	GetSession(ctx context.Context, id string) (*checkout.Session, error)
}

type Service struct {
	config   *Config
	catalog  Catalog
	checkout Checkout
	stores   *store.Manager
}

func New(config *Config, catalog Catalog, checkout Checkout, stores *store.Manager) *Service {
	return &Service{
		config:   config,
		catalog:  catalog,
		checkout: checkout,
		stores:   stores,
	}
}

func (s *Service) RegisterRoutes(e *echo.Echo) {
	// Static files
	e.Static("/public", "public")

	e.GET("/health", s.handleHealth)

	// Storefront pages
	shop := e.Group("", s.sessionMiddleware)
	shop.GET("/", s.handleHome)
	shop.GET("/product/:id", s.handleProduct)
	shop.POST("/product/:id/cart", s.handleProductAddToCart)
	shop.POST("/product/:id/wishlist", s.handleProductToggleWishlist)
	shop.GET("/cart", s.handleCart)
	shop.POST("/cart/items/:id/quantity", s.handleCartQuantity)
	shop.POST("/cart/items/:id/remove", s.handleCartRemove)
	shop.GET("/checkout", s.handleCheckout)
	shop.POST("/checkout", s.handleCheckoutSubmit)
	shop.GET("/success", s.handleSuccess)
	shop.GET("/cancel", s.handleCancel)
	shop.GET("/wishlist", s.handleWishlist)
	shop.POST("/wishlist/:id/remove", s.handleWishlistRemove)
	shop.POST("/wishlist/:id/cart", s.handleWishlistToCart)

	// JSON API
	api := e.Group("/api", s.sessionMiddleware)
	api.GET("/products", s.handleAPIProducts)
	api.GET("/products/:id", s.handleAPIProduct)
	api.POST("/checkout", s.handleAPICheckout)

	api.GET("/cart", s.handleAPIGetCart)
	api.POST("/cart", s.handleAPIAddToCart)
	api.PUT("/cart/:id", s.handleAPIUpdateCartItem)
	api.DELETE("/cart/:id", s.handleAPIRemoveFromCart)
	api.DELETE("/cart", s.handleAPIClearCart)

	api.GET("/wishlist", s.handleAPIGetWishlist)
	api.POST("/wishlist", s.handleAPIAddToWishlist)
	api.DELETE("/wishlist/:id", s.handleAPIRemoveFromWishlist)
}

type pinger interface {
	Ping(ctx context.Context) error
}

func (s *Service) handleHealth(c echo.Context) error {
	status := "connected"
	if p, ok := s.stores.Backend().(pinger); ok {
		if err := p.Ping(c.Request().Context()); err != nil {
			slog.Error("store backend ping failed", "error", err, "backend", s.config.Store.Backend)
			return c.JSON(http.StatusServiceUnavailable, map[string]any{
				"status":      "unhealthy",
				"environment": s.config.Environment,
				"store":       "unavailable",
			})
		}
	}

	return c.JSON(http.StatusOK, map[string]any{
		"status":      "healthy",
		"environment": s.config.Environment,
		"store":       status,
		"backend":     s.config.Store.Backend,
	})
}

// Render renders a templ component and writes it to the response
func Render(c echo.Context, component templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	// Don't call WriteHeader here - let Echo handle it on first Write()
	return component.Render(c.Request().Context(), c.Response())
}

// RenderStatus is Render with an explicit status code.
func RenderStatus(c echo.Context, status int, component templ.Component) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	c.Response().WriteHeader(status)
	return component.Render(c.Request().Context(), c.Response())
}

// page wraps body in the layout with the shopper's nav counts.
func (s *Service) page(c echo.Context, meta layout.PageMeta, body templ.Component) templ.Component {
	return layout.Base(meta, s.navCounts(c), body)
}

func (s *Service) meta(c echo.Context) layout.PageMeta {
	return layout.NewPageMeta(c, s.config.BaseURL)
}
