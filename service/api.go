package service

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/loganlanou/podstore/internal/catalog"
	"github.com/loganlanou/podstore/internal/checkout"
	"github.com/loganlanou/podstore/internal/store"
	"github.com/loganlanou/podstore/internal/utils"
)

// handleAPIProducts returns the catalog, optionally filtered by q, category and sort
func (s *Service) handleAPIProducts(c echo.Context) error {
	products, err := s.catalog.ListProducts(c.Request().Context())
	if err != nil {
		return jsonError(c, err, "failed to list products")
	}

	products = catalog.Filter(products, catalog.Query{
		Search:   c.QueryParam("q"),
		Category: c.QueryParam("category"),
		Sort:     catalog.ParseSortKey(c.QueryParam("sort")),
	})
	return c.JSON(http.StatusOK, products)
}

func (s *Service) handleAPIProduct(c echo.Context) error {
	id := c.Param("id")

	product, err := s.catalog.GetProduct(c.Request().Context(), id)
	if err != nil {
		return jsonError(c, err, "failed to get product", "product_id", id)
	}
	return c.JSON(http.StatusOK, product)
}

type checkoutRequest struct {
	Items    []store.CartItem  `json:"items"`
	Customer checkout.Customer `json:"customer"`
}

type checkoutResponse struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// handleAPICheckout creates a hosted checkout session from the posted cart.
// The stored cart is not consulted.
func (s *Service) handleAPICheckout(c echo.Context) error {
	var req checkoutRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request format")
	}
	trimCustomer(&req.Customer)

	session, err := s.checkout.CreateSession(c.Request().Context(), req.Items, req.Customer)
	if err != nil {
		return jsonError(c, err, "failed to create checkout session", "items", len(req.Items))
	}

	return c.JSON(http.StatusOK, checkoutResponse{ID: session.ID, URL: session.URL})
}

type cartResponse struct {
	Items         []store.CartItem `json:"items"`
	Count         int              `json:"count"`
	Subtotal      string           `json:"subtotal"`
	SubtotalCents int64            `json:"subtotalCents"`
	Shipping      string           `json:"shipping"`
}

func newCartResponse(items []store.CartItem) cartResponse {
	subtotal := store.SubtotalCents(items)
	return cartResponse{
		Items:         items,
		Count:         len(items),
		Subtotal:      utils.FormatCents(subtotal),
		SubtotalCents: subtotal,
		Shipping:      utils.ShippingFreeText,
	}
}

func (s *Service) cartJSON(c echo.Context) error {
	items, err := loadCart(c)
	if err != nil {
		return jsonError(c, err, "failed to load cart", "session_id", shopper(c).ID)
	}
	return c.JSON(http.StatusOK, newCartResponse(items))
}

func (s *Service) handleAPIGetCart(c echo.Context) error {
	return s.cartJSON(c)
}

// handleAPIAddToCart accepts a full cart item or just {id, quantity}; a bare
// id is filled in from the catalog.
// itemRequest is the body of the cart and wishlist add endpoints. Anything
// else the client sends about the product is ignored.
type itemRequest struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
}

// handleAPIAddToCart stores the catalog's view of the product so the saved
// name and price cannot be supplied by the client.
func (s *Service) handleAPIAddToCart(c echo.Context) error {
	var req itemRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request format")
	}
	req.ID = strings.TrimSpace(req.ID)
	if req.ID == "" {
		return badRequest(c, "Missing product id")
	}

	product, err := s.catalog.GetProduct(c.Request().Context(), req.ID)
	if err != nil {
		return jsonError(c, err, "failed to get product for cart", "product_id", req.ID)
	}
	item := cartItemFromProduct(*product, req.Quantity)

	if _, err := loadCart(c); err != nil {
		return jsonError(c, err, "failed to load cart")
	}
	if err := shopper(c).Cart.Add(c.Request().Context(), item); err != nil {
		return jsonError(c, err, "failed to add to cart", "product_id", item.ID)
	}
	return s.cartJSON(c)
}

// handleAPIUpdateCartItem sets a quantity; values below one leave the item as is.
func (s *Service) handleAPIUpdateCartItem(c echo.Context) error {
	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request format")
	}

	if _, err := loadCart(c); err != nil {
		return jsonError(c, err, "failed to load cart")
	}
	if err := shopper(c).Cart.SetQuantity(c.Request().Context(), c.Param("id"), req.Quantity); err != nil {
		return jsonError(c, err, "failed to update cart item", "product_id", c.Param("id"))
	}
	return s.cartJSON(c)
}

func (s *Service) handleAPIRemoveFromCart(c echo.Context) error {
	if _, err := loadCart(c); err != nil {
		return jsonError(c, err, "failed to load cart")
	}
	if err := shopper(c).Cart.Remove(c.Request().Context(), c.Param("id")); err != nil {
		return jsonError(c, err, "failed to remove cart item", "product_id", c.Param("id"))
	}
	return s.cartJSON(c)
}

func (s *Service) handleAPIClearCart(c echo.Context) error {
	if err := shopper(c).Cart.Clear(c.Request().Context()); err != nil {
		return jsonError(c, err, "failed to clear cart")
	}
	return s.cartJSON(c)
}

func (s *Service) wishlistJSON(c echo.Context) error {
	items, err := loadWishlist(c)
	if err != nil {
		return jsonError(c, err, "failed to load wishlist", "session_id", shopper(c).ID)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"items": items,
		"count": len(items),
	})
}

func (s *Service) handleAPIGetWishlist(c echo.Context) error {
	return s.wishlistJSON(c)
}

func (s *Service) handleAPIAddToWishlist(c echo.Context) error {
	var req itemRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "Invalid request format")
	}
	req.ID = strings.TrimSpace(req.ID)
	if req.ID == "" {
		return badRequest(c, "Missing product id")
	}

	product, err := s.catalog.GetProduct(c.Request().Context(), req.ID)
	if err != nil {
		return jsonError(c, err, "failed to get product for wishlist", "product_id", req.ID)
	}
	item := wishlistItemFromProduct(*product)

	if _, err := loadWishlist(c); err != nil {
		return jsonError(c, err, "failed to load wishlist")
	}
	if err := shopper(c).Wishlist.Add(c.Request().Context(), item); err != nil {
		return jsonError(c, err, "failed to add to wishlist", "product_id", item.ID)
	}
	return s.wishlistJSON(c)
}

func (s *Service) handleAPIRemoveFromWishlist(c echo.Context) error {
	if _, err := loadWishlist(c); err != nil {
		return jsonError(c, err, "failed to load wishlist")
	}
	if err := shopper(c).Wishlist.Remove(c.Request().Context(), c.Param("id")); err != nil {
		return jsonError(c, err, "failed to remove wishlist item", "product_id", c.Param("id"))
	}
	return s.wishlistJSON(c)
}
