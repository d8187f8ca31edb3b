package service

import (
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/loganlanou/podstore/internal/catalog"
	"github.com/loganlanou/podstore/internal/checkout"
	"github.com/loganlanou/podstore/internal/store"
	"github.com/loganlanou/podstore/views/shop"
)

const checkoutFailedMessage = "We couldn't start checkout. Please check your details and try again."

func (s *Service) handleHome(c echo.Context) error {
	ctx := c.Request().Context()

	products, err := s.catalog.ListProducts(ctx)
	if err != nil {
		slog.Error("failed to list products", "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load products")
	}

	query := catalog.Query{
		Search:   c.QueryParam("q"),
		Category: c.QueryParam("category"),
		Sort:     catalog.ParseSortKey(c.QueryParam("sort")),
	}

	wished := map[string]bool{}
	if items, err := loadWishlist(c); err == nil {
		for _, item := range items {
			wished[item.ID] = true
		}
	}

	data := shop.CatalogData{
		Products:   catalog.Filter(products, query),
		Total:      len(products),
		Query:      query,
		Categories: s.catalog.Overlay().FilterOptions(),
		Wishlist:   wished,
	}

	meta := s.meta(c).WithTitle("Shop")
	return Render(c, s.page(c, meta, shop.Catalog(data)))
}

func (s *Service) handleProduct(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")

	product, err := s.catalog.GetProduct(ctx, id)
	if errors.Is(err, catalog.ErrNotFound) {
		meta := s.meta(c).WithTitle("Product not found")
		return RenderStatus(c, http.StatusNotFound, s.page(c, meta, shop.NotFound()))
	}
	if err != nil {
		slog.Error("failed to get product", "error", err, "product_id", id)
		return echo.NewHTTPError(http.StatusInternalServerError, "Failed to load product")
	}

	inWishlist, err := store.Contains(ctx, shopper(c).Wishlist, product.ID)
	if err != nil && !errors.Is(err, store.ErrCorrupt) {
		slog.Error("failed to read wishlist", "error", err, "product_id", id)
	}

	meta := s.meta(c).FromProduct(*product)
	return Render(c, s.page(c, meta, shop.Product(shop.ProductData{
		Product:    *product,
		InWishlist: inWishlist,
	})))
}

// productForForm loads the product a storefront form refers to.
func (s *Service) productForForm(c echo.Context) (*catalog.Product, error) {
	id := c.Param("id")

	product, err := s.catalog.GetProduct(c.Request().Context(), id)
	if errors.Is(err, catalog.ErrNotFound) {
		return nil, echo.NewHTTPError(http.StatusNotFound, "Product not found")
	}
	if err != nil {
		slog.Error("failed to get product", "error", err, "product_id", id)
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "Failed to load product")
	}
	return product, nil
}

func (s *Service) handleProductAddToCart(c echo.Context) error {
	product, err := s.productForForm(c)
	if err != nil {
		return err
	}

	quantity := 1
	if raw := c.FormValue("quantity"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			quantity = n
		}
	}

	if _, err := loadCart(c); err != nil {
		return s.storeFailure(c, err)
	}
	if err := shopper(c).Cart.Add(c.Request().Context(), cartItemFromProduct(*product, quantity)); err != nil {
		return s.storeFailure(c, err)
	}

	return c.Redirect(http.StatusSeeOther, returnTo(c, "/cart"))
}

func (s *Service) handleProductToggleWishlist(c echo.Context) error {
	product, err := s.productForForm(c)
	if err != nil {
		return err
	}

	if _, err := loadWishlist(c); err != nil {
		return s.storeFailure(c, err)
	}
	if _, err := shopper(c).Wishlist.Toggle(c.Request().Context(), wishlistItemFromProduct(*product)); err != nil {
		return s.storeFailure(c, err)
	}

	return c.Redirect(http.StatusSeeOther, returnTo(c, "/product/"+url.PathEscape(product.ID)))
}

func (s *Service) handleCart(c echo.Context) error {
	items, err := loadCart(c)
	if err != nil {
		return s.storeFailure(c, err)
	}

	meta := s.meta(c).WithTitle("Cart")
	return Render(c, s.page(c, meta, shop.Cart(shop.CartData{Items: items})))
}

// handleCartQuantity ignores quantities below one; removal is explicit.
func (s *Service) handleCartQuantity(c echo.Context) error {
	n, err := strconv.Atoi(c.FormValue("quantity"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid quantity")
	}

	if _, err := loadCart(c); err != nil {
		return s.storeFailure(c, err)
	}
	if err := shopper(c).Cart.SetQuantity(c.Request().Context(), c.Param("id"), n); err != nil {
		return s.storeFailure(c, err)
	}
	return c.Redirect(http.StatusSeeOther, "/cart")
}

func (s *Service) handleCartRemove(c echo.Context) error {
	if _, err := loadCart(c); err != nil {
		return s.storeFailure(c, err)
	}
	if err := shopper(c).Cart.Remove(c.Request().Context(), c.Param("id")); err != nil {
		return s.storeFailure(c, err)
	}
	return c.Redirect(http.StatusSeeOther, "/cart")
}

func (s *Service) handleCheckout(c echo.Context) error {
	items, err := loadCart(c)
	if err != nil {
		return s.storeFailure(c, err)
	}

	meta := s.meta(c).WithTitle("Checkout").WithStripe(s.config.Stripe.PublishableKey)
	return Render(c, s.page(c, meta, shop.Checkout(shop.CheckoutData{Items: items})))
}

func (s *Service) handleCheckoutSubmit(c echo.Context) error {
	ctx := c.Request().Context()

	var customer checkout.Customer
	if err := c.Bind(&customer); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "Invalid checkout form")
	}
	trimCustomer(&customer)

	items, err := loadCart(c)
	if err != nil {
		return s.storeFailure(c, err)
	}

	meta := s.meta(c).WithTitle("Checkout").WithStripe(s.config.Stripe.PublishableKey)
	data := shop.CheckoutData{Items: items, Customer: customer}

	// an empty cart never reaches the gateway
	if len(items) == 0 {
		return Render(c, s.page(c, meta, shop.Checkout(data)))
	}

	session, err := s.checkout.CreateSession(ctx, items, customer)
	if err != nil {
		status, _ := classifyError(err)
		slog.Error("failed to create checkout session", "error", err, "session_id", shopper(c).ID, "items", len(items))
		data.Error = checkoutFailedMessage
		return RenderStatus(c, status, s.page(c, meta, shop.Checkout(data)))
	}

	return c.Redirect(http.StatusSeeOther, session.URL)
}

// handleSuccess clears the cart and shows the Stripe session id as the order
// reference once Stripe confirms it. The wishlist is kept.
func (s *Service) handleSuccess(c echo.Context) error {
	ctx := c.Request().Context()
	sess := shopper(c)

	if err := sess.Cart.Clear(ctx); err != nil {
		slog.Error("failed to clear cart after checkout", "error", err, "session_id", sess.ID)
	}

	var data shop.SuccessData
	if sessionID := c.QueryParam("session_id"); sessionID != "" {
		checkoutSession, err := s.checkout.GetSession(ctx, sessionID)
		if err != nil {
			slog.Warn("could not verify checkout session", "error", err, "checkout_session_id", sessionID)
		} else {
			data.Reference = checkoutSession.ID
			data.PaymentStatus = checkoutSession.PaymentStatus
			data.AmountCents = checkoutSession.AmountTotal
		}
	}

	meta := s.meta(c).WithTitle("Order confirmed")
	return Render(c, s.page(c, meta, shop.Success(data)))
}

func (s *Service) handleCancel(c echo.Context) error {
	meta := s.meta(c).WithTitle("Order canceled")
	return Render(c, s.page(c, meta, shop.Cancel()))
}

func (s *Service) handleWishlist(c echo.Context) error {
	items, err := loadWishlist(c)
	if err != nil {
		return s.storeFailure(c, err)
	}

	meta := s.meta(c).WithTitle("Wishlist")
	return Render(c, s.page(c, meta, shop.Wishlist(shop.WishlistData{Items: items})))
}

func (s *Service) handleWishlistRemove(c echo.Context) error {
	if _, err := loadWishlist(c); err != nil {
		return s.storeFailure(c, err)
	}
	if err := shopper(c).Wishlist.Remove(c.Request().Context(), c.Param("id")); err != nil {
		return s.storeFailure(c, err)
	}
	return c.Redirect(http.StatusSeeOther, "/wishlist")
}

// handleWishlistToCart moves a saved item into the cart with quantity 1.
func (s *Service) handleWishlistToCart(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("id")
	sess := shopper(c)

	items, err := loadWishlist(c)
	if err != nil {
		return s.storeFailure(c, err)
	}

	var saved *store.WishlistItem
	for i := range items {
		if items[i].ID == id {
			saved = &items[i]
			break
		}
	}
	if saved == nil {
		return c.Redirect(http.StatusSeeOther, "/wishlist")
	}

	if _, err := loadCart(c); err != nil {
		return s.storeFailure(c, err)
	}
	if err := sess.Cart.Add(ctx, store.CartItem{
		ID:       saved.ID,
		Name:     saved.Name,
		Image:    saved.Image,
		Price:    saved.Price,
		Quantity: 1,
	}); err != nil {
		return s.storeFailure(c, err)
	}
	if err := sess.Wishlist.Remove(ctx, id); err != nil {
		return s.storeFailure(c, err)
	}

	return c.Redirect(http.StatusSeeOther, "/cart")
}

func (s *Service) storeFailure(c echo.Context, err error) error {
	slog.Error("store operation failed", "error", err, "session_id", shopper(c).ID, "path", c.Request().URL.Path)
	return echo.NewHTTPError(http.StatusInternalServerError, "Failed to update your cart or wishlist")
}

func cartItemFromProduct(p catalog.Product, quantity int) store.CartItem {
	return store.CartItem{
		ID:          p.ID,
		Name:        p.Name,
		Image:       p.Image,
		Price:       p.Price,
		Description: p.Description,
		Category:    p.Category,
		Quantity:    quantity,
	}
}

func wishlistItemFromProduct(p catalog.Product) store.WishlistItem {
	return store.WishlistItem{
		ID:    p.ID,
		Name:  p.Name,
		Image: p.Image,
		Price: p.Price,
	}
}

func trimCustomer(c *checkout.Customer) {
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.TrimSpace(c.Email)
	c.Address = strings.TrimSpace(c.Address)
	c.City = strings.TrimSpace(c.City)
	c.State = strings.TrimSpace(c.State)
	c.Zip = strings.TrimSpace(c.Zip)
}
