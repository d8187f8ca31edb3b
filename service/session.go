package service

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/loganlanou/podstore/internal/store"
	"github.com/loganlanou/podstore/views/layout"
)

const (
	sessionCookieName = "session_id"
	sessionMaxAge     = 86400 * 30 // 30 days

	storeSessionKey = "store_session"
)

// sessionMiddleware attaches the shopper's cart and wishlist to the context.
func (s *Service) sessionMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		sessionID := s.getOrCreateSessionID(c)
		c.Set(storeSessionKey, s.stores.ForSession(sessionID))
		return next(c)
	}
}

func (s *Service) getOrCreateSessionID(c echo.Context) string {
	cookie, err := c.Cookie(sessionCookieName)
	if err == nil && cookie.Value != "" {
		if _, err := uuid.Parse(cookie.Value); err == nil {
			return cookie.Value
		}
	}

	sessionID := uuid.New().String()
	c.SetCookie(&http.Cookie{
		Name:     sessionCookieName,
		Value:    sessionID,
		Path:     "/",
		MaxAge:   sessionMaxAge,
		HttpOnly: true,
		Secure:   s.config.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	return sessionID
}

func shopper(c echo.Context) *store.Session {
	return c.Get(storeSessionKey).(*store.Session)
}

// loadCart reads the cart, resetting it when the stored value is corrupt.
func loadCart(c echo.Context) ([]store.CartItem, error) {
	sess := shopper(c)
	items, err := sess.Cart.Load(c.Request().Context())
	if errors.Is(err, store.ErrCorrupt) {
		slog.Error("resetting corrupt cart", "error", err, "session_id", sess.ID)
		return []store.CartItem{}, sess.Cart.Clear(c.Request().Context())
	}
	return items, err
}

// loadWishlist reads the wishlist, resetting it when the stored value is corrupt.
func loadWishlist(c echo.Context) ([]store.WishlistItem, error) {
	sess := shopper(c)
	items, err := sess.Wishlist.Load(c.Request().Context())
	if errors.Is(err, store.ErrCorrupt) {
		slog.Error("resetting corrupt wishlist", "error", err, "session_id", sess.ID)
		return []store.WishlistItem{}, sess.Wishlist.Clear(c.Request().Context())
	}
	return items, err
}

// navCounts never fails the page; a broken store shows zero counts.
func (s *Service) navCounts(c echo.Context) layout.Nav {
	var nav layout.Nav

	if items, err := loadCart(c); err == nil {
		nav.CartCount = len(items)
	} else {
		slog.Error("failed to load cart for nav", "error", err)
	}
	if items, err := loadWishlist(c); err == nil {
		nav.WishlistCount = len(items)
	} else {
		slog.Error("failed to load wishlist for nav", "error", err)
	}
	return nav
}

// returnTo honours a same-site return_to form value, falling back otherwise.
func returnTo(c echo.Context, fallback string) string {
	target := c.FormValue("return_to")
	if strings.HasPrefix(target, "/") && !strings.HasPrefix(target, "//") && !strings.Contains(target, `\`) {
		return target
	}
	return fallback
}
