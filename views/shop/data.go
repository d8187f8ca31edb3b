package shop

import (
	"net/url"
	"strconv"

	"github.com/a-h/templ"
	"github.com/loganlanou/podstore/internal/catalog"
	"github.com/loganlanou/podstore/internal/checkout"
	"github.com/loganlanou/podstore/internal/merch"
	"github.com/loganlanou/podstore/internal/store"
	"github.com/loganlanou/podstore/views/components"
)

type CatalogData struct {
	Products   []catalog.Product
	Total      int
	Query      catalog.Query
	Categories []string
	Wishlist   map[string]bool
}

type ProductData struct {
	Product    catalog.Product
	InWishlist bool
}

type CartData struct {
	Items []store.CartItem
}

func (d CartData) SubtotalCents() int64 {
	return store.SubtotalCents(d.Items)
}

type CheckoutData struct {
	Items    []store.CartItem
	Customer checkout.Customer
	Error    string
}

type SuccessData struct {
	// Reference is the Stripe checkout session id, empty if the shopper
	// reached the page without one.
	Reference     string
	PaymentStatus string
	AmountCents   int64
}

type WishlistData struct {
	Items []store.WishlistItem
}

func productPath(id string) string {
	return "/product/" + url.PathEscape(id)
}

func productURL(id string) templ.SafeURL {
	return templ.URL(productPath(id))
}

func cartItemPath(id, action string) string {
	return "/cart/items/" + url.PathEscape(id) + "/" + action
}

func wishlistPath(id, action string) string {
	return "/wishlist/" + url.PathEscape(id) + "/" + action
}

// categorySelected treats an empty category as the "All" option.
func categorySelected(q catalog.Query, option string) bool {
	return option == q.Category || (q.Category == "" && option == merch.AllCategories)
}

func quantityField(n int) components.Hidden {
	return components.Hidden{Name: "quantity", Value: strconv.Itoa(n)}
}

func saveLabel(wished bool) string {
	if wished {
		return "Saved"
	}
	return "Save"
}

func wishlistLabel(inWishlist bool) string {
	if inWishlist {
		return "Remove from wishlist"
	}
	return "Add to wishlist"
}
