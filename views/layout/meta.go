package layout

import (
	"encoding/json"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/loganlanou/podstore/internal/catalog"
	"github.com/loganlanou/podstore/views/helpers"
)

const (
	DefaultSiteName    = "Merch Store"
	DefaultDescription = "Print-on-demand apparel and accessories, made to order."
)

// PageMeta contains all metadata for a page (SEO, Open Graph, Twitter, Schema.org)
type PageMeta struct {
	// Basic HTML meta
	Title        string
	Description  string
	CanonicalURL string

	// Open Graph
	OGType        string // "website" or "product"
	OGTitle       string
	OGDescription string
	OGImageURL    string // MUST be absolute URL
	OGURL         string // MUST be absolute URL
	OGSiteName    string

	// Twitter Cards
	TwitterCard string

	// Internal state
	SiteURL string
	Product *catalog.Product

	// Stripe.js is only loaded on pages that need it
	StripePublishableKey string
}

// NewPageMeta creates a PageMeta with site-wide defaults
// Call this first, then chain .FromProduct() or other modifiers
func NewPageMeta(c echo.Context, siteURL string) PageMeta {
	canonicalURL := BuildAbsoluteURL(siteURL, c.Request().URL.Path)

	return PageMeta{
		Title:        DefaultSiteName,
		Description:  DefaultDescription,
		CanonicalURL: canonicalURL,

		OGType:        "website",
		OGTitle:       DefaultSiteName,
		OGDescription: DefaultDescription,
		OGURL:         canonicalURL,
		OGSiteName:    DefaultSiteName,

		TwitterCard: "summary_large_image",

		SiteURL: siteURL,
	}
}

// WithTitle sets the page title, suffixed with the site name
func (pm PageMeta) WithTitle(title string) PageMeta {
	pm.Title = title + " - " + pm.OGSiteName
	pm.OGTitle = title
	return pm
}

// WithStripe loads Stripe.js on the page when a publishable key is set
func (pm PageMeta) WithStripe(publishableKey string) PageMeta {
	pm.StripePublishableKey = publishableKey
	return pm
}

// FromProduct updates PageMeta with product-specific information
func (pm PageMeta) FromProduct(product catalog.Product) PageMeta {
	pm = pm.WithTitle(product.Name)

	if product.Description != "" {
		pm.Description = product.Description
		pm.OGDescription = product.Description
	}

	productURL := BuildAbsoluteURL(pm.SiteURL, "/product/"+product.ID)
	pm.CanonicalURL = productURL
	pm.OGURL = productURL
	pm.OGType = "product"

	// Printful preview URLs are already absolute
	if product.Image != "" {
		pm.OGImageURL = BuildAbsoluteURL(pm.SiteURL, product.Image)
	}

	pm.Product = &product
	return pm
}

// BuildAbsoluteURL constructs an absolute URL from a path
func BuildAbsoluteURL(siteURL, path string) string {
	if path == "" {
		return siteURL
	}

	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}

	siteURL = strings.TrimRight(siteURL, "/")

	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	return siteURL + path
}

// ProductSchemaJSON returns Schema.org Product JSON-LD, or "" off product pages
func (pm PageMeta) ProductSchemaJSON() string {
	if pm.Product == nil {
		return ""
	}
	product := pm.Product

	offers := map[string]any{
		"@type":         "Offer",
		"url":           pm.OGURL,
		"priceCurrency": "USD",
		"price":         strings.TrimPrefix(helpers.FormatDecimalPrice(product.Price), "$"),
		"availability":  "https://schema.org/InStock",
	}

	schema := map[string]any{
		"@context":    "https://schema.org/",
		"@type":       "Product",
		"name":        product.Name,
		"description": pm.Description,
		"sku":         product.ID,
		"offers":      offers,
	}
	if pm.OGImageURL != "" {
		schema["image"] = pm.OGImageURL
	}
	if product.Category != "" {
		schema["category"] = product.Category
	}

	bytes, err := json.Marshal(schema)
	if err != nil {
		return ""
	}
	return string(bytes)
}
