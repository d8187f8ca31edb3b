package catalog

import (
	"math"
	"slices"
	"strings"

	"github.com/loganlanou/podstore/internal/merch"
	"github.com/loganlanou/podstore/internal/utils"
)

type SortKey string

const (
	SortNone       SortKey = ""
	SortPriceAsc   SortKey = "price-asc"
	SortPriceDesc  SortKey = "price-desc"
	SortBestSeller SortKey = "best-seller"
	SortNew        SortKey = "new"
)

// SortOptions lists the keys the catalog view offers, in display order.
var SortOptions = []SortKey{SortNone, SortPriceAsc, SortPriceDesc, SortBestSeller, SortNew}

func (k SortKey) Label() string {
	switch k {
	case SortPriceAsc:
		return "Price: Low to High"
	case SortPriceDesc:
		return "Price: High to Low"
	case SortBestSeller:
		return "Best Sellers"
	case SortNew:
		return "New Arrivals"
	default:
		return "Featured"
	}
}

func ParseSortKey(s string) SortKey {
	key := SortKey(strings.ToLower(strings.TrimSpace(s)))
	if slices.Contains(SortOptions, key) {
		return key
	}
	return SortNone
}

type Query struct {
	Search   string
	Category string
	Sort     SortKey
}

// Filter applies the search, category and sort settings in memory and
// returns a new slice. The input is left untouched.
//
// Flag sorts move flagged products first and keep relative order otherwise.
// Products with unparseable prices sort after priced ones in both directions.
func Filter(products []Product, q Query) []Product {
	search := strings.ToLower(strings.TrimSpace(q.Search))
	category := strings.TrimSpace(q.Category)
	if strings.EqualFold(category, merch.AllCategories) {
		category = ""
	}

	out := make([]Product, 0, len(products))
	for _, p := range products {
		if search != "" && !strings.Contains(strings.ToLower(p.Name), search) {
			continue
		}
		if category != "" && p.Category != category {
			continue
		}
		out = append(out, p)
	}

	switch q.Sort {
	case SortPriceAsc:
		slices.SortStableFunc(out, func(a, b Product) int {
			return compareCents(priceKey(a.Price, math.MaxInt64), priceKey(b.Price, math.MaxInt64))
		})
	case SortPriceDesc:
		slices.SortStableFunc(out, func(a, b Product) int {
			return compareCents(priceKey(b.Price, math.MinInt64), priceKey(a.Price, math.MinInt64))
		})
	case SortBestSeller:
		slices.SortStableFunc(out, func(a, b Product) int {
			return compareFlag(a.BestSeller, b.BestSeller)
		})
	case SortNew:
		slices.SortStableFunc(out, func(a, b Product) int {
			return compareFlag(a.New, b.New)
		})
	}

	return out
}

func priceKey(price string, fallback int64) int64 {
	cents, err := utils.ParseCents(price)
	if err != nil {
		return fallback
	}
	return cents
}

func compareCents(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareFlag(a, b bool) int {
	switch {
	case a == b:
		return 0
	case a:
		return -1
	default:
		return 1
	}
}
