package helpers

import (
	"fmt"

	"github.com/loganlanou/podstore/internal/utils"
)

// FormatInt formats an integer as a string
func FormatInt(n int) string {
	return fmt.Sprintf("%d", n)
}

// FormatPrice formats cents as dollars (e.g., 1599 -> "$15.99")
func FormatPrice(cents int64) string {
	return "$" + utils.FormatCents(cents)
}

// FormatDecimalPrice formats a provider price string ("19.99" -> "$19.99").
// Unparseable prices are shown as-is.
func FormatDecimalPrice(price string) string {
	cents, err := utils.ParseCents(price)
	if err != nil {
		return price
	}
	return FormatPrice(cents)
}

// Pluralize returns singular when n == 1, plural otherwise
func Pluralize(n int, singular, plural string) string {
	if n == 1 {
		return singular
	}
	return plural
}
