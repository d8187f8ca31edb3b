package utils

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var (
	ErrInvalidPrice = errors.New("invalid price")
)

// ParseCents converts a provider decimal string into minor units.
// Example: "19.99" -> 1999, "5" -> 500, "5.5" -> 550.
// Negative values and more than two fractional digits are rejected.
func ParseCents(price string) (int64, error) {
	value := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(price), "$"))
	if value == "" {
		return 0, fmt.Errorf("%w: empty", ErrInvalidPrice)
	}

	whole, frac, hasFrac := strings.Cut(value, ".")
	if whole == "" {
		whole = "0"
	}
	if hasFrac && (frac == "" || len(frac) > 2) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPrice, price)
	}
	if !isDigits(whole) || !isDigits(frac) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPrice, price)
	}

	dollars, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPrice, price)
	}

	for len(frac) < 2 {
		frac += "0"
	}
	cents, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPrice, price)
	}
	if dollars > (math.MaxInt64-cents)/100 {
		return 0, fmt.Errorf("%w: %q out of range", ErrInvalidPrice, price)
	}

	return dollars*100 + cents, nil
}

// FormatCents renders minor units as a plain decimal string (1999 -> "19.99").
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
