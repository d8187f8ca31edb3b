package utils

// Shipping is handled by the print-on-demand provider and is not charged separately.
const (
	// ShippingLabel is the line shown under the cart subtotal
	ShippingLabel = "Shipping"

	// ShippingFreeText replaces the amount on the shipping line
	ShippingFreeText = "Free"

	// ShippingCents is the fixed shipping charge
	ShippingCents int64 = 0

	// ShippingCountry is the only country the hosted checkout ships to
	ShippingCountry = "US"
)

// OrderTotalCents returns subtotal plus the fixed shipping charge
func OrderTotalCents(subtotalCents int64) int64 {
	return subtotalCents + ShippingCents
}
