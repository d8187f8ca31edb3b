package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatPrice(t *testing.T) {
	assert.Equal(t, "$39.98", FormatPrice(3998))
	assert.Equal(t, "$0.00", FormatPrice(0))
	assert.Equal(t, "$19.99", FormatDecimalPrice("19.99"))
	assert.Equal(t, "$5.50", FormatDecimalPrice("5.5"))
	assert.Equal(t, "call us", FormatDecimalPrice("call us"))
}

func TestPluralize(t *testing.T) {
	assert.Equal(t, "item", Pluralize(1, "item", "items"))
	assert.Equal(t, "items", Pluralize(0, "item", "items"))
	assert.Equal(t, "items", Pluralize(3, "item", "items"))
}
