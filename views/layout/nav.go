package layout

import (
	"github.com/a-h/templ"
)

// Nav carries the header badge counts.
type Nav struct {
	CartCount     int
	WishlistCount int
}

// productSchema emits the JSON-LD block on product pages. json.Marshal
// escapes <, > and & so the payload cannot close the script tag.
func productSchema(meta PageMeta) templ.Component {
	schema := meta.ProductSchemaJSON()
	if schema == "" {
		return templ.NopComponent
	}
	return templ.Raw(`<script type="application/ld+json">` + schema + `</script>`)
}
