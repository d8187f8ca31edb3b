package merch

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"
)

// AllCategories is the filter value that disables category filtering.
const AllCategories = "All"

// Entry holds the storefront-only attributes Printful has no field for.
type Entry struct {
	Category   string `yaml:"category"`
	BestSeller bool   `yaml:"best_seller"`
	New        bool   `yaml:"new"`
}

// Overlay maps Printful product ids to merchandising entries.
type Overlay struct {
	Categories []string         `yaml:"categories"`
	Products   map[string]Entry `yaml:"products"`
}

// Default mirrors the category list the storefront shipped with.
func Default() *Overlay {
	return &Overlay{
		Categories: []string{"T-Shirts", "Hats", "Accessories"},
		Products:   map[string]Entry{},
	}
}

// Load reads an overlay from path. A missing file yields Default.
func Load(path string) (*Overlay, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		slog.Warn("merchandising file not found, using defaults", "path", path)
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read merchandising file: %w", err)
	}

	return Parse(data)
}

func Parse(data []byte) (*Overlay, error) {
	overlay := Default()
	if err := yaml.Unmarshal(data, overlay); err != nil {
		return nil, fmt.Errorf("parse merchandising file: %w", err)
	}
	if overlay.Products == nil {
		overlay.Products = map[string]Entry{}
	}
	return overlay, nil
}

// Lookup is safe on a nil overlay.
func (o *Overlay) Lookup(productID string) Entry {
	if o == nil {
		return Entry{}
	}
	return o.Products[productID]
}

// FilterOptions returns the category choices for the catalog filter, "All" first.
func (o *Overlay) FilterOptions() []string {
	options := []string{AllCategories}
	if o == nil {
		return options
	}
	return append(options, o.Categories...)
}
