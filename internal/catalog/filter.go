package catalog

import (
	"strings"

	"storefront/internal/model"
)

// CategoryAll is the sentinel category matching every product.
const CategoryAll = "all"

// FilterState is the current category, price range, and search selection.
// It is ephemeral; only the URL query string carries it between sessions.
type FilterState struct {
	Category string  `json:"category"`
	PriceMin float64 `json:"priceMin"`
	PriceMax float64 `json:"priceMax"`
	Search   string  `json:"search"`
}

// DefaultFilter returns the filter state that selects the whole catalogue.
func (c *Catalog) DefaultFilter() FilterState {
	return FilterState{
		Category: CategoryAll,
		PriceMin: 0,
		PriceMax: c.maxPrice,
	}
}

// Visible returns the products passing all three filter predicates, in input
// order. It is a pure function: neither argument is modified.
func Visible(products []model.Product, f FilterState) []model.Product {
	search := strings.ToLower(strings.TrimSpace(f.Search))

	visible := make([]model.Product, 0, len(products))
	for _, p := range products {
		if f.Category != CategoryAll && p.Category != f.Category {
			continue
		}

		if p.Price < f.PriceMin || p.Price > f.PriceMax {
			continue
		}

		if search != "" && !strings.Contains(strings.ToLower(p.Title), search) {
			continue
		}

		visible = append(visible, p)
	}

	return visible
}
