package catalog

import (
	"net/url"
	"strconv"
	"strings"
)

// Query parameter names forming the shareable-link contract.
const (
	paramCategory = "category"
	paramPrice    = "price"
	paramSearch   = "search"
)

// ParseFilterState reads filter state from URL query parameters, starting
// from the catalogue's defaults. Invalid parameters are ignored, never
// partially applied: an unknown category leaves the default selection, and a
// price range is rejected unless both halves of "<min>-<max>" parse.
func (c *Catalog) ParseFilterState(values url.Values) FilterState {
	f := c.DefaultFilter()

	if category := values.Get(paramCategory); category != "" {
		if category == CategoryAll || c.HasCategory(category) {
			f.Category = category
		}
	}

	if price := values.Get(paramPrice); price != "" {
		if minPart, maxPart, ok := strings.Cut(price, "-"); ok {
			minVal, errMin := strconv.ParseFloat(minPart, 64)
			maxVal, errMax := strconv.ParseFloat(maxPart, 64)
			if errMin == nil && errMax == nil {
				f.PriceMin = minVal
				f.PriceMax = maxVal
			}
		}
	}

	if search := values.Get(paramSearch); search != "" {
		f.Search = search
	}

	return f
}

// QueryValues encodes the filter state as URL query parameters. Parameters
// equal to their defaults are omitted so a default view keeps a clean URL.
func (c *Catalog) QueryValues(f FilterState) url.Values {
	values := url.Values{}

	if f.Category != CategoryAll {
		values.Set(paramCategory, f.Category)
	}

	if f.PriceMin != 0 || f.PriceMax != c.maxPrice {
		values.Set(paramPrice, formatPrice(f.PriceMin)+"-"+formatPrice(f.PriceMax))
	}

	if search := strings.TrimSpace(f.Search); search != "" {
		values.Set(paramSearch, search)
	}

	return values
}

// QueryString renders the filter state as a query string including the
// leading "?", or "" for the default state.
func (c *Catalog) QueryString(f FilterState) string {
	values := c.QueryValues(f)
	if len(values) == 0 {
		return ""
	}
	return "?" + values.Encode()
}

func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
