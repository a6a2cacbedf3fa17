package catalog

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFilterState(t *testing.T) {
	cat := New(testProducts, 1000) // max price 45

	tests := []struct {
		name     string
		query    string
		expected FilterState
	}{
		{
			name:     "No parameters yields defaults",
			query:    "",
			expected: FilterState{Category: CategoryAll, PriceMin: 0, PriceMax: 45},
		},
		{
			name:     "Known category applied",
			query:    "category=home",
			expected: FilterState{Category: "home", PriceMin: 0, PriceMax: 45},
		},
		{
			name:     "Explicit all category applied",
			query:    "category=all",
			expected: FilterState{Category: CategoryAll, PriceMin: 0, PriceMax: 45},
		},
		{
			name:     "Unknown category silently ignored",
			query:    "category=electronics",
			expected: FilterState{Category: CategoryAll, PriceMin: 0, PriceMax: 45},
		},
		{
			name:     "Valid price range applied",
			query:    "price=10-30",
			expected: FilterState{Category: CategoryAll, PriceMin: 10, PriceMax: 30},
		},
		{
			name:     "Fractional price range applied",
			query:    "price=9.5-30.25",
			expected: FilterState{Category: CategoryAll, PriceMin: 9.5, PriceMax: 30.25},
		},
		{
			name:     "Price missing max ignored entirely",
			query:    "price=10-",
			expected: FilterState{Category: CategoryAll, PriceMin: 0, PriceMax: 45},
		},
		{
			name:     "Price missing separator ignored entirely",
			query:    "price=10",
			expected: FilterState{Category: CategoryAll, PriceMin: 0, PriceMax: 45},
		},
		{
			name:     "Non-numeric price half rejects the whole parameter",
			query:    "price=abc-30",
			expected: FilterState{Category: CategoryAll, PriceMin: 0, PriceMax: 45},
		},
		{
			name:     "Search applied verbatim",
			query:    "search=red+shirt",
			expected: FilterState{Category: CategoryAll, PriceMin: 0, PriceMax: 45, Search: "red shirt"},
		},
		{
			name:     "All parameters together",
			query:    "category=clothing&price=5-40&search=shirt",
			expected: FilterState{Category: "clothing", PriceMin: 5, PriceMax: 40, Search: "shirt"},
		},
		{
			name:     "Invalid price does not disturb other parameters",
			query:    "category=home&price=oops&search=mug",
			expected: FilterState{Category: "home", PriceMin: 0, PriceMax: 45, Search: "mug"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, err := url.ParseQuery(tt.query)
			require.NoError(t, err)

			assert.Equal(t, tt.expected, cat.ParseFilterState(values))
		})
	}
}

func TestQueryValues_OmitsDefaults(t *testing.T) {
	cat := New(testProducts, 1000)

	values := cat.QueryValues(cat.DefaultFilter())

	assert.Empty(t, values)
	assert.Equal(t, "", cat.QueryString(cat.DefaultFilter()))
}

func TestQueryValues(t *testing.T) {
	cat := New(testProducts, 1000) // max price 45

	tests := []struct {
		name     string
		filter   FilterState
		expected string
	}{
		{
			name:     "Category only",
			filter:   FilterState{Category: "home", PriceMin: 0, PriceMax: 45},
			expected: "category=home",
		},
		{
			name:     "Narrowed price range",
			filter:   FilterState{Category: CategoryAll, PriceMin: 10, PriceMax: 30},
			expected: "price=10-30",
		},
		{
			name:     "Raised minimum alone is not the default",
			filter:   FilterState{Category: CategoryAll, PriceMin: 5, PriceMax: 45},
			expected: "price=5-45",
		},
		{
			name:     "Search trimmed before encoding",
			filter:   FilterState{Category: CategoryAll, PriceMin: 0, PriceMax: 45, Search: "  mug "},
			expected: "search=mug",
		},
		{
			name:     "Whitespace-only search omitted",
			filter:   FilterState{Category: CategoryAll, PriceMin: 0, PriceMax: 45, Search: "   "},
			expected: "",
		},
		{
			name:     "All parameters",
			filter:   FilterState{Category: "clothing", PriceMin: 5, PriceMax: 40, Search: "shirt"},
			expected: "category=clothing&price=5-40&search=shirt",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, cat.QueryValues(tt.filter).Encode())
		})
	}
}

func TestURLStateRoundTrip(t *testing.T) {
	cat := New(testProducts, 1000)

	f := cat.DefaultFilter()
	f.Category = "home"

	query := cat.QueryString(f)
	assert.Equal(t, "?category=home", query)

	values, err := url.ParseQuery(query[1:])
	require.NoError(t, err)

	assert.Equal(t, f, cat.ParseFilterState(values))
}
