package catalog

import (
	"testing"

	"storefront/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVisible_DefaultFilterReturnsInputUnchanged(t *testing.T) {
	cat := New(testProducts, 1000)

	visible := Visible(testProducts, cat.DefaultFilter())

	assert.Equal(t, testProducts, visible)
}

func TestVisible(t *testing.T) {
	products := []model.Product{
		{ID: 1, Title: "Red Shirt", Category: "clothing", Price: 20},
		{ID: 2, Title: "Blue Mug", Category: "home", Price: 10},
	}

	tests := []struct {
		name        string
		filter      FilterState
		expectedIDs []int64
	}{
		{
			name:        "Price ceiling excludes the shirt",
			filter:      FilterState{Category: CategoryAll, PriceMin: 0, PriceMax: 15},
			expectedIDs: []int64{2},
		},
		{
			name:        "Search matches case-insensitively",
			filter:      FilterState{Category: CategoryAll, PriceMin: 0, PriceMax: 100, Search: "red"},
			expectedIDs: []int64{1},
		},
		{
			name:        "Category match is exact",
			filter:      FilterState{Category: "home", PriceMin: 0, PriceMax: 100},
			expectedIDs: []int64{2},
		},
		{
			name:        "Category match is case-sensitive",
			filter:      FilterState{Category: "Home", PriceMin: 0, PriceMax: 100},
			expectedIDs: []int64{},
		},
		{
			name:        "Price bounds are inclusive on both ends",
			filter:      FilterState{Category: CategoryAll, PriceMin: 10, PriceMax: 20},
			expectedIDs: []int64{1, 2},
		},
		{
			name:        "Search text is trimmed before matching",
			filter:      FilterState{Category: CategoryAll, PriceMin: 0, PriceMax: 100, Search: "  red  "},
			expectedIDs: []int64{1},
		},
		{
			name:        "Whitespace-only search matches everything",
			filter:      FilterState{Category: CategoryAll, PriceMin: 0, PriceMax: 100, Search: "   "},
			expectedIDs: []int64{1, 2},
		},
		{
			name:        "All predicates combine with AND",
			filter:      FilterState{Category: "clothing", PriceMin: 0, PriceMax: 15, Search: "red"},
			expectedIDs: []int64{},
		},
		{
			name:        "No match",
			filter:      FilterState{Category: CategoryAll, PriceMin: 0, PriceMax: 100, Search: "teapot"},
			expectedIDs: []int64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			visible := Visible(products, tt.filter)

			ids := make([]int64, 0, len(visible))
			for _, p := range visible {
				ids = append(ids, p.ID)
			}
			assert.Equal(t, tt.expectedIDs, ids)
		})
	}
}

func TestVisible_PreservesInputOrder(t *testing.T) {
	cat := New(testProducts, 1000)

	f := cat.DefaultFilter()
	f.Category = "clothing"

	visible := Visible(testProducts, f)
	require.Len(t, visible, 2)
	assert.Equal(t, int64(1), visible[0].ID)
	assert.Equal(t, int64(3), visible[1].ID)
}

func TestVisible_DoesNotModifyInput(t *testing.T) {
	products := append([]model.Product(nil), testProducts...)

	Visible(products, FilterState{Category: "home", PriceMin: 0, PriceMax: 100})

	assert.Equal(t, testProducts, products)
}

func TestVisible_EmptyInput(t *testing.T) {
	visible := Visible(nil, FilterState{Category: CategoryAll, PriceMin: 0, PriceMax: 100})

	assert.Empty(t, visible)
}
