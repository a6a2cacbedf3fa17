package catalog

import (
	"storefront/internal/model"
)

// Catalog is the immutable product list plus the metadata derived from it:
// the set of observed categories and the price range ceiling.
type Catalog struct {
	products    []model.Product
	categories  []string
	categorySet map[string]struct{}
	maxPrice    float64
}

// New builds a catalog from the supplied products. fallbackMaxPrice is used
// as the price ceiling when the list is empty.
func New(products []model.Product, fallbackMaxPrice float64) *Catalog {
	c := &Catalog{
		products:    append([]model.Product(nil), products...),
		categorySet: make(map[string]struct{}),
		maxPrice:    fallbackMaxPrice,
	}

	for _, p := range products {
		if _, seen := c.categorySet[p.Category]; !seen {
			c.categorySet[p.Category] = struct{}{}
			c.categories = append(c.categories, p.Category)
		}
	}

	if len(products) > 0 {
		c.maxPrice = products[0].Price
		for _, p := range products[1:] {
			if p.Price > c.maxPrice {
				c.maxPrice = p.Price
			}
		}
	}

	return c
}

// Products returns the full product list in catalogue order.
func (c *Catalog) Products() []model.Product {
	return append([]model.Product(nil), c.products...)
}

// ProductByID returns the product with the given ID, or nil.
func (c *Catalog) ProductByID(id int64) *model.Product {
	for i := range c.products {
		if c.products[i].ID == id {
			p := c.products[i]
			return &p
		}
	}
	return nil
}

// Categories returns the distinct category values, in order of first
// appearance.
func (c *Catalog) Categories() []string {
	return append([]string(nil), c.categories...)
}

// HasCategory reports whether value is an observed category.
func (c *Catalog) HasCategory(value string) bool {
	_, ok := c.categorySet[value]
	return ok
}

// MaxPrice returns the highest product price, or the fallback ceiling for an
// empty catalogue.
func (c *Catalog) MaxPrice() float64 {
	return c.maxPrice
}

// Len returns the number of products.
func (c *Catalog) Len() int {
	return len(c.products)
}
