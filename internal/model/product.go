package model

// Product represents a single catalogue entry as supplied by the remote
// product API. Products are read-only: nothing in this service mutates one.
type Product struct {
	ID                 int64   `json:"id"`
	Title              string  `json:"title"`
	Category           string  `json:"category"`
	Price              float64 `json:"price"`
	Thumbnail          string  `json:"thumbnail,omitempty"`
	Rating             float64 `json:"rating,omitempty"`
	DiscountPercentage float64 `json:"discountPercentage,omitempty"`
	Stock              int     `json:"stock,omitempty"`
}
