package model

// CartLine is one product in the cart plus its quantity. The product fields
// are copied at add time, so the line keeps the unit price the customer saw
// even if the catalogue price changes later.
type CartLine struct {
	Product
	Quantity int `json:"quantity"`
}

// Subtotal returns the line total using the stored unit price.
func (l CartLine) Subtotal() float64 {
	return l.Price * float64(l.Quantity)
}

// CartState is the full persisted cart: an ordered list of lines, at most one
// per product ID, every line with quantity >= 1. Insertion order is preserved
// for display only.
type CartState struct {
	Lines []CartLine `json:"lines"`
}

// CartSummary is the response payload for cart reads.
type CartSummary struct {
	Lines      []CartLine `json:"lines"`
	TotalItems int        `json:"totalItems"`
	TotalPrice float64    `json:"totalPrice"`
}
