package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"storefront/internal/cart"
	"storefront/internal/catalog"
	"storefront/internal/model"

	"github.com/rs/zerolog"
)

// CartHandler serves cart reads and mutations.
type CartHandler struct {
	store   *cart.Store
	catalog *catalog.Catalog
	logger  zerolog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(store *cart.Store, cat *catalog.Catalog, logger zerolog.Logger) *CartHandler {
	return &CartHandler{
		store:   store,
		catalog: cat,
		logger:  logger.With().Str("handler", "cart").Logger(),
	}
}

// AddItemRequest is the payload for adding a product to the cart.
type AddItemRequest struct {
	ProductID int64 `json:"productId"`
}

// UpdateQuantityRequest is the payload for setting a line's quantity.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// Get handles GET /api/cart requests.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.store.Summary(), h.logger)
}

// AddItem handles POST /api/cart/items requests. The product id is resolved
// against the catalogue so the line captures the product fields as they are
// right now.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	product := h.catalog.ProductByID(req.ProductID)
	if product == nil {
		writeError(w, http.StatusNotFound, model.ErrCodeProductNotFound, model.ErrProductNotFound.Error(), h.logger)
		return
	}

	h.store.AddToCart(*product)

	writeJSON(w, http.StatusCreated, h.store.Summary(), h.logger)
}

// UpdateQuantity handles PUT /api/cart/items/{id} requests. The quantity is
// an absolute set; zero or less removes the line.
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	id, ok := h.itemID(w, r)
	if !ok {
		return
	}

	var req UpdateQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", h.logger)
		return
	}

	h.store.UpdateQuantity(id, req.Quantity)

	writeJSON(w, http.StatusOK, h.store.Summary(), h.logger)
}

// RemoveItem handles DELETE /api/cart/items/{id} requests.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id, ok := h.itemID(w, r)
	if !ok {
		return
	}

	h.store.RemoveItem(id)

	writeJSON(w, http.StatusOK, h.store.Summary(), h.logger)
}

// Clear handles DELETE /api/cart requests.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	h.store.ClearCart()

	writeJSON(w, http.StatusOK, h.store.Summary(), h.logger)
}

// itemID extracts the product id from /api/cart/items/{id}.
func (h *CartHandler) itemID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	path := r.URL.Path
	if len(path) <= len("/api/cart/items/") {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidRequest, "item ID is required", h.logger)
		return 0, false
	}
	idStr := path[len("/api/cart/items/"):]

	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidRequest, "invalid item ID format", h.logger)
		return 0, false
	}

	return id, true
}
