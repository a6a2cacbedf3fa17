package handler

import (
	"net/http"
	"strconv"

	"storefront/internal/catalog"
	"storefront/internal/model"

	"github.com/rs/zerolog"
)

// ProductHandler serves product listings and detail views.
type ProductHandler struct {
	catalog *catalog.Catalog
	client  *catalog.Client
	logger  zerolog.Logger
}

// NewProductHandler creates a new product handler.
func NewProductHandler(cat *catalog.Catalog, client *catalog.Client, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		catalog: cat,
		client:  client,
		logger:  logger.With().Str("handler", "product").Logger(),
	}
}

// ListingResponse is the payload for a filtered product listing. Query is the
// canonical query string for the active filter state, usable as a share link.
type ListingResponse struct {
	Products   []model.Product `json:"products"`
	Total      int             `json:"total"`
	Categories []string        `json:"categories"`
	MaxPrice   float64         `json:"maxPrice"`
	Query      string          `json:"query,omitempty"`
}

// List handles GET /api/products requests. The category, price, and search
// query parameters select the visible subset; anything invalid falls back to
// the default selection.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, model.ErrCodeMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	filter := h.catalog.ParseFilterState(r.URL.Query())
	visible := catalog.Visible(h.catalog.Products(), filter)

	h.logger.Debug().
		Str("category", filter.Category).
		Float64("price_min", filter.PriceMin).
		Float64("price_max", filter.PriceMax).
		Str("search", filter.Search).
		Int("visible", len(visible)).
		Msg("product listing derived")

	writeJSON(w, http.StatusOK, ListingResponse{
		Products:   visible,
		Total:      len(visible),
		Categories: h.catalog.Categories(),
		MaxPrice:   h.catalog.MaxPrice(),
		Query:      h.catalog.QueryString(filter),
	}, h.logger)
}

// GetByID handles GET /api/products/{id} requests. The remote catalogue is
// asked first for the freshest record; if that fails the in-memory list
// answers, and an unknown id is a plain not-found, never a failure.
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, model.ErrCodeMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	// Expecting path: /api/products/{id}
	path := r.URL.Path
	if len(path) <= len("/api/products/") {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidRequest, "product ID is required", h.logger)
		return
	}
	idStr := path[len("/api/products/"):]

	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidRequest, "invalid product ID format", h.logger)
		return
	}

	product, err := h.client.FetchProduct(r.Context(), id)
	if err != nil {
		h.logger.Warn().Err(err).Int64("product_id", id).Msg("remote product fetch failed, using in-memory catalog")
		product = h.catalog.ProductByID(id)
	}

	if product == nil {
		writeError(w, http.StatusNotFound, model.ErrCodeProductNotFound, model.ErrProductNotFound.Error(), h.logger)
		return
	}

	writeJSON(w, http.StatusOK, product, h.logger)
}
