package handler

import (
	"net/http"

	"storefront/internal/model"
	"storefront/internal/notify"

	"github.com/rs/zerolog"
)

// NotificationHandler serves the recent notification feed.
type NotificationHandler struct {
	feed   *notify.Feed
	logger zerolog.Logger
}

// NewNotificationHandler creates a new notification handler.
func NewNotificationHandler(feed *notify.Feed, logger zerolog.Logger) *NotificationHandler {
	return &NotificationHandler{
		feed:   feed,
		logger: logger.With().Str("handler", "notification").Logger(),
	}
}

// List handles GET /api/notifications requests, newest first.
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, model.ErrCodeMethodNotAllowed, "method not allowed", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, h.feed.Recent(), h.logger)
}
