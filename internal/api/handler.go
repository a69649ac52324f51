package api

import (
	"log/slog"

	"parm-catalog/internal/catalog"
	"parm-catalog/internal/store"
	"parm-catalog/internal/view"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store        store.Store
	catalog      *catalog.Catalog
	images       catalog.ImageResolver
	reservations view.ReservationSource
	descendants  bool
	logger       *slog.Logger
}

// NewHandler creates a new API handler. The catalog is shared read-only by
// all requests.
func NewHandler(s store.Store, cat *catalog.Catalog, images catalog.ImageResolver, reservations view.ReservationSource, descendants bool, logger *slog.Logger) *Handler {
	if cat == nil {
		cat = catalog.New(nil, nil)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		store:        s,
		catalog:      cat,
		images:       images,
		reservations: reservations,
		descendants:  descendants,
		logger:       logger,
	}
}
