// Package reservation provides the reservation lists shown for a selected
// asset.
package reservation

import (
	"context"

	"parm-catalog/internal/catalog"
	"parm-catalog/internal/store"
)

// StoreSource reads reservations from the database.
type StoreSource struct {
	store store.Store
}

// NewStoreSource creates a source backed by s.
func NewStoreSource(s store.Store) *StoreSource {
	return &StoreSource{store: s}
}

// FetchReservations returns the stored reservations of an asset, earliest
// first.
func (s *StoreSource) FetchReservations(ctx context.Context, assetID int64) ([]catalog.Reservation, error) {
	rows, err := s.store.Reservations(ctx, assetID)
	if err != nil {
		return nil, err
	}
	out := make([]catalog.Reservation, 0, len(rows))
	for _, r := range rows {
		out = append(out, catalog.Reservation{
			User:      r.ReservedFor,
			StartDate: r.StartsAt,
			EndDate:   r.EndsAt,
		})
	}
	return out, nil
}
