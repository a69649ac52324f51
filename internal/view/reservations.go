package view

import (
	"context"
	"log/slog"
	"time"

	"parm-catalog/internal/catalog"
)

const (
	// NoReservationsMessage is shown when the panel has nothing to list.
	NoReservationsMessage = "no current reservations"
	reservationsTitle     = "Reservations"
)

// ReservationSource supplies the reservations of one asset.
type ReservationSource interface {
	FetchReservations(ctx context.Context, assetID int64) ([]catalog.Reservation, error)
}

// ReservationEntry is one line of the reservation list.
type ReservationEntry struct {
	User       string    `json:"user"`
	Start      time.Time `json:"start"`
	End        time.Time `json:"end"`
	StartDay   int       `json:"start_day"`
	StartMonth string    `json:"start_month"`
	EndDay     int       `json:"end_day"`
	EndMonth   string    `json:"end_month"`
}

// ReservationList is the content of the reservation panel.
type ReservationList struct {
	Empty   bool               `json:"empty"`
	Title   string             `json:"title,omitempty"`
	Message string             `json:"message,omitempty"`
	Entries []ReservationEntry `json:"entries,omitempty"`
}

// ReservationPanel reloads reservations whenever its trigger changes.
//
// The trigger is an opaque counter owned by the caller: 0 means nothing is
// selected, and any value different from the previous one asks for a reload
// even when the asset is the same. ReservationPanel is not safe for concurrent
// use; its owner serializes calls.
type ReservationPanel struct {
	source ReservationSource
	logger *slog.Logger

	trigger      uint64
	reservations []catalog.Reservation
}

// NewReservationPanel creates a panel reading from source. A nil source always
// yields the empty list.
func NewReservationPanel(source ReservationSource, logger *slog.Logger) *ReservationPanel {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReservationPanel{source: source, logger: logger}
}

// Sync brings the panel in line with trigger. It reports whether the panel
// content was replaced.
func (p *ReservationPanel) Sync(ctx context.Context, trigger uint64, assetID int64) bool {
	if trigger == p.trigger {
		return false
	}
	p.trigger = trigger
	p.reservations = nil

	if trigger == 0 || p.source == nil {
		return true
	}

	reservations, err := p.source.FetchReservations(ctx, assetID)
	if err != nil {
		p.logger.Error("failed to fetch reservations", "asset_id", assetID, "error", err)
		return true
	}
	p.reservations = reservations
	return true
}

// Trigger returns the last trigger value the panel was synced to.
func (p *ReservationPanel) Trigger() uint64 {
	return p.trigger
}

// View renders the current reservations in the order received. Days and
// months are those of the UTC date, whatever zone the source returned.
func (p *ReservationPanel) View() ReservationList {
	if len(p.reservations) == 0 {
		return ReservationList{Empty: true, Message: NoReservationsMessage}
	}

	entries := make([]ReservationEntry, 0, len(p.reservations))
	for _, r := range p.reservations {
		start, end := r.StartDate.UTC(), r.EndDate.UTC()
		entries = append(entries, ReservationEntry{
			User:       r.User,
			Start:      start,
			End:        end,
			StartDay:   start.Day(),
			StartMonth: start.Format("Jan"),
			EndDay:     end.Day(),
			EndMonth:   end.Format("Jan"),
		})
	}
	return ReservationList{Title: reservationsTitle, Entries: entries}
}
