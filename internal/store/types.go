package store

import "time"

// CatalogImport is a complete catalog in the flat form it is written in.
// Categories must be listed parents first.
type CatalogImport struct {
	Categories   []CategoryRow
	Assets       []AssetRow
	Reservations []ReservationRow
}

// CategoryRow is one category of an import.
type CategoryRow struct {
	ID       int64
	ParentID *int64
	Name     string
	Position int
}

// AssetRow is one asset of an import. The manufacturer is referenced by name.
type AssetRow struct {
	ID               int64
	ModelName        string
	ModelNumber      string
	ManufacturerName string
	CategoryID       *int64
	SmallImagePath   string
	LargeImagePath   string
	Archived         bool
}

// ReservationRow is one reservation of an import.
type ReservationRow struct {
	AssetID  int64
	User     string
	StartsAt time.Time
	EndsAt   time.Time
}

// ImportResult counts the rows written by UpsertCatalog.
type ImportResult struct {
	Manufacturers int `json:"manufacturers"`
	Categories    int `json:"categories"`
	Assets        int `json:"assets"`
	Reservations  int `json:"reservations"`
}
