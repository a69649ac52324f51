package model

import "time"

// Reservation books an asset for a person over a period.
type Reservation struct {
	ID          int64     `gorm:"primaryKey"`
	AssetID     int64     `gorm:"index;not null"`
	ReservedFor string    `gorm:"size:256;not null"`
	StartsAt    time.Time `gorm:"not null"`
	EndsAt      time.Time `gorm:"not null"`
	CreatedAt   time.Time `gorm:"not null"`

	// Associations
	Asset Asset `gorm:"constraint:OnDelete:CASCADE"`
}
