package model

import "time"

// Manufacturer is the maker of an asset, unique by name.
type Manufacturer struct {
	ID        int64     `gorm:"primaryKey"`
	Name      string    `gorm:"uniqueIndex;size:256;not null"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// Asset is one piece of equipment in the catalog.
type Asset struct {
	ID             int64  `gorm:"primaryKey;autoIncrement:false"`
	ManufacturerID *int64 `gorm:"index"`
	ModelName      string `gorm:"size:256;not null"`
	ModelNumber    string `gorm:"size:128"`
	CategoryID     *int64 `gorm:"index"`
	SmallImagePath string `gorm:"size:1024"`
	LargeImagePath string `gorm:"size:1024"`
	IsArchived     bool   `gorm:"not null;default:false"`
	CreatedAt      time.Time
	UpdatedAt      time.Time

	// Associations
	Manufacturer *Manufacturer `gorm:"constraint:OnDelete:SET NULL"`
	Category     *Category     `gorm:"constraint:OnDelete:SET NULL"`
}
