package model

import "time"

// Category is one node of the asset category hierarchy.
type Category struct {
	ID               int64     `gorm:"primaryKey;autoIncrement:false"`
	ParentCategoryID *int64    `gorm:"index"`
	Name             string    `gorm:"size:256;not null"`
	Position         int       `gorm:"not null;default:0"` // Order among siblings
	CreatedAt        time.Time `gorm:"not null"`
	UpdatedAt        time.Time `gorm:"not null"`

	// Associations
	Parent   *Category  `gorm:"foreignKey:ParentCategoryID;constraint:OnDelete:SET NULL"`
	Children []Category `gorm:"foreignKey:ParentCategoryID"`
}
