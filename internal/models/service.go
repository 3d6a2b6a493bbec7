package models

import "time"

// Service is owned by the catalog. LocationID nil means offered everywhere.
type Service struct {
	ID         string  `gorm:"type:uuid;primaryKey" json:"id"`
	LocationID *string `gorm:"type:uuid;index" json:"locationId"`

	Name            string `gorm:"size:100;not null" json:"name"`
	Category        string `gorm:"size:50" json:"category"`
	DurationMinutes int    `gorm:"not null" json:"durationMinutes"`
	PriceCents      int64  `gorm:"not null" json:"priceCents"`
	IsActive        bool   `gorm:"default:true" json:"isActive"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
