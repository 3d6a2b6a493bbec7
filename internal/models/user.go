package models

import "time"

// User mirrors the identity provider's principal records. Only the fields the
// engine reads (names for reports, role and home location) are kept.
type User struct {
	ID         string  `gorm:"type:uuid;primaryKey" json:"id"`
	LocationID *string `gorm:"type:uuid" json:"locationId"`

	Name     string `gorm:"size:100;not null" json:"name"`
	Email    string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Phone    string `gorm:"size:20" json:"phone"`
	Role     string `gorm:"size:20;default:'client'" json:"role"`
	IsActive bool   `gorm:"default:true" json:"isActive"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
