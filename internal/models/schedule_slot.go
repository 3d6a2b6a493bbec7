package models

import "time"

// ScheduleSlot is a barber's weekly window at a location. The triple
// (user, location, day) is unique; writes upsert in place.
type ScheduleSlot struct {
	ID string `gorm:"type:uuid;primaryKey" json:"id"`

	UserID     string `gorm:"type:uuid;not null;uniqueIndex:idx_schedule_slot_key" json:"userId"`
	LocationID string `gorm:"type:uuid;not null;uniqueIndex:idx_schedule_slot_key" json:"locationId"`
	DayOfWeek  int    `gorm:"not null;uniqueIndex:idx_schedule_slot_key" json:"dayOfWeek"`

	StartTime   string `gorm:"size:5;not null" json:"startTime"`
	EndTime     string `gorm:"size:5;not null" json:"endTime"`
	IsAvailable bool   `gorm:"not null;default:true" json:"isAvailable"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
