package models

import "time"

// Appointment is the unit of transactional consistency: status, payment
// status and money fields are always written together.
type Appointment struct {
	ID string `gorm:"type:uuid;primaryKey" json:"id"`

	LocationID string    `gorm:"type:uuid;not null;index" json:"locationId"`
	Location   *Location `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"location,omitempty"`

	ClientID string `gorm:"type:uuid;not null;index" json:"clientId"`
	Client   *User  `gorm:"foreignKey:ClientID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"client,omitempty"`

	BarberID string `gorm:"type:uuid;not null;index:idx_appointments_barber_start" json:"barberId"`
	Barber   *User  `gorm:"foreignKey:BarberID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"barber,omitempty"`

	ServiceID string   `gorm:"type:uuid;not null" json:"serviceId"`
	Service   *Service `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;" json:"service,omitempty"`

	StartAt time.Time `gorm:"not null;index:idx_appointments_barber_start" json:"startAt"`
	EndAt   time.Time `gorm:"not null" json:"endAt"`

	Status        string `gorm:"size:20;not null;default:'pending';index" json:"status"`
	PaymentStatus string `gorm:"size:20;not null;default:'unpaid'" json:"paymentStatus"`

	TotalCents    int64 `gorm:"not null" json:"totalCents"`
	DiscountCents int64 `gorm:"not null;default:0" json:"discountCents"`
	RefundCents   int64 `gorm:"not null;default:0" json:"refundCents"`

	RefundedBy *string    `gorm:"type:uuid" json:"refundedBy"`
	RefundedAt *time.Time `json:"refundedAt"`

	Notes string `gorm:"type:text" json:"notes"`

	PaymentIntentID *string `gorm:"size:100;uniqueIndex" json:"paymentIntentId"`

	// CreatedBy is the principal that placed the booking; it can differ from
	// ClientID when staff books on behalf of a client.
	CreatedBy string `gorm:"type:uuid" json:"createdBy"`

	CancelledAt *time.Time `json:"cancelledAt"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// EffectiveCents is the amount actually charged after discounts.
func (a *Appointment) EffectiveCents() int64 {
	return a.TotalCents - a.DiscountCents
}
