package dto

import (
	"time"

	"github.com/BruksfildServices01/barbershop-engine/internal/models"
)

// AppointmentListDTO is the list projection: the appointment plus the names
// a calendar needs, without nested records.
type AppointmentListDTO struct {
	ID              string     `json:"id"`
	LocationID      string     `json:"locationId"`
	StartAt         time.Time  `json:"startAt"`
	EndAt           time.Time  `json:"endAt"`
	Status          string     `json:"status"`
	PaymentStatus   string     `json:"paymentStatus"`
	TotalCents      int64      `json:"totalCents"`
	DiscountCents   int64      `json:"discountCents"`
	RefundCents     int64      `json:"refundCents"`
	ClientID        string     `json:"clientId"`
	ClientName      string     `json:"clientName"`
	BarberID        string     `json:"barberId"`
	BarberName      string     `json:"barberName"`
	ServiceID       string     `json:"serviceId"`
	ServiceName     string     `json:"serviceName"`
	Notes           string     `json:"notes"`
	PaymentIntentID *string    `json:"paymentIntentId"`
	CreatedBy       string     `json:"createdBy"`
	CreatedAt       time.Time  `json:"createdAt"`
	CancelledAt     *time.Time `json:"cancelledAt"`
	RefundedAt      *time.Time `json:"refundedAt"`
	RefundedBy      *string    `json:"refundedBy"`
}

func FromAppointment(ap *models.Appointment) AppointmentListDTO {
	out := AppointmentListDTO{
		ID:              ap.ID,
		LocationID:      ap.LocationID,
		StartAt:         ap.StartAt,
		EndAt:           ap.EndAt,
		Status:          ap.Status,
		PaymentStatus:   ap.PaymentStatus,
		TotalCents:      ap.TotalCents,
		DiscountCents:   ap.DiscountCents,
		RefundCents:     ap.RefundCents,
		ClientID:        ap.ClientID,
		BarberID:        ap.BarberID,
		ServiceID:       ap.ServiceID,
		Notes:           ap.Notes,
		PaymentIntentID: ap.PaymentIntentID,
		CreatedBy:       ap.CreatedBy,
		CreatedAt:       ap.CreatedAt,
		CancelledAt:     ap.CancelledAt,
		RefundedAt:      ap.RefundedAt,
		RefundedBy:      ap.RefundedBy,
	}
	if ap.Client != nil {
		out.ClientName = ap.Client.Name
	}
	if ap.Barber != nil {
		out.BarberName = ap.Barber.Name
	}
	if ap.Service != nil {
		out.ServiceName = ap.Service.Name
	}
	return out
}

func FromAppointments(aps []models.Appointment) []AppointmentListDTO {
	out := make([]AppointmentListDTO, 0, len(aps))
	for i := range aps {
		out = append(out, FromAppointment(&aps[i]))
	}
	return out
}
