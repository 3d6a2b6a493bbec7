package appointment

import (
	"context"
	"time"

	"github.com/BruksfildServices01/barbershop-engine/internal/models"
)

// Catalog is the read side of the service/location catalog.
type Catalog interface {
	GetService(ctx context.Context, id string) (*models.Service, error)
	GetLocation(ctx context.Context, id string) (*models.Location, error)
}

// ListFilter narrows appointment listings. Empty fields are ignored; the
// window is half-open on startAt.
type ListFilter struct {
	LocationID string
	ClientID   string
	BarberID   string
	From       *time.Time
	To         *time.Time
	ActiveOnly bool
	Statuses   []Status
}

type Repository interface {
	Catalog

	// -------- Slot resolution --------
	// GetScheduleSlot returns nil, nil when the barber has no slot that day.
	GetScheduleSlot(
		ctx context.Context,
		userID string,
		locationID string,
		dayOfWeek int,
	) (*models.ScheduleSlot, error)

	// ListActiveForBarber returns the barber's active appointments
	// overlapping [from, to) at any location.
	ListActiveForBarber(
		ctx context.Context,
		barberID string,
		from time.Time,
		to time.Time,
	) ([]models.Appointment, error)

	// -------- Appointment --------
	// CreateAppointment re-checks the barber's interval inside the insert
	// transaction and fails with a double_booked conflict if it is taken.
	CreateAppointment(ctx context.Context, ap *models.Appointment) error

	GetAppointment(ctx context.Context, id string) (*models.Appointment, error)

	FindByPaymentIntent(ctx context.Context, intentID string) (*models.Appointment, error)

	// MutateAppointment loads the appointment under a per-row lock, runs fn
	// and persists the result only if fn returns nil.
	MutateAppointment(
		ctx context.Context,
		id string,
		fn func(ap *models.Appointment) error,
	) (*models.Appointment, error)

	// ListAppointments returns matches ordered by startAt ascending with
	// client, barber and service preloaded.
	ListAppointments(ctx context.Context, f ListFilter) ([]models.Appointment, error)
}

type ScheduleRepository interface {
	UpsertScheduleSlot(ctx context.Context, slot *models.ScheduleSlot) error
	ListScheduleSlots(ctx context.Context, userID, locationID string) ([]models.ScheduleSlot, error)
}
