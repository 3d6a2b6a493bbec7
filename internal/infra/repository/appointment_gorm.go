package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/BruksfildServices01/barbershop-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/barbershop-engine/internal/httperr"
	"github.com/BruksfildServices01/barbershop-engine/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

// --------------------------------------------------
// Catalog
// --------------------------------------------------

func (r *AppointmentGormRepository) GetService(ctx context.Context, id string) (*models.Service, error) {
	var svc models.Service
	if err := r.db.WithContext(ctx).First(&svc, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "service_not_found")
	}
	return &svc, nil
}

func (r *AppointmentGormRepository) GetLocation(ctx context.Context, id string) (*models.Location, error) {
	var loc models.Location
	if err := r.db.WithContext(ctx).First(&loc, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "location_not_found")
	}
	return &loc, nil
}

// CountStaff counts active barbers and managers; an empty locationID
// counts across all locations.
func (r *AppointmentGormRepository) CountStaff(ctx context.Context, locationID string) (int64, error) {
	q := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("role IN ? AND is_active = ?", []string{string(domain.RoleBarber), string(domain.RoleManager)}, true)
	if locationID != "" {
		q = q.Where("location_id = ?", locationID)
	}

	var n int64
	if err := q.Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count staff: %w", err)
	}
	return n, nil
}

// --------------------------------------------------
// Slot resolution
// --------------------------------------------------

func (r *AppointmentGormRepository) GetScheduleSlot(
	ctx context.Context,
	userID string,
	locationID string,
	dayOfWeek int,
) (*models.ScheduleSlot, error) {
	var slot models.ScheduleSlot
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND location_id = ? AND day_of_week = ?", userID, locationID, dayOfWeek).
		First(&slot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get schedule slot: %w", err)
	}
	return &slot, nil
}

func (r *AppointmentGormRepository) ListActiveForBarber(
	ctx context.Context,
	barberID string,
	from time.Time,
	to time.Time,
) ([]models.Appointment, error) {
	var apps []models.Appointment
	if err := r.db.WithContext(ctx).
		Where(
			"barber_id = ? AND status IN ? AND start_at < ? AND end_at > ?",
			barberID, domain.ActiveStatuses(), to, from,
		).
		Order("start_at ASC").
		Find(&apps).Error; err != nil {
		return nil, fmt.Errorf("list active for barber: %w", err)
	}
	return apps, nil
}

// --------------------------------------------------
// Appointment (create / conflict)
// --------------------------------------------------

// CreateAppointment serialises bookings per barber with a transaction-scoped
// advisory lock, re-checks overlap and inserts. The exclusion constraint on
// the table backs this up if anything slips past.
func (r *AppointmentGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	if ap.ID == "" {
		ap.ID = uuid.NewString()
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("SELECT pg_advisory_xact_lock(hashtext(?))", ap.BarberID).Error; err != nil {
			return err
		}

		var count int64
		if err := tx.
			Model(&models.Appointment{}).
			Where(
				"barber_id = ? AND status IN ? AND start_at < ? AND end_at > ?",
				ap.BarberID, domain.ActiveStatuses(), ap.EndAt, ap.StartAt,
			).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return domain.ReasonDoubleBooked.Err()
		}

		return tx.Omit(clause.Associations).Create(ap).Error
	})

	if httperr.IsExclusionConflict(err) {
		return domain.ReasonDoubleBooked.Err()
	}
	if err != nil && httperr.KindOf(err) == "" {
		return fmt.Errorf("create appointment: %w", err)
	}
	return err
}

// --------------------------------------------------
// Appointment (read)
// --------------------------------------------------

func (r *AppointmentGormRepository) GetAppointment(ctx context.Context, id string) (*models.Appointment, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, httperr.NotFoundErr("appointment_not_found")
	}

	var ap models.Appointment
	if err := r.db.WithContext(ctx).First(&ap, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "appointment_not_found")
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) FindByPaymentIntent(ctx context.Context, intentID string) (*models.Appointment, error) {
	var ap models.Appointment
	if err := r.db.WithContext(ctx).
		Where("payment_intent_id = ?", intentID).
		First(&ap).Error; err != nil {
		return nil, notFound(err, "appointment_not_found")
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) ListAppointments(
	ctx context.Context,
	f domain.ListFilter,
) ([]models.Appointment, error) {
	q := r.db.WithContext(ctx).
		Preload("Client").
		Preload("Barber").
		Preload("Service")

	if f.LocationID != "" {
		q = q.Where("location_id = ?", f.LocationID)
	}
	if f.ClientID != "" {
		q = q.Where("client_id = ?", f.ClientID)
	}
	if f.BarberID != "" {
		q = q.Where("barber_id = ?", f.BarberID)
	}
	if f.From != nil {
		q = q.Where("start_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("start_at < ?", *f.To)
	}
	if f.ActiveOnly {
		q = q.Where("status IN ?", domain.ActiveStatuses())
	}
	if len(f.Statuses) > 0 {
		statuses := make([]string, 0, len(f.Statuses))
		for _, s := range f.Statuses {
			statuses = append(statuses, string(s))
		}
		q = q.Where("status IN ?", statuses)
	}

	var apps []models.Appointment
	if err := q.Order("start_at ASC").Order("created_at ASC").Find(&apps).Error; err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	return apps, nil
}

// --------------------------------------------------
// Appointment (state change)
// --------------------------------------------------

// MutateAppointment holds SELECT ... FOR UPDATE on the row for the duration
// of fn, so cancellations and payment reconciliation on one appointment
// never interleave.
func (r *AppointmentGormRepository) MutateAppointment(
	ctx context.Context,
	id string,
	fn func(ap *models.Appointment) error,
) (*models.Appointment, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, httperr.NotFoundErr("appointment_not_found")
	}

	var ap models.Appointment
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&ap, "id = ?", id).Error; err != nil {
			return notFound(err, "appointment_not_found")
		}

		if err := fn(&ap); err != nil {
			return err
		}

		return tx.Omit(clause.Associations).Save(&ap).Error
	})
	if err != nil {
		if httperr.KindOf(err) == "" {
			return nil, fmt.Errorf("mutate appointment: %w", err)
		}
		return nil, err
	}
	return &ap, nil
}

func notFound(err error, code string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return httperr.NotFoundErr(code)
	}
	return err
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
