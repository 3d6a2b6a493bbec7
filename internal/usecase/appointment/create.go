package appointment

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/barbershop-engine/internal/audit"
	domain "github.com/BruksfildServices01/barbershop-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/barbershop-engine/internal/httperr"
	"github.com/BruksfildServices01/barbershop-engine/internal/logging"
	"github.com/BruksfildServices01/barbershop-engine/internal/metrics"
	"github.com/BruksfildServices01/barbershop-engine/internal/models"
	"github.com/BruksfildServices01/barbershop-engine/internal/timezone"
	"github.com/BruksfildServices01/barbershop-engine/internal/tracing"
)

// ======================================================
// INPUT
// ======================================================

type CreateAppointmentInput struct {
	Principal domain.Principal

	LocationID string
	ClientID   string
	BarberID   string
	ServiceID  string
	StartAt    time.Time
	// StartLocal marks StartAt as wall-clock time at the location; its
	// zone is ignored.
	StartLocal bool
	Notes      string
}

// ======================================================
// USE CASE
// ======================================================

type CreateAppointment struct {
	repo       domain.Repository
	audit      *audit.Dispatcher
	clock      timezone.Clock
	minAdvance time.Duration
}

func NewCreateAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
	clock timezone.Clock,
	minAdvance time.Duration,
) *CreateAppointment {
	return &CreateAppointment{
		repo:       repo,
		audit:      audit,
		clock:      clock,
		minAdvance: minAdvance,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {
	ctx, span := tracing.StartSpan(ctx, "appointment.Create")
	defer span.End()

	log := logging.GetLogger()

	// --------------------------------------------------
	// Input + identity
	// --------------------------------------------------
	clientID := strings.TrimSpace(in.ClientID)
	if clientID == "" && in.Principal.Role == domain.RoleClient {
		clientID = in.Principal.UserID
	}

	if err := validateCreate(in, clientID); err != nil {
		return nil, err
	}

	if err := domain.AuthorizeCreate(in.Principal, in.LocationID, clientID); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// Catalog
	// --------------------------------------------------
	service, err := uc.repo.GetService(ctx, in.ServiceID)
	if err != nil {
		if httperr.Is(err, httperr.KindNotFound) {
			return nil, httperr.ErrBusiness("service_not_found")
		}
		return nil, err
	}
	if !service.IsActive {
		return nil, httperr.ErrBusiness("service_inactive")
	}
	if service.LocationID != nil && *service.LocationID != in.LocationID {
		return nil, httperr.ErrBusiness("service_not_offered_at_location")
	}
	if service.DurationMinutes <= 0 {
		return nil, httperr.ErrBusiness("service_invalid_duration")
	}

	location, err := uc.repo.GetLocation(ctx, in.LocationID)
	if err != nil {
		if httperr.Is(err, httperr.KindNotFound) {
			return nil, httperr.ErrBusiness("location_not_found")
		}
		return nil, err
	}
	loc := timezone.Location(location.Timezone)

	// --------------------------------------------------
	// Booking horizon
	// --------------------------------------------------
	now := uc.clock.Now()
	start := in.StartAt.In(loc)
	if in.StartLocal {
		start = timezone.Rebase(in.StartAt, loc)
	}
	if start.Before(now.Add(uc.minAdvance)) {
		return nil, httperr.ErrBusiness("start_in_past")
	}

	end := start.Add(time.Duration(service.DurationMinutes) * time.Minute)

	// --------------------------------------------------
	// Advisory availability check
	// --------------------------------------------------
	slot, err := uc.repo.GetScheduleSlot(ctx, in.BarberID, in.LocationID, int(start.Weekday()))
	if err != nil {
		return nil, err
	}

	existing, err := uc.repo.ListActiveForBarber(ctx, in.BarberID, start, end)
	if err != nil {
		return nil, err
	}

	if reason, ok := domain.CheckSlot(slot, existing, start, end, loc); !ok {
		metrics.AppointmentConflictsTotal.WithLabelValues(string(reason)).Inc()
		log.Warn("booking rejected",
			zap.String("barber_id", in.BarberID),
			zap.Time("start_at", start),
			zap.String("reason", string(reason)))
		return nil, reason.Err()
	}

	// --------------------------------------------------
	// Authoritative insert
	// --------------------------------------------------
	ap := &models.Appointment{
		ID:            uuid.NewString(),
		LocationID:    in.LocationID,
		ClientID:      clientID,
		BarberID:      in.BarberID,
		ServiceID:     service.ID,
		StartAt:       start,
		EndAt:         end,
		Status:        string(domain.InitialStatus()),
		PaymentStatus: string(domain.InitialPaymentStatus()),
		TotalCents:    service.PriceCents,
		Notes:         in.Notes,
		CreatedBy:     in.Principal.UserID,
		CreatedAt:     now,
	}

	if err := uc.repo.CreateAppointment(ctx, ap); err != nil {
		if httperr.Is(err, httperr.KindConflict) {
			metrics.AppointmentConflictsTotal.WithLabelValues(string(domain.ReasonDoubleBooked)).Inc()
			log.Warn("booking lost write-time race",
				zap.String("barber_id", in.BarberID),
				zap.Time("start_at", start))
			return nil, err
		}
		if httperr.KindOf(err) == "" {
			log.Error("create appointment failed", zap.Error(err))
		}
		return nil, err
	}

	metrics.AppointmentsCreatedTotal.Inc()

	uc.audit.Dispatch(audit.Event{
		LocationID: ap.LocationID,
		ActorID:    audit.Ref(in.Principal.UserID),
		Action:     "appointment_created",
		Entity:     "appointment",
		EntityID:   audit.Ref(ap.ID),
		Metadata: map[string]any{
			"barberId":   ap.BarberID,
			"clientId":   ap.ClientID,
			"startAt":    ap.StartAt,
			"totalCents": ap.TotalCents,
		},
	})

	return ap, nil
}

func validateCreate(in CreateAppointmentInput, clientID string) error {
	switch {
	case strings.TrimSpace(in.LocationID) == "":
		return httperr.ErrBusiness("location_id_required")
	case clientID == "":
		return httperr.ErrBusiness("client_id_required")
	case strings.TrimSpace(in.BarberID) == "":
		return httperr.ErrBusiness("barber_id_required")
	case strings.TrimSpace(in.ServiceID) == "":
		return httperr.ErrBusiness("service_id_required")
	case in.StartAt.IsZero():
		return httperr.ErrBusiness("start_at_required")
	}
	return nil
}
