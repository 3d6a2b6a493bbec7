package appointment

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/barbershop-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/barbershop-engine/internal/httperr"
	"github.com/BruksfildServices01/barbershop-engine/internal/timezone"
	"github.com/BruksfildServices01/barbershop-engine/internal/tracing"
)

type GetAvailability struct {
	repo       domain.Repository
	clock      timezone.Clock
	minAdvance time.Duration
}

func NewGetAvailability(
	repo domain.Repository,
	clock timezone.Clock,
	minAdvance time.Duration,
) *GetAvailability {
	return &GetAvailability{repo: repo, clock: clock, minAdvance: minAdvance}
}

func (uc *GetAvailability) Execute(
	ctx context.Context,
	in domain.AvailabilityInput,
) ([]domain.TimeSlot, error) {
	ctx, span := tracing.StartSpan(ctx, "appointment.Availability")
	defer span.End()

	if in.BarberID == "" || in.LocationID == "" || in.ServiceID == "" {
		return nil, httperr.ErrBusiness("missing_parameters")
	}

	service, err := uc.repo.GetService(ctx, in.ServiceID)
	if err != nil || !service.IsActive {
		return nil, httperr.ErrBusiness("service_not_found")
	}

	location, err := uc.repo.GetLocation(ctx, in.LocationID)
	if err != nil {
		return nil, httperr.ErrBusiness("location_not_found")
	}
	loc := timezone.Location(location.Timezone)

	day, err := timezone.ParseDate(in.Date, loc)
	if err != nil {
		return nil, httperr.ErrBusiness("invalid_date")
	}

	slot, err := uc.repo.GetScheduleSlot(ctx, in.BarberID, in.LocationID, int(day.Weekday()))
	if err != nil {
		return nil, err
	}
	if slot == nil {
		return []domain.TimeSlot{}, nil
	}

	dayEnd := day.AddDate(0, 0, 1)
	existing, err := uc.repo.ListActiveForBarber(ctx, in.BarberID, day, dayEnd)
	if err != nil {
		return nil, err
	}

	duration := time.Duration(service.DurationMinutes) * time.Minute
	notBefore := uc.clock.Now().Add(uc.minAdvance)

	return domain.FreeSlots(slot, existing, day, duration, notBefore, loc), nil
}
