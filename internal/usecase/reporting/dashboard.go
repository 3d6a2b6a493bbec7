package reporting

import (
	"context"

	domain "github.com/BruksfildServices01/barbershop-engine/internal/domain/appointment"
	rdomain "github.com/BruksfildServices01/barbershop-engine/internal/domain/reporting"
	"github.com/BruksfildServices01/barbershop-engine/internal/httperr"
	"github.com/BruksfildServices01/barbershop-engine/internal/timezone"
	"github.com/BruksfildServices01/barbershop-engine/internal/tracing"
)

type DashboardInput struct {
	Principal  domain.Principal
	LocationID string
}

// GetDashboardStats serves the admin landing counters.
type GetDashboardStats struct {
	src   Source
	staff StaffDirectory
	clock timezone.Clock
}

func NewGetDashboardStats(src Source, staff StaffDirectory, clock timezone.Clock) *GetDashboardStats {
	return &GetDashboardStats{src: src, staff: staff, clock: clock}
}

func (uc *GetDashboardStats) Execute(ctx context.Context, in DashboardInput) (*rdomain.DashboardStats, error) {
	ctx, span := tracing.StartSpan(ctx, "reporting.Dashboard")
	defer span.End()

	if !in.Principal.IsGlobal() {
		return nil, httperr.ForbiddenErr("admin_only")
	}

	now := uc.clock.Now()
	today := rdomain.WindowFor(rdomain.PeriodDay, now, locationTZ(ctx, uc.src, in.LocationID))

	aps, err := uc.src.ListAppointments(ctx, domain.ListFilter{
		LocationID: in.LocationID,
		Statuses:   []domain.Status{domain.StatusCompleted},
	})
	if err != nil {
		return nil, err
	}

	staff, err := uc.staff.CountStaff(ctx, in.LocationID)
	if err != nil {
		return nil, err
	}

	stats := rdomain.Dashboard(aps, today, now, staff)
	return &stats, nil
}
