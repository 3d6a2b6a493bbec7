package reporting

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/barbershop-engine/internal/domain/appointment"
	rdomain "github.com/BruksfildServices01/barbershop-engine/internal/domain/reporting"
	"github.com/BruksfildServices01/barbershop-engine/internal/httperr"
	"github.com/BruksfildServices01/barbershop-engine/internal/models"
	"github.com/BruksfildServices01/barbershop-engine/internal/timezone"
)

// ======================================================
// CLIENT HISTORY
// ======================================================

type ClientHistoryInput struct {
	Principal  domain.Principal
	BarberID   string
	LocationID string
}

type ClientHistory struct {
	src Source
}

func NewClientHistory(src Source) *ClientHistory {
	return &ClientHistory{src: src}
}

func (uc *ClientHistory) Execute(ctx context.Context, in ClientHistoryInput) ([]rdomain.ClientHistoryRow, error) {
	f, err := staffFilter(in.Principal, in.BarberID, in.LocationID)
	if err != nil {
		return nil, err
	}
	f.ActiveOnly = true

	aps, err := uc.src.ListAppointments(ctx, f)
	if err != nil {
		return nil, err
	}
	return rdomain.ClientHistory(aps), nil
}

// ======================================================
// SCHEDULED CUTS
// ======================================================

type ScheduledCutsInput struct {
	Principal  domain.Principal
	LocationID string
	From       *time.Time
	To         *time.Time
}

type ScheduledCuts struct {
	src   Source
	clock timezone.Clock
}

func NewScheduledCuts(src Source, clock timezone.Clock) *ScheduledCuts {
	return &ScheduledCuts{src: src, clock: clock}
}

// Execute defaults to the next seven days from now.
func (uc *ScheduledCuts) Execute(ctx context.Context, in ScheduledCutsInput) ([]models.Appointment, error) {
	f, err := staffFilter(in.Principal, "", in.LocationID)
	if err != nil {
		return nil, err
	}

	w := rdomain.Window{From: uc.clock.Now(), To: uc.clock.Now().AddDate(0, 0, 7)}
	if in.From != nil {
		w.From = *in.From
	}
	if in.To != nil {
		w.To = *in.To
	}
	if !w.From.Before(w.To) {
		return nil, httperr.ErrBusiness("invalid_range")
	}

	f.From, f.To, f.ActiveOnly = &w.From, &w.To, true

	aps, err := uc.src.ListAppointments(ctx, f)
	if err != nil {
		return nil, err
	}
	return rdomain.ScheduledCuts(aps, w), nil
}

// ======================================================
// PAYROLL PREVIEW
// ======================================================

type PayrollPreviewInput struct {
	Principal             domain.Principal
	Period                string
	LocationID            string
	CommissionRatePercent int
}

type PayrollPreviewOutput struct {
	Period rdomain.Period        `json:"period"`
	From   time.Time             `json:"from"`
	To     time.Time             `json:"to"`
	Lines  []rdomain.PayrollLine `json:"lines"`
}

type PayrollPreview struct {
	src   Source
	clock timezone.Clock
}

func NewPayrollPreview(src Source, clock timezone.Clock) *PayrollPreview {
	return &PayrollPreview{src: src, clock: clock}
}

func (uc *PayrollPreview) Execute(ctx context.Context, in PayrollPreviewInput) (*PayrollPreviewOutput, error) {
	if !in.Principal.IsGlobal() {
		return nil, httperr.ForbiddenErr("admin_only")
	}
	if in.CommissionRatePercent < 0 || in.CommissionRatePercent > 100 {
		return nil, httperr.ErrBusiness("invalid_commission_rate")
	}

	period, err := rdomain.ParsePeriod(in.Period)
	if err != nil {
		return nil, err
	}

	loc := locationTZ(ctx, uc.src, in.LocationID)
	w := rdomain.WindowFor(period, uc.clock.Now(), loc)

	aps, err := uc.src.ListAppointments(ctx, domain.ListFilter{
		LocationID: in.LocationID,
		From:       &w.From,
		To:         &w.To,
		Statuses:   []domain.Status{domain.StatusCompleted},
	})
	if err != nil {
		return nil, err
	}

	return &PayrollPreviewOutput{
		Period: period,
		From:   w.From,
		To:     w.To,
		Lines:  rdomain.PayrollPreview(aps, w, in.CommissionRatePercent),
	}, nil
}
