package appointment

import (
	"context"

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

type UpdateAppointmentInput struct {
	Principal     domain.Principal
	AppointmentID string
	Patch         domain.Patch
}

// UpdateAppointment is the staff PATCH: partial edits of status, payment
// status, notes and money, applied together under the row lock.
type UpdateAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	clock timezone.Clock
}

func NewUpdateAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
	clock timezone.Clock,
) *UpdateAppointment {
	return &UpdateAppointment{
		repo:  repo,
		audit: audit,
		clock: clock,
	}
}

func (uc *UpdateAppointment) Execute(
	ctx context.Context,
	in UpdateAppointmentInput,
) (*models.Appointment, error) {
	ctx, span := tracing.StartSpan(ctx, "appointment.Update")
	defer span.End()

	if !in.Principal.IsStaff() {
		return nil, httperr.ForbiddenErr("staff_only")
	}
	if in.Patch.IsEmpty() {
		return nil, httperr.ErrBusiness("empty_patch")
	}

	var before models.Appointment
	ap, err := uc.repo.MutateAppointment(ctx, in.AppointmentID, func(ap *models.Appointment) error {
		if err := domain.Authorize(in.Principal, ap, in.Patch.Actions()...); err != nil {
			return err
		}
		before = *ap
		return domain.ApplyPatch(ap, in.Patch, in.Principal.UserID, uc.clock.Now())
	})
	if err != nil {
		return nil, err
	}

	changes := diff(&before, ap)
	for _, field := range []string{"status", "paymentStatus"} {
		if v, ok := changes[field]; ok {
			metrics.AppointmentTransitionsTotal.WithLabelValues(v.(string)).Inc()
		}
	}

	logging.GetLogger().Info("appointment updated",
		zap.String("appointment_id", ap.ID),
		zap.Any("changes", changes))

	uc.audit.Dispatch(audit.Event{
		LocationID: ap.LocationID,
		ActorID:    audit.Ref(in.Principal.UserID),
		Action:     "appointment_updated",
		Entity:     "appointment",
		EntityID:   audit.Ref(ap.ID),
		Metadata:   changes,
	})

	return ap, nil
}

func diff(before, after *models.Appointment) map[string]any {
	out := map[string]any{}
	if before.Status != after.Status {
		out["status"] = after.Status
	}
	if before.PaymentStatus != after.PaymentStatus {
		out["paymentStatus"] = after.PaymentStatus
	}
	if before.Notes != after.Notes {
		out["notes"] = after.Notes
	}
	if before.DiscountCents != after.DiscountCents {
		out["discountCents"] = after.DiscountCents
	}
	if before.RefundCents != after.RefundCents {
		out["refundCents"] = after.RefundCents
	}
	return out
}
