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

type CancelAppointmentInput struct {
	Principal     domain.Principal
	AppointmentID string
	// Reason is "cancelled" (default) or "no_show". Clients always cancel.
	Reason string
}

type CancelAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	clock timezone.Clock
}

func NewCancelAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
	clock timezone.Clock,
) *CancelAppointment {
	return &CancelAppointment{
		repo:  repo,
		audit: audit,
		clock: clock,
	}
}

func (uc *CancelAppointment) Execute(
	ctx context.Context,
	in CancelAppointmentInput,
) (*models.Appointment, error) {
	ctx, span := tracing.StartSpan(ctx, "appointment.Cancel")
	defer span.End()

	reason := domain.StatusCancelled
	if in.Principal.Role != domain.RoleClient && in.Reason != "" {
		switch domain.Status(in.Reason) {
		case domain.StatusCancelled, domain.StatusNoShow:
			reason = domain.Status(in.Reason)
		default:
			return nil, httperr.ErrBusiness("invalid_cancel_reason")
		}
	}

	action := domain.ActionCancel
	if reason == domain.StatusNoShow {
		action = domain.ActionMarkNoShow
	}

	var prevPayment string
	ap, err := uc.repo.MutateAppointment(ctx, in.AppointmentID, func(ap *models.Appointment) error {
		if err := domain.Authorize(in.Principal, ap, action); err != nil {
			return err
		}
		prevPayment = ap.PaymentStatus
		return domain.Cancel(ap, reason, uc.clock.Now())
	})
	if err != nil {
		return nil, err
	}

	metrics.AppointmentTransitionsTotal.WithLabelValues(string(reason)).Inc()
	logging.GetLogger().Info("appointment cancelled",
		zap.String("appointment_id", ap.ID),
		zap.String("status", ap.Status),
		zap.String("payment_status", ap.PaymentStatus))

	uc.audit.Dispatch(audit.Event{
		LocationID: ap.LocationID,
		ActorID:    audit.Ref(in.Principal.UserID),
		Action:     "appointment_" + string(reason),
		Entity:     "appointment",
		EntityID:   audit.Ref(ap.ID),
		Metadata: map[string]any{
			"previousPaymentStatus": prevPayment,
			"paymentStatus":         ap.PaymentStatus,
		},
	})

	return ap, nil
}
