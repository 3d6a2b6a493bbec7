package payment

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/barbershop-engine/internal/audit"
	domain "github.com/BruksfildServices01/barbershop-engine/internal/domain/appointment"
	paydomain "github.com/BruksfildServices01/barbershop-engine/internal/domain/payment"
	"github.com/BruksfildServices01/barbershop-engine/internal/httperr"
	"github.com/BruksfildServices01/barbershop-engine/internal/logging"
	"github.com/BruksfildServices01/barbershop-engine/internal/metrics"
	"github.com/BruksfildServices01/barbershop-engine/internal/models"
	"github.com/BruksfildServices01/barbershop-engine/internal/timezone"
	"github.com/BruksfildServices01/barbershop-engine/internal/tracing"
)

// ======================================================
// CONFIRM PREPAID (client return / polling path)
// ======================================================

type ConfirmPrepaid struct {
	repo     domain.Repository
	provider paydomain.Provider
	audit    *audit.Dispatcher
	clock    timezone.Clock
}

func NewConfirmPrepaid(
	repo domain.Repository,
	provider paydomain.Provider,
	audit *audit.Dispatcher,
	clock timezone.Clock,
) *ConfirmPrepaid {
	return &ConfirmPrepaid{repo: repo, provider: provider, audit: audit, clock: clock}
}

func (uc *ConfirmPrepaid) Execute(
	ctx context.Context,
	p domain.Principal,
	appointmentID string,
) (*models.Appointment, error) {
	ctx, span := tracing.StartSpan(ctx, "payment.ConfirmPrepaid")
	defer span.End()

	if uc.provider == nil {
		return nil, errProviderNotConfigured
	}

	ap, err := uc.repo.GetAppointment(ctx, appointmentID)
	if err != nil {
		return nil, err
	}
	if err := domain.Authorize(p, ap, domain.ActionConfirmPrepaid); err != nil {
		return nil, err
	}

	if domain.PaymentStatus(ap.PaymentStatus) != domain.PaymentUnpaid {
		// Already reconciled, possibly by the webhook.
		return ap, nil
	}
	if ap.PaymentIntentID == nil || *ap.PaymentIntentID == "" {
		return nil, httperr.New(httperr.KindPaymentNotComplete, "no_payment_intent")
	}

	start := time.Now()
	intent, err := uc.provider.GetIntent(ctx, *ap.PaymentIntentID)
	metrics.ObserveProvider("get_intent", start)
	if err != nil {
		if errors.Is(err, paydomain.ErrIntentNotFound) {
			return nil, httperr.New(httperr.KindPaymentNotComplete, "payment_not_complete")
		}
		logging.GetLogger().Error("payment provider fetch failed",
			zap.String("appointment_id", ap.ID),
			zap.Error(err))
		return nil, errProviderFailed
	}
	if intent.AppointmentID != "" && intent.AppointmentID != ap.ID {
		return nil, httperr.New(httperr.KindPaymentNotComplete, "intent_mismatch")
	}
	if !intent.Succeeded() {
		return nil, httperr.New(httperr.KindPaymentNotComplete, "payment_not_complete")
	}

	return applyPrepaid(ctx, uc.repo, uc.audit, uc.clock, ap.ID, intent.ID, p.UserID, "confirm")
}

// applyPrepaid folds a succeeded intent into the appointment under the row
// lock. It is shared by the confirm and webhook paths so both agree.
func applyPrepaid(
	ctx context.Context,
	repo domain.Repository,
	dispatcher *audit.Dispatcher,
	clock timezone.Clock,
	appointmentID string,
	intentID string,
	actorID string,
	source string,
) (*models.Appointment, error) {
	changed := false
	ap, err := repo.MutateAppointment(ctx, appointmentID, func(ap *models.Appointment) error {
		changed = domain.ApplyPrepaidSuccess(ap, clock.Now())
		if changed && ap.PaymentIntentID == nil {
			id := intentID
			ap.PaymentIntentID = &id
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if changed {
		metrics.AppointmentTransitionsTotal.WithLabelValues(ap.PaymentStatus).Inc()
		logging.GetLogger().Info("online payment reconciled",
			zap.String("appointment_id", ap.ID),
			zap.String("payment_status", ap.PaymentStatus),
			zap.String("source", source))

		dispatcher.Dispatch(audit.Event{
			LocationID: ap.LocationID,
			ActorID:    audit.Ref(actorID),
			Action:     "payment_" + ap.PaymentStatus,
			Entity:     "appointment",
			EntityID:   audit.Ref(ap.ID),
			Metadata: map[string]any{
				"paymentIntentId": intentID,
				"source":          source,
			},
		})
	}

	return ap, nil
}

// ======================================================
// CONFIRM PAID AT SHOP (staff)
// ======================================================

type ConfirmPaidAtShop struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewConfirmPaidAtShop(repo domain.Repository, audit *audit.Dispatcher) *ConfirmPaidAtShop {
	return &ConfirmPaidAtShop{repo: repo, audit: audit}
}

func (uc *ConfirmPaidAtShop) Execute(
	ctx context.Context,
	p domain.Principal,
	appointmentID string,
) (*models.Appointment, error) {
	ctx, span := tracing.StartSpan(ctx, "payment.ConfirmPaidAtShop")
	defer span.End()

	if !p.IsStaff() {
		return nil, httperr.ForbiddenErr("staff_only")
	}

	ap, err := uc.repo.MutateAppointment(ctx, appointmentID, func(ap *models.Appointment) error {
		if err := domain.Authorize(p, ap, domain.ActionConfirmPaidAtShop); err != nil {
			return err
		}
		return domain.MarkPaidAtShop(ap)
	})
	if err != nil {
		return nil, err
	}

	metrics.AppointmentTransitionsTotal.WithLabelValues(string(domain.PaymentPaidAtShop)).Inc()

	uc.audit.Dispatch(audit.Event{
		LocationID: ap.LocationID,
		ActorID:    audit.Ref(p.UserID),
		Action:     "payment_paid_at_shop",
		Entity:     "appointment",
		EntityID:   audit.Ref(ap.ID),
	})

	return ap, nil
}
