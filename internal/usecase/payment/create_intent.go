package payment

import (
	"context"
	"fmt"
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

// MinIntentCents is the smallest charge the provider accepts.
const MinIntentCents = 50

type CreateIntentInput struct {
	Principal     domain.Principal
	AppointmentID string
	AmountCents   *int64
	PayerEmail    string
}

type CreateIntentOutput struct {
	ClientSecret    string `json:"clientSecret"`
	PaymentIntentID string `json:"paymentIntentId"`
}

type CreatePaymentIntent struct {
	repo     domain.Repository
	provider paydomain.Provider
	audit    *audit.Dispatcher
	clock    timezone.Clock
	grace    time.Duration
	currency string
}

func NewCreatePaymentIntent(
	repo domain.Repository,
	provider paydomain.Provider,
	audit *audit.Dispatcher,
	clock timezone.Clock,
	grace time.Duration,
	currency string,
) *CreatePaymentIntent {
	return &CreatePaymentIntent{
		repo:     repo,
		provider: provider,
		audit:    audit,
		clock:    clock,
		grace:    grace,
		currency: currency,
	}
}

func (uc *CreatePaymentIntent) Execute(
	ctx context.Context,
	in CreateIntentInput,
) (*CreateIntentOutput, error) {
	ctx, span := tracing.StartSpan(ctx, "payment.CreateIntent")
	defer span.End()

	if uc.provider == nil {
		return nil, errProviderNotConfigured
	}
	if in.AppointmentID == "" {
		return nil, httperr.ErrBusiness("appointment_id_required")
	}

	ap, err := uc.repo.GetAppointment(ctx, in.AppointmentID)
	if err != nil {
		return nil, err
	}

	if err := domain.AuthorizeIntent(in.Principal, ap, uc.clock.Now(), uc.grace); err != nil {
		return nil, err
	}

	if !domain.Status(ap.Status).IsActive() || domain.Status(ap.Status) == domain.StatusCompleted {
		return nil, httperr.InvalidTransitionErr("appointment_not_payable")
	}
	if domain.PaymentStatus(ap.PaymentStatus) != domain.PaymentUnpaid {
		return nil, httperr.InvalidTransitionErr("payment_already_settled")
	}

	amount := ap.EffectiveCents()
	if in.AmountCents != nil {
		if *in.AmountCents < MinIntentCents {
			return nil, httperr.ErrBusiness("amount_too_small")
		}
		if *in.AmountCents > ap.EffectiveCents() {
			return nil, httperr.ErrBusiness("amount_exceeds_total")
		}
		amount = *in.AmountCents
	}
	if amount < MinIntentCents {
		return nil, httperr.ErrBusiness("amount_too_small")
	}

	// --------------------------------------------------
	// Provider call (outside any lock)
	// --------------------------------------------------
	start := time.Now()
	intent, err := uc.provider.CreateIntent(ctx, paydomain.IntentRequest{
		AppointmentID: ap.ID,
		AmountCents:   amount,
		Currency:      uc.currency,
		Description:   fmt.Sprintf("Appointment %s", ap.ID),
		PayerEmail:    in.PayerEmail,
	})
	metrics.ObserveProvider("create_intent", start)
	if err != nil {
		logging.GetLogger().Error("payment provider create failed",
			zap.String("appointment_id", ap.ID),
			zap.Error(err))
		return nil, errProviderFailed
	}

	// --------------------------------------------------
	// Remember the intent reference
	// --------------------------------------------------
	if _, err := uc.repo.MutateAppointment(ctx, ap.ID, func(locked *models.Appointment) error {
		if domain.PaymentStatus(locked.PaymentStatus) != domain.PaymentUnpaid {
			return httperr.InvalidTransitionErr("payment_already_settled")
		}
		id := intent.ID
		locked.PaymentIntentID = &id
		return nil
	}); err != nil {
		return nil, err
	}

	metrics.PaymentIntentsCreatedTotal.Inc()

	uc.audit.Dispatch(audit.Event{
		LocationID: ap.LocationID,
		ActorID:    audit.Ref(in.Principal.UserID),
		Action:     "payment_intent_created",
		Entity:     "appointment",
		EntityID:   audit.Ref(ap.ID),
		Metadata: map[string]any{
			"paymentIntentId": intent.ID,
			"amountCents":     amount,
			"provider":        uc.provider.Name(),
		},
	})

	return &CreateIntentOutput{
		ClientSecret:    intent.ClientSecret,
		PaymentIntentID: intent.ID,
	}, nil
}
