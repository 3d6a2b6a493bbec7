package payment

import (
	"context"
	"errors"
	"net/http"
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

type WebhookOutcome string

const (
	OutcomeApplied      WebhookOutcome = "applied"
	OutcomeNoop         WebhookOutcome = "noop"
	OutcomeDuplicate    WebhookOutcome = "duplicate"
	OutcomeIgnored      WebhookOutcome = "ignored"
	OutcomeNotSucceeded WebhookOutcome = "not_succeeded"
	OutcomeUnmatched    WebhookOutcome = "unmatched"
	OutcomeBadSignature WebhookOutcome = "invalid_signature"
)

type WebhookInput struct {
	Body    []byte
	Headers http.Header
}

// ProcessWebhook reconciles a provider push. Anything that returns nil is
// acknowledged; errors make the provider redeliver.
type ProcessWebhook struct {
	repo     domain.Repository
	provider paydomain.Provider
	ledger   paydomain.EventLedger
	audit    *audit.Dispatcher
	clock    timezone.Clock
}

func NewProcessWebhook(
	repo domain.Repository,
	provider paydomain.Provider,
	ledger paydomain.EventLedger,
	audit *audit.Dispatcher,
	clock timezone.Clock,
) *ProcessWebhook {
	return &ProcessWebhook{
		repo:     repo,
		provider: provider,
		ledger:   ledger,
		audit:    audit,
		clock:    clock,
	}
}

func (uc *ProcessWebhook) Execute(ctx context.Context, in WebhookInput) (WebhookOutcome, error) {
	ctx, span := tracing.StartSpan(ctx, "payment.Webhook")
	defer span.End()

	outcome, err := uc.process(ctx, in)
	if outcome != "" {
		metrics.PaymentWebhooksTotal.WithLabelValues(string(outcome)).Inc()
	}
	return outcome, err
}

func (uc *ProcessWebhook) process(ctx context.Context, in WebhookInput) (WebhookOutcome, error) {
	log := logging.GetLogger()

	if uc.provider == nil {
		return "", errProviderNotConfigured
	}

	// --------------------------------------------------
	// Signature first: nothing below trusts the body before this
	// --------------------------------------------------
	ev, err := uc.provider.ParseWebhook(in.Body, in.Headers)
	if err != nil {
		if errors.Is(err, paydomain.ErrInvalidSignature) {
			log.Warn("webhook rejected: bad signature")
			return OutcomeBadSignature, httperr.ErrBusiness("invalid_signature")
		}
		return OutcomeIgnored, httperr.ErrBusiness("invalid_payload")
	}

	if !ev.IsPaymentEvent() {
		return OutcomeIgnored, nil
	}

	if seen := uc.seen(ctx, ev.ID); seen {
		return OutcomeDuplicate, nil
	}

	// --------------------------------------------------
	// Ask the provider for the authoritative status
	// --------------------------------------------------
	start := time.Now()
	intent, err := uc.provider.GetIntent(ctx, ev.IntentID)
	metrics.ObserveProvider("get_intent", start)
	if err != nil {
		if errors.Is(err, paydomain.ErrIntentNotFound) {
			uc.mark(ctx, ev.ID)
			return OutcomeUnmatched, nil
		}
		log.Error("webhook intent fetch failed",
			zap.String("event_id", ev.ID),
			zap.String("intent_id", ev.IntentID),
			zap.Error(err))
		return "", errProviderFailed
	}

	if !intent.Succeeded() {
		uc.mark(ctx, ev.ID)
		return OutcomeNotSucceeded, nil
	}

	ap, err := uc.resolve(ctx, intent)
	if err != nil {
		if httperr.Is(err, httperr.KindNotFound) {
			log.Warn("webhook for unknown appointment",
				zap.String("event_id", ev.ID),
				zap.String("intent_id", intent.ID))
			uc.mark(ctx, ev.ID)
			return OutcomeUnmatched, nil
		}
		return "", err
	}

	before := ap.PaymentStatus
	updated, err := applyPrepaid(ctx, uc.repo, uc.audit, uc.clock, ap.ID, intent.ID, "", "webhook")
	if err != nil {
		return "", err
	}

	uc.mark(ctx, ev.ID)

	if updated.PaymentStatus == before {
		return OutcomeNoop, nil
	}
	return OutcomeApplied, nil
}

// resolve finds the appointment by stored intent reference, falling back to
// the appointment id the intent carries in its metadata.
func (uc *ProcessWebhook) resolve(ctx context.Context, intent *paydomain.Intent) (*models.Appointment, error) {
	ap, err := uc.repo.FindByPaymentIntent(ctx, intent.ID)
	if err == nil {
		return ap, nil
	}
	if !httperr.Is(err, httperr.KindNotFound) || intent.AppointmentID == "" {
		return nil, err
	}
	return uc.repo.GetAppointment(ctx, intent.AppointmentID)
}

func (uc *ProcessWebhook) seen(ctx context.Context, eventID string) bool {
	if uc.ledger == nil || eventID == "" {
		return false
	}
	ok, err := uc.ledger.Seen(ctx, eventID)
	if err != nil {
		logging.GetLogger().Warn("webhook ledger read failed", zap.Error(err))
		return false
	}
	return ok
}

func (uc *ProcessWebhook) mark(ctx context.Context, eventID string) {
	if uc.ledger == nil || eventID == "" {
		return
	}
	if err := uc.ledger.Mark(ctx, eventID); err != nil {
		logging.GetLogger().Warn("webhook ledger write failed", zap.Error(err))
	}
}
