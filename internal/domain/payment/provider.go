package payment

import (
	"context"
	"errors"
	"net/http"
)

var (
	ErrInvalidSignature = errors.New("payment: invalid webhook signature")
	ErrIntentNotFound   = errors.New("payment: intent not found")
)

type IntentStatus string

const (
	IntentPending   IntentStatus = "pending"
	IntentSucceeded IntentStatus = "succeeded"
	IntentFailed    IntentStatus = "failed"
)

type IntentRequest struct {
	AppointmentID string
	AmountCents   int64
	Currency      string
	Description   string
	PayerEmail    string
}

// Intent is a provider-side charge attempt normalised to the engine's view.
type Intent struct {
	ID            string
	Status        IntentStatus
	AmountCents   int64
	ClientSecret  string
	AppointmentID string
}

func (i *Intent) Succeeded() bool {
	return i != nil && i.Status == IntentSucceeded
}

// WebhookEvent is a verified provider notification.
type WebhookEvent struct {
	ID       string
	Type     string
	IntentID string
}

// IsPaymentEvent reports whether the event concerns a payment object.
func (e WebhookEvent) IsPaymentEvent() bool {
	return e.Type == "payment" && e.IntentID != ""
}

type Provider interface {
	Name() string
	CreateIntent(ctx context.Context, req IntentRequest) (*Intent, error)
	GetIntent(ctx context.Context, id string) (*Intent, error)
	// ParseWebhook verifies the signature before decoding; a bad or missing
	// signature yields ErrInvalidSignature.
	ParseWebhook(body []byte, headers http.Header) (*WebhookEvent, error)
}

// EventLedger remembers processed webhook deliveries.
type EventLedger interface {
	Seen(ctx context.Context, eventID string) (bool, error)
	Mark(ctx context.Context, eventID string) error
}
