package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/mercadopago/sdk-go/pkg/config"
	mppayment "github.com/mercadopago/sdk-go/pkg/payment"

	paydomain "github.com/BruksfildServices01/barbershop-engine/internal/domain/payment"
)

const metadataAppointmentID = "appointment_id"

// paymentsAPI is the subset of the SDK client the adapter calls.
type paymentsAPI interface {
	Create(ctx context.Context, request mppayment.Request) (*mppayment.Response, error)
	Get(ctx context.Context, id int) (*mppayment.Response, error)
}

type MercadoPagoProvider struct {
	client          paymentsAPI
	webhookSecret   string
	notificationURL string
}

func NewMercadoPagoProvider(accessToken, webhookSecret, notificationURL string) (*MercadoPagoProvider, error) {
	cfg, err := config.New(accessToken)
	if err != nil {
		return nil, fmt.Errorf("mercadopago config: %w", err)
	}

	return &MercadoPagoProvider{
		client:          mppayment.NewClient(cfg),
		webhookSecret:   webhookSecret,
		notificationURL: notificationURL,
	}, nil
}

func (p *MercadoPagoProvider) Name() string { return "mercadopago" }

// CreateIntent opens a PIX payment; the QR code payload is handed back to
// the client as the secret it needs to complete payment.
func (p *MercadoPagoProvider) CreateIntent(
	ctx context.Context,
	req paydomain.IntentRequest,
) (*paydomain.Intent, error) {
	payerEmail := req.PayerEmail
	if payerEmail == "" {
		payerEmail = fmt.Sprintf("appointment-%s@payments.invalid", req.AppointmentID)
	}

	request := mppayment.Request{
		TransactionAmount: float64(req.AmountCents) / 100,
		Description:       req.Description,
		PaymentMethodID:   "pix",
		ExternalReference: req.AppointmentID,
		NotificationURL:   p.notificationURL,
		Metadata: map[string]any{
			metadataAppointmentID: req.AppointmentID,
		},
		Payer: &mppayment.PayerRequest{
			Email: payerEmail,
		},
	}

	res, err := p.client.Create(ctx, request)
	if err != nil {
		return nil, fmt.Errorf("mercadopago create payment: %w", err)
	}
	return toIntent(res), nil
}

func (p *MercadoPagoProvider) GetIntent(ctx context.Context, id string) (*paydomain.Intent, error) {
	paymentID, err := strconv.Atoi(id)
	if err != nil {
		return nil, paydomain.ErrIntentNotFound
	}

	res, err := p.client.Get(ctx, paymentID)
	if err != nil {
		return nil, fmt.Errorf("mercadopago get payment %d: %w", paymentID, err)
	}
	return toIntent(res), nil
}

type notification struct {
	ID     json.RawMessage `json:"id"`
	Type   string          `json:"type"`
	Action string          `json:"action"`
	Data   struct {
		ID string `json:"id"`
	} `json:"data"`
}

// ParseWebhook verifies x-signature over the data id and x-request-id, then
// decodes the notification. Nothing in the body is trusted before that.
func (p *MercadoPagoProvider) ParseWebhook(body []byte, headers http.Header) (*paydomain.WebhookEvent, error) {
	var n notification
	if err := json.Unmarshal(body, &n); err != nil {
		return nil, fmt.Errorf("decode notification: %w", err)
	}

	requestID := headers.Get(HeaderRequestID)
	if !VerifySignature(p.webhookSecret, headers.Get(HeaderSignature), requestID, n.Data.ID) {
		return nil, paydomain.ErrInvalidSignature
	}

	eventID := strings.Trim(string(n.ID), `"`)
	if eventID == "null" {
		eventID = ""
	}
	if eventID == "" {
		eventID = requestID
	}

	return &paydomain.WebhookEvent{
		ID:       eventID,
		Type:     n.Type,
		IntentID: n.Data.ID,
	}, nil
}

func toIntent(res *mppayment.Response) *paydomain.Intent {
	intent := &paydomain.Intent{
		ID:            strconv.Itoa(res.ID),
		Status:        mapStatus(res.Status),
		AmountCents:   int64(res.TransactionAmount*100 + 0.5),
		AppointmentID: res.ExternalReference,
	}

	if intent.AppointmentID == "" {
		if v, ok := res.Metadata[metadataAppointmentID].(string); ok {
			intent.AppointmentID = v
		}
	}

	td := res.PointOfInteraction.TransactionData
	switch {
	case td.QRCode != "":
		intent.ClientSecret = td.QRCode
	case td.TicketURL != "":
		intent.ClientSecret = td.TicketURL
	}
	return intent
}

func mapStatus(s string) paydomain.IntentStatus {
	switch s {
	case "approved":
		return paydomain.IntentSucceeded
	case "rejected", "cancelled", "refunded", "charged_back":
		return paydomain.IntentFailed
	default:
		return paydomain.IntentPending
	}
}

var _ paydomain.Provider = (*MercadoPagoProvider)(nil)
