package payment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/barbershop-engine/internal/audit"
	domain "github.com/BruksfildServices01/barbershop-engine/internal/domain/appointment"
	paydomain "github.com/BruksfildServices01/barbershop-engine/internal/domain/payment"
	"github.com/BruksfildServices01/barbershop-engine/internal/httperr"
	tf "github.com/BruksfildServices01/barbershop-engine/internal/testfixtures"
)

const grace = 120 * time.Second

type env struct {
	store    *tf.Store
	clock    *tf.Clock
	provider *tf.Provider
	ledger   *tf.Ledger
	recorder *tf.AuditRecorder
	audit    *audit.Dispatcher
}

func newEnv(t *testing.T) *env {
	t.Helper()

	store := tf.NewStore()
	tf.Seed(store)

	rec := &tf.AuditRecorder{}
	d := audit.NewDispatcher(rec)
	t.Cleanup(d.Close)

	return &env{
		store:    store,
		clock:    tf.NewClock(tf.ReferenceTime()),
		provider: tf.NewProvider(),
		ledger:   tf.NewLedger(),
		recorder: rec,
		audit:    d,
	}
}

func (e *env) createIntent() *CreatePaymentIntent {
	return NewCreatePaymentIntent(e.store, e.provider, e.audit, e.clock, grace, "usd")
}

func (e *env) webhook() *ProcessWebhook {
	return NewProcessWebhook(e.store, e.provider, e.ledger, e.audit, e.clock)
}

func (e *env) put(id string, status domain.Status, pay domain.PaymentStatus) {
	e.store.PutAppointment(tf.Appointment(id, tf.At(9, 0), status, pay))
}

func (e *env) payment(id string) string {
	ap, _ := e.store.Appointment(id)
	return ap.PaymentStatus
}

// ======================================================
// Create intent
// ======================================================

func TestCreateIntentStoresReference(t *testing.T) {
	e := newEnv(t)
	e.put("ap-1", domain.StatusPending, domain.PaymentUnpaid)

	out, err := e.createIntent().Execute(context.Background(), CreateIntentInput{
		Principal:     tf.Client(),
		AppointmentID: "ap-1",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, out.ClientSecret)
	assert.Equal(t, "pi_1", out.PaymentIntentID)

	ap, _ := e.store.Appointment("ap-1")
	require.NotNil(t, ap.PaymentIntentID)
	assert.Equal(t, "pi_1", *ap.PaymentIntentID)
	assert.Equal(t, string(domain.PaymentUnpaid), ap.PaymentStatus)

	require.Len(t, e.provider.Requests, 1)
	assert.Equal(t, tf.CutPrice, e.provider.Requests[0].AmountCents)
	assert.Equal(t, "usd", e.provider.Requests[0].Currency)
}

func TestCreateIntentAmounts(t *testing.T) {
	e := newEnv(t)
	ap := tf.Appointment("ap-1", tf.At(9, 0), domain.StatusPending, domain.PaymentUnpaid)
	ap.DiscountCents = 500
	e.store.PutAppointment(ap)
	uc := e.createIntent()
	ctx := context.Background()

	_, err := uc.Execute(ctx, CreateIntentInput{Principal: tf.Client(), AppointmentID: "ap-1", AmountCents: ptr(int64(10))})
	assert.True(t, httperr.IsBusiness(err, "amount_too_small"))

	_, err = uc.Execute(ctx, CreateIntentInput{Principal: tf.Client(), AppointmentID: "ap-1", AmountCents: ptr(int64(3500))})
	assert.True(t, httperr.IsBusiness(err, "amount_exceeds_total"))

	_, err = uc.Execute(ctx, CreateIntentInput{Principal: tf.Client(), AppointmentID: "ap-1"})
	require.NoError(t, err)
	assert.Equal(t, int64(3000), e.provider.Requests[0].AmountCents, "defaults to total minus discount")
}

func TestCreateIntentGraceWindow(t *testing.T) {
	e := newEnv(t)
	ap := tf.Appointment("ap-1", tf.At(9, 0), domain.StatusPending, domain.PaymentUnpaid)
	ap.CreatedBy = tf.BarberID
	ap.CreatedAt = e.clock.Now()
	e.store.PutAppointment(ap)
	uc := e.createIntent()

	e.clock.Advance(60 * time.Second)
	_, err := uc.Execute(context.Background(), CreateIntentInput{Principal: tf.Barber(), AppointmentID: "ap-1"})
	require.NoError(t, err)

	e.clock.Advance(2 * time.Minute)
	_, err = uc.Execute(context.Background(), CreateIntentInput{Principal: tf.Barber(), AppointmentID: "ap-1"})
	assert.Equal(t, httperr.KindForbidden, httperr.KindOf(err))

	_, err = uc.Execute(context.Background(), CreateIntentInput{Principal: tf.Client(), AppointmentID: "ap-1"})
	assert.NoError(t, err, "the client may always pay")
}

func TestCreateIntentRejectsSettledOrClosed(t *testing.T) {
	e := newEnv(t)
	e.put("paid", domain.StatusConfirmed, domain.PaymentPrepaidOnline)
	e.put("gone", domain.StatusCancelled, domain.PaymentUnpaid)
	uc := e.createIntent()

	_, err := uc.Execute(context.Background(), CreateIntentInput{Principal: tf.Client(), AppointmentID: "paid"})
	assert.True(t, httperr.IsBusiness(err, "payment_already_settled"))

	_, err = uc.Execute(context.Background(), CreateIntentInput{Principal: tf.Client(), AppointmentID: "gone"})
	assert.True(t, httperr.IsBusiness(err, "appointment_not_payable"))
	assert.Empty(t, e.provider.Requests)
}

func TestCreateIntentProviderFailures(t *testing.T) {
	e := newEnv(t)
	e.put("ap-1", domain.StatusPending, domain.PaymentUnpaid)

	e.provider.CreateErr = tf.ErrProviderDown
	_, err := e.createIntent().Execute(context.Background(), CreateIntentInput{Principal: tf.Client(), AppointmentID: "ap-1"})
	assert.Equal(t, httperr.KindPaymentProviderUnavailable, httperr.KindOf(err))

	unconfigured := NewCreatePaymentIntent(e.store, nil, e.audit, e.clock, grace, "usd")
	_, err = unconfigured.Execute(context.Background(), CreateIntentInput{Principal: tf.Client(), AppointmentID: "ap-1"})
	assert.Equal(t, httperr.KindPaymentProviderUnavailable, httperr.KindOf(err))
}

// ======================================================
// Confirm
// ======================================================

func TestConfirmPrepaid(t *testing.T) {
	e := newEnv(t)
	e.put("ap-1", domain.StatusConfirmed, domain.PaymentUnpaid)
	ctx := context.Background()

	out, err := e.createIntent().Execute(ctx, CreateIntentInput{Principal: tf.Client(), AppointmentID: "ap-1"})
	require.NoError(t, err)

	confirm := NewConfirmPrepaid(e.store, e.provider, e.audit, e.clock)

	_, err = confirm.Execute(ctx, tf.Client(), "ap-1")
	assert.True(t, httperr.IsBusiness(err, "payment_not_complete"))
	assert.Equal(t, httperr.KindPaymentNotComplete, httperr.KindOf(err))

	e.provider.SetStatus(out.PaymentIntentID, paydomain.IntentSucceeded)

	ap, err := confirm.Execute(ctx, tf.Client(), "ap-1")
	require.NoError(t, err)
	assert.Equal(t, string(domain.PaymentPrepaidOnline), ap.PaymentStatus)
	assert.Equal(t, string(domain.StatusConfirmed), ap.Status)

	// Second confirm is a no-op
	again, err := confirm.Execute(ctx, tf.Client(), "ap-1")
	require.NoError(t, err)
	assert.Equal(t, string(domain.PaymentPrepaidOnline), again.PaymentStatus)

	assert.Equal(t, []string{"payment_intent_created", "payment_prepaid_online"}, flush(e))
}

func TestConfirmPrepaidWithoutIntent(t *testing.T) {
	e := newEnv(t)
	e.put("ap-1", domain.StatusConfirmed, domain.PaymentUnpaid)

	confirm := NewConfirmPrepaid(e.store, e.provider, e.audit, e.clock)
	_, err := confirm.Execute(context.Background(), tf.Client(), "ap-1")
	assert.True(t, httperr.IsBusiness(err, "no_payment_intent"))

	_, err = confirm.Execute(context.Background(), tf.OtherClient(), "ap-1")
	assert.Equal(t, httperr.KindForbidden, httperr.KindOf(err))
}

func TestConfirmPaidAtShop(t *testing.T) {
	e := newEnv(t)
	e.put("ap-1", domain.StatusConfirmed, domain.PaymentUnpaid)
	uc := NewConfirmPaidAtShop(e.store, e.audit)

	_, err := uc.Execute(context.Background(), tf.Client(), "ap-1")
	assert.True(t, httperr.IsBusiness(err, "staff_only"))

	ap, err := uc.Execute(context.Background(), tf.Barber(), "ap-1")
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusCompleted), ap.Status)
	assert.Equal(t, string(domain.PaymentPaidAtShop), ap.PaymentStatus)

	_, err = uc.Execute(context.Background(), tf.Barber(), "ap-1")
	assert.NoError(t, err, "idempotent")
}

// ======================================================
// Webhook
// ======================================================

func TestWebhookAppliesOnceAndIsIdempotent(t *testing.T) {
	e := newEnv(t)
	e.put("ap-1", domain.StatusConfirmed, domain.PaymentUnpaid)
	ctx := context.Background()

	out, err := e.createIntent().Execute(ctx, CreateIntentInput{Principal: tf.Client(), AppointmentID: "ap-1"})
	require.NoError(t, err)
	e.provider.SetStatus(out.PaymentIntentID, paydomain.IntentSucceeded)

	uc := e.webhook()
	body, headers := e.provider.WebhookRequest("evt-1", out.PaymentIntentID)

	outcome, err := uc.Execute(ctx, WebhookInput{Body: body, Headers: headers})
	require.NoError(t, err)
	assert.Equal(t, OutcomeApplied, outcome)
	assert.Equal(t, string(domain.PaymentPrepaidOnline), e.payment("ap-1"))

	mutations := e.store.Mutations

	outcome, err = uc.Execute(ctx, WebhookInput{Body: body, Headers: headers})
	require.NoError(t, err)
	assert.Equal(t, OutcomeDuplicate, outcome)
	assert.Equal(t, mutations, e.store.Mutations, "redelivery touches nothing")

	// A different event for the same intent is a no-op on state.
	body2, headers2 := e.provider.WebhookRequest("evt-2", out.PaymentIntentID)
	outcome, err = uc.Execute(ctx, WebhookInput{Body: body2, Headers: headers2})
	require.NoError(t, err)
	assert.Equal(t, OutcomeNoop, outcome)
	assert.Equal(t, string(domain.PaymentPrepaidOnline), e.payment("ap-1"))
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	e := newEnv(t)
	e.put("ap-1", domain.StatusConfirmed, domain.PaymentUnpaid)

	body, headers := e.provider.WebhookRequest("evt-1", "pi_1")
	headers.Set(tf.SignatureHeader, "forged")

	outcome, err := e.webhook().Execute(context.Background(), WebhookInput{Body: body, Headers: headers})
	assert.Equal(t, OutcomeBadSignature, outcome)
	assert.True(t, httperr.IsBusiness(err, "invalid_signature"))
	assert.Equal(t, string(domain.PaymentUnpaid), e.payment("ap-1"))
	assert.Zero(t, e.store.Mutations)
}

func TestWebhookOnCancelledAppointmentRecordsRefund(t *testing.T) {
	e := newEnv(t)
	ap := tf.Appointment("ap-1", tf.At(9, 0), domain.StatusCancelled, domain.PaymentUnpaid)
	ap.PaymentIntentID = ptr("pi_late")
	e.store.PutAppointment(ap)
	e.provider.PutIntent(paydomain.Intent{ID: "pi_late", Status: paydomain.IntentSucceeded, AmountCents: tf.CutPrice})

	body, headers := e.provider.WebhookRequest("evt-1", "pi_late")
	outcome, err := e.webhook().Execute(context.Background(), WebhookInput{Body: body, Headers: headers})
	require.NoError(t, err)
	assert.Equal(t, OutcomeApplied, outcome)
	assert.Equal(t, string(domain.PaymentRefunded), e.payment("ap-1"))
}

func TestWebhookFallsBackToIntentMetadata(t *testing.T) {
	e := newEnv(t)
	e.put("ap-1", domain.StatusPending, domain.PaymentUnpaid)
	e.provider.PutIntent(paydomain.Intent{ID: "pi_x", Status: paydomain.IntentSucceeded, AppointmentID: "ap-1"})

	body, headers := e.provider.WebhookRequest("evt-1", "pi_x")
	outcome, err := e.webhook().Execute(context.Background(), WebhookInput{Body: body, Headers: headers})
	require.NoError(t, err)
	assert.Equal(t, OutcomeApplied, outcome)

	ap, _ := e.store.Appointment("ap-1")
	assert.Equal(t, string(domain.PaymentPrepaidOnline), ap.PaymentStatus)
	require.NotNil(t, ap.PaymentIntentID)
	assert.Equal(t, "pi_x", *ap.PaymentIntentID)
}

func TestWebhookOutcomes(t *testing.T) {
	e := newEnv(t)
	e.put("ap-1", domain.StatusPending, domain.PaymentUnpaid)
	e.provider.PutIntent(paydomain.Intent{ID: "pi_pending", Status: paydomain.IntentPending, AppointmentID: "ap-1"})
	e.provider.PutIntent(paydomain.Intent{ID: "pi_orphan", Status: paydomain.IntentSucceeded})
	uc := e.webhook()
	ctx := context.Background()

	body, headers := e.provider.WebhookRequest("evt-1", "pi_pending")
	outcome, err := uc.Execute(ctx, WebhookInput{Body: body, Headers: headers})
	require.NoError(t, err)
	assert.Equal(t, OutcomeNotSucceeded, outcome)

	body, headers = e.provider.WebhookRequest("evt-2", "pi_orphan")
	outcome, err = uc.Execute(ctx, WebhookInput{Body: body, Headers: headers})
	require.NoError(t, err)
	assert.Equal(t, OutcomeUnmatched, outcome)

	body, headers = e.provider.WebhookRequest("evt-3", "pi_unknown")
	outcome, err = uc.Execute(ctx, WebhookInput{Body: body, Headers: headers})
	require.NoError(t, err)
	assert.Equal(t, OutcomeUnmatched, outcome)

	_, headers = e.provider.WebhookRequest("evt-4", "pi_pending")
	_, err = uc.Execute(ctx, WebhookInput{Body: []byte("{not json"), Headers: headers})
	assert.True(t, httperr.IsBusiness(err, "invalid_payload"))

	e.provider.GetErr = tf.ErrProviderDown
	body, headers = e.provider.WebhookRequest("evt-5", "pi_pending")
	_, err = uc.Execute(ctx, WebhookInput{Body: body, Headers: headers})
	assert.Equal(t, httperr.KindPaymentProviderUnavailable, httperr.KindOf(err))

	seen, _ := e.ledger.Seen(ctx, "evt-5")
	assert.False(t, seen, "failed deliveries stay retryable")
	assert.Equal(t, string(domain.PaymentUnpaid), e.payment("ap-1"))
}

func flush(e *env) []string {
	e.audit.Close()
	return e.recorder.Actions()
}

func ptr[T any](v T) *T { return &v }
