package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	paydomain "github.com/BruksfildServices01/barbershop-engine/internal/domain/payment"
	"github.com/BruksfildServices01/barbershop-engine/internal/httperr"
	"github.com/BruksfildServices01/barbershop-engine/internal/middleware"
	ucPayment "github.com/BruksfildServices01/barbershop-engine/internal/usecase/payment"
)

// Webhook bodies are small JSON notifications.
const maxWebhookBody = 64 << 10

type PaymentHandler struct {
	provider      paydomain.Provider
	createIntent  *ucPayment.CreatePaymentIntent
	confirmOnline *ucPayment.ConfirmPrepaid
	confirmShop   *ucPayment.ConfirmPaidAtShop
	webhook       *ucPayment.ProcessWebhook
}

func NewPaymentHandler(
	provider paydomain.Provider,
	createIntent *ucPayment.CreatePaymentIntent,
	confirmOnline *ucPayment.ConfirmPrepaid,
	confirmShop *ucPayment.ConfirmPaidAtShop,
	webhook *ucPayment.ProcessWebhook,
) *PaymentHandler {
	return &PaymentHandler{
		provider:      provider,
		createIntent:  createIntent,
		confirmOnline: confirmOnline,
		confirmShop:   confirmShop,
		webhook:       webhook,
	}
}

type CreateIntentRequest struct {
	AppointmentID string `json:"appointmentId" binding:"required"`
	AmountCents   *int64 `json:"amountCents"`
	PayerEmail    string `json:"payerEmail" binding:"omitempty,email"`
}

type AppointmentRefRequest struct {
	AppointmentID string `json:"appointmentId" binding:"required"`
}

func (h *PaymentHandler) CreateIntent(c *gin.Context) {
	var req CreateIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Respond(c, bindError(err))
		return
	}

	out, err := h.createIntent.Execute(c.Request.Context(), ucPayment.CreateIntentInput{
		Principal:     middleware.PrincipalFrom(c),
		AppointmentID: req.AppointmentID,
		AmountCents:   req.AmountCents,
		PayerEmail:    req.PayerEmail,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, out)
}

func (h *PaymentHandler) ConfirmPrepaid(c *gin.Context) {
	var req AppointmentRefRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Respond(c, bindError(err))
		return
	}

	if _, err := h.confirmOnline.Execute(c.Request.Context(), middleware.PrincipalFrom(c), req.AppointmentID); err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *PaymentHandler) ConfirmPaidAtShop(c *gin.Context) {
	var req AppointmentRefRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Respond(c, bindError(err))
		return
	}

	ap, err := h.confirmShop.Execute(c.Request.Context(), middleware.PrincipalFrom(c), req.AppointmentID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, ap)
}

// Webhook needs the raw body for signature verification, so it reads it
// before any JSON binding.
func (h *PaymentHandler) Webhook(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		httperr.BadRequest(c, "invalid_body", "Invalid request.")
		return
	}

	if _, err := h.webhook.Execute(c.Request.Context(), ucPayment.WebhookInput{
		Body:    body,
		Headers: c.Request.Header,
	}); err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

func (h *PaymentHandler) Config(c *gin.Context) {
	provider := ""
	if h.provider != nil {
		provider = h.provider.Name()
	}

	c.JSON(http.StatusOK, gin.H{
		"provider":            provider,
		"publicKeyConfigured": h.provider != nil,
	})
}
