package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/barbershop-engine/internal/domain/appointment"
	"github.com/BruksfildServices01/barbershop-engine/internal/dto"
	"github.com/BruksfildServices01/barbershop-engine/internal/httperr"
	"github.com/BruksfildServices01/barbershop-engine/internal/middleware"
	ucAppointment "github.com/BruksfildServices01/barbershop-engine/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	createUC       *ucAppointment.CreateAppointment
	listUC         *ucAppointment.ListAppointments
	getUC          *ucAppointment.GetAppointment
	cancelUC       *ucAppointment.CancelAppointment
	updateUC       *ucAppointment.UpdateAppointment
	availabilityUC *ucAppointment.GetAvailability
}

func NewAppointmentHandler(
	createUC *ucAppointment.CreateAppointment,
	listUC *ucAppointment.ListAppointments,
	getUC *ucAppointment.GetAppointment,
	cancelUC *ucAppointment.CancelAppointment,
	updateUC *ucAppointment.UpdateAppointment,
	availabilityUC *ucAppointment.GetAvailability,
) *AppointmentHandler {
	return &AppointmentHandler{
		createUC:       createUC,
		listUC:         listUC,
		getUC:          getUC,
		cancelUC:       cancelUC,
		updateUC:       updateUC,
		availabilityUC: availabilityUC,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateAppointmentRequest struct {
	LocationID string `json:"locationId" binding:"required"`
	ClientID   string `json:"clientId"`
	BarberID   string `json:"barberId" binding:"required"`
	ServiceID  string `json:"serviceId" binding:"required"`
	StartAt    string `json:"startAt" binding:"required"`
	Notes      string `json:"notes"`
}

type CancelAppointmentRequest struct {
	Reason string `json:"reason"`
}

type UpdateAppointmentRequest struct {
	Status        *string `json:"status"`
	PaymentStatus *string `json:"paymentStatus"`
	Notes         *string `json:"notes"`
	DiscountCents *int64  `json:"discountCents"`
	RefundCents   *int64  `json:"refundCents"`
}

func (r UpdateAppointmentRequest) toPatch() (domain.Patch, error) {
	p := domain.Patch{
		Notes:         r.Notes,
		DiscountCents: r.DiscountCents,
		RefundCents:   r.RefundCents,
	}
	if r.Status != nil {
		s, ok := domain.ParseStatus(*r.Status)
		if !ok {
			return p, httperr.ErrBusiness("invalid_status")
		}
		p.Status = &s
	}
	if r.PaymentStatus != nil {
		ps, ok := domain.ParsePaymentStatus(*r.PaymentStatus)
		if !ok {
			return p, httperr.ErrBusiness("invalid_payment_status")
		}
		p.PaymentStatus = &ps
	}
	return p, nil
}

// ======================================================
// CREATE
// ======================================================

func (h *AppointmentHandler) Create(c *gin.Context) {
	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Respond(c, bindError(err))
		return
	}

	start, local, err := parseStart(req.StartAt)
	if err != nil {
		httperr.Respond(c, httperr.ErrBusiness("invalid_start_at"))
		return
	}

	ap, err := h.createUC.Execute(c.Request.Context(), ucAppointment.CreateAppointmentInput{
		Principal:  middleware.PrincipalFrom(c),
		LocationID: req.LocationID,
		ClientID:   req.ClientID,
		BarberID:   req.BarberID,
		ServiceID:  req.ServiceID,
		StartAt:    start,
		StartLocal: local,
		Notes:      req.Notes,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusCreated, ap)
}

// ======================================================
// LIST / GET
// ======================================================

func (h *AppointmentHandler) List(c *gin.Context) {
	from, err := optionalInstant(c, "from")
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	to, err := optionalInstant(c, "to")
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	aps, err := h.listUC.Execute(c.Request.Context(), ucAppointment.ListAppointmentsInput{
		Principal:  middleware.PrincipalFrom(c),
		LocationID: c.Query("locationId"),
		From:       from,
		To:         to,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.FromAppointments(aps))
}

func (h *AppointmentHandler) Get(c *gin.Context) {
	ap, err := h.getUC.Execute(c.Request.Context(), middleware.PrincipalFrom(c), c.Param("id"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, ap)
}

// ======================================================
// CANCEL
// ======================================================

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	// The body is optional; chunked bodies report no length, so only an
	// empty read counts as absent.
	var req CancelAppointmentRequest
	if c.Request.Body != nil && c.Request.Body != http.NoBody {
		if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
			httperr.Respond(c, bindError(err))
			return
		}
	}

	ap, err := h.cancelUC.Execute(c.Request.Context(), ucAppointment.CancelAppointmentInput{
		Principal:     middleware.PrincipalFrom(c),
		AppointmentID: c.Param("id"),
		Reason:        req.Reason,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, ap)
}

// ======================================================
// PATCH
// ======================================================

func (h *AppointmentHandler) Update(c *gin.Context) {
	var req UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.Respond(c, bindError(err))
		return
	}

	patch, err := req.toPatch()
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	ap, err := h.updateUC.Execute(c.Request.Context(), ucAppointment.UpdateAppointmentInput{
		Principal:     middleware.PrincipalFrom(c),
		AppointmentID: c.Param("id"),
		Patch:         patch,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, ap)
}

// ======================================================
// AVAILABILITY
// ======================================================

func (h *AppointmentHandler) Availability(c *gin.Context) {
	slots, err := h.availabilityUC.Execute(c.Request.Context(), domain.AvailabilityInput{
		BarberID:   c.Query("barberId"),
		LocationID: c.Query("locationId"),
		ServiceID:  c.Query("serviceId"),
		Date:       c.Query("date"),
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"slots": slots})
}
