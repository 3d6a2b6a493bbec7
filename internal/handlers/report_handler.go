package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barbershop-engine/internal/dto"
	"github.com/BruksfildServices01/barbershop-engine/internal/httperr"
	"github.com/BruksfildServices01/barbershop-engine/internal/middleware"
	ucReporting "github.com/BruksfildServices01/barbershop-engine/internal/usecase/reporting"
)

type ReportHandler struct {
	analytics     *ucReporting.GetAnalytics
	export        *ucReporting.ExportAnalytics
	clients       *ucReporting.ClientHistory
	scheduledCuts *ucReporting.ScheduledCuts
	payroll       *ucReporting.PayrollPreview
	dashboard     *ucReporting.GetDashboardStats
}

func NewReportHandler(
	analytics *ucReporting.GetAnalytics,
	export *ucReporting.ExportAnalytics,
	clients *ucReporting.ClientHistory,
	scheduledCuts *ucReporting.ScheduledCuts,
	payroll *ucReporting.PayrollPreview,
	dashboard *ucReporting.GetDashboardStats,
) *ReportHandler {
	return &ReportHandler{
		analytics:     analytics,
		export:        export,
		clients:       clients,
		scheduledCuts: scheduledCuts,
		payroll:       payroll,
		dashboard:     dashboard,
	}
}

func (h *ReportHandler) analyticsInput(c *gin.Context) ucReporting.AnalyticsInput {
	return ucReporting.AnalyticsInput{
		Principal:  middleware.PrincipalFrom(c),
		Period:     c.DefaultQuery("period", "month"),
		LocationID: c.Query("locationId"),
	}
}

func (h *ReportHandler) Analytics(c *gin.Context) {
	report, err := h.analytics.Execute(c.Request.Context(), h.analyticsInput(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *ReportHandler) ExportAnalytics(c *gin.Context) {
	out, err := h.export.Execute(c.Request.Context(), h.analyticsInput(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

// Clients is the client history view.
func (h *ReportHandler) Clients(c *gin.Context) {
	rows, err := h.clients.Execute(c.Request.Context(), ucReporting.ClientHistoryInput{
		Principal:  middleware.PrincipalFrom(c),
		BarberID:   c.Query("barberId"),
		LocationID: c.Query("locationId"),
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, rows)
}

func (h *ReportHandler) ScheduledCuts(c *gin.Context) {
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

	aps, err := h.scheduledCuts.Execute(c.Request.Context(), ucReporting.ScheduledCutsInput{
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

func (h *ReportHandler) PayrollPreview(c *gin.Context) {
	rate, err := strconv.Atoi(c.DefaultQuery("commissionRatePercent", "0"))
	if err != nil {
		httperr.Respond(c, httperr.ErrBusiness("invalid_commission_rate"))
		return
	}

	out, err := h.payroll.Execute(c.Request.Context(), ucReporting.PayrollPreviewInput{
		Principal:             middleware.PrincipalFrom(c),
		Period:                c.DefaultQuery("period", "month"),
		LocationID:            c.Query("locationId"),
		CommissionRatePercent: rate,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// Stats is the admin dashboard summary.
func (h *ReportHandler) Stats(c *gin.Context) {
	stats, err := h.dashboard.Execute(c.Request.Context(), ucReporting.DashboardInput{
		Principal:  middleware.PrincipalFrom(c),
		LocationID: c.Query("locationId"),
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}
