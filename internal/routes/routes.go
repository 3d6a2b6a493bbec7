package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barbershop-engine/internal/audit"
	"github.com/BruksfildServices01/barbershop-engine/internal/config"
	domain "github.com/BruksfildServices01/barbershop-engine/internal/domain/appointment"
	paydomain "github.com/BruksfildServices01/barbershop-engine/internal/domain/payment"
	"github.com/BruksfildServices01/barbershop-engine/internal/handlers"
	infraRepo "github.com/BruksfildServices01/barbershop-engine/internal/infra/repository"
	"github.com/BruksfildServices01/barbershop-engine/internal/metrics"
	"github.com/BruksfildServices01/barbershop-engine/internal/middleware"
	"github.com/BruksfildServices01/barbershop-engine/internal/timezone"
	ucAppointment "github.com/BruksfildServices01/barbershop-engine/internal/usecase/appointment"
	ucPayment "github.com/BruksfildServices01/barbershop-engine/internal/usecase/payment"
	ucReporting "github.com/BruksfildServices01/barbershop-engine/internal/usecase/reporting"
	ucSchedule "github.com/BruksfildServices01/barbershop-engine/internal/usecase/schedule"
)

// Deps carries the process-wide singletons built in main. Provider, Ledger,
// Cache and Archive are optional and must be nil interfaces when absent.
type Deps struct {
	DB     *gorm.DB
	Config *config.Config
	Audit  *audit.Dispatcher
	Clock  timezone.Clock

	Provider paydomain.Provider
	Ledger   paydomain.EventLedger
	Cache    ucReporting.Cache
	Archive  ucReporting.Archive
}

func RegisterRoutes(r *gin.Engine, deps Deps) {
	cfg := deps.Config
	clock := deps.Clock
	if clock == nil {
		clock = timezone.SystemClock{}
	}

	handlers.UseJSONFieldNames()

	// ======================================================
	// MIDDLEWARE GLOBAL
	// ======================================================
	r.Use(middleware.CORSMiddleware(cfg.CORSAllowedOrigins))
	r.Use(metrics.GinMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// ======================================================
	// INFRA
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentGormRepository(deps.DB)
	scheduleRepo := infraRepo.NewScheduleGormRepository(deps.DB)
	auditLogger := audit.New(deps.DB)

	// ======================================================
	// USE CASES
	// ======================================================
	minAdvance := cfg.BookingMinAdvance()

	createAppointmentUC := ucAppointment.NewCreateAppointment(appointmentRepo, deps.Audit, clock, minAdvance)
	listAppointmentsUC := ucAppointment.NewListAppointments(appointmentRepo)
	getAppointmentUC := ucAppointment.NewGetAppointment(appointmentRepo)
	cancelAppointmentUC := ucAppointment.NewCancelAppointment(appointmentRepo, deps.Audit, clock)
	updateAppointmentUC := ucAppointment.NewUpdateAppointment(appointmentRepo, deps.Audit, clock)
	availabilityUC := ucAppointment.NewGetAvailability(appointmentRepo, clock, minAdvance)

	createIntentUC := ucPayment.NewCreatePaymentIntent(
		appointmentRepo,
		deps.Provider,
		deps.Audit,
		clock,
		cfg.PaymentIntentGrace(),
		cfg.PaymentCurrency,
	)
	confirmPrepaidUC := ucPayment.NewConfirmPrepaid(appointmentRepo, deps.Provider, deps.Audit, clock)
	confirmPaidAtShopUC := ucPayment.NewConfirmPaidAtShop(appointmentRepo, deps.Audit)
	webhookUC := ucPayment.NewProcessWebhook(appointmentRepo, deps.Provider, deps.Ledger, deps.Audit, clock)

	analyticsUC := ucReporting.NewGetAnalytics(appointmentRepo, deps.Cache, clock)
	exportUC := ucReporting.NewExportAnalytics(analyticsUC, deps.Archive, deps.Audit, clock)
	clientHistoryUC := ucReporting.NewClientHistory(appointmentRepo)
	scheduledCutsUC := ucReporting.NewScheduledCuts(appointmentRepo, clock)
	payrollUC := ucReporting.NewPayrollPreview(appointmentRepo, clock)
	dashboardUC := ucReporting.NewGetDashboardStats(appointmentRepo, appointmentRepo, clock)

	upsertSlotUC := ucSchedule.NewUpsertSlot(scheduleRepo, deps.Audit)
	listSlotsUC := ucSchedule.NewListSlots(scheduleRepo)

	// ======================================================
	// HANDLERS
	// ======================================================
	appointmentHandler := handlers.NewAppointmentHandler(
		createAppointmentUC,
		listAppointmentsUC,
		getAppointmentUC,
		cancelAppointmentUC,
		updateAppointmentUC,
		availabilityUC,
	)
	paymentHandler := handlers.NewPaymentHandler(
		deps.Provider,
		createIntentUC,
		confirmPrepaidUC,
		confirmPaidAtShopUC,
		webhookUC,
	)
	reportHandler := handlers.NewReportHandler(
		analyticsUC,
		exportUC,
		clientHistoryUC,
		scheduledCutsUC,
		payrollUC,
		dashboardUC,
	)
	scheduleHandler := handlers.NewScheduleHandler(upsertSlotUC, listSlotsUC)
	auditLogsHandler := handlers.NewAuditLogsHandler(auditLogger)

	staff := middleware.RequireRoles(
		domain.RoleBarber,
		domain.RoleManager,
		domain.RoleOwner,
		domain.RoleAdmin,
	)
	admin := middleware.RequireRoles(domain.RoleOwner, domain.RoleAdmin)

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	{
		// Provider callbacks authenticate by signature, not by token.
		api.POST("/payments/webhook", paymentHandler.Webhook)

		secured := api.Group("/")
		secured.Use(middleware.AuthMiddleware(cfg))
		{
			// ------------------------------
			// APPOINTMENTS
			// ------------------------------
			secured.POST("/appointments", appointmentHandler.Create)
			secured.GET("/appointments", appointmentHandler.List)
			secured.GET("/appointments/:id", appointmentHandler.Get)
			secured.POST("/appointments/:id/cancel", appointmentHandler.Cancel)
			secured.PATCH("/appointments/:id", staff, appointmentHandler.Update)
			secured.GET("/availability", appointmentHandler.Availability)

			// ------------------------------
			// SCHEDULE
			// ------------------------------
			secured.GET("/schedule", scheduleHandler.List)
			secured.POST("/schedule", staff, scheduleHandler.Upsert)

			// ------------------------------
			// PAYMENTS
			// ------------------------------
			secured.GET("/payments/config", paymentHandler.Config)
			secured.POST("/payments/create-payment-intent", paymentHandler.CreateIntent)
			secured.POST("/payments/confirm-prepaid", paymentHandler.ConfirmPrepaid)
			secured.POST("/payments/confirm-paid-at-shop", staff, paymentHandler.ConfirmPaidAtShop)

			// ------------------------------
			// REPORTS
			// ------------------------------
			secured.GET("/clients", staff, reportHandler.Clients)
			secured.GET("/reports/scheduled-cuts", staff, reportHandler.ScheduledCuts)

			secured.GET("/admin/analytics", reportHandler.Analytics)
			secured.POST("/admin/analytics/export", reportHandler.ExportAnalytics)
			secured.GET("/admin/payroll-preview", admin, reportHandler.PayrollPreview)
			secured.GET("/admin/stats", admin, reportHandler.Stats)
			secured.GET("/admin/audit-logs", admin, auditLogsHandler.List)
		}
	}
}
