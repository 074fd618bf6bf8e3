package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/listenline/session-booking/internal/audit"
	"github.com/listenline/session-booking/internal/cache"
	"github.com/listenline/session-booking/internal/config"
	"github.com/listenline/session-booking/internal/handlers"
	infraRepo "github.com/listenline/session-booking/internal/infra/repository"
	"github.com/listenline/session-booking/internal/meeting"
	"github.com/listenline/session-booking/internal/middleware"
	"github.com/listenline/session-booking/internal/store"
	ucBooking "github.com/listenline/session-booking/internal/usecase/booking"
	ucSlot "github.com/listenline/session-booking/internal/usecase/slot"
)

func RegisterRoutes(
	r *gin.Engine,
	db *gorm.DB,
	cfg *config.Config,
	cacheSvc *cache.Service,
	log zerolog.Logger,
) {

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	runner := store.NewRunner(cfg.MaxRetries, cfg.RetryBaseDelay, cfg.SlowQueryAfter, log)

	slotRepo := infraRepo.NewSlotGormRepository(db)
	bookingRepo := infraRepo.NewBookingGormRepository(db)
	listenerRepo := infraRepo.NewListenerGormRepository(db)

	issuer := meeting.NewStubIssuer(cfg.MeetingBaseURL, cfg.MeetingProvider)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger, log)

	// ======================================================
	// USE CASES — SLOTS
	// ======================================================
	createSlotUC := ucSlot.NewCreateSlot(slotRepo, runner, cacheSvc, auditDispatcher)
	bulkCreateUC := ucSlot.NewBulkCreateSlots(slotRepo, runner, cacheSvc, auditDispatcher)
	listAvailableUC := ucSlot.NewListAvailableSlots(slotRepo, runner, cacheSvc, cfg.CacheTTL, cfg.Timezone)
	getSlotUC := ucSlot.NewGetSlot(slotRepo, runner)
	transitionUC := ucSlot.NewTransitionStatus(slotRepo, runner, cacheSvc, auditDispatcher)
	deleteSlotUC := ucSlot.NewDeleteSlot(slotRepo, runner, cacheSvc, auditDispatcher)
	deleteAllUC := ucSlot.NewDeleteAllSlots(slotRepo, runner, cacheSvc, auditDispatcher)

	// ======================================================
	// USE CASES — BOOKINGS
	// ======================================================
	createBookingUC := ucBooking.NewCreateBooking(
		slotRepo,
		bookingRepo,
		listenerRepo,
		issuer,
		runner,
		cacheSvc,
		auditDispatcher,
		log,
	)
	cancelBookingUC := ucBooking.NewCancelBooking(
		slotRepo,
		bookingRepo,
		runner,
		cacheSvc,
		auditDispatcher,
		log,
		cfg.Timezone,
	)
	completeBookingUC := ucBooking.NewCompleteBooking(
		bookingRepo,
		runner,
		cacheSvc,
		auditDispatcher,
		cfg.Timezone,
	)
	listUserBookingsUC := ucBooking.NewListUserBookings(
		bookingRepo,
		runner,
		cacheSvc,
		cfg.CacheTTL,
	)

	// ======================================================
	// HANDLERS
	// ======================================================
	slotHandler := handlers.NewSlotHandler(
		createSlotUC,
		bulkCreateUC,
		listAvailableUC,
		getSlotUC,
		transitionUC,
		deleteSlotUC,
		deleteAllUC,
	)

	bookingHandler := handlers.NewBookingHandler(
		createBookingUC,
		cancelBookingUC,
		completeBookingUC,
		listUserBookingsUC,
	)

	auditLogsHandler := handlers.NewAuditLogsHandler(db)

	// ======================================================
	// ROUTES
	// ======================================================
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	{
		// ------------------------------
		// PUBLIC
		// ------------------------------
		api.GET("/slots/available", slotHandler.ListAvailable)
		api.GET("/slots/:id", slotHandler.Get)

		api.POST("/bookings", bookingHandler.Create)
		api.GET("/bookings/user/:userId", bookingHandler.ListByUser)
		api.PATCH("/bookings/:id/cancel", bookingHandler.Cancel)

		// ------------------------------
		// ADMIN
		// ------------------------------
		admin := api.Group("/admin")
		admin.Use(middleware.AdminAuthMiddleware(cfg))
		{
			admin.POST("/slots", slotHandler.Create)
			admin.POST("/slots/bulk", slotHandler.BulkCreate)
			admin.DELETE("/slots/:id", slotHandler.Delete)
			admin.DELETE("/slots", slotHandler.DeleteAll)
			admin.PATCH("/slots/:id/complete", slotHandler.Complete)
			admin.PATCH("/slots/:id/cancel", slotHandler.Cancel)

			admin.PATCH("/bookings/:id/complete", bookingHandler.Complete)

			admin.GET("/audit-logs", auditLogsHandler.List)
		}
	}
}
