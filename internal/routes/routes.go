package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"github.com/salonbook/salon-scheduler/internal/audit"
	"github.com/salonbook/salon-scheduler/internal/config"
	resDomain "github.com/salonbook/salon-scheduler/internal/domain/reservation"
	revDomain "github.com/salonbook/salon-scheduler/internal/domain/review"
	"github.com/salonbook/salon-scheduler/internal/handlers"
	infraRepo "github.com/salonbook/salon-scheduler/internal/infra/repository"
	"github.com/salonbook/salon-scheduler/internal/metrics"
	"github.com/salonbook/salon-scheduler/internal/middleware"
	ucReservation "github.com/salonbook/salon-scheduler/internal/usecase/reservation"
	ucReview "github.com/salonbook/salon-scheduler/internal/usecase/review"
)

type Deps struct {
	DB       *gorm.DB
	Config   *config.Config
	Logger   *zap.Logger
	Metrics  *metrics.Metrics
	Gatherer prometheus.Gatherer
	Audit    *audit.Dispatcher
}

func RegisterRoutes(r *gin.Engine, d Deps) {

	// ======================================================
	// GLOBAL MIDDLEWARE
	// ======================================================
	r.Use(middleware.CORSMiddleware(d.Config.CORSAllowedOrigins))
	r.Use(middleware.RequestLogger(d.Logger, d.Metrics))

	if d.Config.RateLimitRPS > 0 {
		limiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
			Rate:  rate.Limit(d.Config.RateLimitRPS),
			Burst: d.Config.RateLimitBurst,
		})
		r.Use(limiter.RateLimit())
	}

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	reservationRepo := infraRepo.NewReservationGormRepository(d.DB, d.Config.TxMaxRetries)
	reviewRepo := infraRepo.NewReviewGormRepository(d.DB, d.Config.TxMaxRetries)

	reservationHandler, reviewHandler := newHandlers(reservationRepo, reviewRepo, d)
	auditLogsHandler := handlers.NewAuditLogsHandler(d.DB)

	mountAPI(r.Group("/api"), d.Config, reservationHandler, reviewHandler, auditLogsHandler)
}

// newHandlers builds every use case over the given stores.
func newHandlers(
	reservations resDomain.Repository,
	reviews revDomain.Repository,
	d Deps,
) (*handlers.ReservationHandler, *handlers.ReviewHandler) {

	// ======================================================
	// USE CASES: RESERVATIONS
	// ======================================================
	resDeps := ucReservation.Deps{
		Repo:    reservations,
		Audit:   d.Audit,
		Logger:  d.Logger,
		Metrics: d.Metrics,
	}

	rh := handlers.NewReservationHandler(
		ucReservation.NewCreateReservation(resDeps),
		ucReservation.NewUpdateReservation(resDeps),
		ucReservation.NewConfirmReservation(resDeps),
		ucReservation.NewCancelReservation(resDeps),
		ucReservation.NewCompleteReservation(resDeps),
		ucReservation.NewMarkNoShow(resDeps),
		ucReservation.NewGetReservation(reservations),
		ucReservation.NewSearchReservations(reservations),
		ucReservation.NewCheckConflict(reservations),
		ucReservation.NewGetAvailability(reservations),
	)

	// ======================================================
	// USE CASES: REVIEWS
	// ======================================================
	revDeps := ucReview.Deps{
		Repo:             reviews,
		Reservations:     reservations,
		Audit:            d.Audit,
		Logger:           d.Logger,
		Metrics:          d.Metrics,
		EditWindow:       d.Config.ReviewEditWindow,
		RequireCompleted: d.Config.RequireCompletedForReview,
	}

	vh := handlers.NewReviewHandler(
		ucReview.NewCreateReview(revDeps),
		ucReview.NewUpdateReview(revDeps),
		ucReview.NewPublishReview(revDeps),
		ucReview.NewHideReview(revDeps),
		ucReview.NewDeleteReview(revDeps),
		ucReview.NewVerifyReview(revDeps),
		ucReview.NewMarkHelpful(reviews),
		ucReview.NewGetReview(reviews),
		ucReview.NewListReviews(reviews),
		ucReview.NewGetSummary(reviews),
	)

	return rh, vh
}

// mountAPI wires the JSON routes and their guards under api.
func mountAPI(
	api *gin.RouterGroup,
	cfg *config.Config,
	reservations *handlers.ReservationHandler,
	reviews *handlers.ReviewHandler,
	auditLogs *handlers.AuditLogsHandler,
) {
	// ------------------------------
	// PUBLIC
	// ------------------------------
	api.GET("/salons/:id/availability", reservations.Availability)
	api.GET("/salons/:id/review-summary", reviews.SalonSummary)
	api.GET("/staff/:id/review-summary", reviews.StaffSummary)
	api.POST("/reviews/:id/helpful", reviews.Helpful)

	// Moderators see unpublished reviews through the same routes.
	optional := api.Group("/")
	optional.Use(middleware.OptionalAuth(cfg))
	{
		optional.GET("/reviews", reviews.List)
		optional.GET("/reviews/:id", reviews.Get)
	}

	// ------------------------------
	// AUTHENTICATED
	// ------------------------------
	secured := api.Group("/")
	secured.Use(middleware.AuthMiddleware(cfg))
	{
		RegisterReservationRoutes(secured, reservations)

		staff := secured.Group("/")
		staff.Use(middleware.RequireRole(middleware.RoleStaff, middleware.RoleOwner, middleware.RoleAdmin))
		{
			RegisterStaffReservationRoutes(staff, reservations)
		}

		secured.POST("/reviews", reviews.Create)
		secured.PATCH("/reviews/:id", reviews.Update)

		moderators := secured.Group("/")
		moderators.Use(middleware.RequireRole(middleware.RoleOwner, middleware.RoleAdmin))
		{
			RegisterModerationRoutes(moderators, reviews)
			moderators.GET("/audit-logs", auditLogs.List)
		}
	}
}

// RegisterReservationRoutes holds what customers may do with their own
// reservations.
func RegisterReservationRoutes(g *gin.RouterGroup, h *handlers.ReservationHandler) {
	g.POST("/reservations", h.Create)
	g.GET("/reservations", h.Search)
	g.GET("/reservations/:id", h.Get)
	g.PATCH("/reservations/:id/cancel", h.Cancel)
}

func RegisterStaffReservationRoutes(g *gin.RouterGroup, h *handlers.ReservationHandler) {
	g.POST("/reservations/conflicts", h.CheckConflict)
	g.PATCH("/reservations/:id", h.Update)
	g.PATCH("/reservations/:id/confirm", h.Confirm)
	g.PATCH("/reservations/:id/complete", h.Complete)
	g.PATCH("/reservations/:id/no-show", h.NoShow)
}

func RegisterModerationRoutes(g *gin.RouterGroup, h *handlers.ReviewHandler) {
	g.PATCH("/reviews/:id/publish", h.Publish)
	g.PATCH("/reviews/:id/hide", h.Hide)
	g.PATCH("/reviews/:id/delete", h.Delete)
	g.PATCH("/reviews/:id/verify", h.Verify)
}
