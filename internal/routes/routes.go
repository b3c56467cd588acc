package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/BruksfildServices01/spa-scheduler/internal/audit"
	"github.com/BruksfildServices01/spa-scheduler/internal/config"
	domain "github.com/BruksfildServices01/spa-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/spa-scheduler/internal/handlers"
	"github.com/BruksfildServices01/spa-scheduler/internal/lock"
	"github.com/BruksfildServices01/spa-scheduler/internal/metrics"
	"github.com/BruksfildServices01/spa-scheduler/internal/middleware"
	ucAppointment "github.com/BruksfildServices01/spa-scheduler/internal/usecase/appointment"
)

// Deps are the singletons built by main. Gatherer may be nil when /metrics
// is not wanted.
type Deps struct {
	Config   *config.Config
	Log      *zap.Logger
	Repo     domain.Repository
	Locker   lock.Locker
	Audit    *audit.Dispatcher
	Metrics  *metrics.SchedulingMetrics
	Gatherer prometheus.Gatherer
}

func RegisterRoutes(r *gin.Engine, d Deps) {

	// ======================================================
	// GLOBAL MIDDLEWARE
	// ======================================================
	r.Use(middleware.RequestLogger(d.Log))
	r.Use(middleware.CORSMiddleware(d.Config.CORSAllowedOrigins))

	limiter := middleware.NewRateLimiter(d.Config.RateLimitPerMinute, d.Config.RateLimitBurst)

	// ======================================================
	// USE CASES
	// ======================================================
	guard := ucAppointment.NewSlotGuard(d.Locker, d.Metrics, d.Log)

	appointmentHandler := handlers.NewAppointmentHandler(handlers.AppointmentUseCases{
		Create:   ucAppointment.NewCreateAppointment(d.Repo, guard, d.Audit, d.Metrics),
		Update:   ucAppointment.NewUpdateAppointment(d.Repo, guard, d.Audit, d.Metrics),
		Status:   ucAppointment.NewUpdateAppointmentStatus(d.Repo, d.Audit, d.Metrics),
		Pay:      ucAppointment.NewConfirmPayment(d.Repo, d.Audit, d.Metrics),
		Delete:   ucAppointment.NewDeleteAppointment(d.Repo, d.Audit, d.Metrics),
		Get:      ucAppointment.NewGetAppointment(d.Repo),
		List:     ucAppointment.NewListAppointments(d.Repo),
		Calendar: ucAppointment.NewListCalendar(d.Repo),
	})

	// ======================================================
	// OPS
	// ======================================================
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if d.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	// ======================================================
	// API (JSON)
	// ======================================================
	api := r.Group("/api")
	api.Use(limiter.Middleware())
	api.Use(middleware.AuthMiddleware(d.Config))
	{
		appointments := api.Group("/appointments")
		{
			appointments.GET("", appointmentHandler.List)
			appointments.GET("/calendar", appointmentHandler.Calendar)
			appointments.POST("", appointmentHandler.Create)
			appointments.GET("/:id", appointmentHandler.Get)
			appointments.PUT("/:id", appointmentHandler.Update)
			appointments.PATCH("/:id/status", appointmentHandler.UpdateStatus)
			appointments.PATCH("/:id/pay", appointmentHandler.ConfirmPayment)
			appointments.DELETE("/:id", appointmentHandler.Delete)
		}
	}
}
