package http

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"github.com/adam2504/devevent/internal/auth"
	"github.com/adam2504/devevent/internal/http/handlers"
	"github.com/adam2504/devevent/internal/http/middlewares"
	"github.com/adam2504/devevent/internal/observability"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

type RouterDeps struct {
	Env    string
	Logger *slog.Logger

	Events   handlers.EventsService
	Bookings handlers.BookingsService
	Ping     func(ctx context.Context) error

	// Verifier guards the write endpoints. Nil leaves them open.
	Verifier middlewares.TokenVerifier

	Prom     *observability.Prom
	Gatherer prometheus.Gatherer
	Tracing  bool

	CORSOrigins        []string
	RateLimitPerMinute int
	MaxBodyBytes       int64
}

func NewRouter(deps RouterDeps) *gin.Engine {
	if deps.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger(deps.Logger))
	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddleware(deps.CORSOrigins))

	if deps.Tracing {
		r.Use(otelgin.Middleware("devevent"))
	}

	if deps.Prom != nil {
		r.Use(deps.Prom.GinHandleMiddleware())
	}

	// health
	h := handlers.NewHealthHandler(deps.Ping)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)

	if deps.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{})))
	}

	eventsHandler := handlers.NewEventsHandler(deps.Events)
	bookingsHandler := handlers.NewBookingsHandler(deps.Bookings)

	api := r.Group("/api")
	api.Use(middlewares.MaxBodyBytes(deps.MaxBodyBytes))
	api.Use(middlewares.RequireJSON())

	var admin []gin.HandlerFunc
	if deps.Verifier != nil {
		am := middlewares.NewAuthMiddleware(deps.Verifier)
		admin = []gin.HandlerFunc{am.RequireAuth(), am.RequireRole(auth.RoleAdmin)}
	}
	guarded := func(h gin.HandlerFunc) []gin.HandlerFunc {
		return append(slices.Clone(admin), h)
	}

	limit := deps.RateLimitPerMinute
	if limit <= 0 {
		limit = 120
	}
	bookingLimiter := middlewares.NewRateLimiter(limit, time.Minute)

	api.GET("/events", eventsHandler.ListEvents)
	api.GET("/events/:id", eventsHandler.GetEventById)
	api.GET("/events/slug/:slug", eventsHandler.GetEventBySlug)

	api.POST("/events", guarded(eventsHandler.CreateEvent)...)
	api.PUT("/events/:id", guarded(eventsHandler.UpdateEvent)...)
	api.DELETE("/events/:id", guarded(eventsHandler.DeleteEvent)...)

	api.POST("/events/:id/bookings",
		bookingLimiter.RateLimiterMiddleware(middlewares.KeyByIP),
		bookingsHandler.CreateBooking,
	)
	api.GET("/events/:id/bookings", guarded(bookingsHandler.ListBookings)...)

	return r
}
