package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/99minutos/concert-booking/internal/api/handler"
	"github.com/99minutos/concert-booking/internal/api/middleware"
	"github.com/99minutos/concert-booking/internal/core/domain"
	"github.com/99minutos/concert-booking/internal/core/ports"
)

// Handlers groups the HTTP handlers mounted by NewRouter.
type Handlers struct {
	Auth      *handler.AuthHandler
	Concert   *handler.ConcertHandler
	Booking   *handler.BookingHandler
	User      *handler.UserHandler
	Health    *handler.HealthHandler
	Readiness *handler.HealthDependenciesHandler
}

// Options configures cross-cutting router concerns.
type Options struct {
	Verifier ports.TokenVerifier
	Log      zerolog.Logger
	// Registerer and Gatherer back the HTTP metrics and /metrics. They default
	// to the global Prometheus registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(h Handlers, opts Options) *echo.Echo {
	if opts.Registerer == nil {
		opts.Registerer = prometheus.DefaultRegisterer
	}
	if opts.Gatherer == nil {
		opts.Gatherer = prometheus.DefaultGatherer
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(opts.Log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echomiddleware.CORS())
	e.Use(requestLogger(opts.Log))
	e.Use(echoprometheus.NewMiddlewareWithConfig(echoprometheus.MiddlewareConfig{
		Subsystem:  "http",
		Registerer: opts.Registerer,
	}))

	auth := middleware.Auth(opts.Verifier)
	adminOnly := []echo.MiddlewareFunc{auth, middleware.RBAC(domain.RoleAdmin)}
	members := []echo.MiddlewareFunc{auth, middleware.RBAC(domain.RoleAdmin, domain.RoleUser)}

	e.GET("/", handler.Home)

	// --- Auth routes ---
	e.POST("/signup", h.Auth.Signup)
	e.POST("/login", h.Auth.Login)

	// --- Concerts ---
	e.POST("/concerts", h.Concert.Create, adminOnly...)
	e.GET("/Allconcerts", h.Concert.List)
	e.GET("/get-concert/:id", h.Concert.Get)
	e.PUT("/update-concert/:id", h.Concert.Update, adminOnly...)
	e.DELETE("/delete-concert/:id", h.Concert.Delete, adminOnly...)

	// --- Users ---
	e.GET("/Allusers", h.User.List, adminOnly...)

	// --- Bookings ---
	e.POST("/book-tickets", h.Booking.Book, members...)
	e.GET("/user-booking/:id", h.Booking.ListByUser, adminOnly...)
	e.PUT("/update-booking/:id", h.Booking.Update, members...)
	e.DELETE("/delete-booking/:id", h.Booking.Delete, members...)

	// --- Health probes (no auth required) ---
	e.GET("/health", h.Health.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", h.Readiness.Readiness) // readiness – are dependencies up?

	// --- Operations ---
	e.GET("/metrics", echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: opts.Gatherer}))
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	return e
}

// requestLogger writes one zerolog line per request.
func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Status >= 500 {
				evt = log.Error().Err(v.Error)
			}
			evt.
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				Msg("request")
			return nil
		},
	})
}
