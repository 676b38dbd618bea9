package api

import (
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	echoSwagger "github.com/swaggo/echo-swagger"

	_ "github.com/kryos/employee-accounts/docs"
	"github.com/kryos/employee-accounts/internal/api/handler"
	"github.com/kryos/employee-accounts/internal/api/middleware"
	"github.com/kryos/employee-accounts/internal/core/ports"
)

const (
	basePath  = "/api/employees"
	bodyLimit = "50M"
)

// Dependencies are the services the router exposes. Limiter may be nil, which
// disables rate limiting on the auth routes; it must be an untyped nil, not a
// nil pointer. Readiness lists the checks run by GET /health/ready.
type Dependencies struct {
	Accounts  ports.AccountService
	Media     ports.MediaService
	Limiter   middleware.Limiter
	Readiness map[string]handler.PingFunc
	// Registry receives the HTTP metrics. Nil means the Prometheus default registry.
	Registry *prometheus.Registry
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(deps Dependencies, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = handler.NewValidator()
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(requestLogger(log))
	e.Use(echomiddleware.CORS())
	e.Use(echomiddleware.BodyLimit(bodyLimit))
	e.Use(echoprometheus.NewMiddlewareWithConfig(metricsConfig(deps.Registry)))

	// --- Handlers ---
	accountHandler := handler.NewAccountHandler(deps.Accounts)
	mediaHandler := handler.NewMediaHandler(deps.Media)
	session := middleware.Session(deps.Accounts)

	// --- Employee routes ---
	g := e.Group(basePath)
	g.POST("/register", accountHandler.Register, middleware.RateLimit(deps.Limiter, "register", log))
	g.POST("/login", accountHandler.Login, middleware.RateLimit(deps.Limiter, "login", log))
	g.PUT("/edit/:id", accountHandler.Edit)
	g.POST("/logout", accountHandler.Logout)
	g.GET("/me", accountHandler.Me, session)
	g.POST("/upload", mediaHandler.Upload)
	g.GET("/download/:key", mediaHandler.Download)

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(deps.Readiness)

	e.GET("/health", healthHandler.Liveness)           // liveness  – is the process alive?
	e.GET("/health/ready", readinessHandler.Readiness) // readiness – are dependencies up?
	e.GET("/metrics", metricsHandler(deps.Registry))   // prometheus scrape
	e.GET("/swagger/*", echoSwagger.WrapHandler)       // API docs

	return e
}

func metricsConfig(reg *prometheus.Registry) echoprometheus.MiddlewareConfig {
	cfg := echoprometheus.MiddlewareConfig{Subsystem: "accounts"}
	if reg != nil {
		cfg.Registerer = reg
	}
	return cfg
}

func metricsHandler(reg *prometheus.Registry) echo.HandlerFunc {
	if reg == nil {
		return echoprometheus.NewHandler()
	}
	return echoprometheus.NewHandlerWithConfig(echoprometheus.HandlerConfig{Gatherer: reg})
}

func requestLogger(log zerolog.Logger) echo.MiddlewareFunc {
	return echomiddleware.RequestLoggerWithConfig(echomiddleware.RequestLoggerConfig{
		LogURI:       true,
		LogMethod:    true,
		LogStatus:    true,
		LogLatency:   true,
		LogRequestID: true,
		LogRemoteIP:  true,
		LogError:     true,
		HandleError:  true,
		LogValuesFunc: func(c echo.Context, v echomiddleware.RequestLoggerValues) error {
			evt := log.Info()
			if v.Error != nil {
				evt = log.Warn().Err(v.Error)
			}
			evt.
				Str("request_id", v.RequestID).
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("remote_ip", v.RemoteIP).
				Msg("request")
			return nil
		},
	})
}
