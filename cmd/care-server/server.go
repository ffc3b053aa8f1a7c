package main

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/alzcare/alzcare/internal/config"
	"github.com/alzcare/alzcare/internal/domain/activity"
	"github.com/alzcare/alzcare/internal/domain/appointment"
	"github.com/alzcare/alzcare/internal/domain/assessment"
	"github.com/alzcare/alzcare/internal/domain/medication"
	"github.com/alzcare/alzcare/internal/domain/patient"
	"github.com/alzcare/alzcare/internal/domain/prediction"
	"github.com/alzcare/alzcare/internal/platform/api"
	"github.com/alzcare/alzcare/internal/platform/auth"
	"github.com/alzcare/alzcare/internal/platform/db"
	"github.com/alzcare/alzcare/internal/platform/middleware"
)

const apiVersion = "1.0.0"

// requestTimeout bounds a whole request; it leaves room for a slow
// prediction call.
const requestTimeout = 45 * time.Second

type serverDeps struct {
	stores  *storeSet
	gateway prediction.Gateway
	limiter middleware.Limiter
	metrics *middleware.Metrics
}

func statusOf(err error) int {
	status, _ := api.Classify(err, false)
	return status
}

func newServer(cfg *config.Config, logger zerolog.Logger, deps serverDeps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = api.ErrorHandler(logger, cfg.IsDev())

	e.Use(middleware.Recovery(logger))
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger, statusOf))
	e.Use(deps.metrics.Middleware(statusOf))
	e.Use(middleware.SecurityHeaders())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization, auth.DevUserHeader},
		AllowCredentials: true,
	}))
	e.Use(middleware.BodyLimit(cfg.BodyLimit))
	e.Use(middleware.RequestTimeout(requestTimeout))
	e.Use(middleware.RateLimit(middleware.RateLimitConfig{
		Max:    cfg.RateLimitMax,
		Window: cfg.RateLimitWindow,
		Prefix: "/api/",
	}, deps.limiter, logger))

	e.GET("/", index)
	e.GET("/api/health", health)
	e.GET("/health/store", db.HealthHandler(deps.stores.probe()))
	e.GET("/metrics", deps.metrics.Handler())

	g := e.Group("/api")
	jwtCfg := auth.JWTConfig{
		Issuer:     cfg.AuthIssuer,
		Audience:   cfg.AuthAudience,
		JWKSURL:    cfg.AuthJWKSURL,
		SigningKey: []byte(cfg.JWTSecret),
		Skipper:    auth.AuthSkipper,
	}
	if cfg.IsDev() {
		g.Use(auth.DevAuthMiddleware(jwtCfg))
	} else {
		g.Use(auth.JWTMiddleware(jwtCfg))
	}

	patients := patient.NewService(
		patient.NewRepository(collection[*patient.Patient](deps.stores, patient.StoreOptions)),
		cfg.PhoneRegion)
	patient.NewHandler(patients).RegisterRoutes(g)

	assessment.NewHandler(assessment.NewService(
		assessment.NewRepository(collection[*assessment.Assessment](deps.stores, assessment.StoreOptions)),
		patients)).RegisterRoutes(g)

	medication.NewHandler(medication.NewService(
		medication.NewRepository(collection[*medication.Medication](deps.stores, medication.StoreOptions)),
		patients)).RegisterRoutes(g)

	activity.NewHandler(activity.NewService(
		activity.NewRepository(collection[*activity.Activity](deps.stores, activity.StoreOptions)),
		patients)).RegisterRoutes(g)

	appointment.NewHandler(appointment.NewService(
		appointment.NewRepository(collection[*appointment.Appointment](deps.stores, appointment.StoreOptions)),
		patients)).RegisterRoutes(g)

	prediction.NewHandler(prediction.NewService(
		deps.gateway,
		prediction.NewRepository(collection[*prediction.Saved](deps.stores, prediction.StoreOptions)),
		patients)).RegisterRoutes(g)

	return e
}

type indexBody struct {
	Message   string            `json:"message"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
}

func index(c echo.Context) error {
	return c.JSON(http.StatusOK, indexBody{
		Message: "Welcome to Alzheimer Care API",
		Version: apiVersion,
		Endpoints: map[string]string{
			"health":       "/api/health",
			"patients":     "/api/patients",
			"assessments":  "/api/assessments",
			"medications":  "/api/medications",
			"activities":   "/api/activities",
			"appointments": "/api/appointments",
			"predictions":  "/api/predictions",
		},
	})
}

func health(c echo.Context) error {
	return c.JSON(http.StatusOK, api.Envelope{
		Success:   true,
		Message:   "Alzheimer Care API is running",
		Timestamp: time.Now().UTC().Format(time.RFC3339Nano),
	})
}
