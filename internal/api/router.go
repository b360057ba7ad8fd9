package api

import (
	"net/http"

	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	echoswagger "github.com/swaggo/echo-swagger"

	_ "github.com/fittrack/fittrack-client/docs"
	"github.com/fittrack/fittrack-client/internal/api/handler"
	"github.com/fittrack/fittrack-client/internal/api/middleware"
	"github.com/fittrack/fittrack-client/internal/core/domain"
	"github.com/fittrack/fittrack-client/internal/core/ports"
)

// anyRole grants access to every authenticated principal with a resolved
// role. A non-staff account without a profile still resolves to nothing and
// is denied.
var anyRole = []string{
	string(domain.RoleAdministrator),
	string(domain.RoleNutritionProfessional),
	string(domain.RoleTrainingProfessional),
	string(domain.RoleClient),
}

// NewRouter builds and returns the Echo instance with all routes registered.
func NewRouter(session ports.Session, store ports.TokenStore, log zerolog.Logger) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HTTPErrorHandler = NewHTTPErrorHandler(log)
	e.Validator = handler.NewValidator()

	// --- Global middleware ---
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(echoprometheus.NewMiddleware("fittrack"))

	// --- Session routes ---
	sessionHandler := handler.NewSessionHandler(session)
	e.POST("/session/login", sessionHandler.Login)
	e.POST("/session/logout", sessionHandler.Logout)
	e.GET("/session", sessionHandler.Current)
	e.GET("/session/token", sessionHandler.TokenStatus)

	// --- Guarded feature areas ---
	// Page content lives with the views; the router only enforces the
	// per-destination required-role sets.
	e.GET("/workouts", area("workouts"), middleware.Guard(session, anyRole...))
	e.GET("/diets", area("diets"), middleware.Guard(session, anyRole...))
	e.GET("/history", area("history"), middleware.Guard(session, anyRole...))
	e.GET("/settings", area("settings"), middleware.Guard(session, anyRole...))
	e.GET("/changes", area("changes"), middleware.Guard(session,
		string(domain.RoleAdministrator),
		string(domain.RoleNutritionProfessional),
		string(domain.RoleTrainingProfessional)))
	e.GET("/users", area("users"), middleware.Guard(session, string(domain.RoleAdministrator)))

	// --- Health probes (no auth required) ---
	healthHandler := handler.NewHealthHandler()
	readinessHandler := handler.NewReadinessHandler(store)

	e.GET("/health", healthHandler.Liveness)
	e.GET("/health/ready", readinessHandler.Readiness)

	// --- Observability / docs ---
	e.GET("/metrics", echoprometheus.NewHandler())
	e.GET("/swagger/*", echoswagger.WrapHandler)

	return e
}

func area(name string) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"area": name})
	}
}
