package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/fittrack/fittrack-client/internal/api/metrics"
	"github.com/fittrack/fittrack-client/internal/core/ports"
	"github.com/fittrack/fittrack-client/internal/core/service"
)

// Guard gates a destination behind the session's route-guard decision.
// Pending decisions (session still resolving) are answered with 503 and
// Retry-After rather than a premature deny. Redirecting mid-load is exactly
// the false negative the guard exists to prevent.
func Guard(session ports.Session, requiredRoles ...string) echo.MiddlewareFunc {
	guard := service.NewRouteGuard(session)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			decision := guard.Check(requiredRoles...)
			metrics.GuardDecisionsTotal.WithLabelValues(decision.String()).Inc()

			switch decision {
			case service.DecisionAllow:
				return next(c)
			case service.DecisionPending:
				c.Response().Header().Set("Retry-After", "1")
				return c.JSON(http.StatusServiceUnavailable, map[string]string{"error": "session still resolving"})
			default:
				if session.Account() == nil {
					return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
				}
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
		}
	}
}
