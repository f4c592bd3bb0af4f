package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/custommatt/account-api/internal/api/handler"
	"github.com/custommatt/account-api/internal/core/ports"
)

// TokenVerifier is the subset of ports.TokenIssuer the middleware needs.
type TokenVerifier interface {
	Parse(token string) (*ports.TokenClaims, error)
}

// Auth validates the bearer token and injects the account ID into context.
func Auth(tokens TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims, err := tokens.Parse(strings.TrimSpace(parts[1]))
			if err != nil || claims.AccountID == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set(handler.AccountIDKey, claims.AccountID)

			return next(c)
		}
	}
}
