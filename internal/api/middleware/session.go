package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/kryos/employee-accounts/internal/core/domain"
)

// AccountKey is the echo.Context key holding the authenticated *domain.Account.
const AccountKey = "account"

// TokenAuthenticator resolves a session token to its account.
type TokenAuthenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.Account, error)
}

// Session validates the opaque session token from the Authorization header
// and injects the account into the context.
func Session(auth TokenAuthenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			account, err := auth.Authenticate(c.Request().Context(), strings.TrimSpace(parts[1]))
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			c.Set(AccountKey, account)
			return next(c)
		}
	}
}
