package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kryos/employee-accounts/internal/api/middleware"
	"github.com/kryos/employee-accounts/internal/core/domain"
)

// currentAccount returns the account injected by the session middleware.
// A missing value means the route was mounted without the middleware.
func currentAccount(c echo.Context) (*domain.Account, error) {
	account, ok := c.Get(middleware.AccountKey).(*domain.Account)
	if !ok || account == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing session")
	}
	return account, nil
}
