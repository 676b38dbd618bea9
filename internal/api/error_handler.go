package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/kryos/employee-accounts/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	// Echo's own errors (bind failures, 404 from router, middleware rejections).
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Account errors are client errors; conflicts, bad credentials and the
	// edit cooldown all answer 400.
	switch {
	case errors.Is(err, domain.ErrEmailExists),
		errors.Is(err, domain.ErrInvalidCredentials),
		errors.Is(err, domain.ErrInvalidToken),
		errors.Is(err, domain.ErrEditCooldown),
		errors.Is(err, domain.ErrInvalidInput),
		errors.Is(err, domain.ErrNoFiles):
		return http.StatusBadRequest, rootMessage(err)
	case errors.Is(err, domain.ErrAccountNotFound),
		errors.Is(err, domain.ErrObjectNotFound):
		return http.StatusNotFound, rootMessage(err)
	case errors.Is(err, domain.ErrStorage):
		log.Error().
			Err(err).
			Str("method", c.Request().Method).
			Str("path", c.Path()).
			Msg("object storage error")
		return http.StatusBadGateway, domain.ErrStorage.Error()
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}

// rootMessage returns the message of the sentinel err wraps, so wrapping
// context added by lower layers is not exposed.
func rootMessage(err error) string {
	for _, sentinel := range []error{
		domain.ErrEmailExists,
		domain.ErrInvalidCredentials,
		domain.ErrInvalidToken,
		domain.ErrEditCooldown,
		domain.ErrInvalidInput,
		domain.ErrNoFiles,
		domain.ErrAccountNotFound,
		domain.ErrObjectNotFound,
	} {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return err.Error()
}
