package service

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/loganlanou/podstore/internal/catalog"
	"github.com/loganlanou/podstore/internal/checkout"
)

// Error codes returned in JSON error bodies.
const (
	CodeNotFound      = "not_found"
	CodeNotConfigured = "not_configured"
	CodeUpstream      = "upstream_error"
	CodeInvalidInput  = "invalid_input"
	CodeProvider      = "payment_provider_error"
	CodeInternal      = "internal_error"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// classifyError maps domain errors to a status, a code and a message that is
// safe to show the shopper. Provider detail never leaves the server.
func classifyError(err error) (int, errorResponse) {
	switch {
	case errors.Is(err, catalog.ErrNotFound):
		return http.StatusNotFound, errorResponse{"Product not found", CodeNotFound}
	case errors.Is(err, catalog.ErrNotConfigured):
		return http.StatusInternalServerError, errorResponse{"Store is not configured", CodeNotConfigured}
	case errors.Is(err, catalog.ErrUpstream):
		return http.StatusInternalServerError, errorResponse{"Failed to fetch products", CodeUpstream}
	case errors.Is(err, checkout.ErrNotConfigured):
		return http.StatusBadRequest, errorResponse{"Store ID not configured", CodeNotConfigured}
	case errors.Is(err, checkout.ErrInvalidInput):
		return http.StatusBadRequest, errorResponse{"Invalid checkout request", CodeInvalidInput}
	case errors.Is(err, checkout.ErrProvider):
		return http.StatusInternalServerError, errorResponse{"Failed to create checkout session", CodeProvider}
	default:
		return http.StatusInternalServerError, errorResponse{"Internal server error", CodeInternal}
	}
}

// jsonError logs err and writes the mapped JSON error body.
func jsonError(c echo.Context, err error, msg string, args ...any) error {
	status, body := classifyError(err)

	args = append(args, "error", err, "status", status, "path", c.Request().URL.Path)
	if status >= http.StatusInternalServerError {
		slog.Error(msg, args...)
	} else {
		slog.Warn(msg, args...)
	}

	return c.JSON(status, body)
}

// badRequest writes a 400 for malformed API input that never reached a gateway.
func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, errorResponse{Error: msg, Code: CodeInvalidInput})
}
