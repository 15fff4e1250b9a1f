package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/domain/model/fulfillment"
	"fulfillment/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// statusFor maps the error taxonomy of the core onto HTTP status codes.
// A concurrent update is a persistence error caused by a version conflict,
// so the conflict case has to be checked first.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, commands.ErrIllegalAction),
		errors.Is(err, fulfillment.ErrInvalidTransition),
		errors.Is(err, errs.ErrVersionIsInvalid):
		return http.StatusConflict
	case errors.Is(err, errs.ErrPersistence):
		return http.StatusServiceUnavailable
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// NewErrorHandler renders every error as ErrorResponse. Server-side failures
// are logged and their details kept out of the response.
func NewErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		if ctx.Response().Committed {
			return
		}

		var (
			code    int
			message string
			he      *echo.HTTPError
		)
		if errors.As(err, &he) {
			code, message = he.Code, fmt.Sprint(he.Message)
		} else {
			code, message = statusFor(err), err.Error()
		}

		if code >= http.StatusInternalServerError {
			logger.ErrorContext(ctx.Request().Context(), "Request failed",
				"method", ctx.Request().Method, "path", ctx.Path(), "status", code, "error", err)
			message = http.StatusText(code)
		}

		if err = ctx.JSON(code, ErrorResponse{Code: code, Message: message}); err != nil {
			logger.Error("Failed to write error response", "error", err)
		}
	}
}
