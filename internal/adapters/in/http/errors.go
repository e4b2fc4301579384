package http

import (
	"errors"
	"log/slog"
	"net/http"

	"delivertrack/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// ErrForbidden is returned when the signed-in user lacks the role an operation needs.
var ErrForbidden = errors.New("forbidden")

// statusOf maps an application error to its HTTP status.
func statusOf(err error) int {
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return http.StatusBadRequest
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func writeError(ctx echo.Context, logger *slog.Logger, err error) error {
	code := statusOf(err)
	message := err.Error()
	if code == http.StatusInternalServerError {
		logger.ErrorContext(ctx.Request().Context(), "request failed",
			"method", ctx.Request().Method, "path", ctx.Path(), "error", err)
		message = http.StatusText(code)
	}
	return ctx.JSON(code, Error{Code: code, Message: message})
}

// NewErrorHandler renders errors that reach echo, such as unknown routes and binding
// failures, in the API's error shape.
func NewErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, ctx echo.Context) {
		if ctx.Response().Committed {
			return
		}

		var he *echo.HTTPError
		if !errors.As(err, &he) {
			_ = writeError(ctx, logger, err)
			return
		}

		message := http.StatusText(he.Code)
		if m, ok := he.Message.(string); ok {
			message = m
		}
		if ctx.Request().Method == http.MethodHead {
			_ = ctx.NoContent(he.Code)
			return
		}
		_ = ctx.JSON(he.Code, Error{Code: he.Code, Message: message})
	}
}
