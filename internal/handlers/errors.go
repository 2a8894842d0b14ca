package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/bookly/internal/notify"
	"github.com/Skotchmaster/bookly/internal/service"
)

// httpError maps a service error to the response the client sees and logs it
// under event. Unknown errors become a 500 with a generic message.
func httpError(l *slog.Logger, event string, err error) error {
	code, msg := classify(err)
	if code >= http.StatusInternalServerError {
		l.Error(event, "status", code, "reason", msg, "error", err)
	} else {
		l.Warn(event, "status", code, "reason", msg, "error", err.Error())
	}
	return echo.NewHTTPError(code, msg)
}

func classify(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrInvalidLink):
		return http.StatusBadRequest, service.ErrInvalidLink.Error()
	case errors.Is(err, service.ErrUserAlreadyExists):
		return http.StatusForbidden, service.ErrUserAlreadyExists.Error()
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusForbidden, service.ErrInvalidCredentials.Error()
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden, service.ErrForbidden.Error()
	case errors.Is(err, service.ErrTagAlreadyExists):
		return http.StatusForbidden, service.ErrTagAlreadyExists.Error()
	case errors.Is(err, service.ErrUserNotFound):
		return http.StatusNotFound, service.ErrUserNotFound.Error()
	case errors.Is(err, service.ErrBookNotFound):
		return http.StatusNotFound, "Book not found"
	case errors.Is(err, service.ErrTagNotFound):
		return http.StatusNotFound, service.ErrTagNotFound.Error()
	case errors.Is(err, service.ErrReviewNotFound):
		return http.StatusNotFound, service.ErrReviewNotFound.Error()
	case errors.Is(err, notify.ErrEnqueueFailed):
		return http.StatusServiceUnavailable, "review notifications are unavailable, try again later"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}
