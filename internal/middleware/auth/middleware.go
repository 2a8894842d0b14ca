package auth

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/bookly/internal/logging"
)

const identityKey = "identity"

func (g *Guard) Require(kind Kind, roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			l := logging.FromContext(ctx).With("svc", "auth.guard", "kind", kind.String())

			id, err := g.Authenticate(ctx, c.Request(), kind, roles...)
			if err != nil {
				code := StatusFor(err)
				if code == http.StatusInternalServerError {
					l.Error("auth_check_failed", "error", err)
					return echo.NewHTTPError(code, "internal error")
				}
				l.Info("auth_rejected", "status", code, "reason", err.Error())
				return echo.NewHTTPError(code, publicMessage(err))
			}

			SetIdentity(c, id)
			return next(c)
		}
	}
}

func StatusFor(err error) int {
	switch {
	case errors.Is(err, ErrMissingCredentials),
		errors.Is(err, ErrInvalidToken),
		errors.Is(err, ErrAccessTokenRequired):
		return http.StatusUnauthorized
	case errors.Is(err, ErrRefreshTokenRequired),
		errors.Is(err, ErrInsufficientPermission):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

func publicMessage(err error) string {
	for _, known := range []error{
		ErrMissingCredentials,
		ErrInvalidToken,
		ErrAccessTokenRequired,
		ErrRefreshTokenRequired,
		ErrInsufficientPermission,
	} {
		if errors.Is(err, known) {
			return known.Error()
		}
	}
	return "internal error"
}

// SetIdentity stores id on the request context the way Require does.
func SetIdentity(c echo.Context, id *Identity) {
	c.Set(identityKey, id)
	c.Set("user_id", id.UserUID)
	c.Set("role", id.Role)
}

func IdentityFrom(c echo.Context) (*Identity, bool) {
	id, ok := c.Get(identityKey).(*Identity)
	return id, ok && id != nil
}
