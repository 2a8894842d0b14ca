package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/bookly/internal/logging"
	"github.com/Skotchmaster/bookly/internal/middleware/auth"
	"github.com/Skotchmaster/bookly/internal/service"
	"github.com/Skotchmaster/bookly/internal/transport"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func (h *AuthHTTP) Signup(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.signup")

	var req transport.SignupRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("signup_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	user, err := h.Svc.Signup(ctx, req)
	if err != nil {
		return httpError(l, "signup_error", err)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "Account Created! Check email to verify your account!",
		"user":    user,
	})
}

func (h *AuthHTTP) Verify(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.verify")

	if err := h.Svc.VerifyEmail(ctx, c.Param("token")); err != nil {
		return httpError(l, "verify_error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Account verified successfully"})
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	res, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		return httpError(l, "login_failed", err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message":       "Login successful!",
		"access_token":  res.AccessToken,
		"refresh_token": res.RefreshToken,
		"user": echo.Map{
			"email": res.User.Email,
			"uid":   res.User.UID,
		},
	})
}

func (h *AuthHTTP) Refresh(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.refresh")

	id, ok := auth.IdentityFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, auth.ErrMissingCredentials.Error())
	}
	access, err := h.Svc.Refresh(ctx, id.Claims)
	if err != nil {
		return httpError(l, "refresh_failed", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"access_token": access})
}

func (h *AuthHTTP) Me(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.me")

	id, ok := auth.IdentityFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, auth.ErrMissingCredentials.Error())
	}
	user, err := h.Svc.Me(ctx, id.Email)
	if err != nil {
		return httpError(l, "me_error", err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.logout")

	id, ok := auth.IdentityFrom(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, auth.ErrMissingCredentials.Error())
	}
	if err := h.Svc.Logout(ctx, id.Claims); err != nil {
		return httpError(l, "logout_failed", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Logged Out Successfully"})
}

func (h *AuthHTTP) PasswordResetRequest(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.password_reset_request")

	var req transport.PasswordResetRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("password_reset_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := h.Svc.RequestPasswordReset(ctx, req.Email); err != nil {
		return httpError(l, "password_reset_error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": "Please check your email for instructions to reset your password",
	})
}

func (h *AuthHTTP) PasswordResetConfirm(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.password_reset_confirm")

	var req transport.PasswordResetConfirm
	if err := c.Bind(&req); err != nil {
		l.Warn("password_reset_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := h.Svc.ConfirmPasswordReset(ctx, c.Param("token"), req); err != nil {
		return httpError(l, "password_reset_error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Password reset Successfully"})
}

func (h *AuthHTTP) SendMail(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.send_mail")

	var req transport.EmailsRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("send_mail_error", "status", 400, "reason", "invalid body", "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}
	if err := h.Svc.SendWelcome(ctx, req.Addresses); err != nil {
		return httpError(l, "send_mail_error", err)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "Email send successfully"})
}
