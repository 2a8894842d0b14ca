package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Skotchmaster/bookly/internal/hash"
	"github.com/Skotchmaster/bookly/internal/logging"
	mailer "github.com/Skotchmaster/bookly/internal/mail"
	"github.com/Skotchmaster/bookly/internal/models"
	"github.com/Skotchmaster/bookly/internal/repo"
	"github.com/Skotchmaster/bookly/internal/revocation"
	"github.com/Skotchmaster/bookly/internal/tokens"
	"github.com/Skotchmaster/bookly/internal/transport"
)

type AuthService struct {
	Repo     *repo.GormRepo
	Codec    *tokens.Codec
	Registry revocation.Registry
	Mailer   mailer.Sender

	AccessTTL  time.Duration
	RefreshTTL time.Duration
	LinkMaxAge time.Duration
	Domain     string

	Now func() time.Time
}

type LoginResult struct {
	AccessToken  string
	RefreshToken string
	User         *models.User
}

func (s *AuthService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *AuthService) Signup(ctx context.Context, req transport.SignupRequest) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "auth.signup")

	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	req.Username = strings.TrimSpace(req.Username)
	if err := validateRequest(req); err != nil {
		l.Warn("signup_error", "status", 400, "reason", err.Error())
		return nil, err
	}

	exists, err := s.Repo.UserExists(ctx, req.Email, req.Username)
	if err != nil {
		l.Error("signup_error", "status", 500, "reason", "cannot check user", "error", err)
		return nil, err
	}
	if exists {
		l.Warn("signup_error", "status", 403, "reason", "user already exists")
		return nil, ErrUserAlreadyExists
	}

	pwHash, err := hash.HashPassword(req.Password)
	if err != nil {
		l.Error("signup_error", "status", 500, "reason", "cannot hash the password", "error", err)
		return nil, err
	}

	user := &models.User{
		Username:     req.Username,
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         models.RoleUser,
		PasswordHash: pwHash,
	}
	if err := s.Repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repo.ErrConflict) {
			return nil, ErrUserAlreadyExists
		}
		l.Error("signup_error", "status", 500, "reason", "cannot create user", "error", err)
		return nil, err
	}

	token, err := s.Codec.IssueLinkToken(map[string]any{"email": user.Email})
	if err != nil {
		l.Error("signup_error", "status", 500, "reason", "cannot issue verification token", "error", err)
		return nil, err
	}
	link := fmt.Sprintf("http://%s/api/v1/auth/verify/%s", s.Domain, token)
	body := fmt.Sprintf("<h1>Verify your Email</h1>\n<p>Please click this <a href=%q>link</a> to verify your email</p>", link)
	if err := s.Mailer.Send(ctx, []string{user.Email}, "Verify your email", body); err != nil {
		l.Error("verification_mail_failed", "error", err)
	}

	l.Info("signup_success", "user_uid", user.UID.String())
	return user, nil
}

// consumeLink decodes a link token and marks it used. A token can be consumed once.
func (s *AuthService) consumeLink(ctx context.Context, token string) (string, error) {
	data, err := s.Codec.DecodeLinkToken(token, s.LinkMaxAge)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidLink, err)
	}
	email, _ := data["email"].(string)
	if email == "" {
		return "", ErrInvalidLink
	}

	id := tokens.Fingerprint(token)
	used, err := s.Registry.IsRevoked(ctx, id)
	if err != nil {
		return "", fmt.Errorf("revocation lookup: %w", err)
	}
	if used {
		return "", ErrInvalidLink
	}
	return email, nil
}

func (s *AuthService) burnLink(ctx context.Context, token string) error {
	return s.Registry.Revoke(ctx, tokens.Fingerprint(token), s.LinkMaxAge)
}

func (s *AuthService) VerifyEmail(ctx context.Context, token string) error {
	l := logging.FromContext(ctx).With("svc", "auth.verify")

	email, err := s.consumeLink(ctx, token)
	if err != nil {
		l.Warn("verify_error", "status", 400, "error", err)
		return err
	}

	if err := s.Repo.MarkVerified(ctx, email); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			l.Warn("verify_error", "status", 404, "reason", "user not found")
			return ErrUserNotFound
		}
		l.Error("verify_error", "status", 500, "error", err)
		return err
	}
	if err := s.burnLink(ctx, token); err != nil {
		l.Error("verify_link_not_burned", "error", err)
	}

	l.Info("verify_success")
	return nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	l := logging.FromContext(ctx).With("svc", "auth.login", "email", email)

	if email == "" || password == "" {
		l.Warn("login_failed", "status", 400, "reason", "empty email or password")
		return nil, ErrInvalidCredentials
	}

	user, err := s.Repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			l.Warn("login_failed", "status", 403, "reason", "invalid email or password")
			return nil, ErrInvalidCredentials
		}
		l.Error("login_failed", "status", 500, "error", err)
		return nil, err
	}
	if !hash.CheckPassword(user.PasswordHash, password) {
		l.Warn("login_failed", "status", 403, "reason", "invalid email or password")
		return nil, ErrInvalidCredentials
	}

	claims := tokens.UserClaims{Email: user.Email, UserUID: user.UID.String(), Role: user.Role}
	access, _, err := s.Codec.IssueAccess(claims, s.AccessTTL, false)
	if err != nil {
		l.Error("login_failed", "status", 500, "error", err)
		return nil, err
	}
	refresh, _, err := s.Codec.IssueAccess(claims, s.RefreshTTL, true)
	if err != nil {
		l.Error("login_failed", "status", 500, "error", err)
		return nil, err
	}

	l.Info("login_successful")
	return &LoginResult{AccessToken: access, RefreshToken: refresh, User: user}, nil
}

// Refresh issues a new access token for the identity carried by an already
// authenticated refresh token.
func (s *AuthService) Refresh(ctx context.Context, claims *tokens.AccessClaims) (string, error) {
	l := logging.FromContext(ctx).With("svc", "auth.refresh")

	access, _, err := s.Codec.IssueAccess(claims.User, s.AccessTTL, false)
	if err != nil {
		l.Error("refresh_failed", "status", 500, "error", err)
		return "", err
	}
	l.Info("refresh_success")
	return access, nil
}

// Logout revokes the presented token for the rest of its lifetime.
func (s *AuthService) Logout(ctx context.Context, claims *tokens.AccessClaims) error {
	l := logging.FromContext(ctx).With("svc", "auth.logout")

	if err := s.Registry.Revoke(ctx, claims.ID, claims.Remaining(s.now())); err != nil {
		l.Error("logout_failed", "status", 500, "reason", "cannot revoke token", "error", err)
		return err
	}
	l.Info("successful_logout")
	return nil
}

func (s *AuthService) Me(ctx context.Context, email string) (*models.User, error) {
	user, err := s.Repo.GetUserWithRelations(ctx, email)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrUserNotFound
	}
	return user, err
}

// RequestPasswordReset mails a reset link. It succeeds whether or not the
// address belongs to an account.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	l := logging.FromContext(ctx).With("svc", "auth.password_reset_request")

	email = strings.TrimSpace(strings.ToLower(email))
	if err := validateRequest(transport.PasswordResetRequest{Email: email}); err != nil {
		return err
	}

	if _, err := s.Repo.GetUserByEmail(ctx, email); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			l.Info("password_reset_unknown_email")
			return nil
		}
		return err
	}

	token, err := s.Codec.IssueLinkToken(map[string]any{"email": email})
	if err != nil {
		return err
	}
	link := fmt.Sprintf("http://%s/api/v1/auth/password-reset-confirm/%s", s.Domain, token)
	body := fmt.Sprintf("<h1>Reset Your Password</h1>\n<p>Please click this <a href=%q>link</a> to reset your password</p>", link)
	if err := s.Mailer.Send(ctx, []string{email}, "Reset your password", body); err != nil {
		l.Error("password_reset_mail_failed", "error", err)
	}
	return nil
}

func (s *AuthService) ConfirmPasswordReset(ctx context.Context, token string, req transport.PasswordResetConfirm) error {
	l := logging.FromContext(ctx).With("svc", "auth.password_reset_confirm")

	if err := validateRequest(req); err != nil {
		return err
	}

	email, err := s.consumeLink(ctx, token)
	if err != nil {
		l.Warn("password_reset_error", "status", 400, "error", err)
		return err
	}

	pwHash, err := hash.HashPassword(req.NewPassword)
	if err != nil {
		return err
	}
	if err := s.Repo.UpdatePasswordHash(ctx, email, pwHash); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrUserNotFound
		}
		l.Error("password_reset_error", "status", 500, "error", err)
		return err
	}
	if err := s.burnLink(ctx, token); err != nil {
		l.Error("password_reset_link_not_burned", "error", err)
	}

	l.Info("password_reset_success")
	return nil
}

func (s *AuthService) SendWelcome(ctx context.Context, addresses []string) error {
	if err := validateRequest(transport.EmailsRequest{Addresses: addresses}); err != nil {
		return err
	}
	return s.Mailer.Send(ctx, addresses, "Welcome", "<h1>Welcome to the app</h1>")
}
