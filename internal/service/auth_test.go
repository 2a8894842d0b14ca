package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/bookly/internal/hash"
	"github.com/Skotchmaster/bookly/internal/models"
	"github.com/Skotchmaster/bookly/internal/transport"
)

func TestSignup_CreatesUserAndSendsVerification(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	user, err := e.auth.Signup(ctx, transport.SignupRequest{
		Username:  "ann",
		Email:     "Ann@Example.com",
		Password:  "Secret123",
		FirstName: "Ann",
	})
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", user.Email)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.False(t, user.IsVerified)
	assert.True(t, hash.CheckPassword(user.PasswordHash, "Secret123"))

	m := e.mail.last()
	assert.Equal(t, []string{"ann@example.com"}, m.To)
	assert.Equal(t, "Verify your email", m.Subject)
	assert.Contains(t, m.Body, "http://bookly.test/api/v1/auth/verify/")
}

func TestSignup_Rejections(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.signup(t, "ann", "ann@example.com")

	_, err := e.auth.Signup(ctx, transport.SignupRequest{Username: "ann2", Email: "ann@example.com", Password: "Secret123"})
	assert.ErrorIs(t, err, ErrUserAlreadyExists)

	_, err = e.auth.Signup(ctx, transport.SignupRequest{Username: "bob", Email: "not-an-email", Password: "Secret123"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = e.auth.Signup(ctx, transport.SignupRequest{Username: "bob", Email: "bob@example.com", Password: "123"})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestVerifyEmail_SingleUse(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.signup(t, "ann", "ann@example.com")
	token := e.mail.lastToken(t)

	require.NoError(t, e.auth.VerifyEmail(ctx, token))
	u, err := e.repo.GetUserByEmail(ctx, "ann@example.com")
	require.NoError(t, err)
	assert.True(t, u.IsVerified)

	assert.ErrorIs(t, e.auth.VerifyEmail(ctx, token), ErrInvalidLink)
}

func TestVerifyEmail_ExpiredOrForged(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.signup(t, "ann", "ann@example.com")
	token := e.mail.lastToken(t)

	assert.ErrorIs(t, e.auth.VerifyEmail(ctx, "forged"), ErrInvalidLink)

	e.now = e.now.Add(2 * time.Hour)
	assert.ErrorIs(t, e.auth.VerifyEmail(ctx, token), ErrInvalidLink)
}

func TestVerifyEmail_UnknownUser(t *testing.T) {
	e := newEnv(t)
	token, err := e.codec.IssueLinkToken(map[string]any{"email": "ghost@example.com"})
	require.NoError(t, err)

	assert.ErrorIs(t, e.auth.VerifyEmail(context.Background(), token), ErrUserNotFound)
}

func TestLogin(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.signup(t, "ann", "ann@example.com")

	res, err := e.auth.Login(ctx, "ann@example.com", "Secret123")
	require.NoError(t, err)
	assert.Equal(t, "ann@example.com", res.User.Email)

	access, err := e.codec.Decode(res.AccessToken)
	require.NoError(t, err)
	assert.False(t, access.Refresh)
	assert.Equal(t, res.User.UID.String(), access.User.UserUID)
	assert.Equal(t, models.RoleUser, access.User.Role)

	refresh, err := e.codec.Decode(res.RefreshToken)
	require.NoError(t, err)
	assert.True(t, refresh.Refresh)
	assert.NotEqual(t, access.ID, refresh.ID)
	assert.True(t, refresh.ExpiresAt.After(access.ExpiresAt.Time))

	_, err = e.auth.Login(ctx, "ann@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = e.auth.Login(ctx, "nobody@example.com", "Secret123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshAndLogout(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.signup(t, "ann", "ann@example.com")
	res, err := e.auth.Login(ctx, "ann@example.com", "Secret123")
	require.NoError(t, err)

	refresh, err := e.codec.Decode(res.RefreshToken)
	require.NoError(t, err)
	newAccess, err := e.auth.Refresh(ctx, refresh)
	require.NoError(t, err)
	claims, err := e.codec.Decode(newAccess)
	require.NoError(t, err)
	assert.False(t, claims.Refresh)
	assert.Equal(t, refresh.User, claims.User)

	require.NoError(t, e.auth.Logout(ctx, claims))
	revoked, err := e.registry.IsRevoked(ctx, claims.ID)
	require.NoError(t, err)
	assert.True(t, revoked)

	e.now = e.now.Add(time.Hour)
	revoked, err = e.registry.IsRevoked(ctx, claims.ID)
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestMe_LoadsRelations(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.signup(t, "ann", "ann@example.com")
	actor := e.actor(t, "ann@example.com")

	_, err := e.books.CreateBook(ctx, actor.UserUID, transport.CreateBookRequest{Title: "Dune", Author: "Frank Herbert"})
	require.NoError(t, err)

	me, err := e.auth.Me(ctx, "ann@example.com")
	require.NoError(t, err)
	require.Len(t, me.Books, 1)
	assert.Equal(t, "Dune", me.Books[0].Title)

	_, err = e.auth.Me(ctx, "ghost@example.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestPasswordReset(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.signup(t, "ann", "ann@example.com")

	require.NoError(t, e.auth.RequestPasswordReset(ctx, "ann@example.com"))
	assert.Equal(t, "Reset your password", e.mail.last().Subject)
	token := e.mail.lastToken(t)

	err := e.auth.ConfirmPasswordReset(ctx, token, transport.PasswordResetConfirm{NewPassword: "NewSecret1", ConfirmPassword: "Other"})
	assert.ErrorIs(t, err, ErrValidation)

	require.NoError(t, e.auth.ConfirmPasswordReset(ctx, token, transport.PasswordResetConfirm{NewPassword: "NewSecret1", ConfirmPassword: "NewSecret1"}))
	_, err = e.auth.Login(ctx, "ann@example.com", "NewSecret1")
	require.NoError(t, err)

	err = e.auth.ConfirmPasswordReset(ctx, token, transport.PasswordResetConfirm{NewPassword: "Again123", ConfirmPassword: "Again123"})
	assert.ErrorIs(t, err, ErrInvalidLink)
}

func TestPasswordReset_UnknownEmailIsSilent(t *testing.T) {
	e := newEnv(t)
	require.NoError(t, e.auth.RequestPasswordReset(context.Background(), "ghost@example.com"))
	assert.Empty(t, e.mail.sent)
}

func TestSendWelcome(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()

	require.NoError(t, e.auth.SendWelcome(ctx, []string{"a@example.com", "b@example.com"}))
	assert.Equal(t, "Welcome", e.mail.last().Subject)
	assert.Len(t, e.mail.last().To, 2)

	assert.ErrorIs(t, e.auth.SendWelcome(ctx, nil), ErrValidation)
	assert.ErrorIs(t, e.auth.SendWelcome(ctx, []string{"nope"}), ErrValidation)
}
