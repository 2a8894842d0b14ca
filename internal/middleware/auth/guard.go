package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/Skotchmaster/bookly/internal/revocation"
	"github.com/Skotchmaster/bookly/internal/tokens"
)

var (
	ErrMissingCredentials     = errors.New("not authenticated")
	ErrInvalidToken           = errors.New("token is invalid or expired")
	ErrAccessTokenRequired    = errors.New("please provide a valid access token")
	ErrRefreshTokenRequired   = errors.New("please provide a valid refresh token")
	ErrInsufficientPermission = errors.New("you do not have enough permissions to perform this action")
)

type Kind int

const (
	AccessRequired Kind = iota
	RefreshRequired
)

func (k Kind) String() string {
	if k == RefreshRequired {
		return "refresh"
	}
	return "access"
}

// UserLoader resolves the current role of the account a token was issued to.
type UserLoader interface {
	RoleByEmail(ctx context.Context, email string) (role string, found bool, err error)
}

type Identity struct {
	UserUID string
	Email   string
	Role    string
	Claims  *tokens.AccessClaims
}

type Guard struct {
	Codec    *tokens.Codec
	Registry revocation.Registry
	Users    UserLoader
	Now      func() time.Time
}

func (g *Guard) now() time.Time {
	if g.Now != nil {
		return g.Now()
	}
	return time.Now()
}

// Authenticate runs every check on a single request in a fixed order and stops
// at the first failure.
func (g *Guard) Authenticate(ctx context.Context, r *http.Request, kind Kind, roles ...string) (*Identity, error) {
	raw, ok := bearerToken(r)
	if !ok {
		return nil, ErrMissingCredentials
	}

	claims, err := g.Codec.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Expired(g.now()) {
		return nil, ErrInvalidToken
	}

	revoked, err := g.Registry.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("revocation lookup: %w", err)
	}
	if revoked {
		return nil, ErrInvalidToken
	}

	switch {
	case kind == AccessRequired && claims.Refresh:
		return nil, ErrAccessTokenRequired
	case kind == RefreshRequired && !claims.Refresh:
		return nil, ErrRefreshTokenRequired
	}

	id := &Identity{
		UserUID: claims.User.UserUID,
		Email:   claims.User.Email,
		Role:    claims.User.Role,
		Claims:  claims,
	}
	if len(roles) == 0 {
		return id, nil
	}

	role, found, err := g.Users.RoleByEmail(ctx, claims.User.Email)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if !found {
		return nil, ErrInvalidToken
	}
	if !slices.Contains(roles, role) {
		return nil, ErrInsufficientPermission
	}
	id.Role = role
	return id, nil
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
