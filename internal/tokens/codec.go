package tokens

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/hkdf"
)

const linkSalt = "email-configuration"

var (
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrMalformed        = errors.New("malformed token")
	ErrLinkExpired      = errors.New("link token expired")
)

var signingMethod = jwt.SigningMethodHS256

type Codec struct {
	secret  []byte
	linkKey []byte
	Now     func() time.Time
}

func NewCodec(secret []byte) (*Codec, error) {
	if len(secret) == 0 {
		return nil, errors.New("tokens: empty secret")
	}
	linkKey := make([]byte, 32)
	if _, err := io.ReadFull(hkdf.New(sha256.New, secret, []byte(linkSalt), []byte("bookly link token")), linkKey); err != nil {
		return nil, fmt.Errorf("tokens: derive link key: %w", err)
	}
	return &Codec{secret: secret, linkKey: linkKey, Now: time.Now}, nil
}

func (c *Codec) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

// IssueAccess signs a new access or refresh token that expires ttl after now.
func (c *Codec) IssueAccess(user UserClaims, ttl time.Duration, refresh bool) (string, *AccessClaims, error) {
	now := c.now()
	claims := &AccessClaims{
		User:    user,
		Refresh: refresh,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        NewJTI(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token, err := jwt.NewWithClaims(signingMethod, claims).SignedString(c.secret)
	if err != nil {
		return "", nil, fmt.Errorf("tokens: sign: %w", err)
	}
	return token, claims, nil
}

// Decode checks the signature and claim structure only. Expired tokens decode
// successfully; callers compare ExpiresAt themselves.
func (c *Codec) Decode(tokenStr string) (*AccessClaims, error) {
	var claims AccessClaims
	if err := c.parse(tokenStr, &claims, c.secret); err != nil {
		return nil, err
	}
	if claims.ID == "" || claims.ExpiresAt == nil || claims.User.Email == "" {
		return nil, ErrMalformed
	}
	return &claims, nil
}

func (c *Codec) IssueLinkToken(payload map[string]any) (string, error) {
	claims := &LinkClaims{
		Data: payload,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(c.now()),
		},
	}
	token, err := jwt.NewWithClaims(signingMethod, claims).SignedString(c.linkKey)
	if err != nil {
		return "", fmt.Errorf("tokens: sign link: %w", err)
	}
	return token, nil
}

func (c *Codec) DecodeLinkToken(tokenStr string, maxAge time.Duration) (map[string]any, error) {
	var claims LinkClaims
	if err := c.parse(tokenStr, &claims, c.linkKey); err != nil {
		return nil, err
	}
	if claims.IssuedAt == nil || claims.Data == nil {
		return nil, ErrMalformed
	}
	age := c.now().Sub(claims.IssuedAt.Time)
	if age > maxAge || age < -time.Minute {
		return nil, ErrLinkExpired
	}
	return claims.Data, nil
}

func (c *Codec) parse(tokenStr string, claims jwt.Claims, key []byte) error {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{signingMethod.Alg()}),
		jwt.WithoutClaimsValidation(),
	)
	_, err := parser.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		return key, nil
	})
	switch {
	case err == nil:
		return nil
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	default:
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
}
