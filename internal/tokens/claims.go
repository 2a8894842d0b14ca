package tokens

import (
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// UserClaims is the identity map embedded under the "user" key.
type UserClaims struct {
	Email   string `json:"email"`
	UserUID string `json:"user_uid"`
	Role    string `json:"role,omitempty"`
}

type AccessClaims struct {
	User    UserClaims `json:"user"`
	Refresh bool       `json:"refresh"`
	jwt.RegisteredClaims
}

// Remaining reports how long the token stays valid after now. It never returns a negative value.
func (c *AccessClaims) Remaining(now time.Time) time.Duration {
	if c.ExpiresAt == nil {
		return 0
	}
	d := c.ExpiresAt.Time.Sub(now)
	if d < 0 {
		return 0
	}
	return d
}

func (c *AccessClaims) Expired(now time.Time) bool {
	return c.ExpiresAt == nil || !c.ExpiresAt.Time.After(now)
}

type LinkClaims struct {
	Data map[string]any `json:"data"`
	jwt.RegisteredClaims
}

func NewJTI() string { return uuid.NewString() }

// Fingerprint is a stable identifier for tokens that carry no jti of their own.
func Fingerprint(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
