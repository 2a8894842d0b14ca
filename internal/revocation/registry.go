// Package revocation records token identifiers that must no longer be accepted.
package revocation

import (
	"context"
	"time"
)

// Registry is shared by every request handler. Entries expire on their own once
// the token they name could no longer pass an expiry check anyway.
type Registry interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
