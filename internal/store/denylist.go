package store

import (
	"context"
	"errors"
	"time"
)

const revokedPrefix = "revoked-token:"

// TokenDenylist records revoked API token ids until they would have expired.
type TokenDenylist struct {
	kv KV
}

func NewTokenDenylist(kv KV) *TokenDenylist { return &TokenDenylist{kv: kv} }

// Revoke denies jti until expiresAt. Tokens that already expired are skipped.
func (d *TokenDenylist) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	return d.kv.Set(ctx, revokedPrefix+jti, "1", ttl)
}

// IsRevoked reports whether jti was revoked.
func (d *TokenDenylist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	_, err := d.kv.Get(ctx, revokedPrefix+jti)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, ErrMiss) {
		return false, nil
	}
	return false, err
}
