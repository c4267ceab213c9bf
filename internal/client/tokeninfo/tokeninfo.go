// Package tokeninfo reads JWT claims without verifying the signature. The
// client never holds the signing key, so the result is informational only.
package tokeninfo

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrMalformed = errors.New("malformed token")

type Info struct {
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// Expired reports whether the token carries an expiry earlier than now.
func (i Info) Expired(now time.Time) bool {
	return !i.ExpiresAt.IsZero() && now.After(i.ExpiresAt)
}

// Remaining is the time left until expiry, 0 when unknown or past.
func (i Info) Remaining(now time.Time) time.Duration {
	if i.ExpiresAt.IsZero() || now.After(i.ExpiresAt) {
		return 0
	}
	return i.ExpiresAt.Sub(now)
}

func Inspect(token string) (Info, error) {
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return Info{}, fmt.Errorf("%w: %w", ErrMalformed, err)
	}

	var info Info
	info.Subject = claims.Subject
	if claims.IssuedAt != nil {
		info.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		info.ExpiresAt = claims.ExpiresAt.Time
	}
	return info, nil
}
