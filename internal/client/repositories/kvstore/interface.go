package kvstore

import "context"

// Session keys.
const (
	KeyToken        = "token"
	KeyRefreshToken = "refreshToken"
	KeyCurrentUser  = "currentUser"
)

// SessionKeys lists every key that belongs to a session.
var SessionKeys = []string{KeyToken, KeyRefreshToken, KeyCurrentUser}

type Repository interface {
	// Get returns ("", false, nil) when key is absent.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	// SetMany writes all pairs; the SQLite store does it atomically.
	SetMany(ctx context.Context, values map[string]string) error
	Remove(ctx context.Context, key string) error
	RemoveMany(ctx context.Context, keys ...string) error
	List(ctx context.Context) (map[string]string, error)
	Clear(ctx context.Context) error
}
