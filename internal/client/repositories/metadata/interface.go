// Package metadata persists small key/value items the client must keep
// across process restarts: the bearer token, the device ID, the cached user
// email. Values are opaque bytes.
package metadata

import "context"

type Repository interface {
	// Get returns the stored value, or nil when the key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}

// Well-known keys.
const (
	KeyAuthToken = "auth_token"
	KeyDeviceID  = "device_id"
	KeyUserEmail = "user_email"
)
