// Package api defines the StormBuddi backend boundary: a Client interface
// consumed by the services layer and an HTTP implementation of it.
package api

import "context"

// Client is the surface of the StormBuddi mobile API this core consumes.
// Payload-shaped results are returned as decoded JSON objects; the
// subscription normalizer owns their interpretation.
type Client interface {
	// Login exchanges credentials for a bearer token.
	Login(ctx context.Context, email, password string) (string, error)

	// Logout invalidates the session server-side. Best effort.
	Logout(ctx context.Context) error

	// SubscriptionStatus fetches the primary subscription status payload.
	// Returns common.ErrUnauthorized on 401, common.ErrNotFound on 404 and
	// common.ErrNoContent on 204.
	SubscriptionStatus(ctx context.Context) (map[string]any, error)

	// Profile fetches the user profile, used both as the subscription
	// fallback payload and for the shell prompt.
	Profile(ctx context.Context) (map[string]any, error)
}

// TokenProvider supplies the credentials attached to outbound requests.
// Implemented by the auth service over the local metadata store.
type TokenProvider interface {
	// Token returns the stored bearer token, or "" when logged out.
	Token(ctx context.Context) (string, error)

	// DeviceID returns the per-install device identifier.
	DeviceID(ctx context.Context) (string, error)
}
