// Package services contains application services for the StormBuddi mobile
// client. This file defines the auth service: the durable token store, the
// login/logout flow, and the per-install device identity.
package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/stormbuddi/mobile/internal/client/api"
	"github.com/stormbuddi/mobile/internal/client/repositories/metadata"
	"github.com/stormbuddi/mobile/internal/eventbus"
	"github.com/stormbuddi/mobile/internal/logging"
)

// AuthService owns the persisted auth token and the session lifecycle.
//
// Contract:
//   - Token / StoreToken / ClearAuthData: durable token store operations.
//   - IsAuthenticated: token present and not visibly expired.
//   - Login: exchange credentials for a token, persist it, emit
//     eventbus.EventLoginSuccess.
//   - Logout: clear local auth data, best-effort server logout, emit
//     eventbus.EventLogout.
//   - DeviceID: stable per-install identifier, generated on first use.
//
// All methods honor context cancellation.
type AuthService interface {
	api.TokenProvider
	StoreToken(ctx context.Context, token string) error
	ClearAuthData(ctx context.Context) error
	IsAuthenticated(ctx context.Context) (bool, error)
	Login(ctx context.Context, email, password string) error
	Logout(ctx context.Context)
	UserEmail(ctx context.Context) (string, error)
}

type authService struct {
	client api.Client
	db     *sql.DB
	bus    *eventbus.Bus
	log    logging.Logger
	now    func() time.Time
}

// NewAuthService constructs an AuthService over the given API client, local
// DB and event bus. The API client may be nil for store-only use (it is set
// later via BindClient to break the client↔token-provider construction
// cycle).
func NewAuthService(db *sql.DB, bus *eventbus.Bus, log logging.Logger) *authService {
	return &authService{db: db, bus: bus, log: log, now: time.Now}
}

// BindClient attaches the API client once it has been constructed with this
// service as its token provider.
func (a *authService) BindClient(client api.Client) {
	a.client = client
}

func (a *authService) repo() metadata.Repository {
	return metadata.NewSQLiteRepository(a.db)
}

func (a *authService) Token(ctx context.Context) (string, error) {
	value, err := a.repo().Get(ctx, metadata.KeyAuthToken)
	if err != nil {
		return "", err
	}
	return string(value), nil
}

func (a *authService) StoreToken(ctx context.Context, token string) error {
	return a.repo().Set(ctx, metadata.KeyAuthToken, []byte(token))
}

// ClearAuthData removes the token and cached user data. The device ID is
// kept: it identifies the install, not the session.
func (a *authService) ClearAuthData(ctx context.Context) error {
	repo := a.repo()
	if err := repo.Delete(ctx, metadata.KeyAuthToken); err != nil {
		return err
	}
	return repo.Delete(ctx, metadata.KeyUserEmail)
}

// IsAuthenticated reports whether a stored token exists and, when it parses
// as a JWT, has not expired. Opaque tokens count as authenticated; the
// server's 401 is the authority for those.
func (a *authService) IsAuthenticated(ctx context.Context) (bool, error) {
	token, err := a.Token(ctx)
	if err != nil {
		return false, err
	}
	if token == "" {
		return false, nil
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return true, nil
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return true, nil
	}
	return exp.After(a.now()), nil
}

// DeviceID returns the per-install identifier, generating and persisting a
// fresh UUID on first use.
func (a *authService) DeviceID(ctx context.Context) (string, error) {
	repo := a.repo()
	value, err := repo.Get(ctx, metadata.KeyDeviceID)
	if err != nil {
		return "", err
	}
	if len(value) > 0 {
		return string(value), nil
	}

	id := uuid.NewString()
	if err := repo.Set(ctx, metadata.KeyDeviceID, []byte(id)); err != nil {
		return "", fmt.Errorf("persist device id: %w", err)
	}
	return id, nil
}

// Login authenticates against the backend, persists the returned token and
// announces the new session on the bus.
func (a *authService) Login(ctx context.Context, email, password string) error {
	token, err := a.client.Login(ctx, email, password)
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}

	if err := a.StoreToken(ctx, token); err != nil {
		return fmt.Errorf("store token: %w", err)
	}
	if err := a.repo().Set(ctx, metadata.KeyUserEmail, []byte(email)); err != nil {
		a.log.Warn(ctx, "failed to cache user email", "error", err)
	}

	a.bus.Emit(eventbus.EventLoginSuccess, nil)
	return nil
}

// Logout tells the server first (best effort, while the token is still
// attached), then clears local auth data and emits the logout event with no
// suspension point between the clear and the emit.
func (a *authService) Logout(ctx context.Context) {
	if a.client != nil {
		if err := a.client.Logout(ctx); err != nil {
			a.log.Warn(ctx, "server logout failed", "error", err)
		}
	}

	if err := a.ClearAuthData(ctx); err != nil {
		a.log.Error(ctx, "failed to clear auth data", "error", err)
	}
	a.bus.Emit(eventbus.EventLogout, nil)
}

func (a *authService) UserEmail(ctx context.Context) (string, error) {
	value, err := a.repo().Get(ctx, metadata.KeyUserEmail)
	if err != nil {
		return "", err
	}
	return string(value), nil
}
