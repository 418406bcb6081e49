package services

import (
	"context"
	"errors"

	"github.com/stormbuddi/mobile/internal/client/api"
	"github.com/stormbuddi/mobile/internal/common"
	"github.com/stormbuddi/mobile/internal/eventbus"
	"github.com/stormbuddi/mobile/internal/logging"
	"github.com/stormbuddi/mobile/internal/subscription"
)

// SubscriptionService fetches and normalizes the user's subscription status.
type SubscriptionService interface {
	// FetchStatus resolves the current canonical status.
	//
	// A 401 from either endpoint is a hard session invalidation: local auth
	// data is cleared, eventbus.EventLogout is emitted, and
	// common.ErrUnauthorized is returned. Every other failure is fail-open:
	// the status comes back "active" with a nil error, so a backend blip
	// never locks an active user out.
	FetchStatus(ctx context.Context) (string, error)
}

type subscriptionService struct {
	client api.Client
	auth   AuthService
	bus    *eventbus.Bus
	log    logging.Logger
}

func NewSubscriptionService(client api.Client, auth AuthService, bus *eventbus.Bus, log logging.Logger) SubscriptionService {
	return &subscriptionService{client: client, auth: auth, bus: bus, log: log}
}

func (s *subscriptionService) FetchStatus(ctx context.Context) (string, error) {
	payload, err := s.client.SubscriptionStatus(ctx)

	// The status endpoint is not present on older backends: fall back to the
	// profile payload, which carries the same shapes for the normalizer.
	if err != nil && (errors.Is(err, common.ErrNotFound) || errors.Is(err, common.ErrNoContent)) {
		s.log.Debug(ctx, "status endpoint unavailable, falling back to profile")
		payload, err = s.client.Profile(ctx)
	}

	if err != nil {
		if errors.Is(err, common.ErrUnauthorized) {
			s.invalidateSession(ctx)
			return subscription.StatusUnknown, common.ErrUnauthorized
		}
		s.log.Warn(ctx, "subscription check failed, treating as active", "error", err)
		return subscription.StatusActive, nil
	}

	status := subscription.Normalize(payload)
	s.log.Debug(ctx, "subscription status resolved", "status", status)
	return status, nil
}

// invalidateSession clears the token and emits the logout event in one
// synchronous continuation.
func (s *subscriptionService) invalidateSession(ctx context.Context) {
	s.log.Info(ctx, "session rejected by backend, logging out")
	if err := s.auth.ClearAuthData(ctx); err != nil {
		s.log.Error(ctx, "failed to clear auth data", "error", err)
	}
	s.bus.Emit(eventbus.EventLogout, nil)
}
