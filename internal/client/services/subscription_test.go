package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/stormbuddi/mobile/internal/common"
	"github.com/stormbuddi/mobile/internal/eventbus"
)

func newSubsForTest(t *testing.T, client *fakeClient) (SubscriptionService, *authService, *eventbus.Bus) {
	t.Helper()
	bus := eventbus.New(testLogger())
	auth := NewAuthService(setupDB(t), bus, testLogger())
	auth.BindClient(client)
	subs := NewSubscriptionService(client, auth, bus, testLogger())
	return subs, auth, bus
}

func TestSubscriptionService_PrimaryEndpointSuccess(t *testing.T) {
	client := &fakeClient{SubStatusRet: map[string]any{"subscription_status": "Active"}}
	subs, _, _ := newSubsForTest(t, client)

	status, err := subs.FetchStatus(context.Background())
	require.NoError(t, err)
	require.Equal(t, "active", status)
	require.Equal(t, 1, client.SubStatusCalls)
	require.Zero(t, client.ProfileCalls, "no fallback needed")
}

func TestSubscriptionService_FallsBackToProfileOn404(t *testing.T) {
	client := &fakeClient{
		SubStatusErr: fmt.Errorf("GET status: %w", common.ErrNotFound),
		ProfileRet:   map[string]any{"subscription": map[string]any{"status": "Trial_Expired"}},
	}
	subs, _, _ := newSubsForTest(t, client)

	status, err := subs.FetchStatus(context.Background())
	require.NoError(t, err)
	require.Equal(t, "trial_expired", status)
	require.Equal(t, 1, client.ProfileCalls)
}

func TestSubscriptionService_FallsBackToProfileOn204(t *testing.T) {
	client := &fakeClient{
		SubStatusErr: fmt.Errorf("GET status: %w", common.ErrNoContent),
		ProfileRet:   map[string]any{"subscription_status": true},
	}
	subs, _, _ := newSubsForTest(t, client)

	status, err := subs.FetchStatus(context.Background())
	require.NoError(t, err)
	require.Equal(t, "active", status)
}

func TestSubscriptionService_FailOpenOnGenericError(t *testing.T) {
	client := &fakeClient{SubStatusErr: errors.New("connection reset")}
	subs, auth, _ := newSubsForTest(t, client)

	require.NoError(t, auth.StoreToken(context.Background(), "tok"))

	status, err := subs.FetchStatus(context.Background())
	require.NoError(t, err)
	require.Equal(t, "active", status, "transient errors must not lock the user out")

	token, err := auth.Token(context.Background())
	require.NoError(t, err)
	require.Equal(t, "tok", token, "token untouched on transient failure")
}

func TestSubscriptionService_FailOpenOnFallbackError(t *testing.T) {
	client := &fakeClient{
		SubStatusErr: fmt.Errorf("GET status: %w", common.ErrNotFound),
		ProfileErr:   errors.New("boom"),
	}
	subs, _, _ := newSubsForTest(t, client)

	status, err := subs.FetchStatus(context.Background())
	require.NoError(t, err)
	require.Equal(t, "active", status)
}

func TestSubscriptionService_401CascadesToLogout(t *testing.T) {
	client := &fakeClient{SubStatusErr: fmt.Errorf("GET status: %w", common.ErrUnauthorized)}
	subs, auth, bus := newSubsForTest(t, client)
	ctx := context.Background()

	require.NoError(t, auth.StoreToken(ctx, "stale-token"))

	logoutEvents := 0
	bus.Subscribe(eventbus.EventLogout, func(any) { logoutEvents++ })

	_, err := subs.FetchStatus(ctx)
	require.ErrorIs(t, err, common.ErrUnauthorized)

	token, err := auth.Token(ctx)
	require.NoError(t, err)
	require.Empty(t, token, "401 must clear the stored token")
	require.Equal(t, 1, logoutEvents)
}

func TestSubscriptionService_401OnFallbackCascadesToLogout(t *testing.T) {
	client := &fakeClient{
		SubStatusErr: fmt.Errorf("GET status: %w", common.ErrNotFound),
		ProfileErr:   fmt.Errorf("GET profile: %w", common.ErrUnauthorized),
	}
	subs, auth, bus := newSubsForTest(t, client)
	ctx := context.Background()

	require.NoError(t, auth.StoreToken(ctx, "stale-token"))

	logoutEvents := 0
	bus.Subscribe(eventbus.EventLogout, func(any) { logoutEvents++ })

	_, err := subs.FetchStatus(ctx)
	require.ErrorIs(t, err, common.ErrUnauthorized)
	require.Equal(t, 1, logoutEvents)
}

func TestSubscriptionService_ExpiryOnlyPayload(t *testing.T) {
	client := &fakeClient{SubStatusRet: map[string]any{
		"subscription": map[string]any{"ends_at": "2000-01-01T00:00:00Z"},
	}}
	subs, _, _ := newSubsForTest(t, client)

	status, err := subs.FetchStatus(context.Background())
	require.NoError(t, err)
	require.Equal(t, "expired", status)
}
