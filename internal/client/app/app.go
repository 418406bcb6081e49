package app

import (
	"context"
	"database/sql"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/stormbuddi/mobile/internal/client/api"
	"github.com/stormbuddi/mobile/internal/client/config"
	"github.com/stormbuddi/mobile/internal/client/services"
	"github.com/stormbuddi/mobile/internal/client/store"
	"github.com/stormbuddi/mobile/internal/eventbus"
	"github.com/stormbuddi/mobile/internal/loader"
	"github.com/stormbuddi/mobile/internal/logging"
	"github.com/stormbuddi/mobile/internal/push"
	"github.com/stormbuddi/mobile/internal/subscription"
)

// App is the composition root and top-level controller. It gates the entire
// UI behind three blocking overlays in priority order: the boot loader, the
// subscription-check loader, and the persistent subscription-expired modal.
type App struct {
	cfg    *config.Config
	log    logging.Logger
	bus    *eventbus.Bus
	db     *sql.DB
	auth   services.AuthService
	subs   services.SubscriptionService
	push   push.Setup
	opener URLOpener

	// BootLoader wraps the initial auth check; SubLoader wraps each
	// subscription fetch.
	BootLoader *loader.Coordinator
	SubLoader  *loader.Coordinator

	mu         sync.Mutex
	loggedIn   bool
	subStatus  string
	subChecked bool
	subLoading bool

	unsubs []func()
}

// NewApp wires the full client: local store, event bus, API client, services
// and loaders. The auth service doubles as the API client's token provider,
// so it is built first and bound to the client afterwards.
func NewApp(ctx context.Context, cfg *config.Config, log logging.Logger) (*App, error) {
	db, err := store.Open(ctx, cfg.DatabasePath)
	if err != nil {
		log.Error(ctx, "error initializing database", "error", err)
		return nil, err
	}

	bus := eventbus.New(log)
	auth := services.NewAuthService(db, bus, log)
	apiClient := api.NewHTTPClient(cfg.APIBaseURL, cfg.HTTPTimeout, auth, log)
	auth.BindClient(apiClient)
	subs := services.NewSubscriptionService(apiClient, auth, bus, log)

	a := &App{
		cfg:        cfg,
		log:        log,
		bus:        bus,
		db:         db,
		auth:       auth,
		subs:       subs,
		push:       push.NewNoopSetup(log),
		opener:     ExecOpener{},
		BootLoader: loader.New(loader.WithMinimumDisplayTime(cfg.MinLoaderDisplay)),
		SubLoader:  loader.New(loader.WithMinimumDisplayTime(cfg.MinLoaderDisplay)),
		subStatus:  subscription.StatusUnknown,
	}

	a.unsubs = append(a.unsubs,
		bus.Subscribe(eventbus.EventLoginSuccess, func(any) { a.onLoginSuccess() }),
		bus.Subscribe(eventbus.EventLogout, func(any) { a.onLogout() }),
		bus.Subscribe(eventbus.EventForeground, func(any) { a.onForeground() }),
	)

	return a, nil
}

// Boot runs the initial auth check and push setup behind the boot loader.
// While the boot loader is visible no other UI renders.
func (a *App) Boot(ctx context.Context) {
	a.BootLoader.Start()
	defer a.BootLoader.Stop()

	if err := a.push.Setup(ctx); err != nil {
		a.log.Warn(ctx, "push notification setup failed", "error", err)
	}

	authenticated, err := a.auth.IsAuthenticated(ctx)
	if err != nil {
		a.log.Error(ctx, "auth check failed", "error", err)
		authenticated = false
	}

	if authenticated {
		a.enterLoggedIn()
	} else {
		a.forceLoggedOut()
	}
}

// onLoginSuccess handles eventbus.EventLoginSuccess.
func (a *App) onLoginSuccess() {
	a.enterLoggedIn()
}

// enterLoggedIn marks the session active, invalidates the previous check and
// starts an asynchronous subscription fetch.
func (a *App) enterLoggedIn() {
	a.mu.Lock()
	a.loggedIn = true
	a.subChecked = false
	a.mu.Unlock()

	go a.refreshSubscription(context.Background())
}

// onLogout handles eventbus.EventLogout: LoggedOut is forced unconditionally,
// whatever was in flight.
func (a *App) onLogout() {
	a.forceLoggedOut()
}

// forceLoggedOut resets auth and subscription state so the expired gate can
// never show while logged out.
func (a *App) forceLoggedOut() {
	a.mu.Lock()
	a.loggedIn = false
	a.subStatus = subscription.StatusUnknown
	a.subChecked = true
	a.subLoading = false
	a.mu.Unlock()

	a.SubLoader.Reset()
}

// onForeground re-checks the subscription whenever the app returns to the
// foreground while logged in. One transition, one fetch.
func (a *App) onForeground() {
	a.mu.Lock()
	loggedIn := a.loggedIn
	a.mu.Unlock()

	if loggedIn {
		go a.refreshSubscription(context.Background())
	}
}

// refreshSubscription performs one SubscriptionFetch. A fetch that resolves
// after a concurrent logout is discarded: it must not resurrect a cleared
// session or raise the expired gate while logged out.
func (a *App) refreshSubscription(ctx context.Context) {
	a.mu.Lock()
	a.subLoading = true
	a.mu.Unlock()
	a.SubLoader.Start()

	status, err := a.subs.FetchStatus(ctx)

	a.mu.Lock()
	switch {
	case !a.loggedIn:
		// Logged out while the fetch was in flight. The logout handler
		// already forced the final state; drop the stale result.
	case err != nil:
		// 401 path: the logout handler already reset state synchronously
		// during FetchStatus. Only confirm the check finished.
		a.subChecked = true
		a.subLoading = false
	default:
		a.subStatus = status
		a.subChecked = true
		a.subLoading = false
	}
	a.mu.Unlock()

	a.SubLoader.Stop()
}

// IsLoggedIn reports the current auth state.
func (a *App) IsLoggedIn() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.loggedIn
}

// SubscriptionState returns the current status, whether a check has
// completed, and whether a fetch is in flight.
func (a *App) SubscriptionState() (status string, checked bool, loading bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.subStatus, a.subChecked, a.subLoading
}

// ShouldShowSubscriptionGate reports whether the blocking expired-subscription
// modal must render. Never true before the first completed check, so a stale
// status from a previous session cannot block the UI speculatively.
func (a *App) ShouldShowSubscriptionGate() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.subChecked && subscription.IsInactive(a.subStatus)
}

// Login authenticates and stores the session; the resulting
// eventbus.EventLoginSuccess drives the state transition.
func (a *App) Login(ctx context.Context, email, password string) error {
	return a.auth.Login(ctx, email, password)
}

// Logout ends the session explicitly.
func (a *App) Logout(ctx context.Context) {
	a.auth.Logout(ctx)
}

// Refresh forces a subscription re-check, synchronously.
func (a *App) Refresh(ctx context.Context) {
	a.refreshSubscription(ctx)
}

// Foreground and Background simulate the host OS app-state signal.
func (a *App) Foreground() { a.bus.Emit(eventbus.EventForeground, nil) }
func (a *App) Background() { a.bus.Emit(eventbus.EventBackground, nil) }

// Renew opens the billing page. Failure to open is logged, not surfaced.
func (a *App) Renew(ctx context.Context) {
	if err := a.opener.OpenURL(ctx, a.cfg.BillingURL); err != nil {
		a.log.Warn(ctx, "failed to open billing page", "url", a.cfg.BillingURL, "error", err)
	}
}

// UserEmail returns the cached account email for the prompt.
func (a *App) UserEmail(ctx context.Context) string {
	email, err := a.auth.UserEmail(ctx)
	if err != nil {
		return ""
	}
	return email
}

// Close releases bus subscriptions and the local database.
func (a *App) Close() error {
	for _, unsub := range a.unsubs {
		unsub()
	}
	return a.db.Close()
}
