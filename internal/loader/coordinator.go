// Package loader implements the page-loading coordinator: a per-screen state
// machine that keeps a blocking loader visible for a minimum duration so a
// fast request does not flash the overlay.
//
// Each coordinator owns one logical loading scope. The app boot sequence has
// its own instance and every screen that needs a blocking loader creates its
// own; instances share nothing.
package loader

import (
	"sync"
	"time"
)

// DefaultMinimumDisplayTime is how long the loader stays visible once shown,
// even when the underlying operation finishes sooner.
const DefaultMinimumDisplayTime = 2000 * time.Millisecond

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithMinimumDisplayTime overrides the minimum visible duration.
func WithMinimumDisplayTime(d time.Duration) Option {
	return func(c *Coordinator) { c.minDisplay = d }
}

// WithNow replaces the time source, for tests.
func WithNow(now func() time.Time) Option {
	return func(c *Coordinator) { c.now = now }
}

// WithOnChange registers a callback invoked (outside the lock) whenever the
// visible flag changes. The shell uses it to redraw.
func WithOnChange(fn func(visible bool)) Option {
	return func(c *Coordinator) { c.onChange = fn }
}

// Coordinator tracks one loading session at a time.
//
// States: Idle (not loading, loader hidden), Loading (loading, loader
// visible), and a stopping state entered when Stop arrives before the
// minimum display time has elapsed — loading is over but the loader stays
// visible until the remainder of the window passes.
type Coordinator struct {
	mu         sync.Mutex
	minDisplay time.Duration
	now        func() time.Time
	onChange   func(bool)

	loading    bool
	showLoader bool
	startTime  time.Time
	started    bool

	// session increments on every Start/Reset so a hide timer scheduled for
	// an earlier session can never clear the flag of a later one.
	session uint64
	hide    *time.Timer
}

func New(opts ...Option) *Coordinator {
	c := &Coordinator{
		minDisplay: DefaultMinimumDisplayTime,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// IsLoading reports whether the underlying operation is still running.
func (c *Coordinator) IsLoading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// ShouldShowLoader reports whether the blocking loader must be visible. This
// is the only field the UI observes.
func (c *Coordinator) ShouldShowLoader() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.showLoader
}

// Start begins a new loading session. Valid in any state: restarting while
// already loading opens a fresh minimum-display window.
func (c *Coordinator) Start() {
	c.mu.Lock()
	c.cancelHideLocked()
	c.session++
	c.loading = true
	c.startTime = c.now()
	c.started = true
	changed := !c.showLoader
	c.showLoader = true
	cb := c.onChange
	c.mu.Unlock()

	if changed && cb != nil {
		cb(true)
	}
}

// Stop ends the current loading session. If the minimum display time has
// already elapsed the loader hides immediately; otherwise it stays visible
// for the remainder of the window. Stop without a matching Start simply
// returns to idle.
func (c *Coordinator) Stop() {
	c.mu.Lock()

	if !c.started {
		c.loading = false
		changed := c.showLoader
		c.showLoader = false
		cb := c.onChange
		c.mu.Unlock()
		if changed && cb != nil {
			cb(false)
		}
		return
	}

	elapsed := c.now().Sub(c.startTime)
	c.loading = false

	if elapsed >= c.minDisplay {
		c.idleLocked()
		changed := c.showLoader
		c.showLoader = false
		cb := c.onChange
		c.mu.Unlock()
		if changed && cb != nil {
			cb(false)
		}
		return
	}

	// Still inside the minimum window: keep the loader up and schedule the
	// hide for the remainder. The session guard discards the timer if a new
	// Start or Reset supersedes it.
	session := c.session
	remaining := c.minDisplay - elapsed
	c.cancelHideLocked()
	c.hide = time.AfterFunc(remaining, func() {
		c.hideIfCurrent(session)
	})
	c.mu.Unlock()
}

func (c *Coordinator) hideIfCurrent(session uint64) {
	c.mu.Lock()
	if c.session != session || c.loading {
		c.mu.Unlock()
		return
	}
	c.idleLocked()
	changed := c.showLoader
	c.showLoader = false
	cb := c.onChange
	c.mu.Unlock()

	if changed && cb != nil {
		cb(false)
	}
}

// Reset forces the coordinator back to idle immediately, cancelling any
// pending deferred hide.
func (c *Coordinator) Reset() {
	c.mu.Lock()
	c.session++
	c.loading = false
	c.idleLocked()
	changed := c.showLoader
	c.showLoader = false
	cb := c.onChange
	c.mu.Unlock()

	if changed && cb != nil {
		cb(false)
	}
}

// SetLoading is sugar: true starts a session, false stops it.
func (c *Coordinator) SetLoading(loading bool) {
	if loading {
		c.Start()
	} else {
		c.Stop()
	}
}

func (c *Coordinator) idleLocked() {
	c.cancelHideLocked()
	c.started = false
	c.startTime = time.Time{}
}

func (c *Coordinator) cancelHideLocked() {
	if c.hide != nil {
		c.hide.Stop()
		c.hide = nil
	}
}
