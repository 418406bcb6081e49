package loader

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const testWindow = 80 * time.Millisecond

func newTestCoordinator(opts ...Option) *Coordinator {
	return New(append([]Option{WithMinimumDisplayTime(testWindow)}, opts...)...)
}

func TestCoordinator_StartShowsImmediately(t *testing.T) {
	c := newTestCoordinator()

	require.False(t, c.ShouldShowLoader())
	c.Start()
	require.True(t, c.IsLoading())
	require.True(t, c.ShouldShowLoader())
}

func TestCoordinator_FastStopHoldsMinimumWindow(t *testing.T) {
	c := newTestCoordinator()

	c.Start()
	c.Stop()

	// Operation finished early: loading ends, loader stays up.
	require.False(t, c.IsLoading())
	require.True(t, c.ShouldShowLoader(), "loader must remain visible inside the minimum window")

	require.Eventually(t, func() bool { return !c.ShouldShowLoader() },
		time.Second, 5*time.Millisecond, "loader must hide once the window elapses")
}

func TestCoordinator_SlowStopHidesSynchronously(t *testing.T) {
	base := time.Now()
	current := base
	var mu sync.Mutex
	c := newTestCoordinator(WithNow(func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return current
	}))

	c.Start()
	mu.Lock()
	current = base.Add(testWindow + time.Millisecond)
	mu.Unlock()
	c.Stop()

	require.False(t, c.ShouldShowLoader(), "elapsed >= minimum must hide with no delay")
	require.False(t, c.IsLoading())
}

func TestCoordinator_StopWithoutStartGoesIdle(t *testing.T) {
	c := newTestCoordinator()

	require.NotPanics(t, c.Stop)
	require.False(t, c.IsLoading())
	require.False(t, c.ShouldShowLoader())
}

func TestCoordinator_RestartSupersedesPendingHide(t *testing.T) {
	c := newTestCoordinator()

	c.Start()
	c.Stop() // schedules a deferred hide
	c.Start()

	// The first session's timer must not clear the new session's flag.
	time.Sleep(testWindow + 30*time.Millisecond)
	require.True(t, c.ShouldShowLoader(), "stale timer must not hide the new session's loader")
	require.True(t, c.IsLoading())

	c.Stop()
	require.Eventually(t, func() bool { return !c.ShouldShowLoader() },
		time.Second, 5*time.Millisecond, "new session gets its own minimum-time wait")
}

func TestCoordinator_ResetCancelsPendingHide(t *testing.T) {
	c := newTestCoordinator()

	c.Start()
	c.Stop()
	c.Reset()

	require.False(t, c.ShouldShowLoader())
	require.False(t, c.IsLoading())

	// A session started right after Reset must not be hidden by the old timer.
	c.Start()
	time.Sleep(testWindow + 30*time.Millisecond)
	require.True(t, c.ShouldShowLoader())
}

func TestCoordinator_SetLoadingSugar(t *testing.T) {
	c := newTestCoordinator()

	c.SetLoading(true)
	require.True(t, c.IsLoading())
	require.True(t, c.ShouldShowLoader())

	c.SetLoading(false)
	require.False(t, c.IsLoading())
}

func TestCoordinator_OnChangeFires(t *testing.T) {
	var mu sync.Mutex
	var transitions []bool
	c := newTestCoordinator(WithOnChange(func(v bool) {
		mu.Lock()
		transitions = append(transitions, v)
		mu.Unlock()
	}))

	c.Start()
	c.Stop()

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(transitions) == 2
	}, time.Second, 5*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	require.Equal(t, []bool{true, false}, transitions)
}

func TestCoordinator_RestartWhileLoadingRefreshesWindow(t *testing.T) {
	base := time.Now()
	current := base
	var mu sync.Mutex
	c := newTestCoordinator(WithNow(func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		return current
	}))

	c.Start()
	mu.Lock()
	current = base.Add(60 * time.Millisecond)
	mu.Unlock()
	c.Start() // refreshed operation gets a fresh window

	mu.Lock()
	current = base.Add(90 * time.Millisecond) // 30ms into the new window
	mu.Unlock()
	c.Stop()

	// Only 30ms of the new window elapsed, so the hide must be deferred.
	require.True(t, c.ShouldShowLoader())
}
