package eventbus

// Event names published on the bus. Ordering of handlers is guaranteed only
// within a single name.
const (
	// EventLoginSuccess is emitted after a token has been stored for a
	// freshly authenticated user.
	EventLoginSuccess = "auth:login-success"

	// EventLogout is emitted when the session ends, either by user action or
	// by a 401 detected anywhere in the app. The token is already cleared by
	// the time handlers run.
	EventLogout = "auth:logout"

	// EventForeground and EventBackground mirror the host OS app-state
	// transitions.
	EventForeground = "app:foreground"
	EventBackground = "app:background"
)
