// Package app wires the StormBuddi mobile client core: configuration, the
// local token store, the API client, the event bus, the loader coordinators
// and the subscription gate — plus an interactive shell standing in for the
// mobile UI.
//
// Lifecycle: Boot runs the initial auth check behind the boot loader; a
// login (interactive or via a stored token) triggers an asynchronous
// subscription fetch; every return to the foreground while logged in
// re-checks the subscription; a 401 anywhere cascades into a full logout.
// The UI renders the expired-subscription gate only after a completed check
// confirms an inactive-equivalent status.
package app
