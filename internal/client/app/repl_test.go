package app

import (
	"bufio"
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// stubShell implements shellIface with scripted state.
type stubShell struct {
	loggedIn bool
	gated    bool

	loginCalls      int
	logoutCalls     int
	refreshCalls    int
	foregroundCalls int
	backgroundCalls int
	renewCalls      int
}

func (s *stubShell) IsLoggedIn() bool                        { return s.loggedIn }
func (s *stubShell) ShouldShowSubscriptionGate() bool        { return s.gated }
func (s *stubShell) SubscriptionState() (string, bool, bool) { return "active", true, false }
func (s *stubShell) LoginPrompt(context.Context) error       { s.loginCalls++; return nil }
func (s *stubShell) Logout(context.Context)                  { s.logoutCalls++; s.loggedIn = false }
func (s *stubShell) Refresh(context.Context)                 { s.refreshCalls++ }
func (s *stubShell) Foreground()                             { s.foregroundCalls++ }
func (s *stubShell) Background()                             { s.backgroundCalls++ }
func (s *stubShell) Renew(context.Context)                   { s.renewCalls++ }

func runScript(t *testing.T, s *stubShell, script string) []string {
	t.Helper()

	var out []string
	orig := printlnFn
	printlnFn = func(args ...any) (int, error) {
		out = append(out, strings.TrimSpace(fmt.Sprintln(args...)))
		return 0, nil
	}
	defer func() { printlnFn = orig }()

	scanner := bufio.NewScanner(strings.NewReader(script))
	runREPL(context.Background(), s, func() string { return "test" }, scanner)
	return out
}

func TestREPL_DispatchesCommands(t *testing.T) {
	s := &stubShell{loggedIn: true}

	runScript(t, s, "refresh\nbackground\nforeground\nrenew\nlogout\nexit\n")

	require.Equal(t, 1, s.refreshCalls)
	require.Equal(t, 1, s.backgroundCalls)
	require.Equal(t, 1, s.foregroundCalls)
	require.Equal(t, 1, s.renewCalls)
	require.Equal(t, 1, s.logoutCalls)
}

func TestREPL_GateBlocksMostCommands(t *testing.T) {
	s := &stubShell{loggedIn: true, gated: true}

	out := runScript(t, s, "refresh\nforeground\nstatus\nrenew\nexit\n")

	require.Zero(t, s.refreshCalls, "gated shell must block refresh")
	require.Zero(t, s.foregroundCalls, "gated shell must block foreground")
	require.Equal(t, 1, s.renewCalls, "renew stays available behind the gate")

	joined := strings.Join(out, "\n")
	require.Contains(t, joined, "logged in: true", "status stays available behind the gate")
	require.Contains(t, joined, "Available commands: status, renew, logout, exit",
		"gate message lists exactly the commands it lets through")
}

func TestREPL_ExitsOnEOF(t *testing.T) {
	s := &stubShell{}
	runScript(t, s, "") // immediate EOF must return, not loop
}

func TestREPL_UnknownCommandReported(t *testing.T) {
	s := &stubShell{}
	out := runScript(t, s, "frobnicate\nexit\n")

	joined := strings.Join(out, "\n")
	require.Contains(t, joined, "Unknown command")
}
