package app

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
)

// printlnFn is a test seam for user-facing output.
var printlnFn = fmt.Println

// shellIface is the minimal command surface the REPL needs. App satisfies
// it; tests can provide a stub.
type shellIface interface {
	IsLoggedIn() bool
	ShouldShowSubscriptionGate() bool
	SubscriptionState() (string, bool, bool)
	LoginPrompt(ctx context.Context) error
	Logout(ctx context.Context)
	Refresh(ctx context.Context)
	Foreground()
	Background()
	Renew(ctx context.Context)
}

// LoginPrompt asks for credentials interactively and logs in.
func (a *App) LoginPrompt(ctx context.Context) error {
	reader := bufio.NewReader(os.Stdin)
	email, err := getSimpleText(reader, "Email", os.Stdout)
	if err != nil {
		return err
	}
	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	if err := a.Login(ctx, email, string(password)); err != nil {
		printlnFn("Login failed:", err)
		return err
	}
	printlnFn("Logged in.")
	return nil
}

// Run boots the app and starts the interactive shell, blocking until the
// user exits.
func (a *App) Run(ctx context.Context) {
	a.Boot(ctx)
	runREPL(ctx, a, a.promptStatus, bufio.NewScanner(os.Stdin))
}

func (a *App) promptStatus() string {
	if !a.IsLoggedIn() {
		return "logged out"
	}
	if a.ShouldShowSubscriptionGate() {
		return "subscription expired"
	}
	email := a.UserEmail(context.Background())
	if email == "" {
		return "logged in"
	}
	return email
}

// runREPL reads a command per line and dispatches it. The expired gate is
// enforced here the way the mobile shell enforces it: while the gate is up,
// only status, renew, logout and exit are available.
//
// Commands:
//
//	status        — print auth and subscription state
//	login         — authenticate (prompts for credentials)
//	logout        — end the session
//	refresh       — force a subscription re-check
//	background    — simulate the app going to the background
//	foreground    — simulate the app returning to the foreground
//	renew         — open the billing page
//	exit | quit   — leave
//
// Handlers log their own errors; the loop only does I/O.
func runREPL(ctx context.Context, a shellIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("stormbuddi> %s > ", statusFn()))
		if !scanner.Scan() {
			return
		}
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		if a.ShouldShowSubscriptionGate() && !gateAllowed(cmd) {
			printlnFn("Your subscription has expired. Available commands: status, renew, logout, exit")
			continue
		}

		switch cmd {
		case "help":
			if a.IsLoggedIn() {
				printlnFn("Available commands: status, refresh, background, foreground, renew, logout, exit")
			} else {
				printlnFn("Available commands: status, login, exit")
			}

		case "status":
			status, checked, loading := a.SubscriptionState()
			printlnFn(fmt.Sprintf("logged in: %v, subscription: %s (checked: %v, loading: %v)",
				a.IsLoggedIn(), status, checked, loading))

		case "login":
			_ = a.LoginPrompt(ctx)

		case "logout":
			a.Logout(ctx)

		case "refresh":
			a.Refresh(ctx)

		case "background":
			a.Background()

		case "foreground":
			a.Foreground()

		case "renew":
			a.Renew(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}

func gateAllowed(cmd string) bool {
	switch cmd {
	case "renew", "logout", "exit", "quit", "status":
		return true
	}
	return false
}
