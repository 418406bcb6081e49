package app

import (
	"context"
	"os/exec"
	"runtime"
)

// URLOpener opens an external URL in whatever the platform considers a
// browser. The renew action is its only caller in this core.
type URLOpener interface {
	OpenURL(ctx context.Context, url string) error
}

// ExecOpener shells out to the platform's opener command.
type ExecOpener struct{}

func (e ExecOpener) OpenURL(ctx context.Context, url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.CommandContext(ctx, "open", url)
	case "windows":
		cmd = exec.CommandContext(ctx, "rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.CommandContext(ctx, "xdg-open", url)
	}
	return cmd.Start()
}
