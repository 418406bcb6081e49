package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/stormbuddi/mobile/internal/buildinfo"
	"github.com/stormbuddi/mobile/internal/client/app"
	"github.com/stormbuddi/mobile/internal/client/config"
	"github.com/stormbuddi/mobile/internal/logging"
)

func main() {

	buildinfo.PrintBuildData(os.Stdout)

	ctx := context.Background()
	cfg := config.LoadConfig()
	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	a, err := app.NewApp(ctx, cfg, log)
	if err != nil {
		log.Error(ctx, "failed to start", "error", err)
		os.Exit(1)
	}
	defer a.Close()

	a.Run(ctx)
}
