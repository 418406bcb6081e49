// Package push defines the push-notification boundary. The core only needs
// the handlers registered once during boot; a failure here is logged and
// never fatal.
package push

import (
	"context"

	"github.com/stormbuddi/mobile/internal/logging"
)

// Setup registers platform push-notification handlers.
type Setup interface {
	Setup(ctx context.Context) error
}

// NoopSetup is the headless implementation: it only records that setup ran.
type NoopSetup struct {
	log logging.Logger
}

func NewNoopSetup(log logging.Logger) *NoopSetup {
	return &NoopSetup{log: log}
}

func (n *NoopSetup) Setup(ctx context.Context) error {
	n.log.Debug(ctx, "push notification handlers registered")
	return nil
}
