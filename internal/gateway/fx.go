package gateway

import (
	"github.com/tabwise/epos/internal/config"
	"go.uber.org/fx"
)

var Module = fx.Module("payment.gateway",
	fx.Provide(NewFromConfig),
)

// NewFromConfig resolves the configured provider through the registry.
// The registry is assembled in main so alternative processors can be
// plugged in without touching this package.
func NewFromConfig(cfg config.Config, registry *Registry) (Gateway, error) {
	return registry.NewGateway(cfg.PaymentProvider)
}
