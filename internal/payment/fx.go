package payment

import (
	"github.com/tabwise/epos/internal/payment/repository"
	"github.com/tabwise/epos/internal/payment/service"
	"go.uber.org/fx"
)

var Module = fx.Module("payment.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
