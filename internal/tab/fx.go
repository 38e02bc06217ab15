package tab

import (
	"github.com/tabwise/epos/internal/tab/repository"
	"github.com/tabwise/epos/internal/tab/service"
	"go.uber.org/fx"
)

var Module = fx.Module("tab.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
