package menuitem

import (
	"github.com/tabwise/epos/internal/menuitem/repository"
	"github.com/tabwise/epos/internal/menuitem/service"
	"go.uber.org/fx"
)

var Module = fx.Module("menuitem.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
