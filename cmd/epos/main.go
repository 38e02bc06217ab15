package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/tabwise/epos/internal/clock"
	"github.com/tabwise/epos/internal/config"
	"github.com/tabwise/epos/internal/gateway"
	"github.com/tabwise/epos/internal/gateway/mock"
	"github.com/tabwise/epos/internal/intentstore"
	"github.com/tabwise/epos/internal/migration"
	"github.com/tabwise/epos/internal/observability"
	"github.com/tabwise/epos/internal/server"
	"github.com/tabwise/epos/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,

		// Payment plumbing
		fx.Provide(RegisterGateways),
		gateway.Module,
		intentstore.Module,

		// HTTP surface and domain services
		server.Module,

		migration.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}

// RegisterGateways lists every payment processor this build knows
// about. Config picks which one serves requests.
func RegisterGateways() *gateway.Registry {
	return gateway.NewRegistry(
		mock.NewFactory(),
	)
}
