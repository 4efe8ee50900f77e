package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/naturetrail/naturetrail/internal/clock"
	"github.com/naturetrail/naturetrail/internal/config"
	"github.com/naturetrail/naturetrail/internal/migration"
	"github.com/naturetrail/naturetrail/internal/observability"
	"github.com/naturetrail/naturetrail/internal/server"
	"github.com/naturetrail/naturetrail/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(registerSnowflake),
		db.Module,
		clock.Module,
		migration.Module,
		server.Module,
	)
	app.Run()
}

func registerSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
