package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/geoledger/countrysync/internal/clock"
	"github.com/geoledger/countrysync/internal/config"
	"github.com/geoledger/countrysync/internal/country"
	"github.com/geoledger/countrysync/internal/migration"
	"github.com/geoledger/countrysync/internal/observability"
	"github.com/geoledger/countrysync/internal/refresh"
	"github.com/geoledger/countrysync/internal/refreshrun"
	"github.com/geoledger/countrysync/internal/server"
	"github.com/geoledger/countrysync/internal/summary"
	"github.com/geoledger/countrysync/pkg/db"
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
		migration.Module,

		// Functional domains
		country.Module,
		refreshrun.Module,
		summary.Module,
		refresh.Module,

		server.Module,
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
