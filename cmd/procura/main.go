package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/procurahq/procura/internal/clock"
	"github.com/procurahq/procura/internal/config"
	"github.com/procurahq/procura/internal/logger"
	"github.com/procurahq/procura/internal/migration"
	"github.com/procurahq/procura/internal/server"
	"github.com/procurahq/procura/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,
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
