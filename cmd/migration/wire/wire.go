//go:build wireinject
// +build wireinject

package wire

import (
	"pvefleet/internal/repository"
	"pvefleet/internal/server"
	"pvefleet/pkg/app"
	"pvefleet/pkg/log"
	"pvefleet/pkg/sid"

	"github.com/google/wire"
	"github.com/spf13/viper"
)

var repositorySet = wire.NewSet(
	repository.NewDB,
	repository.NewRepository,
	repository.NewUserRepository,
)
var serverSet = wire.NewSet(
	server.NewMigrateServer,
)
var sidSet = wire.NewSet(
	sid.NewSid,
)

// build App
func newApp(
	migrateServer *server.MigrateServer,
) *app.App {
	return app.NewApp(
		app.WithServer(migrateServer),
		app.WithName("pvefleet-migrate"),
	)
}

func NewWire(*viper.Viper, *log.Logger) (*app.App, func(), error) {
	panic(wire.Build(
		repositorySet,
		sidSet,
		serverSet,
		newApp,
	))
}
