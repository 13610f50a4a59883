//go:build wireinject
// +build wireinject

package wire

import (
	"pvefleet/internal/handler"
	"pvefleet/internal/job"
	"pvefleet/internal/migrate"
	"pvefleet/internal/repository"
	"pvefleet/internal/router"
	"pvefleet/internal/server"
	"pvefleet/internal/service"
	"pvefleet/pkg/app"
	"pvefleet/pkg/jwt"
	"pvefleet/pkg/log"
	"pvefleet/pkg/server/http"
	"pvefleet/pkg/sid"

	"github.com/google/wire"
	"github.com/spf13/viper"
)

var repositorySet = wire.NewSet(
	repository.NewDB,
	repository.NewRepository,
	repository.NewTransaction,
	repository.NewUserRepository,
	repository.NewNodeRepository,
	repository.NewGuestRepository,
	repository.NewMigrationTaskRepository,
	repository.NewMigrationStepRepository,
)

var migrateSet = wire.NewSet(
	migrate.NewSSHDialer,
	migrate.NewEngine,
)

var serviceSet = wire.NewSet(
	service.NewService,
	service.NewUserService,
	service.NewNodeService,
	service.NewInventoryRefresher,
	service.NewMigrationService,
)

var handlerSet = wire.NewSet(
	handler.NewHandler,
	handler.NewUserHandler,
	handler.NewNodeHandler,
	handler.NewMigrationHandler,
)

var jobSet = wire.NewSet(
	job.NewJob,
	job.NewNodeSyncJob,
)

var serverSet = wire.NewSet(
	server.NewHTTPServer,
	server.NewJobServer,
)

// build App
func newApp(
	httpServer *http.Server,
	jobServer *server.JobServer,
) *app.App {
	return app.NewApp(
		app.WithServer(httpServer, jobServer),
		app.WithName("pvefleet-server"),
	)
}

func NewWire(*viper.Viper, *log.Logger) (*app.App, func(), error) {
	panic(wire.Build(
		repositorySet,
		migrateSet,
		serviceSet,
		handlerSet,
		jobSet,
		serverSet,
		wire.Struct(new(router.RouterDeps), "*"),
		sid.NewSid,
		jwt.NewJwt,
		newApp,
	))
}
