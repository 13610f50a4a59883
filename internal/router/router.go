package router

import (
	"pvefleet/internal/handler"
	"pvefleet/pkg/jwt"
	"pvefleet/pkg/log"

	"github.com/spf13/viper"
)

type RouterDeps struct {
	Logger           *log.Logger
	Config           *viper.Viper
	JWT              *jwt.JWT
	UserHandler      *handler.UserHandler
	NodeHandler      *handler.NodeHandler
	MigrationHandler *handler.MigrationHandler
}
