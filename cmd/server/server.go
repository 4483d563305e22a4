package main

import (
	"context"

	"github.com/mileusna/crontab"
	"repairshop.dev/photo-gateway/app/domain/cron"
	"repairshop.dev/photo-gateway/app/infrastructure/cache"
	"repairshop.dev/photo-gateway/app/interfaces/http"
	"repairshop.dev/photo-gateway/app/utils/logger"
	"repairshop.dev/photo-gateway/config"
	"repairshop.dev/photo-gateway/config/environment_variables"
)

type Application struct {
	HttpServer   *http.HttpServer
	CronService  *cron.CronService
	CacheService cache.CacheService
}

func (application *Application) Start() {
	ctab := crontab.New()
	defer ctab.Shutdown()
	defer application.CacheService.Close()

	if err := application.CronService.Start(context.Background(), ctab); err != nil {
		panic(err)
	}
	if err := application.HttpServer.Run(); err != nil {
		panic(err)
	}
}

func init() {
	environment_variables.EnvironmentVariables.LoadFromEnv()
}

// @title                      Photo Gateway API
// @version                    1.0
// @description                Resolves stored repair-shop photo references into short-lived presigned URLs.
// @BasePath                   /
// @securityDefinitions.apikey BearerAuth
// @in                         header
// @name                       Authorization
func main() {
	logger.GetLogger().Infof("photo gateway %s starting", config.Version)
	application, err := CreateApplication()
	if err != nil {
		panic(err)
	}
	application.Start()
}
