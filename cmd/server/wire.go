//go:build wireinject

package main

import (
	"github.com/google/wire"
	"repairshop.dev/photo-gateway/app/domain"
	"repairshop.dev/photo-gateway/app/infrastructure"
	"repairshop.dev/photo-gateway/app/interfaces/http"
	"repairshop.dev/photo-gateway/app/interfaces/http/routes"
)

func CreateApplication() (*Application, error) {
	wire.Build(
		infrastructure.InfrastructureProvider,
		domain.ServiceProvider,
		routes.RouteProvider,
		http.NewHttpServer,
		wire.Struct(new(Application), "*"),
	)
	return nil, nil
}
