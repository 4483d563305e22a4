package domain

import (
	"github.com/google/wire"
	"repairshop.dev/photo-gateway/app/domain/auth"
	"repairshop.dev/photo-gateway/app/domain/cron"
	"repairshop.dev/photo-gateway/app/domain/healthcheck"
	"repairshop.dev/photo-gateway/app/domain/photo"
)

var ServiceProvider = wire.NewSet(
	auth.NewTokenSource,
	photo.NewRegistryFromEnv,
	photo.ProvideCache,
	photo.ProvidePrefetcher,
	photo.NewService,
	healthcheck.NewService,
	cron.NewService,
)
