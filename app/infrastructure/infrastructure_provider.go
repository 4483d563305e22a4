package infrastructure

import (
	"github.com/google/wire"
	"repairshop.dev/photo-gateway/app/domain/photo"
	"repairshop.dev/photo-gateway/app/infrastructure/backend"
	"repairshop.dev/photo-gateway/app/infrastructure/cache"
	"repairshop.dev/photo-gateway/app/infrastructure/metrics"
	"repairshop.dev/photo-gateway/app/infrastructure/photostore"
)

// ProvideSharedFetcher puts the shared cache tier in front of the backend client.
func ProvideSharedFetcher(store cache.CacheService, client *backend.PhotoClient) *photostore.SharedFetcher {
	return photostore.NewSharedFetcher(store, client)
}

var InfrastructureProvider = wire.NewSet(
	cache.NewCacheService,
	backend.NewPhotoClientFromEnv,
	ProvideSharedFetcher,
	wire.Bind(new(photo.Fetcher), new(*photostore.SharedFetcher)),
	wire.Bind(new(photo.SharedInvalidator), new(*photostore.SharedFetcher)),
	metrics.NewPhotoCacheMetrics,
	wire.Bind(new(photo.CacheObserver), new(*metrics.PhotoCacheMetrics)),
)
