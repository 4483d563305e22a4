package cache

import (
	"strings"

	"repairshop.dev/photo-gateway/app/utils/logger"
	"repairshop.dev/photo-gateway/config/environment_variables"
)

// NewCacheService creates a cache service based on CACHE_TYPE. Without a
// shared tier every replica keeps only its in-process photo cache.
func NewCacheService() CacheService {
	cacheType := strings.ToLower(strings.TrimSpace(environment_variables.EnvironmentVariables.CACHE_TYPE))

	switch cacheType {
	case "redis":
		return NewRedisCacheService()
	case "valkey":
		return NewValkeyCacheService()
	case "", "memory", "none":
		return &NoOpCacheService{}
	default:
		logger.GetLogger().Warnf("unknown CACHE_TYPE %q, running without a shared cache", cacheType)
		return &NoOpCacheService{}
	}
}
