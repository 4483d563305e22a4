package healthcheck

import (
	"context"
	"sort"
	"time"

	"repairshop.dev/photo-gateway/app/infrastructure/cache"
)

const checkTimeout = 3 * time.Second

type Report map[string]string

func (r Report) Healthy() bool {
	return len(r.Failures()) == 0
}

// Failures lists the failing dependency names in sorted order.
func (r Report) Failures() []string {
	var failed []string
	for name, status := range r {
		if status != "ok" {
			failed = append(failed, name)
		}
	}
	sort.Strings(failed)
	return failed
}

// HealthcheckService probes the dependencies a replica needs to serve photos.
type HealthcheckService struct {
	CacheService cache.CacheService
}

func NewService(cacheService cache.CacheService) *HealthcheckService {
	return &HealthcheckService{CacheService: cacheService}
}

func (hs *HealthcheckService) Check(ctx context.Context) Report {
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	report := Report{}
	if hs.CacheService != nil {
		report["shared_cache"] = status(hs.CacheService.HealthCheck(ctx))
	}
	return report
}

func status(err error) string {
	if err != nil {
		return err.Error()
	}
	return "ok"
}
