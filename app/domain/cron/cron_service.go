package cron

import (
	"context"

	"github.com/mileusna/crontab"
	"repairshop.dev/photo-gateway/app/domain/healthcheck"
	"repairshop.dev/photo-gateway/app/domain/photo"
	"repairshop.dev/photo-gateway/app/utils/logger"
)

// Sweeper drops settled cache entries past their eviction deadline.
type Sweeper interface {
	Sweep() int
}

type CronService struct {
	Sweeper     Sweeper
	Healthcheck *healthcheck.HealthcheckService
}

func NewService(photoCache *photo.Cache, healthcheckService *healthcheck.HealthcheckService) *CronService {
	return &CronService{
		Sweeper:     photoCache,
		Healthcheck: healthcheckService,
	}
}

func (cs *CronService) Start(ctx context.Context, ctab *crontab.Crontab) error {
	if err := ctab.AddJob("* * * * *", cs.everyMinute); err != nil {
		return err
	}
	return ctab.AddJob("*/2 * * * *", func() {
		cs.checkDependencies(ctx)
	})
}

// everyMinute sweeps the cache and picks up LOG_LEVEL. The rest of the
// configuration is loaded once at startup and read by handlers without locking.
func (cs *CronService) everyMinute() {
	cs.sweep()
	logger.ReloadLevel()
}

func (cs *CronService) sweep() int {
	if cs == nil || cs.Sweeper == nil {
		return 0
	}
	removed := cs.Sweeper.Sweep()
	if removed > 0 {
		logger.GetLogger().Debugf("cron service: swept %d photo cache entries", removed)
	}
	return removed
}

func (cs *CronService) checkDependencies(ctx context.Context) {
	if cs == nil || cs.Healthcheck == nil {
		return
	}
	report := cs.Healthcheck.Check(ctx)
	if !report.Healthy() {
		logger.GetLogger().Warnf("cron service: dependency check failed: %v", report.Failures())
	}
}
