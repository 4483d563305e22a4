package httpclients

import (
	"time"

	"repairshop.dev/photo-gateway/app/utils/logger"
	"repairshop.dev/photo-gateway/config"
	"resty.dev/v3"
)

const DefaultTimeout = 10 * time.Second

// NewClient returns a resty client that logs through the process logger.
func NewClient(name string) *resty.Client {
	return resty.New().
		SetLogger(logger.GetLogger().WithField("client", name)).
		SetTimeout(DefaultTimeout).
		SetHeader("User-Agent", "photo-gateway/"+config.Version).
		SetHeader("Accept", "application/json, text/plain")
}

// ParseTimeout reads a duration setting, falling back to DefaultTimeout.
func ParseTimeout(raw string) time.Duration {
	if raw == "" {
		return DefaultTimeout
	}
	timeout, err := time.ParseDuration(raw)
	if err != nil || timeout <= 0 {
		logger.GetLogger().Warnf("httpclients: invalid timeout %q, using %s", raw, DefaultTimeout)
		return DefaultTimeout
	}
	return timeout
}
