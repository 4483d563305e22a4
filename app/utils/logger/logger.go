package logger

import (
	"os"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"repairshop.dev/photo-gateway/config/environment_variables"
)

var (
	instance *logrus.Logger
	once     sync.Once
)

// GetLogger returns the process-wide logger.
func GetLogger() *logrus.Logger {
	once.Do(func() {
		instance = logrus.New()
		instance.SetOutput(os.Stdout)
		instance.SetFormatter(&logrus.JSONFormatter{})
		instance.SetLevel(parseLevel(environment_variables.EnvironmentVariables.LOG_LEVEL))
	})
	return instance
}

// ReloadLevel applies LOG_LEVEL from the process environment. It is the only
// setting changed at runtime; everything else is read once at startup.
func ReloadLevel() logrus.Level {
	level := parseLevel(os.Getenv("LOG_LEVEL"))
	GetLogger().SetLevel(level)
	return level
}

func parseLevel(value string) logrus.Level {
	value = strings.TrimSpace(value)
	if value == "" {
		return logrus.InfoLevel
	}
	level, err := logrus.ParseLevel(value)
	if err != nil {
		return logrus.InfoLevel
	}
	return level
}
