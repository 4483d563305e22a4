package environment_variables

import (
	"fmt"
	"os"
	"reflect"
	"strings"
)

type EnvironmentVariable struct {
	HTTP_PORT                  string
	LOG_LEVEL                  string
	BACKEND_BASE_URL           string
	BACKEND_API_TOKEN          string
	BACKEND_TIMEOUT            string
	JWT_SECRET                 string
	ALLOWED_CORS_HOSTS         []string
	CACHE_TYPE                 string
	CACHE_URL                  string
	CACHE_PASSWORD             string
	CACHE_DB                   string
	REDIS_URL                  string
	REDIS_PASSWORD             string
	REDIS_DB                   string
	PHOTO_TTL_PART             string
	PHOTO_TTL_REPAIR           string
	PHOTO_TTL_AFTER_REPAIR     string
	PHOTO_TTL_PROFILE          string
	PHOTO_TTL_WARRANTY         string
	PHOTO_ZERO_SENTINEL_KINDS  []string
	PHOTO_FETCH_TIMEOUT        string
	PHOTO_PREFETCH_CONCURRENCY string
}

// optional keys are not reported as missing
var optionalKeys = map[string]struct{}{
	"LOG_LEVEL":                  {},
	"BACKEND_TIMEOUT":            {},
	"ALLOWED_CORS_HOSTS":         {},
	"CACHE_URL":                  {},
	"CACHE_PASSWORD":             {},
	"CACHE_DB":                   {},
	"REDIS_URL":                  {},
	"REDIS_PASSWORD":             {},
	"REDIS_DB":                   {},
	"PHOTO_TTL_PART":             {},
	"PHOTO_TTL_REPAIR":           {},
	"PHOTO_TTL_AFTER_REPAIR":     {},
	"PHOTO_TTL_PROFILE":          {},
	"PHOTO_TTL_WARRANTY":         {},
	"PHOTO_ZERO_SENTINEL_KINDS":  {},
	"PHOTO_FETCH_TIMEOUT":        {},
	"PHOTO_PREFETCH_CONCURRENCY": {},
}

func (ev *EnvironmentVariable) LoadFromEnv() {
	v := reflect.ValueOf(ev).Elem()
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		field := t.Field(i)
		envKey := field.Name
		envValue, present := os.LookupEnv(envKey)
		if envValue == "" {
			if _, optional := optionalKeys[envKey]; !optional {
				fmt.Printf("Missing SYSENV: %s\n", envKey)
			}
		}
		if !present {
			continue
		}
		switch v.Field(i).Kind() {
		case reflect.String:
			v.Field(i).SetString(envValue)
		case reflect.Slice:
			if field.Type.Elem().Kind() == reflect.String {
				v.Field(i).Set(reflect.ValueOf(splitList(envValue)))
			}
		}
	}
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			result = append(result, part)
		}
	}
	return result
}

// Singleton
var EnvironmentVariables = EnvironmentVariable{}
