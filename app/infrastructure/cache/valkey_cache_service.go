package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/valkey-io/valkey-go"
	"repairshop.dev/photo-gateway/app/utils/logger"
	"repairshop.dev/photo-gateway/config/environment_variables"
)

type ValkeyCacheService struct {
	client valkey.Client
}

// parseValkeyURL accepts valkey://[:password@]host:port[/db] or a bare host:port.
// A database of -1 means none was given.
func parseValkeyURL(valkeyURL string) (address, password string, database int, err error) {
	database = -1
	if !strings.Contains(valkeyURL, "://") {
		return valkeyURL, "", -1, nil
	}

	u, err := url.Parse(valkeyURL)
	if err != nil {
		return "", "", -1, fmt.Errorf("invalid URL format: %w", err)
	}
	address = u.Host
	if address == "" {
		return "", "", -1, fmt.Errorf("no host specified in URL")
	}
	if u.User != nil {
		password, _ = u.User.Password()
	}
	if dbStr := strings.TrimPrefix(u.Path, "/"); dbStr != "" {
		if db, parseErr := strconv.Atoi(dbStr); parseErr == nil {
			database = db
		}
	}
	return address, password, database, nil
}

func valkeyOptions(env environment_variables.EnvironmentVariable) (valkey.ClientOption, error) {
	address, password, db, err := parseValkeyURL(firstNonEmpty(env.CACHE_URL, "valkey://localhost:6379"))
	if err != nil {
		return valkey.ClientOption{}, err
	}
	opts := valkey.ClientOption{InitAddress: []string{address}, Password: password}
	if db != -1 {
		opts.SelectDB = db
	}
	if env.CACHE_PASSWORD != "" {
		opts.Password = env.CACHE_PASSWORD
	}
	if env.CACHE_DB != "" {
		if db, err := strconv.Atoi(env.CACHE_DB); err == nil {
			opts.SelectDB = db
		}
	}
	return opts, nil
}

// NewValkeyCacheService degrades to NoOpCacheService when valkey is unreachable.
func NewValkeyCacheService() CacheService {
	opts, err := valkeyOptions(environment_variables.EnvironmentVariables)
	if err != nil {
		logger.GetLogger().Errorf("failed to parse valkey url: %v", err)
		return &NoOpCacheService{}
	}
	client, err := valkey.NewClient(opts)
	if err != nil {
		logger.GetLogger().Errorf("failed to connect to valkey: %v", err)
		return &NoOpCacheService{}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Do(ctx, client.B().Ping().Build()).Error(); err != nil {
		logger.GetLogger().Errorf("failed to ping valkey: %v", err)
		client.Close()
		return &NoOpCacheService{}
	}
	return &ValkeyCacheService{client: client}
}

func (v *ValkeyCacheService) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	jsonValue, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}
	seconds := int64(expiration.Seconds())
	if seconds < 1 {
		seconds = 1
	}
	return v.client.Do(ctx, v.client.B().Set().Key(key).Value(string(jsonValue)).ExSeconds(seconds).Build()).Error()
}

func (v *ValkeyCacheService) Get(ctx context.Context, key string, dest any) error {
	val, err := v.client.Do(ctx, v.client.B().Get().Key(key).Build()).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return fmt.Errorf("%w: %s", ErrKeyNotFound, key)
		}
		return fmt.Errorf("failed to get value: %w", err)
	}
	return json.Unmarshal([]byte(val), dest)
}

func (v *ValkeyCacheService) Delete(ctx context.Context, key string) error {
	return v.client.Do(ctx, v.client.B().Unlink().Key(key).Build()).Error()
}

func (v *ValkeyCacheService) DeletePattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		entry, err := v.client.Do(ctx, v.client.B().Scan().Cursor(cursor).Match(pattern).Count(1000).Build()).AsScanEntry()
		if err != nil {
			return fmt.Errorf("failed to scan keys: %w", err)
		}
		if len(entry.Elements) > 0 {
			if err := v.client.Do(ctx, v.client.B().Unlink().Key(entry.Elements...).Build()).Error(); err != nil {
				return fmt.Errorf("failed to unlink keys: %w", err)
			}
		}
		if entry.Cursor == 0 {
			return nil
		}
		cursor = entry.Cursor
	}
}

func (v *ValkeyCacheService) Close() error {
	v.client.Close()
	return nil
}

func (v *ValkeyCacheService) HealthCheck(ctx context.Context) error {
	return v.client.Do(ctx, v.client.B().Ping().Build()).Error()
}

// NewMutex returns nil: redsync has no valkey pool, so fetches across replicas are not serialized.
func (v *ValkeyCacheService) NewMutex(name string, options ...redsync.Option) *redsync.Mutex {
	return nil
}
