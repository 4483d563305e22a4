package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
	"repairshop.dev/photo-gateway/app/utils/logger"
	"repairshop.dev/photo-gateway/config/environment_variables"
)

const defaultRedisURL = "redis://localhost:6379"

// RedisCacheService keeps resolved photo URLs in Redis so replicas share them.
type RedisCacheService struct {
	client *redis.Client
	locker *redsync.Redsync
}

// redisOptions resolves CACHE_* with REDIS_* as the fallback spelling.
func redisOptions(env environment_variables.EnvironmentVariable) *redis.Options {
	redisURL := firstNonEmpty(env.CACHE_URL, env.REDIS_URL, defaultRedisURL)
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		logger.GetLogger().Errorf("failed to parse redis url: %v", err)
		opts = &redis.Options{Addr: "localhost:6379"}
	}

	if password := firstNonEmpty(env.CACHE_PASSWORD, env.REDIS_PASSWORD); password != "" {
		opts.Password = password
	}
	if rawDB := firstNonEmpty(env.CACHE_DB, env.REDIS_DB); rawDB != "" {
		if db, err := strconv.Atoi(rawDB); err == nil {
			opts.DB = db
		}
	}
	return opts
}

func NewRedisCacheService() CacheService {
	client := redis.NewClient(redisOptions(environment_variables.EnvironmentVariables))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logger.GetLogger().Errorf("failed to connect to redis: %v", err)
	} else {
		logger.GetLogger().Info("successfully connected to redis")
	}
	return NewRedisCacheServiceWithClient(client)
}

func NewRedisCacheServiceWithClient(client *redis.Client) *RedisCacheService {
	return &RedisCacheService{
		client: client,
		locker: redsync.New(goredis.NewPool(client)),
	}
}

func (r *RedisCacheService) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	jsonValue, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}
	return r.client.Set(ctx, key, jsonValue, expiration).Err()
}

func (r *RedisCacheService) Get(ctx context.Context, key string, dest any) error {
	val, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return fmt.Errorf("%w: %s", ErrKeyNotFound, key)
		}
		return fmt.Errorf("failed to get value: %w", err)
	}
	return json.Unmarshal(val, dest)
}

// Delete unlinks key; Redis reclaims the memory in the background.
func (r *RedisCacheService) Delete(ctx context.Context, key string) error {
	return r.client.Unlink(ctx, key).Err()
}

func (r *RedisCacheService) DeletePattern(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, next, err := r.client.Scan(ctx, cursor, pattern, 1000).Result()
		if err != nil {
			return fmt.Errorf("failed to scan keys: %w", err)
		}
		if len(keys) > 0 {
			pipe := r.client.Pipeline()
			for _, k := range keys {
				pipe.Unlink(ctx, k)
			}
			if _, err := pipe.Exec(ctx); err != nil {
				return fmt.Errorf("failed to unlink keys: %w", err)
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}

func (r *RedisCacheService) Close() error {
	return r.client.Close()
}

func (r *RedisCacheService) HealthCheck(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *RedisCacheService) NewMutex(name string, options ...redsync.Option) *redsync.Mutex {
	return r.locker.NewMutex(name, options...)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
