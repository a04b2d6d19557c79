package driverstore

import (
	"context"
	"fmt"

	"github.com/biraj16/TPBK-V8/internal/models"
	"github.com/biraj16/TPBK-V8/internal/storage"
	"github.com/biraj16/TPBK-V8/pkg/logger"
)

const (
	// redisDriverKeyPrefix is the prefix for driver list keys in Redis
	redisDriverKeyPrefix = "drivers:"
)

// RedisStore is a Redis-backed Store. Lists are stored as JSON arrays under
// drivers:{list} keys with no TTL, so configuration survives restarts and is
// shared across engine replicas. Missing keys fall back to the built-in
// defaults.
type RedisStore struct {
	redis    storage.RedisClient
	defaults models.DriverConfig
}

// NewRedisStore creates a Redis-backed driver store
func NewRedisStore(redis storage.RedisClient) (*RedisStore, error) {
	if redis == nil {
		return nil, fmt.Errorf("redis client cannot be nil")
	}
	return &RedisStore{
		redis:    redis,
		defaults: models.DefaultDriverConfig(),
	}, nil
}

// GetList returns one named list from Redis, falling back to the defaults
// when the key is absent
func (s *RedisStore) GetList(ctx context.Context, list string) ([]models.Driver, error) {
	if !models.IsDriverList(list) {
		return nil, fmt.Errorf("%w: %s", models.ErrInvalidDriverList, list)
	}

	var drivers []models.Driver
	if err := s.redis.GetJSON(ctx, redisDriverKeyPrefix+list, &drivers); err != nil {
		return nil, fmt.Errorf("failed to read driver list %s: %w", list, err)
	}
	if drivers == nil {
		return copyDrivers(s.defaults[list]), nil
	}
	return drivers, nil
}

// PutList replaces one named list in Redis
func (s *RedisStore) PutList(ctx context.Context, list string, drivers []models.Driver) error {
	if !models.IsDriverList(list) {
		return fmt.Errorf("%w: %s", models.ErrInvalidDriverList, list)
	}
	for i := range drivers {
		if err := drivers[i].Validate(); err != nil {
			return fmt.Errorf("invalid driver at index %d: %w", i, err)
		}
	}

	if err := s.redis.Set(ctx, redisDriverKeyPrefix+list, drivers, 0); err != nil {
		return fmt.Errorf("failed to write driver list %s: %w", list, err)
	}

	logger.Info("Updated driver list",
		logger.String("list", list),
		logger.Int("drivers", len(drivers)),
	)
	return nil
}

// GetConfig returns all six lists
func (s *RedisStore) GetConfig(ctx context.Context) (models.DriverConfig, error) {
	cfg := make(models.DriverConfig, len(models.DriverListNames))
	for _, list := range models.DriverListNames {
		drivers, err := s.GetList(ctx, list)
		if err != nil {
			return nil, err
		}
		cfg[list] = drivers
	}
	return cfg, nil
}
