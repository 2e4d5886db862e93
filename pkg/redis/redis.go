package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/summitretail/preseason-backend/config"
	"github.com/summitretail/preseason-backend/pkg/logger"
)

var client *redis.Client

// Init initializes Redis connection
func Init(cfg *config.RedisConfig) error {
	logger.Info("Initializing Redis connection", map[string]interface{}{
		"host": cfg.Host,
		"port": cfg.Port,
		"db":   cfg.DB,
	})

	client = redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Test connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		logger.Error("Failed to connect to Redis", err, map[string]interface{}{
			"host": cfg.Host,
			"port": cfg.Port,
		})
		return fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis connection established successfully", nil)
	return nil
}

// GetClient returns the Redis client instance
func GetClient() *redis.Client {
	return client
}

// Close closes the Redis connection
func Close() error {
	if client != nil {
		logger.Info("Closing Redis connection", nil)
		return client.Close()
	}
	return nil
}

func runLockKey(brandID uint) string {
	return fmt.Sprintf("catalog:import:lock:%d", brandID)
}

// AcquireRunLock takes the per-brand import lock. Returns false when another
// import for the same brand is already running. The lock expires on its own so
// a crashed importer cannot wedge the brand forever.
func AcquireRunLock(ctx context.Context, brandID uint, ttl time.Duration) (bool, error) {
	ok, err := client.SetNX(ctx, runLockKey(brandID), "running", ttl).Result()
	if err != nil {
		logger.Error("Failed to acquire import lock", err, map[string]interface{}{
			"brand_id": brandID,
		})
		return false, err
	}

	logger.Debug("Import lock attempt", map[string]interface{}{
		"brand_id": brandID,
		"acquired": ok,
	})
	return ok, nil
}

// ReleaseRunLock releases the per-brand import lock
func ReleaseRunLock(ctx context.Context, brandID uint) error {
	err := client.Del(ctx, runLockKey(brandID)).Err()
	if err != nil {
		logger.Error("Failed to release import lock", err, map[string]interface{}{
			"brand_id": brandID,
		})
		return err
	}
	return nil
}
