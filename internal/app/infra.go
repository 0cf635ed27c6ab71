package app

import (
	"context"

	"chat-gateway/internal/config"
	"chat-gateway/internal/logger"
	"chat-gateway/internal/redis"
	"chat-gateway/internal/storage"
)

// Infra holds the optional backing services. A nil Redis disables rate
// limiting and a nil Store makes the storage-backed routes report a
// missing binding instead of failing at startup.
type Infra struct {
	Redis *redis.Client
	Store storage.ObjectStore
}

func setupInfra(ctx context.Context, cfg config.Config) (*Infra, error) {
	infra := &Infra{}

	if cfg.RedisAddr != "" {
		redisClient, err := redis.New(cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			return nil, err
		}
		infra.Redis = redisClient
		logger.Info("redis ready", map[string]any{"addr": cfg.RedisAddr})
	} else {
		logger.Warn("REDIS_ADDR not set, rate limiting disabled", nil)
	}

	if cfg.S3Bucket != "" {
		store, err := storage.NewS3Store(ctx, storage.S3Config{
			Endpoint:        cfg.S3Endpoint,
			Region:          cfg.S3Region,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			Bucket:          cfg.S3Bucket,
		})
		if err != nil {
			return nil, err
		}
		infra.Store = store
		logger.Info("object storage ready", map[string]any{"bucket": cfg.S3Bucket})
	} else {
		logger.Warn("S3_BUCKET not set, storage routes will report a missing binding", nil)
	}

	return infra, nil
}
