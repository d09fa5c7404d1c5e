package config

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// RedisClient متغیر برای دسترسی به Redis
var RedisClient *redis.Client

// InitRedis اتصال به Redis را راه‌اندازی می‌کند
func InitRedis(s Settings) {
	RedisClient = redis.NewClient(&redis.Options{
		Addr:     s.RedisAddr,
		Password: s.RedisPassword,
		DB:       s.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// بررسی اتصال به Redis
	pong, err := RedisClient.Ping(ctx).Result()
	if err != nil {
		Logger.Fatal("Error connecting to Redis", zap.Error(err))
	}
	Logger.Info("✅ Connected to Redis", zap.String("ping", pong), zap.String("addr", s.RedisAddr))
}
