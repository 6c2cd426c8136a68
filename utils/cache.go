package utils

import (
	"context"
	"log"
	"time"

	"tapstead/config"

	"github.com/go-redis/redis/v8"
)

// MatchCacheClient caches match sessions between search and confirm.
var MatchCacheClient *redis.Client

// InitCache initializes the Redis client used for match-session caching.
func InitCache() {
	MatchCacheClient = redis.NewClient(&redis.Options{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisCacheDB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if _, err := MatchCacheClient.Ping(ctx).Result(); err != nil {
		log.Fatalf("Failed to connect to Redis (Cache): %v", err)
	}
}

// GetMatchCacheClient returns the match-session cache client.
func GetMatchCacheClient() *redis.Client {
	if MatchCacheClient == nil {
		InitCache()
	}
	return MatchCacheClient
}
