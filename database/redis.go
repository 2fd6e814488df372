// file: database/redis.go
package database

import (
	"context"
	"time"

	"NovaCTF/config"

	"github.com/redis/go-redis/v9"
)

// ConnectRedis 建立 Redis 连接，仅用作排行榜/动态的读缓存。
// REDIS_ADDR 为空时返回 nil，各服务会自动退化为直查数据库
func ConnectRedis(cfg *config.Config) (*redis.Client, error) {
	if cfg.RedisAddr == "" {
		return nil, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       0,
		PoolSize: 100,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		return nil, err
	}

	return rdb, nil
}
