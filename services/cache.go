// file: services/cache.go
package services

import (
	"context"
	"log"

	"github.com/redis/go-redis/v9"
)

// 排行榜与动态使用短 TTL 读缓存 + 写后失效。计分路径本身绝不读缓存，
// 否则会破坏"每组合至多加分一次"的判定（见 scoring_service）
const (
	cacheKeyLeaderboard  = "scoreboard:overall"
	cacheKeyActivity     = "activity:feed"
	cacheKeySolverPrefix = "scoreboard:challenge:"
)

// InvalidateViewCaches 在任何影响榜单/动态的写入之后调用：
// 新的正确提交、新用户注册、管理员改动题目
func InvalidateViewCaches(ctx context.Context, rdb *redis.Client) {
	if rdb == nil {
		return
	}
	keys, err := rdb.Keys(ctx, "scoreboard:*").Result()
	if err == nil && len(keys) > 0 {
		if err := rdb.Del(ctx, keys...).Err(); err != nil {
			log.Printf("Failed to drop scoreboard cache keys: %v", err)
		}
	}
	if err := rdb.Del(ctx, cacheKeyActivity).Err(); err != nil {
		log.Printf("Failed to drop activity cache key: %v", err)
	}
}
