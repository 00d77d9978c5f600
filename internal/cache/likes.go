package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// likeCountTTL bounds staleness of cached "liked you" counters; the DB is
// the fallback on every miss.
const likeCountTTL = time.Hour

// KeyForLikeCount returns the counter key for users who liked userID.
func KeyForLikeCount(userID uint) string {
	return fmt.Sprintf("likes:count:%d", userID)
}

// GetLikeCount reads the cached liked-you counter. ok is false on miss,
// parse failure, or when no Redis client is configured.
func GetLikeCount(ctx context.Context, rdb *redis.Client, userID uint) (int64, bool) {
	if rdb == nil {
		return 0, false
	}
	val, err := rdb.Get(ctx, KeyForLikeCount(userID)).Result()
	if err != nil {
		return 0, false
	}
	n, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false
	}
	// refresh TTL since this user is active
	_ = rdb.Expire(ctx, KeyForLikeCount(userID), likeCountTTL).Err()
	return n, true
}

// SetLikeCount stores the liked-you counter with the standard TTL.
func SetLikeCount(ctx context.Context, rdb *redis.Client, userID uint, count int64) {
	if rdb == nil {
		return
	}
	_ = rdb.Set(ctx, KeyForLikeCount(userID), strconv.FormatInt(count, 10), likeCountTTL).Err()
}

// IncrLikeCount bumps the liked-you counter for userID after a new like.
// Best effort; a failed increment just means a cache refresh later.
func IncrLikeCount(ctx context.Context, rdb *redis.Client, userID uint) {
	if rdb == nil {
		return
	}
	key := KeyForLikeCount(userID)
	if err := rdb.Incr(ctx, key).Err(); err != nil {
		return
	}
	_ = rdb.Expire(ctx, key, likeCountTTL).Err()
}
