package redis

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// FollowerRepositoryRedis یال‌ها را در دو set آینه‌ای نگه می‌دارد:
// following:{id} (خروجی) و followers:{id} (ورودی)
type FollowerRepositoryRedis struct {
	Client *redis.Client
	Logger *zap.Logger
}

func NewFollowerRepositoryRedis(client *redis.Client, logger *zap.Logger) *FollowerRepositoryRedis {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FollowerRepositoryRedis{
		Client: client,
		Logger: logger,
	}
}

func followingKey(userID string) string { return "following:" + userID }
func followersKey(userID string) string { return "followers:" + userID }

// AddEdge: SADD روی هر دو set داخل MULTI/EXEC؛ SADD ذاتا idempotent است
func (r *FollowerRepositoryRedis) AddEdge(ctx context.Context, followerID, followeeID string) error {
	_, err := r.Client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SAdd(ctx, followingKey(followerID), followeeID)
		pipe.SAdd(ctx, followersKey(followeeID), followerID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis: add edge: %w", err)
	}
	r.Logger.Debug("Added edge", zap.String("followerID", followerID), zap.String("followeeID", followeeID))
	return nil
}

// RemoveEdge: SREM روی هر دو set؛ حذف عضو ناموجود خطا نیست
func (r *FollowerRepositoryRedis) RemoveEdge(ctx context.Context, followerID, followeeID string) error {
	_, err := r.Client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.SRem(ctx, followingKey(followerID), followeeID)
		pipe.SRem(ctx, followersKey(followeeID), followerID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis: remove edge: %w", err)
	}
	r.Logger.Debug("Removed edge", zap.String("followerID", followerID), zap.String("followeeID", followeeID))
	return nil
}

func (r *FollowerRepositoryRedis) CountFollowers(ctx context.Context, userID string) (int64, error) {
	n, err := r.Client.SCard(ctx, followersKey(userID)).Result()
	if err != nil {
		return 0, fmt.Errorf("redis: count followers: %w", err)
	}
	return n, nil
}

func (r *FollowerRepositoryRedis) CountFollowing(ctx context.Context, userID string) (int64, error) {
	n, err := r.Client.SCard(ctx, followingKey(userID)).Result()
	if err != nil {
		return 0, fmt.Errorf("redis: count following: %w", err)
	}
	return n, nil
}

func (r *FollowerRepositoryRedis) IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error) {
	ok, err := r.Client.SIsMember(ctx, followingKey(followerID), followeeID).Result()
	if err != nil {
		return false, fmt.Errorf("redis: is following: %w", err)
	}
	return ok, nil
}
