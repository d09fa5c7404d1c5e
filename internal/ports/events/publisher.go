package events

import (
	"context"
	"time"
)

type FollowAction string

const (
	ActionFollowed   FollowAction = "followed"
	ActionUnfollowed FollowAction = "unfollowed"
)

// FollowChanged رویدادی که بعد از هر toggle موفق منتشر می‌شود
type FollowChanged struct {
	Action     FollowAction `json:"action"`
	FollowerID string       `json:"follower_id"`
	FolloweeID string       `json:"followee_id"`
	Mutual     bool         `json:"mutual"`
	OccurredAt time.Time    `json:"occurred_at"`
}

// RelationshipPublisher انتشار رویدادهای رابطه (best effort)
type RelationshipPublisher interface {
	PublishFollowChanged(ctx context.Context, event FollowChanged) error
}
