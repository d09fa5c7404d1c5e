package database

import (
	"context"
	"fmt"

	"reelprofile/internal/core/follower"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// FollowerRepositoryDatabase پیاده‌سازی FollowerRepository برای دیتابیس.
// هر یال در دو جدول آینه‌ای نوشته می‌شود و عمدا تراکنش استفاده نمی‌شود؛
// هر دو نوشتن idempotent هستند و ناهماهنگی با نوشتن بعدی یا ReconcileMirrors رفع می‌شود.
type FollowerRepositoryDatabase struct {
	DB *gorm.DB
}

// NewFollowerRepositoryDatabase سازنده FollowerRepositoryDatabase
func NewFollowerRepositoryDatabase(db *gorm.DB) *FollowerRepositoryDatabase {
	return &FollowerRepositoryDatabase{DB: db}
}

func (repo *FollowerRepositoryDatabase) AddEdge(ctx context.Context, followerID, followeeID string) error {
	db := repo.DB.WithContext(ctx)

	// 1️⃣ ایندکس خروجی (مرجع)
	out := &follower.Following{FollowerID: followerID, FolloweeID: followeeID}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(out).Error; err != nil {
		return fmt.Errorf("db: add following: %w", err)
	}

	// 2️⃣ ایندکس ورودی
	in := &follower.Follower{FolloweeID: followeeID, FollowerID: followerID}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(in).Error; err != nil {
		return fmt.Errorf("db: add follower mirror: %w", err)
	}
	return nil
}

func (repo *FollowerRepositoryDatabase) RemoveEdge(ctx context.Context, followerID, followeeID string) error {
	db := repo.DB.WithContext(ctx)

	if err := db.Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Delete(&follower.Following{}).Error; err != nil {
		return fmt.Errorf("db: remove following: %w", err)
	}
	if err := db.Where("followee_id = ? AND follower_id = ?", followeeID, followerID).
		Delete(&follower.Follower{}).Error; err != nil {
		return fmt.Errorf("db: remove follower mirror: %w", err)
	}
	return nil
}

func (repo *FollowerRepositoryDatabase) CountFollowers(ctx context.Context, userID string) (int64, error) {
	var count int64
	if err := repo.DB.WithContext(ctx).Model(&follower.Follower{}).
		Where("followee_id = ?", userID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("db: count followers: %w", err)
	}
	return count, nil
}

func (repo *FollowerRepositoryDatabase) CountFollowing(ctx context.Context, userID string) (int64, error) {
	var count int64
	if err := repo.DB.WithContext(ctx).Model(&follower.Following{}).
		Where("follower_id = ?", userID).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("db: count following: %w", err)
	}
	return count, nil
}

func (repo *FollowerRepositoryDatabase) IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error) {
	var count int64
	if err := repo.DB.WithContext(ctx).Model(&follower.Following{}).
		Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
		Count(&count).Error; err != nil {
		return false, fmt.Errorf("db: is following: %w", err)
	}
	return count > 0, nil
}

// ReconcileMirrors ردیف‌های ورودی گم‌شده را اضافه و ردیف‌های ورودی یتیم را حذف می‌کند.
// حداکثر batchSize ردیف از هر نوع در هر فراخوانی اصلاح می‌شود.
func (repo *FollowerRepositoryDatabase) ReconcileMirrors(ctx context.Context, batchSize int) (int, error) {
	if batchSize <= 0 {
		batchSize = 100
	}
	db := repo.DB.WithContext(ctx)

	var missing []follower.Edge
	if err := db.Table("user_following AS o").
		Select("o.follower_id, o.followee_id").
		Joins("LEFT JOIN user_followers AS i ON i.followee_id = o.followee_id AND i.follower_id = o.follower_id").
		Where("i.follower_id IS NULL").
		Limit(batchSize).
		Scan(&missing).Error; err != nil {
		return 0, fmt.Errorf("db: scan missing mirrors: %w", err)
	}

	fixed := 0
	for _, e := range missing {
		in := &follower.Follower{FolloweeID: e.FolloweeID, FollowerID: e.FollowerID}
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(in).Error; err != nil {
			return fixed, fmt.Errorf("db: repair follower mirror: %w", err)
		}
		fixed++
	}

	var orphans []follower.Edge
	if err := db.Table("user_followers AS i").
		Select("i.follower_id, i.followee_id").
		Joins("LEFT JOIN user_following AS o ON o.follower_id = i.follower_id AND o.followee_id = i.followee_id").
		Where("o.follower_id IS NULL").
		Limit(batchSize).
		Scan(&orphans).Error; err != nil {
		return fixed, fmt.Errorf("db: scan orphan mirrors: %w", err)
	}

	for _, e := range orphans {
		if err := db.Where("followee_id = ? AND follower_id = ?", e.FolloweeID, e.FollowerID).
			Delete(&follower.Follower{}).Error; err != nil {
			return fixed, fmt.Errorf("db: delete orphan mirror: %w", err)
		}
		fixed++
	}

	return fixed, nil
}
