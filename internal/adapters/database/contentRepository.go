package database

import (
	"context"
	"fmt"

	"reelprofile/internal/core/content"

	"gorm.io/gorm"
)

// ContentRepositoryDatabase پیاده‌سازی ContentRepository برای دیتابیس
type ContentRepositoryDatabase struct {
	DB *gorm.DB
}

// NewContentRepositoryDatabase سازنده ContentRepositoryDatabase
func NewContentRepositoryDatabase(db *gorm.DB) *ContentRepositoryDatabase {
	return &ContentRepositoryDatabase{DB: db}
}

// ListByOwner آیتم‌های بدون created_at اول می‌آیند (کلید مرتب‌سازی آن‌ها "اکنون" است)
func (repo *ContentRepositoryDatabase) ListByOwner(ctx context.Context, ownerID string, limit int) ([]*content.Item, error) {
	var items []*content.Item
	q := repo.DB.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("CASE WHEN created_at IS NULL THEN 0 ELSE 1 END").
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&items).Error; err != nil {
		return nil, fmt.Errorf("db: list by owner: %w", err)
	}
	return items, nil
}

// ListFavoritedBy همه آیتم‌هایی که viewerID پسندیده است
func (repo *ContentRepositoryDatabase) ListFavoritedBy(ctx context.Context, viewerID string) ([]*content.Item, error) {
	var items []*content.Item
	if err := repo.DB.WithContext(ctx).
		Joins("JOIN content_favorites ON content_favorites.item_id = content_items.id").
		Where("content_favorites.viewer_id = ?", viewerID).
		Order("content_favorites.created_at DESC").
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("db: list favorites: %w", err)
	}
	for _, it := range items {
		it.FavoritedBy = []string{viewerID}
	}
	return items, nil
}
