package database

import (
	"context"
	"fmt"

	"reelprofile/internal/core/profile"

	"gorm.io/gorm"
)

// ProfileRepositoryDatabase پیاده‌سازی ProfileRepository برای دیتابیس
type ProfileRepositoryDatabase struct {
	DB *gorm.DB
}

// NewProfileRepositoryDatabase سازنده ProfileRepositoryDatabase
func NewProfileRepositoryDatabase(db *gorm.DB) *ProfileRepositoryDatabase {
	return &ProfileRepositoryDatabase{DB: db}
}

// FindByHandle نبودن رکورد خطا نیست و slice خالی برمی‌گرداند
func (repo *ProfileRepositoryDatabase) FindByHandle(ctx context.Context, handle string, limit int) ([]*profile.Profile, error) {
	var profiles []*profile.Profile
	q := repo.DB.WithContext(ctx).Where("handle = ?", handle).Order("created_at ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&profiles).Error; err != nil {
		return nil, fmt.Errorf("db: find by handle: %w", err)
	}
	return profiles, nil
}
