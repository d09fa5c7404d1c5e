package contentapp

import (
	"context"
	"sort"
	"time"

	contentEntity "reelprofile/internal/core/content"
	"reelprofile/internal/core/errs"
	contentPort "reelprofile/internal/ports/content"

	"go.uber.org/zap"
)

// DefaultPostsLimit تعداد پیش‌فرض پست‌ها در تب posts
const DefaultPostsLimit = 20

type ContentService struct {
	ContentRepository contentPort.ContentRepository
	Logger            *zap.Logger
	Now               func() time.Time
}

func NewContentService(repo contentPort.ContentRepository, logger *zap.Logger) *ContentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContentService{
		ContentRepository: repo,
		Logger:            logger,
		Now:               time.Now,
	}
}

// ListPosts پست‌های subjectID، جدیدترین اول، حداکثر limit عدد.
// آیتم بدون زمان ساخت حذف نمی‌شود و "اکنون" کلید مرتب‌سازی آن است.
func (s *ContentService) ListPosts(ctx context.Context, subjectID string, limit int) ([]*contentEntity.Item, error) {
	if limit <= 0 {
		limit = DefaultPostsLimit
	}
	items, err := s.ContentRepository.ListByOwner(ctx, subjectID, limit)
	if err != nil {
		s.Logger.Error("❌ Error listing posts", zap.String("subjectID", subjectID), zap.Error(err))
		return nil, errs.Unavailable("list posts", err)
	}

	now := s.Now()
	posts := make([]*contentEntity.Item, 0, len(items))
	for _, it := range items {
		if it == nil || it.OwnerID != subjectID {
			continue
		}
		c := it.Clone()
		c.SortKey = now
		if c.CreatedAt != nil {
			c.SortKey = *c.CreatedAt
		}
		posts = append(posts, c)
	}

	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].SortKey.After(posts[j].SortKey)
	})
	if len(posts) > limit {
		posts = posts[:limit]
	}
	return posts, nil
}

// ListFavorites آیتم‌هایی که viewerID پسندیده است. پرهزینه‌ترین خواندن؛
// فقط برای پروفایل خود کاربر صدا زده می‌شود.
func (s *ContentService) ListFavorites(ctx context.Context, viewerID string) ([]*contentEntity.Item, error) {
	if viewerID == "" {
		return nil, errs.ErrUnauthorized
	}
	items, err := s.ContentRepository.ListFavoritedBy(ctx, viewerID)
	if err != nil {
		s.Logger.Error("❌ Error listing favorites", zap.String("viewerID", viewerID), zap.Error(err))
		return nil, errs.Unavailable("list favorites", err)
	}

	now := s.Now()
	favs := make([]*contentEntity.Item, 0, len(items))
	for _, it := range items {
		if it == nil {
			continue
		}
		c := it.Clone()
		c.SortKey = now
		if c.CreatedAt != nil {
			c.SortKey = *c.CreatedAt
		}
		favs = append(favs, c)
	}
	return favs, nil
}
