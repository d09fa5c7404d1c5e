package profileapp

import (
	"context"

	"reelprofile/internal/core/errs"
	profileEntity "reelprofile/internal/core/profile"
	profilePort "reelprofile/internal/ports/profile"

	"go.uber.org/zap"
)

// تعداد رکوردی که از استور خواسته می‌شود؛ دو رکورد کافی است تا تکراری بودن handle تشخیص داده شود
const lookupLimit = 2

// ProfileService سرویس خواندن هویت کاربر با handle
type ProfileService struct {
	ProfileRepository profilePort.ProfileRepository
	Logger            *zap.Logger
}

func NewProfileService(repo profilePort.ProfileRepository, logger *zap.Logger) *ProfileService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfileService{
		ProfileRepository: repo,
		Logger:            logger,
	}
}

// ResolveByHandle پیدا کردن پروفایل با handle (حساس به حروف بزرگ و کوچک).
// نبودن رکورد ErrNotFound و خطای استور ErrStoreUnavailable برمی‌گرداند.
func (s *ProfileService) ResolveByHandle(ctx context.Context, handle string) (*profileEntity.Profile, error) {
	if handle == "" {
		return nil, errs.ErrNotFound
	}

	candidates, err := s.ProfileRepository.FindByHandle(ctx, handle, lookupLimit)
	if err != nil {
		s.Logger.Error("❌ Error resolving handle", zap.String("handle", handle), zap.Error(err))
		return nil, errs.Unavailable("resolve handle", err)
	}

	// collation دیتابیس ممکن است case-insensitive باشد؛ تطابق دقیق اینجا چک می‌شود
	var matches []*profileEntity.Profile
	for _, p := range candidates {
		if p != nil && p.Handle == handle {
			matches = append(matches, p)
		}
	}

	if len(matches) == 0 {
		return nil, errs.ErrNotFound
	}
	if len(matches) > 1 {
		s.Logger.Warn("⚠️ Duplicate handle in identity store, using first match",
			zap.String("handle", handle), zap.String("profileID", matches[0].ID))
	}

	return matches[0].Clone(), nil
}
