package followerapp

import (
	"context"

	"reelprofile/internal/core/errs"
	followerPort "reelprofile/internal/ports/follower"

	"go.uber.org/zap"
)

type FollowerService struct {
	FollowerRepository followerPort.FollowerRepository
	Logger             *zap.Logger
}

func NewFollowerService(repo followerPort.FollowerRepository, logger *zap.Logger) *FollowerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FollowerService{
		FollowerRepository: repo,
		Logger:             logger,
	}
}

func validateEdge(followerID, followeeID string) error {
	if followerID == "" || followeeID == "" {
		return errs.ErrInvalidEdge
	}
	if followerID == followeeID {
		return errs.ErrInvalidEdge
	}
	return nil
}

// AddEdge ایجاد یال follower -> followee؛ اگر وجود داشته باشد کاری انجام نمی‌شود
func (s *FollowerService) AddEdge(ctx context.Context, followerID, followeeID string) error {
	if err := validateEdge(followerID, followeeID); err != nil {
		s.Logger.Warn("⚠️ Rejected edge", zap.String("followerID", followerID), zap.String("followeeID", followeeID))
		return err
	}
	if err := s.FollowerRepository.AddEdge(ctx, followerID, followeeID); err != nil {
		s.Logger.Error("❌ Error adding edge", zap.String("followerID", followerID), zap.String("followeeID", followeeID), zap.Error(err))
		return errs.Unavailable("add edge", err)
	}
	return nil
}

// RemoveEdge حذف یال؛ حذف یال ناموجود خطا نیست
func (s *FollowerService) RemoveEdge(ctx context.Context, followerID, followeeID string) error {
	if err := validateEdge(followerID, followeeID); err != nil {
		return err
	}
	if err := s.FollowerRepository.RemoveEdge(ctx, followerID, followeeID); err != nil {
		s.Logger.Error("❌ Error removing edge", zap.String("followerID", followerID), zap.String("followeeID", followeeID), zap.Error(err))
		return errs.Unavailable("remove edge", err)
	}
	return nil
}

func (s *FollowerService) CountFollowers(ctx context.Context, userID string) (int64, error) {
	n, err := s.FollowerRepository.CountFollowers(ctx, userID)
	if err != nil {
		return 0, errs.Unavailable("count followers", err)
	}
	return clamp(n), nil
}

func (s *FollowerService) CountFollowing(ctx context.Context, userID string) (int64, error) {
	n, err := s.FollowerRepository.CountFollowing(ctx, userID)
	if err != nil {
		return 0, errs.Unavailable("count following", err)
	}
	return clamp(n), nil
}

// Follows آیا a کاربر b را دنبال می‌کند
func (s *FollowerService) Follows(ctx context.Context, a, b string) (bool, error) {
	if a == "" || b == "" {
		return false, nil
	}
	ok, err := s.FollowerRepository.IsFollowing(ctx, a, b)
	if err != nil {
		return false, errs.Unavailable("check follow", err)
	}
	return ok, nil
}

func clamp(n int64) int64 {
	if n < 0 {
		return 0
	}
	return n
}
