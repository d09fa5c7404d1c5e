package follower

import "context"

// FollowerRepository پورت ذخیره‌سازی یال‌های دنبال کردن (دو ایندکس آینه‌ای)
type FollowerRepository interface {
	// AddEdge و RemoveEdge باید idempotent باشند
	AddEdge(ctx context.Context, followerID, followeeID string) error
	RemoveEdge(ctx context.Context, followerID, followeeID string) error
	CountFollowers(ctx context.Context, userID string) (int64, error)
	CountFollowing(ctx context.Context, userID string) (int64, error)
	IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error)
}

// MirrorReconciler برای استورهایی که دو ایندکس را غیر اتمیک می‌نویسند.
// ایندکس خروجی مرجع است؛ خروجی برگشتی تعداد ردیف‌های اصلاح شده است.
type MirrorReconciler interface {
	ReconcileMirrors(ctx context.Context, batchSize int) (int, error)
}
