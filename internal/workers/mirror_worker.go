package workers

import (
	"context"
	"time"

	followerPort "reelprofile/internal/ports/follower"

	"go.uber.org/zap"
)

// MirrorWorker ناهماهنگی بین ایندکس خروجی و ورودی یال‌ها را به صورت دوره‌ای رفع می‌کند
type MirrorWorker struct {
	Reconciler followerPort.MirrorReconciler
	BatchSize  int // حداکثر ردیف اصلاح شده در هر دور
	Interval   time.Duration
	Logger     *zap.Logger
}

func NewMirrorWorker(
	reconciler followerPort.MirrorReconciler,
	batchSize int,
	interval time.Duration,
	logger *zap.Logger,
) *MirrorWorker {
	if batchSize <= 0 {
		batchSize = 100
	}
	if interval <= 0 {
		interval = time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MirrorWorker{
		Reconciler: reconciler,
		BatchSize:  batchSize,
		Interval:   interval,
		Logger:     logger,
	}
}

// Run تا لغو ctx اجرا می‌شود
func (w *MirrorWorker) Run(ctx context.Context) {
	w.Logger.Info("🚀 MirrorWorker started", zap.Duration("interval", w.Interval), zap.Int("batchSize", w.BatchSize))
	ticker := time.NewTicker(w.Interval)
	defer ticker.Stop()

	for {
		w.RunOnce(ctx)

		select {
		case <-ctx.Done():
			w.Logger.Info("🛑 MirrorWorker stopped")
			return
		case <-ticker.C:
		}
	}
}

// RunOnce یک دور کامل؛ تا وقتی دسته‌ها پر برگردند ادامه می‌دهد
func (w *MirrorWorker) RunOnce(ctx context.Context) int {
	total := 0
	for ctx.Err() == nil {
		fixed, err := w.Reconciler.ReconcileMirrors(ctx, w.BatchSize)
		total += fixed
		if err != nil {
			w.Logger.Error("❌ Error reconciling edge mirrors", zap.Error(err))
			break
		}
		if fixed < w.BatchSize {
			break
		}
	}
	if total > 0 {
		w.Logger.Info("✅ Repaired edge mirrors", zap.Int("count", total))
	}
	return total
}
