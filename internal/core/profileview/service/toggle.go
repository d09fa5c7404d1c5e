package profileviewapp

import (
	"context"
	"sync"
	"time"

	"reelprofile/internal/core/errs"
	"reelprofile/internal/core/friendship"
	"reelprofile/internal/core/profileview"
	eventsPort "reelprofile/internal/ports/events"

	"go.uber.org/zap"
)

// FollowController دنبال کردن / لغو دنبال کردن با به‌روزرسانی خوش‌بینانه.
// شمارنده‌ها بعد از toggle دوباره از استور خوانده نمی‌شوند؛ اختلاف با مقدار واقعی
// (toggle همزمان کاربران دیگر) تا بارگذاری دوباره پروفایل باقی می‌ماند.
type FollowController struct {
	view      *Assembler
	publisher eventsPort.RelationshipPublisher
	logger    *zap.Logger
	now       func() time.Time

	mu sync.Mutex // toggleهای یک نشست پشت سر هم اجرا می‌شوند
}

func NewFollowController(view *Assembler, publisher eventsPort.RelationshipPublisher, logger *zap.Logger) *FollowController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FollowController{
		view:      view,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// Toggle اگر کاربر صاحب پروفایل را دنبال نکند آن را دنبال می‌کند و برعکس.
// روی پروفایل خود کاربر کاری انجام نمی‌دهد.
func (c *FollowController) Toggle(ctx context.Context) (profileview.FollowState, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	viewerID, ok := c.view.session.ViewerID()
	if !ok {
		return profileview.FollowState{}, errs.ErrUnauthorized
	}

	// تا رابطه‌ها کامل بارگذاری نشده باشند وضعیت فعلی معتبر نیست
	epoch, vm := c.view.current()
	if vm.Identity == nil || vm.ViewerID != viewerID || vm.RelationshipStatus != profileview.SectionLoaded {
		return vm.Follow, errs.ErrNotReady
	}
	subjectID := vm.Identity.ID
	if subjectID == viewerID {
		return vm.Follow, nil
	}

	if vm.Follow.ViewerFollowsSubject {
		return c.unfollow(ctx, epoch, vm.Follow, viewerID, subjectID)
	}
	return c.follow(ctx, epoch, vm.Follow, viewerID, subjectID)
}

func (c *FollowController) follow(ctx context.Context, epoch uint64, prev profileview.FollowState, viewerID, subjectID string) (profileview.FollowState, error) {
	rel := c.view.deps.Relationships
	log := c.logger.With(zap.String("viewerID", viewerID), zap.String("subjectID", subjectID))

	if err := rel.AddEdge(ctx, viewerID, subjectID); err != nil {
		log.Error("❌ Follow failed", zap.Error(err))
		return prev, err
	}

	if !c.view.update(epoch, func(vm *profileview.ViewModel) {
		vm.Follow.ViewerFollowsSubject = true
		vm.Follow.FollowerCount++
	}) {
		return prev, ErrSuperseded
	}

	// بررسی تازه جهت برگشت برای محاسبه دوستی
	followsBack, err := rel.Follows(ctx, subjectID, viewerID)
	if err != nil {
		log.Warn("⚠️ Could not re-check friendship after follow", zap.Error(err))
		followsBack = false
	}

	var mutual bool
	if !c.view.update(epoch, func(vm *profileview.ViewModel) {
		vm.Follow.IsMutualFriend = friendship.Derive(vm.Follow.ViewerFollowsSubject, followsBack)
		mutual = vm.Follow.IsMutualFriend
	}) {
		return prev, ErrSuperseded
	}

	c.publish(ctx, eventsPort.ActionFollowed, viewerID, subjectID, mutual)
	log.Info("✅ Followed", zap.Bool("mutual", mutual))
	return c.state(epoch)
}

func (c *FollowController) unfollow(ctx context.Context, epoch uint64, prev profileview.FollowState, viewerID, subjectID string) (profileview.FollowState, error) {
	rel := c.view.deps.Relationships
	log := c.logger.With(zap.String("viewerID", viewerID), zap.String("subjectID", subjectID))

	if err := rel.RemoveEdge(ctx, viewerID, subjectID); err != nil {
		log.Error("❌ Unfollow failed", zap.Error(err))
		return prev, err
	}

	if !c.view.update(epoch, func(vm *profileview.ViewModel) {
		vm.Follow.ViewerFollowsSubject = false
		vm.Follow.IsMutualFriend = false
		if vm.Follow.FollowerCount > 0 {
			vm.Follow.FollowerCount--
		}
	}) {
		return prev, ErrSuperseded
	}

	c.publish(ctx, eventsPort.ActionUnfollowed, viewerID, subjectID, false)
	log.Info("✅ Unfollowed")
	return c.state(epoch)
}

func (c *FollowController) state(epoch uint64) (profileview.FollowState, error) {
	vm, ok := c.view.snapshotFor(epoch)
	if !ok {
		return profileview.FollowState{}, ErrSuperseded
	}
	return vm.Follow, nil
}

// publish انتشار رویداد best effort است؛ خطا فقط لاگ می‌شود
func (c *FollowController) publish(ctx context.Context, action eventsPort.FollowAction, viewerID, subjectID string, mutual bool) {
	if c.publisher == nil {
		return
	}
	err := c.publisher.PublishFollowChanged(ctx, eventsPort.FollowChanged{
		Action:     action,
		FollowerID: viewerID,
		FolloweeID: subjectID,
		Mutual:     mutual,
		OccurredAt: c.now().UTC(),
	})
	if err != nil {
		c.logger.Warn("⚠️ Could not publish follow event", zap.String("action", string(action)), zap.Error(err))
	}
}
