package profileviewapp

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	contentEntity "reelprofile/internal/core/content"
	contentapp "reelprofile/internal/core/content/service"
	"reelprofile/internal/core/errs"
	"reelprofile/internal/core/friendship"
	profileEntity "reelprofile/internal/core/profile"
	"reelprofile/internal/core/profileview"
	"reelprofile/internal/core/session"
	messagingPort "reelprofile/internal/ports/messaging"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrSuperseded نتیجه بازدیدی که handle آن در این فاصله عوض شده دور ریخته می‌شود
var ErrSuperseded = errors.New("profile visit superseded by a newer visit")

type IdentityResolver interface {
	ResolveByHandle(ctx context.Context, handle string) (*profileEntity.Profile, error)
}

type RelationshipStore interface {
	CountFollowers(ctx context.Context, userID string) (int64, error)
	CountFollowing(ctx context.Context, userID string) (int64, error)
	Follows(ctx context.Context, a, b string) (bool, error)
	AddEdge(ctx context.Context, followerID, followeeID string) error
	RemoveEdge(ctx context.Context, followerID, followeeID string) error
}

type ContentLister interface {
	ListPosts(ctx context.Context, subjectID string, limit int) ([]*contentEntity.Item, error)
	ListFavorites(ctx context.Context, viewerID string) ([]*contentEntity.Item, error)
}

// Dependencies استورهایی که Assembler با آن‌ها کار می‌کند
type Dependencies struct {
	Identity      IdentityResolver
	Relationships RelationshipStore
	Content       ContentLister
	Conversations messagingPort.ConversationRepository
}

// Assembler نمای پروفایل را برای یک بازدید می‌سازد.
// هر Visit یک epoch جدید شروع می‌کند و نتیجه epochهای قدیمی دور ریخته می‌شود.
type Assembler struct {
	deps       Dependencies
	session    *session.Session
	logger     *zap.Logger
	postsLimit int

	mu     sync.Mutex
	epoch  uint64
	tabSeq uint64
	vm     profileview.ViewModel
}

type Option func(*Assembler)

// WithPostsLimit تعداد پست‌های تب posts
func WithPostsLimit(n int) Option {
	return func(a *Assembler) {
		if n > 0 {
			a.postsLimit = n
		}
	}
}

func NewAssembler(deps Dependencies, sess *session.Session, logger *zap.Logger, opts ...Option) *Assembler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if sess == nil {
		sess = session.Anonymous()
	}
	a := &Assembler{
		deps:       deps,
		session:    sess,
		logger:     logger,
		postsLimit: contentapp.DefaultPostsLimit,
		vm:         profileview.New(0, ""),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Snapshot کپی view model فعلی
func (a *Assembler) Snapshot() profileview.ViewModel {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.vm.Clone()
}

func (a *Assembler) current() (uint64, profileview.ViewModel) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.epoch, a.vm.Clone()
}

func (a *Assembler) snapshotFor(epoch uint64) (profileview.ViewModel, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if epoch != a.epoch {
		return profileview.ViewModel{}, false
	}
	return a.vm.Clone(), true
}

// update تغییر را فقط وقتی اعمال می‌کند که epoch هنوز جاری باشد
func (a *Assembler) update(epoch uint64, fn func(vm *profileview.ViewModel)) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	if epoch != a.epoch {
		return false
	}
	fn(&a.vm)
	return true
}

// updateSnapshot مثل update ولی کپی view model را زیر همان قفل برمی‌گرداند
func (a *Assembler) updateSnapshot(epoch uint64, fn func(vm *profileview.ViewModel)) (profileview.ViewModel, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if epoch != a.epoch {
		return profileview.ViewModel{}, false
	}
	fn(&a.vm)
	return a.vm.Clone(), true
}

func (a *Assembler) begin(handle string) uint64 {
	viewerID, _ := a.session.ViewerID()

	a.mu.Lock()
	defer a.mu.Unlock()
	a.epoch++
	a.tabSeq++
	a.vm = profileview.New(a.epoch, handle)
	a.vm.ViewerID = viewerID
	a.vm.State = profileview.StateResolvingIdentity
	a.vm.IdentityStatus = profileview.SectionLoading
	return a.epoch
}

// Visit بارگذاری کامل پروفایل handle: هویت، سپس رابطه‌ها، سپس تب posts.
// اگر در این فاصله Visit دیگری شروع شود ErrSuperseded برمی‌گردد.
func (a *Assembler) Visit(ctx context.Context, handle string) (profileview.ViewModel, error) {
	epoch := a.begin(handle)
	log := a.logger.With(zap.String("handle", handle), zap.Uint64("epoch", epoch))

	identity, err := a.deps.Identity.ResolveByHandle(ctx, handle)
	if err != nil {
		notFound := errors.Is(err, errs.ErrNotFound)
		vm, applied := a.updateSnapshot(epoch, func(vm *profileview.ViewModel) {
			vm.IdentityStatus = profileview.SectionFailed
			if notFound {
				vm.State = profileview.StateNotFound
				vm.Outcome = profileview.OutcomeNotFound
				return
			}
			vm.State = profileview.StateUnavailable
		})
		if !applied {
			log.Info("Discarding stale identity result")
			return profileview.ViewModel{}, ErrSuperseded
		}
		if !notFound {
			log.Error("❌ Identity store unavailable", zap.Error(err))
			err = errs.Unavailable("resolve identity", err)
		}
		return vm, err
	}

	var viewerID string
	applied := a.update(epoch, func(vm *profileview.ViewModel) {
		vm.Identity = identity.Clone()
		vm.IdentityStatus = profileview.SectionLoaded
		vm.State = profileview.StateIdentityLoaded
		vm.Tabs = []profileview.Tab{profileview.TabPosts}
		if vm.IsSelf() {
			vm.Tabs = append(vm.Tabs, profileview.TabFavorites)
		}
		if vm.ViewerID == "" {
			vm.Outcome = profileview.OutcomeRedirectLogin
		}
		viewerID = vm.ViewerID
	})
	if !applied {
		log.Info("Discarding stale identity result")
		return profileview.ViewModel{}, ErrSuperseded
	}

	if !a.loadRelationship(ctx, epoch, identity.ID, viewerID) {
		return profileview.ViewModel{}, ErrSuperseded
	}
	if !a.loadTab(ctx, epoch, profileview.TabPosts) {
		return profileview.ViewModel{}, ErrSuperseded
	}

	vm, ok := a.snapshotFor(epoch)
	if !ok {
		return profileview.ViewModel{}, ErrSuperseded
	}
	return vm, nil
}

// Retry تلاش دوباره برای بازدیدی که به خاطر در دسترس نبودن استور متوقف شده
func (a *Assembler) Retry(ctx context.Context) (profileview.ViewModel, error) {
	vm := a.Snapshot()
	if vm.State != profileview.StateUnavailable {
		return vm, nil
	}
	return a.Visit(ctx, vm.Handle)
}

// loadRelationship شمارنده‌ها و وضعیت دنبال کردن را همزمان می‌خواند.
// خطای هر بخش لاگ می‌شود و آن بخش مقدار پیش‌فرض می‌گیرد.
func (a *Assembler) loadRelationship(ctx context.Context, epoch uint64, subjectID, viewerID string) bool {
	if !a.update(epoch, func(vm *profileview.ViewModel) {
		vm.State = profileview.StateLoadingRelationship
		vm.RelationshipStatus = profileview.SectionLoading
	}) {
		return false
	}

	log := a.logger.With(zap.String("subjectID", subjectID), zap.Uint64("epoch", epoch))
	rel := a.deps.Relationships

	var (
		state  profileview.FollowState
		failed atomic.Bool
	)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		n, err := rel.CountFollowers(gctx, subjectID)
		if err != nil {
			log.Warn("⚠️ Could not load follower count", zap.Error(err))
			failed.Store(true)
			return nil
		}
		state.FollowerCount = n
		return nil
	})

	g.Go(func() error {
		n, err := rel.CountFollowing(gctx, subjectID)
		if err != nil {
			log.Warn("⚠️ Could not load following count", zap.Error(err))
			failed.Store(true)
			return nil
		}
		state.FollowingCount = n
		return nil
	})

	if viewerID != "" && viewerID != subjectID {
		g.Go(func() error {
			follows, err := rel.Follows(gctx, viewerID, subjectID)
			if err != nil {
				log.Warn("⚠️ Could not load follow status", zap.String("viewerID", viewerID), zap.Error(err))
				failed.Store(true)
				return nil
			}
			state.ViewerFollowsSubject = follows

			mutual, err := friendship.Resolve(gctx, follows, func(ctx context.Context) (bool, error) {
				return rel.Follows(ctx, subjectID, viewerID)
			})
			if err != nil {
				log.Warn("⚠️ Could not load friendship status", zap.String("viewerID", viewerID), zap.Error(err))
				failed.Store(true)
				return nil
			}
			state.IsMutualFriend = mutual
			return nil
		})
	}

	_ = g.Wait()

	return a.update(epoch, func(vm *profileview.ViewModel) {
		vm.Follow = state
		vm.RelationshipStatus = profileview.SectionLoaded
		if failed.Load() {
			vm.RelationshipStatus = profileview.SectionFailed
		}
		vm.State = profileview.StateReady
	})
}

// loadTab محتوای تب را از نو می‌خواند. نتیجه تبی که در این فاصله عوض شده کنار گذاشته می‌شود.
func (a *Assembler) loadTab(ctx context.Context, epoch uint64, tab profileview.Tab) bool {
	var (
		seq                 uint64
		subjectID, viewerID string
	)
	if !a.update(epoch, func(vm *profileview.ViewModel) {
		a.tabSeq++
		seq = a.tabSeq
		vm.ActiveTab = tab
		vm.State = profileview.StateLoadingTabContent
		vm.ContentStatus = profileview.SectionLoading
		vm.Items = nil
		subjectID = vm.SubjectID()
		viewerID = vm.ViewerID
	}) {
		return false
	}

	var (
		items []*contentEntity.Item
		err   error
	)
	switch tab {
	case profileview.TabFavorites:
		items, err = a.deps.Content.ListFavorites(ctx, viewerID)
	default:
		items, err = a.deps.Content.ListPosts(ctx, subjectID, a.postsLimit)
	}
	if err != nil {
		a.logger.Warn("⚠️ Could not load tab content",
			zap.String("tab", string(tab)), zap.String("subjectID", subjectID), zap.Error(err))
	}

	return a.update(epoch, func(vm *profileview.ViewModel) {
		if seq != a.tabSeq {
			return
		}
		vm.State = profileview.StateReady
		if err != nil {
			vm.Items = []*contentEntity.Item{}
			vm.ContentStatus = profileview.SectionFailed
			return
		}
		if items == nil {
			items = []*contentEntity.Item{}
		}
		vm.Items = items
		vm.ContentStatus = profileview.SectionLoaded
	})
}

// SwitchTab فعال کردن تب. favorites فقط روی پروفایل خود کاربر ارائه می‌شود
// و در غیر این صورت هیچ درخواستی به استور نمی‌رود.
func (a *Assembler) SwitchTab(ctx context.Context, tab profileview.Tab) (profileview.ViewModel, error) {
	epoch, vm := a.current()
	if vm.Identity == nil {
		return vm, errs.ErrNotReady
	}
	if !tab.Valid() || !vm.Offers(tab) {
		a.logger.Info("Tab not offered for this profile",
			zap.String("tab", string(tab)), zap.String("subjectID", vm.SubjectID()))
		return vm, errs.ErrTabUnavailable
	}

	if !a.loadTab(ctx, epoch, tab) {
		return profileview.ViewModel{}, ErrSuperseded
	}
	vm, ok := a.snapshotFor(epoch)
	if !ok {
		return profileview.ViewModel{}, ErrSuperseded
	}
	return vm, nil
}

// OpenMedia فهرست فعلی تب و اندیس آیتم کلیک شده برای نمایشگر ویدیو
func (a *Assembler) OpenMedia(itemID string) (profileview.MediaSelection, error) {
	vm := a.Snapshot()
	for i, it := range vm.Items {
		if it.ID == itemID {
			return profileview.MediaSelection{Items: vm.Items, StartIndex: i}, nil
		}
	}
	return profileview.MediaSelection{}, errs.ErrNotFound
}

// StartChat گفتگو با صاحب پروفایل را پیدا یا ایجاد می‌کند؛ ناوبری به عهده لایه بیرونی است
func (a *Assembler) StartChat(ctx context.Context) (string, error) {
	viewerID, ok := a.session.ViewerID()
	if !ok {
		return "", errs.ErrUnauthorized
	}
	vm := a.Snapshot()
	if vm.Identity == nil {
		return "", errs.ErrNotReady
	}
	if vm.Identity.ID == viewerID {
		return "", errs.ErrSelfAction
	}
	if a.deps.Conversations == nil {
		return "", errs.Unavailable("start chat", errors.New("messaging not configured"))
	}

	id, err := a.deps.Conversations.GetOrCreate(ctx, viewerID, vm.Identity.ID)
	if err != nil {
		a.logger.Error("❌ Could not open conversation",
			zap.String("viewerID", viewerID), zap.String("subjectID", vm.Identity.ID), zap.Error(err))
		return "", errs.Unavailable("start chat", err)
	}
	return id, nil
}

// Logout نشست را می‌بندد و به لایه بیرونی سیگنال ورود دوباره می‌دهد
func (a *Assembler) Logout() profileview.ViewModel {
	a.session.End()

	a.mu.Lock()
	defer a.mu.Unlock()
	a.vm.Outcome = profileview.OutcomeRedirectLogin
	return a.vm.Clone()
}
