package profileview

import (
	"reelprofile/internal/core/content"
	"reelprofile/internal/core/profile"
)

// State مرحله بارگذاری یک بازدید پروفایل
type State string

const (
	StateIdle                State = "idle"
	StateResolvingIdentity   State = "resolving_identity"
	StateNotFound            State = "not_found"   // پایانی برای این handle
	StateUnavailable         State = "unavailable" // قابل تلاش دوباره
	StateIdentityLoaded      State = "identity_loaded"
	StateLoadingRelationship State = "loading_relationship"
	StateReady               State = "ready"
	StateLoadingTabContent   State = "loading_tab_content"
)

type Tab string

const (
	TabPosts     Tab = "posts"
	TabFavorites Tab = "favorites"
)

func (t Tab) Valid() bool {
	return t == TabPosts || t == TabFavorites
}

// SectionStatus وضعیت هر بخش از view model
type SectionStatus string

const (
	SectionIdle    SectionStatus = "idle"
	SectionLoading SectionStatus = "loading"
	SectionLoaded  SectionStatus = "loaded"
	SectionFailed  SectionStatus = "failed"
)

// Outcome سیگنال ناوبری برای لایه بیرونی؛ مسیریابی واقعی بیرون از موتور است
type Outcome string

const (
	OutcomeNone          Outcome = "none"
	OutcomeNotFound      Outcome = "not_found"
	OutcomeRedirectLogin Outcome = "redirect_login"
)

// Relation حالت دکمه دنبال کردن
type Relation string

const (
	RelationNone      Relation = "none"
	RelationFollowing Relation = "following"
	RelationFriend    Relation = "friend"
)

// FollowState ذخیره نمی‌شود؛ هنگام بارگذاری محاسبه و هنگام toggle به صورت محلی اصلاح می‌شود
type FollowState struct {
	FollowerCount        int64 `json:"followerCount"`
	FollowingCount       int64 `json:"followingCount"`
	ViewerFollowsSubject bool  `json:"viewerFollowsSubject"`
	IsMutualFriend       bool  `json:"isMutualFriend"`
}

func (f FollowState) Relation() Relation {
	switch {
	case f.IsMutualFriend:
		return RelationFriend
	case f.ViewerFollowsSubject:
		return RelationFollowing
	default:
		return RelationNone
	}
}

// ViewModel نمای پروفایل برای یک بازدید
type ViewModel struct {
	Epoch    uint64
	Handle   string
	State    State
	Outcome  Outcome
	ViewerID string

	Identity *profile.Profile
	Follow   FollowState

	ActiveTab Tab
	Tabs      []Tab
	Items     []*content.Item

	IdentityStatus     SectionStatus
	RelationshipStatus SectionStatus
	ContentStatus      SectionStatus
}

// New view model خالی برای شروع بازدید handle
func New(epoch uint64, handle string) ViewModel {
	return ViewModel{
		Epoch:              epoch,
		Handle:             handle,
		State:              StateIdle,
		Outcome:            OutcomeNone,
		ActiveTab:          TabPosts,
		IdentityStatus:     SectionIdle,
		RelationshipStatus: SectionIdle,
		ContentStatus:      SectionIdle,
	}
}

// SubjectID شناسه پروفایل در حال نمایش
func (vm ViewModel) SubjectID() string {
	if vm.Identity == nil {
		return ""
	}
	return vm.Identity.ID
}

// IsSelf آیا کاربر در حال دیدن پروفایل خودش است
func (vm ViewModel) IsSelf() bool {
	return vm.ViewerID != "" && vm.Identity != nil && vm.ViewerID == vm.Identity.ID
}

// Offers آیا تب برای این بازدید ارائه می‌شود
func (vm ViewModel) Offers(tab Tab) bool {
	for _, t := range vm.Tabs {
		if t == tab {
			return true
		}
	}
	return false
}

// Clone کپی عمیق تا تغییرات بعدی روی snapshot اثر نگذارد
func (vm ViewModel) Clone() ViewModel {
	c := vm
	c.Identity = vm.Identity.Clone()
	if vm.Tabs != nil {
		c.Tabs = append([]Tab(nil), vm.Tabs...)
	}
	if vm.Items != nil {
		c.Items = make([]*content.Item, len(vm.Items))
		for i, it := range vm.Items {
			c.Items[i] = it.Clone()
		}
	}
	return c
}

// MediaSelection ورودی نمایشگر ویدیو: فهرست فعلی و اندیس آیتم کلیک شده
type MediaSelection struct {
	Items      []*content.Item
	StartIndex int
}
