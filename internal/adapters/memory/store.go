package memory

import (
	"context"
	"sort"
	"sync"

	"reelprofile/internal/core/content"
	"reelprofile/internal/core/follower"
	"reelprofile/internal/core/profile"

	"github.com/gofrs/uuid"
)

// نام عملیات‌ها برای تزریق خطا در تست‌ها
const (
	OpFindByHandle    = "find_by_handle"
	OpAddEdge         = "add_edge"
	OpRemoveEdge      = "remove_edge"
	OpCountFollowers  = "count_followers"
	OpCountFollowing  = "count_following"
	OpIsFollowing     = "is_following"
	OpListByOwner     = "list_by_owner"
	OpListFavoritedBy = "list_favorited_by"
	OpGetOrCreateChat = "get_or_create_chat"
)

type set map[string]struct{}

// Store پیاده‌سازی درون حافظه‌ای همه پورت‌ها؛ برای تست و اجرای محلی
type Store struct {
	mu sync.RWMutex

	profiles      map[string]*profile.Profile
	following     map[string]set // ایندکس خروجی
	followers     map[string]set // ایندکس ورودی
	items         map[string]*content.Item
	favorites     map[string]set // itemID -> viewerIDs
	conversations map[[2]string]string

	failures map[string]error
}

func NewStore() *Store {
	return &Store{
		profiles:      make(map[string]*profile.Profile),
		following:     make(map[string]set),
		followers:     make(map[string]set),
		items:         make(map[string]*content.Item),
		favorites:     make(map[string]set),
		conversations: make(map[[2]string]string),
		failures:      make(map[string]error),
	}
}

// SetFailure از این به بعد عملیات op خطای err برمی‌گرداند؛ err=nil خطا را برمی‌دارد
func (s *Store) SetFailure(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.failures, op)
		return
	}
	s.failures[op] = err
}

func (s *Store) fail(op string) error {
	return s.failures[op]
}

// --- seed ---

func (s *Store) AddProfile(p *profile.Profile) *profile.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := p.Clone()
	if c.ID == "" {
		c.ID = uuid.Must(uuid.NewV4()).String()
	}
	s.profiles[c.ID] = c
	return c.Clone()
}

func (s *Store) AddItem(it *content.Item) *content.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := it.Clone()
	if c.ID == "" {
		c.ID = uuid.Must(uuid.NewV4()).String()
	}
	for _, v := range c.FavoritedBy {
		addTo(s.favorites, c.ID, v)
	}
	c.FavoritedBy = nil
	s.items[c.ID] = c
	return s.withFavorites(c)
}

func (s *Store) AddFavorite(itemID, viewerID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	addTo(s.favorites, itemID, viewerID)
}

// PutOutgoingOnly فقط ایندکس خروجی را می‌نویسد (شبیه‌سازی خطای بین دو نوشتن)
func (s *Store) PutOutgoingOnly(followerID, followeeID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	addTo(s.following, followerID, followeeID)
}

// PutIncomingOnly فقط ایندکس ورودی را می‌نویسد
func (s *Store) PutIncomingOnly(followerID, followeeID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	addTo(s.followers, followeeID, followerID)
}

// --- ProfileRepository ---

func (s *Store) FindByHandle(ctx context.Context, handle string, limit int) ([]*profile.Profile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.fail(OpFindByHandle); err != nil {
		return nil, err
	}

	var out []*profile.Profile
	for _, p := range s.sortedProfiles() {
		if p.Handle != handle {
			continue
		}
		out = append(out, p.Clone())
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (s *Store) sortedProfiles() []*profile.Profile {
	ps := make([]*profile.Profile, 0, len(s.profiles))
	for _, p := range s.profiles {
		ps = append(ps, p)
	}
	sort.Slice(ps, func(i, j int) bool {
		if !ps[i].CreatedAt.Equal(ps[j].CreatedAt) {
			return ps[i].CreatedAt.Before(ps[j].CreatedAt)
		}
		return ps[i].ID < ps[j].ID
	})
	return ps
}

// --- FollowerRepository ---

func (s *Store) AddEdge(ctx context.Context, followerID, followeeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail(OpAddEdge); err != nil {
		return err
	}
	addTo(s.following, followerID, followeeID)
	addTo(s.followers, followeeID, followerID)
	return nil
}

func (s *Store) RemoveEdge(ctx context.Context, followerID, followeeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail(OpRemoveEdge); err != nil {
		return err
	}
	removeFrom(s.following, followerID, followeeID)
	removeFrom(s.followers, followeeID, followerID)
	return nil
}

func (s *Store) CountFollowers(ctx context.Context, userID string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.fail(OpCountFollowers); err != nil {
		return 0, err
	}
	return int64(len(s.followers[userID])), nil
}

func (s *Store) CountFollowing(ctx context.Context, userID string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.fail(OpCountFollowing); err != nil {
		return 0, err
	}
	return int64(len(s.following[userID])), nil
}

func (s *Store) IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.fail(OpIsFollowing); err != nil {
		return false, err
	}
	_, ok := s.following[followerID][followeeID]
	return ok, nil
}

// ReconcileMirrors ایندکس ورودی را با ایندکس خروجی (مرجع) هماهنگ می‌کند
func (s *Store) ReconcileMirrors(ctx context.Context, batchSize int) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var missing, orphans []follower.Edge
	for a, followees := range s.following {
		for b := range followees {
			if _, ok := s.followers[b][a]; !ok {
				missing = append(missing, follower.Edge{FollowerID: a, FolloweeID: b})
			}
		}
	}
	for b, fs := range s.followers {
		for a := range fs {
			if _, ok := s.following[a][b]; !ok {
				orphans = append(orphans, follower.Edge{FollowerID: a, FolloweeID: b})
			}
		}
	}

	fixed := 0
	for _, e := range missing {
		if batchSize > 0 && fixed >= batchSize {
			return fixed, nil
		}
		addTo(s.followers, e.FolloweeID, e.FollowerID)
		fixed++
	}
	for _, e := range orphans {
		if batchSize > 0 && fixed >= batchSize {
			return fixed, nil
		}
		removeFrom(s.followers, e.FolloweeID, e.FollowerID)
		fixed++
	}
	return fixed, nil
}

// --- ContentRepository ---

func (s *Store) ListByOwner(ctx context.Context, ownerID string, limit int) ([]*content.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.fail(OpListByOwner); err != nil {
		return nil, err
	}

	var out []*content.Item
	for _, it := range s.items {
		if it.OwnerID == ownerID {
			out = append(out, s.withFavorites(it))
		}
	}
	// بدون زمان اول (معادل "اکنون")، سپس جدیدترین
	sort.SliceStable(out, func(i, j int) bool {
		ti, tj := out[i].CreatedAt, out[j].CreatedAt
		switch {
		case ti == nil && tj == nil:
			return out[i].ID < out[j].ID
		case ti == nil:
			return true
		case tj == nil:
			return false
		default:
			return ti.After(*tj)
		}
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// ListFavoritedBy اسکن کامل همه آیتم‌ها و فیلتر بر اساس favorited-by
func (s *Store) ListFavoritedBy(ctx context.Context, viewerID string) ([]*content.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if err := s.fail(OpListFavoritedBy); err != nil {
		return nil, err
	}

	var out []*content.Item
	for _, it := range s.items {
		c := s.withFavorites(it)
		if c.FavoritedByViewer(viewerID) {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) withFavorites(it *content.Item) *content.Item {
	c := it.Clone()
	for v := range s.favorites[it.ID] {
		c.FavoritedBy = append(c.FavoritedBy, v)
	}
	sort.Strings(c.FavoritedBy)
	return c
}

// --- ConversationRepository ---

func (s *Store) GetOrCreate(ctx context.Context, viewerID, subjectID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fail(OpGetOrCreateChat); err != nil {
		return "", err
	}
	key := pairKey(viewerID, subjectID)
	if id, ok := s.conversations[key]; ok {
		return id, nil
	}
	id := uuid.Must(uuid.NewV4()).String()
	s.conversations[key] = id
	return id, nil
}

func pairKey(a, b string) [2]string {
	if a > b {
		a, b = b, a
	}
	return [2]string{a, b}
}

func addTo(m map[string]set, key, member string) {
	if m[key] == nil {
		m[key] = make(set)
	}
	m[key][member] = struct{}{}
}

func removeFrom(m map[string]set, key, member string) {
	if m[key] == nil {
		return
	}
	delete(m[key], member)
	if len(m[key]) == 0 {
		delete(m, key)
	}
}
