package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"reelprofile/internal/core/content"
	"reelprofile/internal/core/profile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindByHandleOrdersByCreation(t *testing.T) {
	s := NewStore()
	now := time.Now()
	s.AddProfile(&profile.Profile{ID: "late", Handle: "dup", CreatedAt: now.Add(time.Minute)})
	s.AddProfile(&profile.Profile{ID: "early", Handle: "dup", CreatedAt: now})
	s.AddProfile(&profile.Profile{ID: "upper", Handle: "Dup", CreatedAt: now})

	ps, err := s.FindByHandle(context.Background(), "dup", 2)
	require.NoError(t, err)
	require.Len(t, ps, 2)
	assert.Equal(t, "early", ps[0].ID)
	assert.Equal(t, "late", ps[1].ID)
}

func TestEdgesAndMirrors(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	require.NoError(t, s.AddEdge(ctx, "a", "b"))
	require.NoError(t, s.AddEdge(ctx, "a", "b"))
	n, _ := s.CountFollowers(ctx, "b")
	assert.Equal(t, int64(1), n)

	s.PutOutgoingOnly("c", "b")
	s.PutIncomingOnly("d", "b")
	n, _ = s.CountFollowers(ctx, "b")
	assert.Equal(t, int64(2), n, "a and the orphan d")

	fixed, err := s.ReconcileMirrors(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, fixed)

	n, _ = s.CountFollowers(ctx, "b")
	assert.Equal(t, int64(2), n, "a and c")
	ok, _ := s.IsFollowing(ctx, "d", "b")
	assert.False(t, ok)

	fixed, err = s.ReconcileMirrors(ctx, 0)
	require.NoError(t, err)
	assert.Zero(t, fixed)
}

func TestReconcileRespectsBatchSize(t *testing.T) {
	s := NewStore()
	s.PutOutgoingOnly("a", "x")
	s.PutOutgoingOnly("b", "x")
	s.PutOutgoingOnly("c", "x")

	fixed, err := s.ReconcileMirrors(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, 2, fixed)

	fixed, err = s.ReconcileMirrors(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, 1, fixed)
}

func TestListByOwnerPutsUndatedFirst(t *testing.T) {
	s := NewStore()
	old := time.Now().Add(-time.Hour)
	recent := time.Now()
	s.AddItem(&content.Item{ID: "old", OwnerID: "o", CreatedAt: &old})
	s.AddItem(&content.Item{ID: "recent", OwnerID: "o", CreatedAt: &recent})
	s.AddItem(&content.Item{ID: "undated", OwnerID: "o"})

	items, err := s.ListByOwner(context.Background(), "o", 2)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "undated", items[0].ID)
	assert.Equal(t, "recent", items[1].ID)
}

func TestFavorites(t *testing.T) {
	s := NewStore()
	s.AddItem(&content.Item{ID: "i1", OwnerID: "o", FavoritedBy: []string{"v"}})
	s.AddItem(&content.Item{ID: "i2", OwnerID: "o"})
	s.AddFavorite("i2", "v")
	s.AddItem(&content.Item{ID: "i3", OwnerID: "o"})

	items, err := s.ListFavoritedBy(context.Background(), "v")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "i1", items[0].ID)
	assert.Equal(t, []string{"v"}, items[1].FavoritedBy)
}

func TestGetOrCreateIsSymmetric(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	a, err := s.GetOrCreate(ctx, "x", "y")
	require.NoError(t, err)
	b, err := s.GetOrCreate(ctx, "y", "x")
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := s.GetOrCreate(ctx, "x", "z")
	require.NoError(t, err)
	assert.NotEqual(t, a, c)
}

func TestSetFailure(t *testing.T) {
	s := NewStore()
	boom := errors.New("boom")
	s.SetFailure(OpCountFollowing, boom)

	_, err := s.CountFollowing(context.Background(), "a")
	assert.ErrorIs(t, err, boom)

	s.SetFailure(OpCountFollowing, nil)
	_, err = s.CountFollowing(context.Background(), "a")
	assert.NoError(t, err)
}
