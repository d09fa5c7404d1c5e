package profileviewapp

import (
	"context"
	"errors"
	"testing"

	"reelprofile/internal/adapters/memory"
	"reelprofile/internal/core/errs"
	"reelprofile/internal/core/profileview"
	"reelprofile/internal/core/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func itemIDs(vm profileview.ViewModel) []string {
	ids := make([]string, 0, len(vm.Items))
	for _, it := range vm.Items {
		ids = append(ids, it.ID)
	}
	return ids
}

func TestVisitLoadsFullProfile(t *testing.T) {
	f := newFixture(t)
	view := NewAssembler(f.deps, session.Start(f.alice.ID), nil)

	vm, err := view.Visit(context.Background(), "bob")
	require.NoError(t, err)

	assert.Equal(t, profileview.StateReady, vm.State)
	assert.Equal(t, profileview.OutcomeNone, vm.Outcome)
	assert.Equal(t, f.bob.ID, vm.SubjectID())
	assert.Equal(t, int64(5), vm.Follow.FollowerCount)
	assert.Equal(t, int64(2), vm.Follow.FollowingCount)
	assert.False(t, vm.Follow.ViewerFollowsSubject)
	assert.False(t, vm.Follow.IsMutualFriend)
	assert.Equal(t, profileview.RelationNone, vm.Follow.Relation())

	assert.Equal(t, []profileview.Tab{profileview.TabPosts}, vm.Tabs)
	assert.Equal(t, profileview.TabPosts, vm.ActiveTab)
	assert.Equal(t, []string{"bob-0", "bob-1", "bob-2"}, itemIDs(vm))
	assert.Equal(t, profileview.SectionLoaded, vm.IdentityStatus)
	assert.Equal(t, profileview.SectionLoaded, vm.RelationshipStatus)
	assert.Equal(t, profileview.SectionLoaded, vm.ContentStatus)
}

func TestVisitSkipsReverseCheckWhenViewerDoesNotFollow(t *testing.T) {
	f := newFixture(t)
	view := NewAssembler(f.deps, session.Start(f.alice.ID), nil)

	_, err := view.Visit(context.Background(), "bob")
	require.NoError(t, err)

	assert.Equal(t, []string{f.alice.ID + "->" + f.bob.ID}, f.rel.followChecks())
}

func TestVisitDerivesMutualFriendship(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.store.AddEdge(context.Background(), f.alice.ID, f.bob.ID))
	view := NewAssembler(f.deps, session.Start(f.alice.ID), nil)

	vm, err := view.Visit(context.Background(), "bob")
	require.NoError(t, err)

	assert.True(t, vm.Follow.ViewerFollowsSubject)
	assert.True(t, vm.Follow.IsMutualFriend)
	assert.Equal(t, profileview.RelationFriend, vm.Follow.Relation())
	assert.ElementsMatch(t, []string{f.alice.ID + "->" + f.bob.ID, f.bob.ID + "->" + f.alice.ID}, f.rel.followChecks())
}

func TestVisitOneWayFollowIsNotFriendship(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.store.AddEdge(context.Background(), f.carol.ID, f.alice.ID))
	view := NewAssembler(f.deps, session.Start(f.carol.ID), nil)

	vm, err := view.Visit(context.Background(), "alice")
	require.NoError(t, err)

	assert.True(t, vm.Follow.ViewerFollowsSubject)
	assert.False(t, vm.Follow.IsMutualFriend)
	assert.Equal(t, profileview.RelationFollowing, vm.Follow.Relation())
}

func TestVisitUnknownHandle(t *testing.T) {
	f := newFixture(t)
	view := NewAssembler(f.deps, session.Start(f.alice.ID), nil)

	vm, err := view.Visit(context.Background(), "ghost")
	assert.ErrorIs(t, err, errs.ErrNotFound)
	assert.Equal(t, profileview.StateNotFound, vm.State)
	assert.Equal(t, profileview.OutcomeNotFound, vm.Outcome)
	assert.Nil(t, vm.Identity)
	assert.Empty(t, f.rel.followChecks())
}

func TestVisitUnavailableThenRetry(t *testing.T) {
	f := newFixture(t)
	f.store.SetFailure(memory.OpFindByHandle, errors.New("connection refused"))
	view := NewAssembler(f.deps, session.Start(f.alice.ID), nil)

	vm, err := view.Visit(context.Background(), "bob")
	assert.ErrorIs(t, err, errs.ErrStoreUnavailable)
	assert.NotErrorIs(t, err, errs.ErrNotFound)
	assert.Equal(t, profileview.StateUnavailable, vm.State)
	assert.Equal(t, profileview.OutcomeNone, vm.Outcome)

	f.store.SetFailure(memory.OpFindByHandle, nil)
	vm, err = view.Retry(context.Background())
	require.NoError(t, err)
	assert.Equal(t, profileview.StateReady, vm.State)
	assert.Equal(t, f.bob.ID, vm.SubjectID())
}

func TestRetryOnReadyViewIsNoop(t *testing.T) {
	f := newFixture(t)
	view := NewAssembler(f.deps, session.Start(f.alice.ID), nil)
	first, err := view.Visit(context.Background(), "bob")
	require.NoError(t, err)

	again, err := view.Retry(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first.Epoch, again.Epoch)
}

func TestVisitAnonymousLoadsPublicSectionsAndSignalsLogin(t *testing.T) {
	f := newFixture(t)
	view := NewAssembler(f.deps, session.Anonymous(), nil)

	vm, err := view.Visit(context.Background(), "bob")
	require.NoError(t, err)

	assert.Equal(t, profileview.OutcomeRedirectLogin, vm.Outcome)
	assert.Equal(t, int64(5), vm.Follow.FollowerCount)
	assert.Len(t, vm.Items, 3)
	assert.Empty(t, f.rel.followChecks())
}

func TestRelationshipFailureStillLoadsPosts(t *testing.T) {
	f := newFixture(t)
	f.store.SetFailure(memory.OpCountFollowers, errors.New("timeout"))
	view := NewAssembler(f.deps, session.Start(f.alice.ID), nil)

	vm, err := view.Visit(context.Background(), "bob")
	require.NoError(t, err)

	assert.Equal(t, profileview.StateReady, vm.State)
	assert.Equal(t, profileview.SectionFailed, vm.RelationshipStatus)
	assert.Equal(t, int64(0), vm.Follow.FollowerCount)
	assert.Equal(t, int64(2), vm.Follow.FollowingCount)
	assert.Equal(t, profileview.SectionLoaded, vm.ContentStatus)
	assert.Len(t, vm.Items, 3)
}

func TestContentFailureLeavesEmptyGrid(t *testing.T) {
	f := newFixture(t)
	f.store.SetFailure(memory.OpListByOwner, errors.New("timeout"))
	view := NewAssembler(f.deps, session.Start(f.alice.ID), nil)

	vm, err := view.Visit(context.Background(), "bob")
	require.NoError(t, err)

	assert.Equal(t, profileview.SectionFailed, vm.ContentStatus)
	assert.NotNil(t, vm.Items)
	assert.Empty(t, vm.Items)
	assert.Equal(t, int64(5), vm.Follow.FollowerCount)
}

func TestPostsLimitOption(t *testing.T) {
	f := newFixture(t)
	view := NewAssembler(f.deps, session.Start(f.alice.ID), nil, WithPostsLimit(2))

	vm, err := view.Visit(context.Background(), "bob")
	require.NoError(t, err)
	assert.Equal(t, []string{"bob-0", "bob-1"}, itemIDs(vm))
}

func TestFavoritesTabOnlyOnOwnProfile(t *testing.T) {
	f := newFixture(t)
	view := NewAssembler(f.deps, session.Start(f.alice.ID), nil)
	ctx := context.Background()

	_, err := view.Visit(ctx, "bob")
	require.NoError(t, err)

	vm, err := view.SwitchTab(ctx, profileview.TabFavorites)
	assert.ErrorIs(t, err, errs.ErrTabUnavailable)
	assert.Equal(t, profileview.TabPosts, vm.ActiveTab)
	assert.Zero(t, f.content.favoriteCalls())

	vm, err = view.Visit(ctx, "alice")
	require.NoError(t, err)
	assert.True(t, vm.IsSelf())
	assert.Equal(t, []profileview.Tab{profileview.TabPosts, profileview.TabFavorites}, vm.Tabs)

	vm, err = view.SwitchTab(ctx, profileview.TabFavorites)
	require.NoError(t, err)
	assert.Equal(t, profileview.TabFavorites, vm.ActiveTab)
	assert.Equal(t, []string{"carol-0"}, itemIDs(vm))
	assert.Equal(t, 1, f.content.favoriteCalls())
}

func TestSwitchTabRejectsUnknownTab(t *testing.T) {
	f := newFixture(t)
	view := NewAssembler(f.deps, session.Start(f.alice.ID), nil)
	ctx := context.Background()

	_, err := view.SwitchTab(ctx, profileview.TabPosts)
	assert.ErrorIs(t, err, errs.ErrNotReady)

	_, err = view.Visit(ctx, "alice")
	require.NoError(t, err)
	_, err = view.SwitchTab(ctx, profileview.Tab("drafts"))
	assert.ErrorIs(t, err, errs.ErrTabUnavailable)
}

func TestSwitchBackToPostsReloads(t *testing.T) {
	f := newFixture(t)
	view := NewAssembler(f.deps, session.Start(f.bob.ID), nil)
	ctx := context.Background()

	_, err := view.Visit(ctx, "bob")
	require.NoError(t, err)
	_, err = view.SwitchTab(ctx, profileview.TabFavorites)
	require.NoError(t, err)

	vm, err := view.SwitchTab(ctx, profileview.TabPosts)
	require.NoError(t, err)
	assert.Equal(t, []string{"bob-0", "bob-1", "bob-2"}, itemIDs(vm))
}

func TestStaleVisitIsDiscarded(t *testing.T) {
	f := newFixture(t)
	gate := &gatedIdentity{
		IdentityResolver: f.deps.Identity,
		handle:           "alice",
		entered:          make(chan struct{}),
		release:          make(chan struct{}),
	}
	deps := f.deps
	deps.Identity = gate
	view := NewAssembler(deps, session.Start(f.carol.ID), nil)
	ctx := context.Background()

	type result struct {
		vm  profileview.ViewModel
		err error
	}
	done := make(chan result, 1)
	go func() {
		vm, err := view.Visit(ctx, "alice")
		done <- result{vm, err}
	}()

	<-gate.entered
	bobView, err := view.Visit(ctx, "bob")
	require.NoError(t, err)
	close(gate.release)

	stale := <-done
	assert.ErrorIs(t, stale.err, ErrSuperseded)

	vm := view.Snapshot()
	assert.Equal(t, bobView.Epoch, vm.Epoch)
	assert.Equal(t, "bob", vm.Handle)
	assert.Equal(t, f.bob.ID, vm.SubjectID())
	assert.Equal(t, int64(5), vm.Follow.FollowerCount)
	assert.Equal(t, []string{"bob-0", "bob-1", "bob-2"}, itemIDs(vm))
}

func TestSupersededFailedVisitReturnsSuperseded(t *testing.T) {
	f := newFixture(t)
	gate := &gatedIdentity{
		IdentityResolver: f.deps.Identity,
		handle:           "ghost",
		entered:          make(chan struct{}),
		release:          make(chan struct{}),
	}
	deps := f.deps
	deps.Identity = gate
	view := NewAssembler(deps, session.Start(f.alice.ID), nil)
	ctx := context.Background()

	type result struct {
		vm  profileview.ViewModel
		err error
	}
	done := make(chan result, 1)
	go func() {
		vm, err := view.Visit(ctx, "ghost")
		done <- result{vm, err}
	}()

	<-gate.entered
	_, err := view.Visit(ctx, "bob")
	require.NoError(t, err)
	close(gate.release)

	stale := <-done
	assert.ErrorIs(t, stale.err, ErrSuperseded)
	assert.NotErrorIs(t, stale.err, errs.ErrNotFound)

	vm := view.Snapshot()
	assert.Equal(t, "bob", vm.Handle)
	assert.Equal(t, profileview.StateReady, vm.State)
	assert.Equal(t, profileview.OutcomeNone, vm.Outcome)
}

func TestStaleTabLoadIsDiscarded(t *testing.T) {
	f := newFixture(t)
	f.store.AddFavorite("carol-0", f.bob.ID)
	content := &gatedContent{ContentLister: f.deps.Content}
	deps := f.deps
	deps.Content = content
	view := NewAssembler(deps, session.Start(f.bob.ID), nil)
	ctx := context.Background()

	_, err := view.Visit(ctx, "bob")
	require.NoError(t, err)

	content.arm()
	done := make(chan error, 1)
	go func() {
		_, err := view.SwitchTab(ctx, profileview.TabPosts)
		done <- err
	}()

	<-content.entered
	vm, err := view.SwitchTab(ctx, profileview.TabFavorites)
	require.NoError(t, err)
	assert.Equal(t, []string{"carol-0"}, itemIDs(vm))

	close(content.release)
	require.NoError(t, <-done)

	vm = view.Snapshot()
	assert.Equal(t, profileview.TabFavorites, vm.ActiveTab)
	assert.Equal(t, []string{"carol-0"}, itemIDs(vm))
	assert.Equal(t, profileview.SectionLoaded, vm.ContentStatus)
	assert.Equal(t, profileview.StateReady, vm.State)
}

func TestSnapshotIsIsolated(t *testing.T) {
	f := newFixture(t)
	view := NewAssembler(f.deps, session.Start(f.alice.ID), nil)
	vm, err := view.Visit(context.Background(), "bob")
	require.NoError(t, err)

	vm.Identity.DisplayName = "mutated"
	vm.Items[0].Caption = "mutated"

	fresh := view.Snapshot()
	assert.Equal(t, "Bob", fresh.Identity.DisplayName)
	assert.Empty(t, fresh.Items[0].Caption)
}

func TestOpenMedia(t *testing.T) {
	f := newFixture(t)
	view := NewAssembler(f.deps, session.Anonymous(), nil)
	_, err := view.Visit(context.Background(), "bob")
	require.NoError(t, err)

	sel, err := view.OpenMedia("bob-1")
	require.NoError(t, err)
	assert.Equal(t, 1, sel.StartIndex)
	assert.Len(t, sel.Items, 3)

	_, err = view.OpenMedia("missing")
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestStartChat(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	view := NewAssembler(f.deps, session.Start(f.alice.ID), nil)

	_, err := view.StartChat(ctx)
	assert.ErrorIs(t, err, errs.ErrNotReady)

	_, err = view.Visit(ctx, "bob")
	require.NoError(t, err)
	first, err := view.StartChat(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, first)

	// از سمت bob همان گفتگو
	other := NewAssembler(f.deps, session.Start(f.bob.ID), nil)
	_, err = other.Visit(ctx, "alice")
	require.NoError(t, err)
	second, err := other.StartChat(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	_, err = other.Visit(ctx, "bob")
	require.NoError(t, err)
	_, err = other.StartChat(ctx)
	assert.ErrorIs(t, err, errs.ErrSelfAction)
}

func TestStartChatFailures(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	anon := NewAssembler(f.deps, session.Anonymous(), nil)
	_, err := anon.Visit(ctx, "bob")
	require.NoError(t, err)
	_, err = anon.StartChat(ctx)
	assert.ErrorIs(t, err, errs.ErrUnauthorized)

	f.store.SetFailure(memory.OpGetOrCreateChat, errors.New("boom"))
	view := NewAssembler(f.deps, session.Start(f.alice.ID), nil)
	_, err = view.Visit(ctx, "bob")
	require.NoError(t, err)
	_, err = view.StartChat(ctx)
	assert.ErrorIs(t, err, errs.ErrStoreUnavailable)
}

func TestLogout(t *testing.T) {
	f := newFixture(t)
	sess := session.Start(f.alice.ID)
	ended := false
	sess.OnEnd(func() { ended = true })
	view := NewAssembler(f.deps, sess, nil)
	_, err := view.Visit(context.Background(), "bob")
	require.NoError(t, err)

	vm := view.Logout()
	assert.True(t, ended)
	assert.False(t, sess.Active())
	assert.Equal(t, profileview.OutcomeRedirectLogin, vm.Outcome)

	_, err = view.StartChat(context.Background())
	assert.ErrorIs(t, err, errs.ErrUnauthorized)
}
