package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/Dias221467/Social_Circle/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Builds the graph: A-B, A-C, B-D, C-D, C-E. From A's point of view D has
// two mutual friends (B and C) and E has one (C).
func buildSampleGraph(t *testing.T, users *memUserStore) (a, b, c, d, e *models.User) {
	t.Helper()
	ctx := context.Background()

	a = users.addUser("alice")
	b = users.addUser("bob")
	c = users.addUser("carol")
	d = users.addUser("dave")
	e = users.addUser("erin")

	require.NoError(t, users.AddFriendEdge(ctx, a.ID, b.ID))
	require.NoError(t, users.AddFriendEdge(ctx, a.ID, c.ID))
	require.NoError(t, users.AddFriendEdge(ctx, b.ID, d.ID))
	require.NoError(t, users.AddFriendEdge(ctx, c.ID, d.ID))
	require.NoError(t, users.AddFriendEdge(ctx, c.ID, e.ID))
	return a, b, c, d, e
}

func TestRecommend_RanksByMutualFriends(t *testing.T) {
	users := newMemUserStore()
	svc := NewRecommendationService(users, nil)

	a, b, c, d, e := buildSampleGraph(t, users)

	recs, err := svc.Recommend(context.Background(), a.ID)
	require.NoError(t, err)
	require.Len(t, recs, 2)

	assert.Equal(t, d.ID, recs[0].ID)
	assert.Equal(t, "dave", recs[0].Username)
	assert.Equal(t, 2, recs[0].MutualFriends)

	assert.Equal(t, e.ID, recs[1].ID)
	assert.Equal(t, "erin", recs[1].Username)
	assert.Equal(t, 1, recs[1].MutualFriends)

	// Direct friends and the caller never appear.
	for _, rec := range recs {
		assert.NotEqual(t, a.ID, rec.ID)
		assert.NotEqual(t, b.ID, rec.ID)
		assert.NotEqual(t, c.ID, rec.ID)
	}
}

func TestRecommend_NoFriends(t *testing.T) {
	users := newMemUserStore()
	svc := NewRecommendationService(users, nil)

	loner := users.addUser("loner")

	recs, err := svc.Recommend(context.Background(), loner.ID)
	require.NoError(t, err)
	assert.Empty(t, recs)
}

// A malformed edge putting the caller in their own friend set must not make
// the caller a candidate.
func TestRecommend_ExcludesSelfOnMalformedEdge(t *testing.T) {
	users := newMemUserStore()
	svc := NewRecommendationService(users, nil)
	ctx := context.Background()

	alice := users.addUser("alice")
	bob := users.addUser("bob")
	require.NoError(t, users.AddFriendEdge(ctx, alice.ID, bob.ID))

	// Self-loop that the friend service would never write.
	users.mu.Lock()
	users.addToSet(alice.ID, alice.ID)
	users.mu.Unlock()

	recs, err := svc.Recommend(ctx, alice.ID)
	require.NoError(t, err)
	for _, rec := range recs {
		assert.NotEqual(t, alice.ID, rec.ID)
	}
}

func TestRecommend_TieBreakAscendingID(t *testing.T) {
	users := newMemUserStore()
	svc := NewRecommendationService(users, nil)
	ctx := context.Background()

	alice := users.addUser("alice")
	bob := users.addUser("bob")
	require.NoError(t, users.AddFriendEdge(ctx, alice.ID, bob.ID))

	// Two candidates with the same single mutual friend.
	x := users.addUser("xavier")
	y := users.addUser("yolanda")
	require.NoError(t, users.AddFriendEdge(ctx, bob.ID, x.ID))
	require.NoError(t, users.AddFriendEdge(ctx, bob.ID, y.ID))

	recs, err := svc.Recommend(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, 1, recs[0].MutualFriends)
	assert.Equal(t, 1, recs[1].MutualFriends)
	assert.Less(t, recs[0].ID.Hex(), recs[1].ID.Hex())
}

func TestRecommend_CapsAtTen(t *testing.T) {
	users := newMemUserStore()
	svc := NewRecommendationService(users, nil)
	ctx := context.Background()

	alice := users.addUser("alice")
	bob := users.addUser("bob")
	carol := users.addUser("carol")
	require.NoError(t, users.AddFriendEdge(ctx, alice.ID, bob.ID))
	require.NoError(t, users.AddFriendEdge(ctx, alice.ID, carol.ID))

	// 12 candidates; the first three are better connected (via both bob
	// and carol) and must survive the cut.
	var strong []*models.User
	for i := 0; i < 3; i++ {
		u := users.addUser(fmt.Sprintf("strong%d", i))
		require.NoError(t, users.AddFriendEdge(ctx, bob.ID, u.ID))
		require.NoError(t, users.AddFriendEdge(ctx, carol.ID, u.ID))
		strong = append(strong, u)
	}
	for i := 0; i < 9; i++ {
		u := users.addUser(fmt.Sprintf("weak%d", i))
		require.NoError(t, users.AddFriendEdge(ctx, bob.ID, u.ID))
	}

	recs, err := svc.Recommend(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, recs, 10)

	top := map[string]bool{}
	for _, rec := range recs[:3] {
		top[rec.ID.Hex()] = true
		assert.Equal(t, 2, rec.MutualFriends)
	}
	for _, u := range strong {
		assert.True(t, top[u.ID.Hex()])
	}
}

func TestRecommend_ReadThroughCache(t *testing.T) {
	users := newMemUserStore()
	cache := newMemCache()
	svc := NewRecommendationService(users, cache)
	ctx := context.Background()

	a, _, _, d, _ := buildSampleGraph(t, users)

	first, err := svc.Recommend(ctx, a.ID)
	require.NoError(t, err)

	cached, ok := cache.Get(ctx, a.ID)
	require.True(t, ok)
	assert.Equal(t, first, cached)

	// A hit short-circuits the computation: poison the cache and make sure
	// the poisoned value comes back.
	cache.Set(ctx, a.ID, []models.Recommendation{{ID: d.ID, Username: "cached", MutualFriends: 99}})
	second, err := svc.Recommend(ctx, a.ID)
	require.NoError(t, err)
	require.Len(t, second, 1)
	assert.Equal(t, 99, second[0].MutualFriends)
}
