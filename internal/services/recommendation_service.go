package services

import (
	"context"
	"sort"

	"github.com/Dias221467/Social_Circle/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// maxRecommendations caps the number of candidates returned per call.
const maxRecommendations = 10

// RecommendationService ranks non-friends by how many of the caller's
// friends they are connected to. Read-only over the user directory.
type RecommendationService struct {
	users UserStore
	cache RecommendationCache
}

// NewRecommendationService creates a new RecommendationService. cache may
// be nil.
func NewRecommendationService(users UserStore, cache RecommendationCache) *RecommendationService {
	return &RecommendationService{
		users: users,
		cache: cache,
	}
}

// Recommend computes friends-of-friends for a user, ranked by mutual-friend
// count descending with ties broken by ascending ID, capped at
// maxRecommendations. Direct friends and the caller are never candidates.
func (s *RecommendationService) Recommend(ctx context.Context, userID primitive.ObjectID) ([]models.Recommendation, error) {
	if s.cache != nil {
		if recs, ok := s.cache.Get(ctx, userID); ok {
			return recs, nil
		}
	}

	user, err := s.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(user.Friends) == 0 {
		return []models.Recommendation{}, nil
	}

	friendSet := make(map[primitive.ObjectID]struct{}, len(user.Friends))
	for _, id := range user.Friends {
		friendSet[id] = struct{}{}
	}

	friends, err := s.users.GetUsersByIDs(ctx, user.Friends)
	if err != nil {
		return nil, err
	}

	// Each friend's set is deduplicated, so one pass per friend counts
	// distinct mutual connections.
	counts := make(map[primitive.ObjectID]int)
	for _, friend := range friends {
		for _, candidate := range friend.Friends {
			if candidate == userID {
				continue
			}
			if _, isFriend := friendSet[candidate]; isFriend {
				continue
			}
			counts[candidate]++
		}
	}

	candidates := make([]primitive.ObjectID, 0, len(counts))
	for id := range counts {
		candidates = append(candidates, id)
	}
	sort.Slice(candidates, func(i, j int) bool {
		if counts[candidates[i]] != counts[candidates[j]] {
			return counts[candidates[i]] > counts[candidates[j]]
		}
		return candidates[i].Hex() < candidates[j].Hex()
	})
	if len(candidates) > maxRecommendations {
		candidates = candidates[:maxRecommendations]
	}

	resolved, err := s.users.GetUsersByIDs(ctx, candidates)
	if err != nil {
		return nil, err
	}
	names := make(map[primitive.ObjectID]string, len(resolved))
	for _, u := range resolved {
		names[u.ID] = u.Username
	}

	recommendations := make([]models.Recommendation, 0, len(candidates))
	for _, id := range candidates {
		recommendations = append(recommendations, models.Recommendation{
			ID:            id,
			Username:      names[id],
			MutualFriends: counts[id],
		})
	}

	if s.cache != nil {
		s.cache.Set(ctx, userID, recommendations)
	}
	return recommendations, nil
}
