// Package cache provides a Redis-backed cache for recommendation results.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Dias221467/Social_Circle/internal/config"
	"github.com/Dias221467/Social_Circle/internal/models"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RecommendationCache stores computed recommendation lists keyed by user ID
// with a TTL. Friend-set mutations invalidate both parties, so a hit is
// never older than the last edge change for that user. Any Redis failure is
// logged and treated as a miss.
type RecommendationCache struct {
	client *redis.Client
	ttl    time.Duration
}

// Connect dials Redis per the config and returns the cache. Returns an
// error when the server cannot be reached, so the caller can decide to run
// without caching.
func Connect(cfg *config.Config) (*RecommendationCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
		DB:   cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", cfg.RedisAddr, err)
	}

	return &RecommendationCache{client: client, ttl: cfg.RecoCacheTTL}, nil
}

// Close releases the underlying client.
func (c *RecommendationCache) Close() error {
	return c.client.Close()
}

func key(userID primitive.ObjectID) string {
	return "recommendations:" + userID.Hex()
}

// Get returns the cached list for a user, or a miss.
func (c *RecommendationCache) Get(ctx context.Context, userID primitive.ObjectID) ([]models.Recommendation, bool) {
	data, err := c.client.Get(ctx, key(userID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			logrus.WithError(err).Warn("Recommendation cache read failed")
		}
		return nil, false
	}

	var recs []models.Recommendation
	if err := json.Unmarshal(data, &recs); err != nil {
		logrus.WithError(err).Warn("Failed to decode cached recommendations")
		return nil, false
	}
	return recs, true
}

// Set stores the list for a user with the configured TTL.
func (c *RecommendationCache) Set(ctx context.Context, userID primitive.ObjectID, recs []models.Recommendation) {
	data, err := json.Marshal(recs)
	if err != nil {
		logrus.WithError(err).Warn("Failed to encode recommendations for cache")
		return
	}
	if err := c.client.Set(ctx, key(userID), data, c.ttl).Err(); err != nil {
		logrus.WithError(err).Warn("Recommendation cache write failed")
	}
}

// Invalidate drops the cached lists for the given users.
func (c *RecommendationCache) Invalidate(ctx context.Context, userIDs ...primitive.ObjectID) {
	if len(userIDs) == 0 {
		return
	}
	keys := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		keys = append(keys, key(id))
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		logrus.WithError(err).Warn("Recommendation cache invalidation failed")
	}
}
