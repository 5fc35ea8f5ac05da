package services

import (
	"context"

	"github.com/Dias221467/Social_Circle/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserStore is the user-directory surface the services depend on,
// implemented by repository.UserRepository.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	SearchUsers(ctx context.Context, callerID primitive.ObjectID, query string) ([]models.PublicUser, error)
	AddFriendEdge(ctx context.Context, a, b primitive.ObjectID) error
	RemoveFriendEdge(ctx context.Context, a, b primitive.ObjectID) error
	GetFriendIDs(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error)
	GetUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
}

// RequestStore is the friend-request surface the services depend on,
// implemented by repository.FriendRepository.
type RequestStore interface {
	CreateRequest(ctx context.Context, senderID, recipientID primitive.ObjectID) (*models.FriendRequest, error)
	GetRequestByID(ctx context.Context, id primitive.ObjectID) (*models.FriendRequest, error)
	GetPendingByRecipient(ctx context.Context, recipientID primitive.ObjectID) ([]models.FriendRequest, error)
	UpdateRequestStatus(ctx context.Context, id primitive.ObjectID, status string) error
	RevertRequestStatus(ctx context.Context, id primitive.ObjectID) error
	DeleteRequestsBetween(ctx context.Context, a, b primitive.ObjectID) error
}

// RecommendationCache caches computed recommendation lists per user. A nil
// cache disables caching; failures inside an implementation must degrade to
// a miss, never to an error.
type RecommendationCache interface {
	Get(ctx context.Context, userID primitive.ObjectID) ([]models.Recommendation, bool)
	Set(ctx context.Context, userID primitive.ObjectID, recs []models.Recommendation)
	Invalidate(ctx context.Context, userIDs ...primitive.ObjectID)
}
