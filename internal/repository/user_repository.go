package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/Dias221467/Social_Circle/internal/apperrors"
	"github.com/Dias221467/Social_Circle/internal/models"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// UserRepository is the user directory: accounts plus their friend-edge
// sets, backed by the users collection.
type UserRepository struct {
	collection *mongo.Collection
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *mongo.Database) *UserRepository {
	return &UserRepository{
		collection: db.Collection("users"),
	}
}

// EnsureIndexes creates the unique username index. Run once at startup.
func (r *UserRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "username", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create username index: %w", err)
	}
	return nil
}

// CreateUser inserts a new user. The unique index turns a concurrent
// registration of the same username into a duplicate-key error.
func (r *UserRepository) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()

	result, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("username %q already taken", user.Username)
		}
		logrus.WithError(err).Error("Failed to insert user into database")
		return nil, fmt.Errorf("failed to insert user: %w", apperrors.ErrStorageUnavailable)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("failed to cast inserted ID")
	}
	user.ID = insertedID

	logrus.WithField("userID", user.ID.Hex()).Info("User inserted successfully")
	return user, nil
}

// GetUserByID retrieves a user by their ID.
func (r *UserRepository) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("user %s: %w", id.Hex(), apperrors.ErrNotFound)
		}
		logrus.WithFields(logrus.Fields{
			"userID": id.Hex(),
			"error":  err,
		}).Warn("Failed to find user by ID")
		return nil, fmt.Errorf("failed to find user by id: %w", apperrors.ErrStorageUnavailable)
	}
	return &user, nil
}

// GetUserByUsername retrieves a user by exact username.
func (r *UserRepository) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	err := r.collection.FindOne(ctx, bson.M{"username": username}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("user %q: %w", username, apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find user by username: %w", apperrors.ErrStorageUnavailable)
	}
	return &user, nil
}

// SearchUsers performs a case-insensitive substring match on usernames,
// excluding the caller. Only id and username are projected; the credential
// hash never leaves the directory.
func (r *UserRepository) SearchUsers(ctx context.Context, callerID primitive.ObjectID, query string) ([]models.PublicUser, error) {
	filter := bson.M{
		"username": primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"},
		"_id":      bson.M{"$ne": callerID},
	}
	opts := options.Find().SetProjection(bson.M{"username": 1})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", apperrors.ErrStorageUnavailable)
	}
	defer cursor.Close(ctx)

	results := []models.PublicUser{}
	for cursor.Next(ctx) {
		var user models.User
		if err := cursor.Decode(&user); err != nil {
			return nil, fmt.Errorf("failed to decode user: %w", err)
		}
		results = append(results, user.Public())
	}

	return results, nil
}

// AddFriendEdge adds b to a's friend set and a to b's. $addToSet makes each
// side idempotent, so concurrent calls for the same pair converge.
func (r *UserRepository) AddFriendEdge(ctx context.Context, a, b primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": a},
		bson.M{"$addToSet": bson.M{"friends": b}},
	)
	if err != nil {
		return fmt.Errorf("failed to add friend to user %s: %w", a.Hex(), apperrors.ErrStorageUnavailable)
	}

	_, err = r.collection.UpdateOne(ctx,
		bson.M{"_id": b},
		bson.M{"$addToSet": bson.M{"friends": a}},
	)
	if err != nil {
		return fmt.Errorf("failed to add friend to user %s: %w", b.Hex(), apperrors.ErrStorageUnavailable)
	}

	return nil
}

// RemoveFriendEdge removes the symmetric edge between a and b. A no-op when
// the pair is not friends.
func (r *UserRepository) RemoveFriendEdge(ctx context.Context, a, b primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": a},
		bson.M{"$pull": bson.M{"friends": b}},
	)
	if err != nil {
		return fmt.Errorf("failed to remove friend from user %s: %w", a.Hex(), apperrors.ErrStorageUnavailable)
	}

	_, err = r.collection.UpdateOne(ctx,
		bson.M{"_id": b},
		bson.M{"$pull": bson.M{"friends": a}},
	)
	if err != nil {
		return fmt.Errorf("failed to remove friend from user %s: %w", b.Hex(), apperrors.ErrStorageUnavailable)
	}

	return nil
}

// GetFriendIDs returns the friend set of a user.
func (r *UserRepository) GetFriendIDs(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error) {
	user, err := r.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.Friends, nil
}

// GetUsersByIDs batch-fetches users for a list of IDs. Used to resolve
// friend lists, pending-request senders and recommendation candidates in a
// single round trip.
func (r *UserRepository) GetUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	if len(ids) == 0 {
		return []models.User{}, nil
	}

	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch users by IDs: %w", apperrors.ErrStorageUnavailable)
	}
	defer cursor.Close(ctx)

	var users []models.User
	for cursor.Next(ctx) {
		var user models.User
		if err := cursor.Decode(&user); err != nil {
			return nil, fmt.Errorf("failed to decode user: %w", err)
		}
		users = append(users, user)
	}

	return users, nil
}
