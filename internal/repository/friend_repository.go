package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Dias221467/Social_Circle/internal/apperrors"
	"github.com/Dias221467/Social_Circle/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// FriendRepository stores directed friend-request records in the
// friend_requests collection.
type FriendRepository struct {
	collection *mongo.Collection
}

// NewFriendRepository creates a new instance of FriendRepository.
func NewFriendRepository(db *mongo.Database) *FriendRepository {
	return &FriendRepository{
		collection: db.Collection("friend_requests"),
	}
}

// EnsureIndexes creates the unique (sender_id, recipient_id) index. The
// index is what makes two concurrent sends of the same request collapse to
// one stored record; the check in the service is only a fast path.
func (r *FriendRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "sender_id", Value: 1},
			{Key: "recipient_id", Value: 1},
		},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create friend request index: %w", err)
	}
	return nil
}

// CreateRequest inserts a new pending request. Returns ErrDuplicateRequest
// when a record for this directed pair already exists in any status.
func (r *FriendRepository) CreateRequest(ctx context.Context, senderID, recipientID primitive.ObjectID) (*models.FriendRequest, error) {
	req := &models.FriendRequest{
		SenderID:    senderID,
		RecipientID: recipientID,
		Status:      models.StatusPending,
		CreatedAt:   time.Now(),
	}

	result, err := r.collection.InsertOne(ctx, req)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, fmt.Errorf("request %s->%s: %w", senderID.Hex(), recipientID.Hex(), apperrors.ErrDuplicateRequest)
		}
		return nil, fmt.Errorf("failed to create friend request: %w", apperrors.ErrStorageUnavailable)
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("failed to cast inserted ID")
	}
	req.ID = insertedID

	return req, nil
}

// GetRequestByID retrieves a single request record.
func (r *FriendRepository) GetRequestByID(ctx context.Context, id primitive.ObjectID) (*models.FriendRequest, error) {
	var request models.FriendRequest
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&request)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, fmt.Errorf("friend request %s: %w", id.Hex(), apperrors.ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find friend request: %w", apperrors.ErrStorageUnavailable)
	}
	return &request, nil
}

// GetPendingByRecipient returns all pending requests addressed to a user.
func (r *FriendRepository) GetPendingByRecipient(ctx context.Context, recipientID primitive.ObjectID) ([]models.FriendRequest, error) {
	filter := bson.M{"recipient_id": recipientID, "status": models.StatusPending}
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find friend requests: %w", apperrors.ErrStorageUnavailable)
	}
	defer cursor.Close(ctx)

	var requests []models.FriendRequest
	for cursor.Next(ctx) {
		var req models.FriendRequest
		if err := cursor.Decode(&req); err != nil {
			return nil, fmt.Errorf("failed to decode friend request: %w", err)
		}
		requests = append(requests, req)
	}

	return requests, nil
}

// UpdateRequestStatus moves a request out of pending. The filter matches on
// the current pending status, so of any number of concurrent responders
// exactly one wins; the rest get ErrInvalidTransition. Terminal statuses are
// never overwritten.
func (r *FriendRepository) UpdateRequestStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	result, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.StatusPending},
		bson.M{"$set": bson.M{"status": status}},
	)
	if err != nil {
		return fmt.Errorf("failed to update request status: %w", apperrors.ErrStorageUnavailable)
	}
	if result.MatchedCount == 0 {
		return fmt.Errorf("request %s is not pending: %w", id.Hex(), apperrors.ErrInvalidTransition)
	}
	return nil
}

// RevertRequestStatus puts a request back to pending. Only used to undo a
// status flip when the accept path could not complete the edge write.
func (r *FriendRepository) RevertRequestStatus(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": models.StatusPending}},
	)
	if err != nil {
		return fmt.Errorf("failed to revert request status: %w", apperrors.ErrStorageUnavailable)
	}
	return nil
}

// DeleteRequestsBetween removes every request record between two users, in
// both directions. Clears the way for a fresh request after an unfriend.
func (r *FriendRepository) DeleteRequestsBetween(ctx context.Context, a, b primitive.ObjectID) error {
	filter := bson.M{"$or": []bson.M{
		{"sender_id": a, "recipient_id": b},
		{"sender_id": b, "recipient_id": a},
	}}

	_, err := r.collection.DeleteMany(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to delete friend requests: %w", apperrors.ErrStorageUnavailable)
	}
	return nil
}
