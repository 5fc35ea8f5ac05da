package services

import (
	"context"
	"fmt"

	"github.com/Dias221467/Social_Circle/internal/apperrors"
	"github.com/Dias221467/Social_Circle/internal/models"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FriendService is the single mutator of friendship edges and request
// records. All state transitions of the request lifecycle go through here.
type FriendService struct {
	users    UserStore
	requests RequestStore
	cache    RecommendationCache
}

// NewFriendService creates a new FriendService. cache may be nil.
func NewFriendService(users UserStore, requests RequestStore, cache RecommendationCache) *FriendService {
	return &FriendService{
		users:    users,
		requests: requests,
		cache:    cache,
	}
}

// SendFriendRequest creates a new pending request from sender to recipient.
// The duplicate check is ultimately the store's unique index on the directed
// pair, so two concurrent sends cannot both succeed.
func (s *FriendService) SendFriendRequest(ctx context.Context, senderID, recipientID primitive.ObjectID) (*models.FriendRequest, error) {
	if senderID == recipientID {
		return nil, apperrors.ErrSelfRequest
	}

	if _, err := s.users.GetUserByID(ctx, recipientID); err != nil {
		return nil, fmt.Errorf("recipient: %w", err)
	}

	sender, err := s.users.GetUserByID(ctx, senderID)
	if err != nil {
		return nil, fmt.Errorf("sender: %w", err)
	}
	if sender.HasFriend(recipientID) {
		return nil, fmt.Errorf("user %s: %w", recipientID.Hex(), apperrors.ErrAlreadyFriends)
	}

	request, err := s.requests.CreateRequest(ctx, senderID, recipientID)
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"sender":    senderID.Hex(),
		"recipient": recipientID.Hex(),
	}).Info("Friend request sent")
	return request, nil
}

// GetPendingRequests lists the caller's inbox, each entry resolved to the
// sender's display name via one batch fetch.
func (s *FriendService) GetPendingRequests(ctx context.Context, recipientID primitive.ObjectID) ([]models.PendingRequest, error) {
	requests, err := s.requests.GetPendingByRecipient(ctx, recipientID)
	if err != nil {
		return nil, err
	}
	if len(requests) == 0 {
		return []models.PendingRequest{}, nil
	}

	senderIDs := make([]primitive.ObjectID, 0, len(requests))
	for _, req := range requests {
		senderIDs = append(senderIDs, req.SenderID)
	}

	senders, err := s.users.GetUsersByIDs(ctx, senderIDs)
	if err != nil {
		return nil, err
	}
	names := make(map[primitive.ObjectID]string, len(senders))
	for _, u := range senders {
		names[u.ID] = u.Username
	}

	pending := make([]models.PendingRequest, 0, len(requests))
	for _, req := range requests {
		pending = append(pending, models.PendingRequest{
			RequestID:  req.ID,
			SenderID:   req.SenderID,
			SenderName: names[req.SenderID],
		})
	}

	return pending, nil
}

// RespondToRequest accepts or rejects a pending request addressed to the
// caller. The conditional pending->terminal status flip in the store is the
// serialization point: with concurrent responders exactly one wins. On
// accept the symmetric edge is written after the flip, retried once; if the
// edge still cannot be written the flip is reverted so the whole operation
// can be retried. During that revert window a concurrent responder may see
// ErrInvalidTransition for a request that ends up pending again; it can
// retry once the losing accept has surfaced ErrStorageUnavailable.
func (s *FriendService) RespondToRequest(ctx context.Context, requestID, callerID primitive.ObjectID, accept bool) error {
	request, err := s.requests.GetRequestByID(ctx, requestID)
	if err != nil {
		return err
	}
	if request.RecipientID != callerID {
		// Not the addressee; indistinguishable from a missing request.
		return fmt.Errorf("request %s: %w", requestID.Hex(), apperrors.ErrNotFound)
	}

	status := models.StatusRejected
	if accept {
		status = models.StatusAccepted
	}

	if err := s.requests.UpdateRequestStatus(ctx, requestID, status); err != nil {
		return err
	}

	if accept {
		if err := s.users.AddFriendEdge(ctx, request.SenderID, request.RecipientID); err != nil {
			logrus.WithError(err).Warn("Edge write failed after accept, retrying once")
			if err := s.users.AddFriendEdge(ctx, request.SenderID, request.RecipientID); err != nil {
				if revertErr := s.requests.RevertRequestStatus(ctx, requestID); revertErr != nil {
					logrus.WithError(revertErr).Error("Failed to revert request status after edge failure")
				}
				return fmt.Errorf("failed to add friend edge: %w", apperrors.ErrStorageUnavailable)
			}
		}
		s.invalidate(ctx, request.SenderID, request.RecipientID)
	}

	logrus.WithFields(logrus.Fields{
		"request": requestID.Hex(),
		"status":  status,
	}).Info("Friend request resolved")
	return nil
}

// GetFriends resolves the caller's friend set to public user views.
func (s *FriendService) GetFriends(ctx context.Context, userID primitive.ObjectID) ([]models.PublicUser, error) {
	friendIDs, err := s.users.GetFriendIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(friendIDs) == 0 {
		return []models.PublicUser{}, nil
	}

	users, err := s.users.GetUsersByIDs(ctx, friendIDs)
	if err != nil {
		return nil, err
	}

	friends := make([]models.PublicUser, 0, len(users))
	for _, user := range users {
		friends = append(friends, user.Public())
	}

	return friends, nil
}

// RemoveFriend severs the symmetric edge and purges every request record
// between the pair, in both directions, so a fresh request can follow.
// Idempotent: removing a non-friend is a no-op.
func (s *FriendService) RemoveFriend(ctx context.Context, userID, friendID primitive.ObjectID) error {
	if err := s.users.RemoveFriendEdge(ctx, userID, friendID); err != nil {
		return err
	}
	if err := s.requests.DeleteRequestsBetween(ctx, userID, friendID); err != nil {
		return err
	}

	s.invalidate(ctx, userID, friendID)

	logrus.WithFields(logrus.Fields{
		"user":   userID.Hex(),
		"friend": friendID.Hex(),
	}).Info("Friend removed")
	return nil
}

func (s *FriendService) invalidate(ctx context.Context, userIDs ...primitive.ObjectID) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, userIDs...)
	}
}
