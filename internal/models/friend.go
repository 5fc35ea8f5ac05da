package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Friend request lifecycle statuses. A request starts pending and moves to
// exactly one of the terminal statuses; there is no way back.
const (
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusRejected = "rejected"
)

// FriendRequest is a directed offer of friendship from sender to recipient.
// At most one record may exist per (sender, recipient) pair regardless of
// status; the reverse direction is a separate record.
type FriendRequest struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SenderID    primitive.ObjectID `bson:"sender_id" json:"sender_id"`
	RecipientID primitive.ObjectID `bson:"recipient_id" json:"recipient_id"`
	Status      string             `bson:"status" json:"status"`
	CreatedAt   time.Time          `bson:"created_at" json:"created_at"`
}

// PendingRequest is an inbox entry: a pending request enriched with the
// sender's display name.
type PendingRequest struct {
	RequestID  primitive.ObjectID `json:"request_id"`
	SenderID   primitive.ObjectID `json:"sender_id"`
	SenderName string             `json:"sender_name"`
}

// Recommendation is a friends-of-friends candidate with the number of the
// caller's friends who also count the candidate as a friend.
type Recommendation struct {
	ID            primitive.ObjectID `json:"id"`
	Username      string             `json:"username"`
	MutualFriends int                `json:"mutual_friends"`
}
