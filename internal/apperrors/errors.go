// Package apperrors defines the error kinds the friend-graph core surfaces
// to its callers. Handlers match on these with errors.Is to pick an HTTP
// status; storage-layer details never cross this boundary.
package apperrors

import "errors"

var (
	// ErrNotFound covers unknown users and unknown friend requests, and is
	// also returned when a caller tries to act on a request addressed to
	// someone else.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateRequest means a request record for this (sender,
	// recipient) pair already exists, whatever its status.
	ErrDuplicateRequest = errors.New("friend request already exists")

	// ErrAlreadyFriends rejects a request to someone already in the
	// sender's friend set.
	ErrAlreadyFriends = errors.New("already friends")

	// ErrInvalidTransition means the targeted request is no longer pending.
	ErrInvalidTransition = errors.New("request already processed")

	// ErrSelfRequest rejects a friend request addressed to the sender.
	ErrSelfRequest = errors.New("cannot send a friend request to yourself")

	// ErrUnauthorized means the caller's identity could not be resolved or
	// the credentials did not match.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrStorageUnavailable is the generic kind for storage failures that
	// persisted after a retry. The operation is safe to retry as a whole.
	ErrStorageUnavailable = errors.New("storage unavailable")
)
