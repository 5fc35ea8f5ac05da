package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Dias221467/Social_Circle/internal/apperrors"
)

// respondError maps a service error kind to an HTTP status. Unrecognized
// errors become a generic 500 so storage details never reach the client.
func respondError(w http.ResponseWriter, err error) {
	var status int
	var message string

	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		status, message = http.StatusNotFound, "Not found"
	case errors.Is(err, apperrors.ErrDuplicateRequest):
		status, message = http.StatusBadRequest, "Friend request already sent"
	case errors.Is(err, apperrors.ErrAlreadyFriends):
		status, message = http.StatusBadRequest, "Already friends"
	case errors.Is(err, apperrors.ErrSelfRequest):
		status, message = http.StatusBadRequest, "Cannot send a friend request to yourself"
	case errors.Is(err, apperrors.ErrInvalidTransition):
		status, message = http.StatusBadRequest, "Request already processed"
	case errors.Is(err, apperrors.ErrUnauthorized):
		status, message = http.StatusUnauthorized, "Invalid credentials"
	case errors.Is(err, apperrors.ErrStorageUnavailable):
		status, message = http.StatusServiceUnavailable, "Service temporarily unavailable"
	default:
		status, message = http.StatusInternalServerError, "Something went wrong"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"message": message})
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
