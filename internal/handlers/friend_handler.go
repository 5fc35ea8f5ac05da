package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/Dias221467/Social_Circle/internal/services"
	"github.com/Dias221467/Social_Circle/pkg/logger"
	"github.com/Dias221467/Social_Circle/pkg/middleware"
	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// FriendHandler manages HTTP endpoints for the friend graph: requests,
// listings, removal and recommendations.
type FriendHandler struct {
	Friends         *services.FriendService
	Recommendations *services.RecommendationService
}

// NewFriendHandler initializes a new FriendHandler.
func NewFriendHandler(friends *services.FriendService, recommendations *services.RecommendationService) *FriendHandler {
	return &FriendHandler{
		Friends:         friends,
		Recommendations: recommendations,
	}
}

// callerID resolves the authenticated caller from the request context.
func callerID(r *http.Request) (primitive.ObjectID, bool) {
	claims := middleware.GetUserFromContext(r.Context())
	if claims == nil {
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}

// SendFriendRequestHandler creates a pending request to the user named in
// the body.
func (h *FriendHandler) SendFriendRequestHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		logger.Log.Warn("Unauthorized attempt to send friend request")
		return
	}

	var body struct {
		RecipientID string `json:"recipient_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	recipientID, err := primitive.ObjectIDFromHex(body.RecipientID)
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		logger.Log.Warnf("Invalid recipient ID: %v", err)
		return
	}

	request, err := h.Friends.SendFriendRequest(r.Context(), caller, recipientID)
	if err != nil {
		logger.Log.Warnf("Failed to send friend request: %v", err)
		respondError(w, err)
		return
	}

	logger.Log.Infof("User %s sent a friend request to %s", caller.Hex(), recipientID.Hex())
	respondJSON(w, http.StatusCreated, request)
}

// GetPendingRequestsHandler lists incoming pending requests with sender
// names resolved.
func (h *FriendHandler) GetPendingRequestsHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		logger.Log.Warn("Unauthorized attempt to get pending requests")
		return
	}

	requests, err := h.Friends.GetPendingRequests(r.Context(), caller)
	if err != nil {
		logger.Log.Errorf("Failed to get pending requests: %v", err)
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, requests)
}

// RespondToFriendRequestHandler accepts or rejects a pending request
// addressed to the caller.
func (h *FriendHandler) RespondToFriendRequestHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		logger.Log.Warn("Unauthorized request to respond to a friend request")
		return
	}

	vars := mux.Vars(r)
	requestID, err := primitive.ObjectIDFromHex(vars["requestId"])
	if err != nil {
		http.Error(w, "Invalid request ID", http.StatusBadRequest)
		logger.Log.Warnf("Invalid friend request ID: %v", err)
		return
	}

	var body struct {
		Action string `json:"action"` // "accept" or "reject"
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request payload", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if body.Action != "accept" && body.Action != "reject" {
		http.Error(w, "Action must be accept or reject", http.StatusBadRequest)
		return
	}

	if err := h.Friends.RespondToRequest(r.Context(), requestID, caller, body.Action == "accept"); err != nil {
		logger.Log.Warnf("Failed to respond to friend request %s: %v", requestID.Hex(), err)
		respondError(w, err)
		return
	}

	logger.Log.Infof("User %s %sed friend request %s", caller.Hex(), body.Action, requestID.Hex())
	respondJSON(w, http.StatusOK, map[string]string{
		"message": "Friend request " + body.Action + "ed",
	})
}

// GetFriendsHandler returns the caller's friend list.
func (h *FriendHandler) GetFriendsHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		logger.Log.Warn("Unauthorized attempt to get friends")
		return
	}

	friends, err := h.Friends.GetFriends(r.Context(), caller)
	if err != nil {
		logger.Log.Errorf("Failed to fetch friends for user %s: %v", caller.Hex(), err)
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, friends)
}

// RemoveFriendHandler severs a friendship and purges the requests between
// the pair.
func (h *FriendHandler) RemoveFriendHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		logger.Log.Warn("Unauthorized attempt to remove friend")
		return
	}

	vars := mux.Vars(r)
	friendID, err := primitive.ObjectIDFromHex(vars["friendId"])
	if err != nil {
		http.Error(w, "Invalid user ID", http.StatusBadRequest)
		return
	}

	if err := h.Friends.RemoveFriend(r.Context(), caller, friendID); err != nil {
		logger.Log.Errorf("Failed to remove friend %s for user %s: %v", friendID.Hex(), caller.Hex(), err)
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "Friend removed"})
}

// GetRecommendationsHandler returns friends-of-friends ranked by mutual
// connections.
func (h *FriendHandler) GetRecommendationsHandler(w http.ResponseWriter, r *http.Request) {
	caller, ok := callerID(r)
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		logger.Log.Warn("Unauthorized attempt to get recommendations")
		return
	}

	recommendations, err := h.Recommendations.Recommend(r.Context(), caller)
	if err != nil {
		logger.Log.Errorf("Failed to compute recommendations for user %s: %v", caller.Hex(), err)
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, recommendations)
}
