package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/Dias221467/Social_Circle/internal/apperrors"
	"github.com/Dias221467/Social_Circle/internal/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// -------- test fakes --------

// memUserStore is an in-memory UserStore with the same set semantics the
// Mongo repository gets from $addToSet/$pull. failEdgeWrites makes the next
// N AddFriendEdge calls fail, for exercising the accept retry path.
type memUserStore struct {
	mu             sync.Mutex
	users          map[primitive.ObjectID]*models.User
	failEdgeWrites int
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: make(map[primitive.ObjectID]*models.User)}
}

func (m *memUserStore) addUser(username string) *models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	user := &models.User{ID: primitive.NewObjectID(), Username: username}
	m.users[user.ID] = user
	return user
}

func (m *memUserStore) CreateUser(ctx context.Context, user *models.User) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == user.Username {
			return nil, fmt.Errorf("username %q already taken", user.Username)
		}
	}
	user.ID = primitive.NewObjectID()
	m.users[user.ID] = user
	return user, nil
}

func (m *memUserStore) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id.Hex(), apperrors.ErrNotFound)
	}
	copied := *user
	copied.Friends = append([]primitive.ObjectID(nil), user.Friends...)
	return &copied, nil
}

func (m *memUserStore) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, fmt.Errorf("user %q: %w", username, apperrors.ErrNotFound)
}

func (m *memUserStore) SearchUsers(ctx context.Context, callerID primitive.ObjectID, query string) ([]models.PublicUser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	results := []models.PublicUser{}
	for _, u := range m.users {
		if u.ID == callerID {
			continue
		}
		if strings.Contains(strings.ToLower(u.Username), strings.ToLower(query)) {
			results = append(results, u.Public())
		}
	}
	return results, nil
}

func (m *memUserStore) AddFriendEdge(ctx context.Context, a, b primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failEdgeWrites > 0 {
		m.failEdgeWrites--
		return fmt.Errorf("injected failure: %w", apperrors.ErrStorageUnavailable)
	}
	m.addToSet(a, b)
	m.addToSet(b, a)
	return nil
}

func (m *memUserStore) addToSet(owner, friend primitive.ObjectID) {
	user, ok := m.users[owner]
	if !ok {
		return
	}
	if !user.HasFriend(friend) {
		user.Friends = append(user.Friends, friend)
	}
}

func (m *memUserStore) RemoveFriendEdge(ctx context.Context, a, b primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pull(a, b)
	m.pull(b, a)
	return nil
}

func (m *memUserStore) pull(owner, friend primitive.ObjectID) {
	user, ok := m.users[owner]
	if !ok {
		return
	}
	kept := user.Friends[:0]
	for _, id := range user.Friends {
		if id != friend {
			kept = append(kept, id)
		}
	}
	user.Friends = kept
}

func (m *memUserStore) GetFriendIDs(ctx context.Context, userID primitive.ObjectID) ([]primitive.ObjectID, error) {
	user, err := m.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.Friends, nil
}

func (m *memUserStore) GetUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	users := []models.User{}
	for _, id := range ids {
		if u, ok := m.users[id]; ok {
			copied := *u
			copied.Friends = append([]primitive.ObjectID(nil), u.Friends...)
			users = append(users, copied)
		}
	}
	return users, nil
}

// memRequestStore mirrors the friend_requests collection including its
// unique (sender, recipient) index and the conditional status update.
type memRequestStore struct {
	mu       sync.Mutex
	requests map[primitive.ObjectID]*models.FriendRequest
}

func newMemRequestStore() *memRequestStore {
	return &memRequestStore{requests: make(map[primitive.ObjectID]*models.FriendRequest)}
}

func (m *memRequestStore) CreateRequest(ctx context.Context, senderID, recipientID primitive.ObjectID) (*models.FriendRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, req := range m.requests {
		if req.SenderID == senderID && req.RecipientID == recipientID {
			return nil, fmt.Errorf("request %s->%s: %w", senderID.Hex(), recipientID.Hex(), apperrors.ErrDuplicateRequest)
		}
	}
	req := &models.FriendRequest{
		ID:          primitive.NewObjectID(),
		SenderID:    senderID,
		RecipientID: recipientID,
		Status:      models.StatusPending,
	}
	m.requests[req.ID] = req
	copied := *req
	return &copied, nil
}

func (m *memRequestStore) GetRequestByID(ctx context.Context, id primitive.ObjectID) (*models.FriendRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	req, ok := m.requests[id]
	if !ok {
		return nil, fmt.Errorf("friend request %s: %w", id.Hex(), apperrors.ErrNotFound)
	}
	copied := *req
	return &copied, nil
}

func (m *memRequestStore) GetPendingByRecipient(ctx context.Context, recipientID primitive.ObjectID) ([]models.FriendRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var pending []models.FriendRequest
	for _, req := range m.requests {
		if req.RecipientID == recipientID && req.Status == models.StatusPending {
			pending = append(pending, *req)
		}
	}
	return pending, nil
}

func (m *memRequestStore) UpdateRequestStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	req, ok := m.requests[id]
	if !ok || req.Status != models.StatusPending {
		return fmt.Errorf("request %s is not pending: %w", id.Hex(), apperrors.ErrInvalidTransition)
	}
	req.Status = status
	return nil
}

func (m *memRequestStore) RevertRequestStatus(ctx context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if req, ok := m.requests[id]; ok {
		req.Status = models.StatusPending
	}
	return nil
}

func (m *memRequestStore) countBetween(a, b primitive.ObjectID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, req := range m.requests {
		if (req.SenderID == a && req.RecipientID == b) || (req.SenderID == b && req.RecipientID == a) {
			n++
		}
	}
	return n
}

func (m *memRequestStore) DeleteRequestsBetween(ctx context.Context, a, b primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, req := range m.requests {
		if (req.SenderID == a && req.RecipientID == b) || (req.SenderID == b && req.RecipientID == a) {
			delete(m.requests, id)
		}
	}
	return nil
}

// memCache records cache traffic for assertions.
type memCache struct {
	mu          sync.Mutex
	entries     map[primitive.ObjectID][]models.Recommendation
	invalidated []primitive.ObjectID
}

func newMemCache() *memCache {
	return &memCache{entries: make(map[primitive.ObjectID][]models.Recommendation)}
}

func (c *memCache) Get(ctx context.Context, userID primitive.ObjectID) ([]models.Recommendation, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	recs, ok := c.entries[userID]
	return recs, ok
}

func (c *memCache) Set(ctx context.Context, userID primitive.ObjectID, recs []models.Recommendation) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[userID] = recs
}

func (c *memCache) Invalidate(ctx context.Context, userIDs ...primitive.ObjectID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range userIDs {
		delete(c.entries, id)
		c.invalidated = append(c.invalidated, id)
	}
}
