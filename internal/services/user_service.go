package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/Dias221467/Social_Circle/internal/apperrors"
	"github.com/Dias221467/Social_Circle/internal/models"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserService is the identity provider: registration, credential
// verification and account lookup. Everything else in the system only sees
// the resolved caller ID.
type UserService struct {
	users UserStore
}

// NewUserService creates a new instance of UserService.
func NewUserService(users UserStore) *UserService {
	return &UserService{
		users: users,
	}
}

// RegisterUser registers a new account after hashing the password. The
// username must be unique; the directory's unique index backs the check.
func (s *UserService) RegisterUser(ctx context.Context, username, password string) (*models.User, error) {
	if username == "" || password == "" {
		return nil, fmt.Errorf("username and password are required")
	}

	if existing, _ := s.users.GetUserByUsername(ctx, username); existing != nil {
		logrus.WithField("username", username).Warn("Username already in use")
		return nil, fmt.Errorf("username %q already taken", username)
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logrus.WithError(err).Error("Password hashing failed")
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:       username,
		HashedPassword: string(hashed),
		CreatedAt:      time.Now(),
		UpdatedAt:      time.Now(),
	}

	created, err := s.users.CreateUser(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	logrus.WithField("userID", created.ID.Hex()).Info("User registered successfully")
	return created, nil
}

// AuthenticateUser verifies the username and password and returns the
// account on success. Unknown user and bad password are indistinguishable
// to the caller.
func (s *UserService) AuthenticateUser(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.users.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("invalid credentials: %w", apperrors.ErrUnauthorized)
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(password)); err != nil {
		logrus.WithField("username", username).Warn("Invalid credentials")
		return nil, fmt.Errorf("invalid credentials: %w", apperrors.ErrUnauthorized)
	}

	return user, nil
}

// GetUser retrieves a user by its hex ID.
func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	objID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid user ID: %w", apperrors.ErrNotFound)
	}
	return s.users.GetUserByID(ctx, objID)
}

// SearchUsers finds accounts whose username contains the query,
// case-insensitively, excluding the caller.
func (s *UserService) SearchUsers(ctx context.Context, callerID primitive.ObjectID, query string) ([]models.PublicUser, error) {
	return s.users.SearchUsers(ctx, callerID, query)
}
