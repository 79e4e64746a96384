package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Enejivk/cleary-chat-Backend/internal/index"
	"github.com/Enejivk/cleary-chat-Backend/internal/model"
	"github.com/Enejivk/cleary-chat-Backend/internal/pkg/jwt"
	"github.com/Enejivk/cleary-chat-Backend/internal/repository"
)

// RegisterInput carries the self-service signup form.
type RegisterInput struct {
	Email           string `json:"email" binding:"required,email"`
	Password        string `json:"password" binding:"required,min=8"`
	ConfirmPassword string `json:"confirm_password" binding:"required"`
	Name            string `json:"name" binding:"required"`
}

// TokenResponse is what a successful login returns.
type TokenResponse struct {
	AccessToken string      `json:"access_token"`
	TokenType   string      `json:"token_type"`
	ExpiresIn   int         `json:"expires_in"`
	User        *model.User `json:"user"`
}

// AuthService handles registration, login and account lifecycle.
type AuthService struct {
	users      *repository.UserRepository
	jwtManager *jwt.Manager
	idx        index.Index
	collection string
	logger     *slog.Logger
}

func NewAuthService(users *repository.UserRepository, jwtManager *jwt.Manager, idx index.Index, collection string) *AuthService {
	return &AuthService{
		users:      users,
		jwtManager: jwtManager,
		idx:        idx,
		collection: collection,
		logger:     slog.Default().With("component", "auth"),
	}
}

// Register creates a new account. The email must be unused and the two
// password fields must match.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*model.User, error) {
	if input.Password != input.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}

	if _, err := s.users.FindByEmail(ctx, input.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("check email: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		Email:        input.Email,
		PasswordHash: string(hash),
		Name:         input.Name,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info("user registered", "user_id", user.ID, "email", user.Email)
	return user, nil
}

// Login checks the credentials and issues an access token. Wrong email and
// wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*TokenResponse, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, err := s.jwtManager.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int(s.jwtManager.AccessTokenTTL().Seconds()),
		User:        user,
	}, nil
}

func (s *AuthService) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	return user, err
}

// UpdateProfile changes name and bio; empty fields are left as they are.
func (s *AuthService) UpdateProfile(ctx context.Context, userID uuid.UUID, name, bio string) (*model.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if name != "" {
		user.Name = name
	}
	if bio != "" {
		user.Bio = bio
	}
	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return user, nil
}

// DeleteAccount removes the user's rows and then their indexed chunks. The
// index purge is best effort; the relational delete is the source of truth.
func (s *AuthService) DeleteAccount(ctx context.Context, userID uuid.UUID) error {
	if err := s.users.DeleteCascade(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete account: %w", err)
	}

	if err := s.idx.DeleteByUser(ctx, s.collection, userID); err != nil {
		s.logger.Warn("failed to purge user chunks", "user_id", userID, "error", err)
	}

	s.logger.Info("account deleted", "user_id", userID)
	return nil
}
