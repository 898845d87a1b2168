package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/taskwise/taskwise-api/internal/domain"
	"github.com/taskwise/taskwise-api/internal/store"
	"golang.org/x/crypto/bcrypt"
)

// bcryptCost is the work factor used for password hashing.
const bcryptCost = 12

// UserService provides user-related operations.
type UserService interface {
	// Register creates a new user with a bcrypt-hashed password.
	// Returns store.ErrEmailExists if the email is already in use.
	Register(ctx context.Context, email, password string) (*domain.User, error)

	// GetByEmail retrieves a user by email.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// EnsureUser retrieves the user with the given email, registering them
	// first if they do not exist. Used at startup to resolve the default
	// task owner.
	EnsureUser(ctx context.Context, email, password string) (*domain.User, error)
}

type userService struct {
	userStore store.UserStore
	logger    *slog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(userStore store.UserStore, logger *slog.Logger) UserService {
	if logger == nil {
		logger = slog.Default()
	}
	return &userService{
		userStore: userStore,
		logger:    logger.With(slog.String("component", "user_service")),
	}
}

func (s *userService) Register(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := domain.NewUser(email, password)
	if err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user.HashedPassword = string(hashed)
	user.Password = "" // plaintext is never stored or kept around

	if err := s.userStore.Create(ctx, user); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "user registered", "user_id", user.ID.String())
	return user, nil
}

func (s *userService) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.userStore.GetByEmail(ctx, email)
}

func (s *userService) EnsureUser(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.userStore.GetByEmail(ctx, email)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, store.ErrUserNotFound) {
		return nil, err
	}

	user, err = s.Register(ctx, email, password)
	if err != nil {
		// Lost a race with a concurrent startup; read the winner's row
		if errors.Is(err, store.ErrEmailExists) {
			return s.userStore.GetByEmail(ctx, email)
		}
		return nil, err
	}
	return user, nil
}
