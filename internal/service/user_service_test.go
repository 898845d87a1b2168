package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/taskwise/taskwise-api/internal/domain"
	"github.com/taskwise/taskwise-api/internal/store"
)

type mockUserStore struct {
	t *testing.T

	createFn     func(ctx context.Context, user *domain.User) error
	getByIDFn    func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	getByEmailFn func(ctx context.Context, email string) (*domain.User, error)
}

func (m *mockUserStore) Create(ctx context.Context, user *domain.User) error {
	if m.createFn == nil {
		m.t.Fatal("unexpected call to Create")
	}
	return m.createFn(ctx, user)
}

func (m *mockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	if m.getByIDFn == nil {
		m.t.Fatal("unexpected call to GetByID")
	}
	return m.getByIDFn(ctx, id)
}

func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.getByEmailFn == nil {
		m.t.Fatal("unexpected call to GetByEmail")
	}
	return m.getByEmailFn(ctx, email)
}

func TestUserServiceRegister(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	var created *domain.User
	userStore := &mockUserStore{
		t: t,
		createFn: func(ctx context.Context, user *domain.User) error {
			created = user
			return nil
		},
	}
	svc := NewUserService(userStore, nil)

	user, err := svc.Register(ctx, "owner@example.com", "a long enough password")
	require.NoError(t, err)
	require.NotNil(t, created)

	assert.Equal(t, "owner@example.com", user.Email)
	assert.Empty(t, user.Password, "plaintext password must be cleared before storage")
	require.NotEmpty(t, user.HashedPassword)
	assert.NoError(t, bcrypt.CompareHashAndPassword(
		[]byte(user.HashedPassword), []byte("a long enough password")))
}

func TestUserServiceRegister_InvalidEmail(t *testing.T) {
	t.Parallel()

	svc := NewUserService(&mockUserStore{t: t}, nil)

	_, err := svc.Register(context.Background(), "not-an-email", "a long enough password")
	assert.ErrorIs(t, err, domain.ErrInvalidEmail)
}

func TestUserServiceEnsureUser_ExistingUser(t *testing.T) {
	t.Parallel()

	existing := &domain.User{ID: uuid.New(), Email: "owner@example.com", HashedPassword: "hash"}
	userStore := &mockUserStore{
		t: t,
		getByEmailFn: func(ctx context.Context, email string) (*domain.User, error) {
			return existing, nil
		},
	}
	svc := NewUserService(userStore, nil)

	user, err := svc.EnsureUser(context.Background(), "owner@example.com", "a long enough password")
	require.NoError(t, err)
	assert.Equal(t, existing, user)
}

func TestUserServiceEnsureUser_RegistersMissingUser(t *testing.T) {
	t.Parallel()

	var created *domain.User
	userStore := &mockUserStore{
		t: t,
		getByEmailFn: func(ctx context.Context, email string) (*domain.User, error) {
			return nil, store.ErrUserNotFound
		},
		createFn: func(ctx context.Context, user *domain.User) error {
			created = user
			return nil
		},
	}
	svc := NewUserService(userStore, nil)

	user, err := svc.EnsureUser(context.Background(), "owner@example.com", "a long enough password")
	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, created.ID, user.ID)
}

func TestUserServiceEnsureUser_LostRegistrationRace(t *testing.T) {
	t.Parallel()

	winner := &domain.User{ID: uuid.New(), Email: "owner@example.com", HashedPassword: "hash"}
	firstLookup := true
	userStore := &mockUserStore{
		t: t,
		getByEmailFn: func(ctx context.Context, email string) (*domain.User, error) {
			if firstLookup {
				firstLookup = false
				return nil, store.ErrUserNotFound
			}
			return winner, nil
		},
		createFn: func(ctx context.Context, user *domain.User) error {
			return store.ErrEmailExists
		},
	}
	svc := NewUserService(userStore, nil)

	user, err := svc.EnsureUser(context.Background(), "owner@example.com", "a long enough password")
	require.NoError(t, err)
	assert.Equal(t, winner, user)
}
