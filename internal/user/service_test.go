package user

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) Create(ctx context.Context, email, passwordHash string) (User, error) {
	args := m.Called(ctx, email, passwordHash)
	return args.Get(0).(User), args.Error(1)
}

func (m *mockRepository) GetByEmail(ctx context.Context, email string) (User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(User), args.Error(1)
}

func (m *mockRepository) GetByID(ctx context.Context, id int64) (User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(User), args.Error(1)
}

func TestService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		repo := new(mockRepository)
		repo.On("GetByEmail", ctx, "alice@example.com").Return(User{}, ErrNotFound)
		repo.On("Create", ctx, "alice@example.com", "hash").Return(User{ID: 1, Email: "alice@example.com"}, nil)

		u, err := NewService(repo).Register(ctx, "  alice@example.com ", "hash")
		require.NoError(t, err)
		assert.Equal(t, int64(1), u.ID)
		repo.AssertExpectations(t)
	})

	t.Run("email taken", func(t *testing.T) {
		repo := new(mockRepository)
		repo.On("GetByEmail", ctx, "Alice@example.com").Return(User{ID: 1}, nil)

		_, err := NewService(repo).Register(ctx, "Alice@example.com", "hash")
		assert.ErrorIs(t, err, ErrAlreadyExists)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("lost insert race", func(t *testing.T) {
		repo := new(mockRepository)
		repo.On("GetByEmail", ctx, "bob@example.com").Return(User{}, ErrNotFound)
		repo.On("Create", ctx, "bob@example.com", "hash").Return(User{}, ErrAlreadyExists)

		_, err := NewService(repo).Register(ctx, "bob@example.com", "hash")
		assert.ErrorIs(t, err, ErrAlreadyExists)
	})

	t.Run("lookup failure", func(t *testing.T) {
		repo := new(mockRepository)
		boom := errors.New("connection reset")
		repo.On("GetByEmail", ctx, "bob@example.com").Return(User{}, boom)

		_, err := NewService(repo).Register(ctx, "bob@example.com", "hash")
		assert.ErrorIs(t, err, boom)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestService_GetByEmail_Trims(t *testing.T) {
	ctx := context.Background()
	repo := new(mockRepository)
	repo.On("GetByEmail", ctx, "alice@example.com").Return(User{ID: 7}, nil)

	u, err := NewService(repo).GetByEmail(ctx, "alice@example.com\n")
	require.NoError(t, err)
	assert.Equal(t, int64(7), u.ID)
}
