package service

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"tourapi/internal/model"
	repoMocks "tourapi/internal/repository/mocks"
)

func TestUserService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path assigns an id and timestamp", func(t *testing.T) {
		repo := new(repoMocks.MockUserRepository)
		repo.On("Create", mock.Anything, mock.MatchedBy(func(u *model.User) bool {
			return u.ID != "" && u.Name == "Asha" && u.Email == "asha@example.com" && !u.CreatedAt.IsZero()
		})).Return(&model.User{ID: "user-1", Name: "Asha", Email: "asha@example.com"}, nil).Once()

		svc := NewUserService(repo)
		u, err := svc.Create(ctx, CreateUserInput{Name: "Asha", Email: "asha@example.com"})

		require.NoError(t, err)
		assert.Equal(t, "user-1", u.ID)
		repo.AssertExpectations(t)
	})

	t.Run("rejects bad input before touching the repository", func(t *testing.T) {
		tests := []struct {
			name string
			in   CreateUserInput
		}{
			{"missing name", CreateUserInput{Email: "a@b.co"}},
			{"missing email", CreateUserInput{Name: "Asha"}},
			{"malformed email", CreateUserInput{Name: "Asha", Email: "not-an-email"}},
			{"email with spaces", CreateUserInput{Name: "Asha", Email: "a b@c.co"}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				repo := new(repoMocks.MockUserRepository)
				svc := NewUserService(repo)

				_, err := svc.Create(ctx, tt.in)

				var ve *ValidationError
				assert.ErrorAs(t, err, &ve)
				repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			})
		}
	})
}

func TestUserService_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("happy path", func(t *testing.T) {
		repo := new(repoMocks.MockUserRepository)
		repo.On("FindByID", ctx, "user-1").Return(&model.User{ID: "user-1"}, nil).Once()

		svc := NewUserService(repo)
		u, err := svc.Get(ctx, "user-1")

		require.NoError(t, err)
		assert.Equal(t, "user-1", u.ID)
	})

	t.Run("missing row maps to not found", func(t *testing.T) {
		repo := new(repoMocks.MockUserRepository)
		repo.On("FindByID", ctx, "missing").Return(nil, sql.ErrNoRows).Once()

		svc := NewUserService(repo)
		_, err := svc.Get(ctx, "missing")

		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("empty id", func(t *testing.T) {
		svc := NewUserService(new(repoMocks.MockUserRepository))

		_, err := svc.Get(ctx, "")

		assert.ErrorIs(t, err, ErrIDRequired)
	})
}
