package repository

import (
	"context"

	"tourapi/internal/model"
)

// UserRepository defines persistence for user records.
type UserRepository interface {
	// Create inserts a new user row and returns the stored record.
	Create(ctx context.Context, u *model.User) (*model.User, error)

	// FindByID returns a user by ID.
	FindByID(ctx context.Context, id string) (*model.User, error)
}
