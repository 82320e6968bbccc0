package repository

import (
	"context"
	"errors"

	"holidaytracker/internal/model"
)

var (
	// ErrNotFound is returned when no record matches the lookup, including
	// holidays that exist but belong to another user.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique constraint (user email) is violated.
	ErrDuplicate = errors.New("duplicate record")
	// ErrOwnerNotFound is returned when a holiday names a user that does not exist.
	ErrOwnerNotFound = errors.New("owner not found")
)

// UserRepository defines persistence operations.
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id uint) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}

// HolidayRepository defines owner-scoped holiday persistence. Every lookup and
// write is filtered by user id.
type HolidayRepository interface {
	Create(ctx context.Context, holiday *model.Holiday) error
	ListByUser(ctx context.Context, userID uint) ([]model.Holiday, error)
	FindByIDAndUser(ctx context.Context, id, userID uint) (*model.Holiday, error)
	Update(ctx context.Context, holiday *model.Holiday) error
	Delete(ctx context.Context, id, userID uint) error
}
