// Package users declares the user store contract and its implementations
// for MongoDB, PostgreSQL, SQLite and process memory.
//
// Every implementation keeps email uniqueness case-insensitive by indexing
// models.EmailKey(email), and reports violations as common.ErrConflict.
package users

import (
	"context"

	"github.com/dmitrijs2005/gophauth/internal/server/models"
)

// Repository is the persistence boundary for user records.
type Repository interface {
	// FindByEmail returns the user holding email, or common.ErrorNotFound.
	FindByEmail(ctx context.Context, email string) (*models.User, error)

	// FindByID returns the user with id, or common.ErrorNotFound.
	FindByID(ctx context.Context, id string) (*models.User, error)

	// Create inserts user and returns it with ID and CreatedAt set. The ID
	// and CreatedAt of the argument are ignored.
	Create(ctx context.Context, user *models.User) (*models.User, error)

	// Update applies patch to the user with id and returns the result.
	Update(ctx context.Context, id string, patch models.UserPatch) (*models.User, error)

	// Remove deletes the user with id. Removing an absent id is
	// common.ErrorNotFound.
	Remove(ctx context.Context, id string) error

	// ListAll returns every stored user in no particular order.
	ListAll(ctx context.Context) ([]*models.User, error)
}
