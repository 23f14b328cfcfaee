// Package users maps account records onto the users collection of the
// document store.
package users

import (
	"context"

	"github.com/dmitrijs2005/socialnet/internal/server/models"
)

// Criteria selects users by exact field values. Zero fields are ignored, so
// the zero Criteria selects every user.
type Criteria struct {
	Email        string
	PasswordHash string
}

// Result is the outcome of an asynchronous lookup.
type Result struct {
	Users []*models.User
	Err   error
}

type Repository interface {
	InsertUser(ctx context.Context, user *models.User) (string, error)
	GetUsers(ctx context.Context, criteria Criteria) ([]*models.User, error)
	GetUsersAsync(ctx context.Context, criteria Criteria) <-chan Result
	ListVisibleUsers(ctx context.Context, currentEmail string) ([]*models.User, error)
}
