// Package users stores user accounts in the root "users" collection.
package users

import (
	"context"

	"github.com/dmitrijs2005/fitplan/internal/server/models"
)

// Collection is the document-store collection holding users. Goals, plans
// and session logs live in sub-collections of each user document.
const Collection = "users"

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
}
