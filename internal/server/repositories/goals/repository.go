// Package goals stores per-user goals in the users/<id>/goals sub-collection.
package goals

import (
	"context"

	"github.com/dmitrijs2005/fitplan/internal/server/models"
)

const SubCollection = "goals"

type Repository interface {
	Save(ctx context.Context, goal *models.Goal) (string, error)
	ListForOwner(ctx context.Context, userID string) ([]*models.Goal, error)
	GetByID(ctx context.Context, userID, id string) (*models.Goal, error)
}
