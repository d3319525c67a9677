// Package plans stores generated workout plans in the users/<id>/workout_plans
// sub-collection.
package plans

import (
	"context"

	"github.com/dmitrijs2005/fitplan/internal/server/models"
)

const SubCollection = "workout_plans"

type Repository interface {
	Save(ctx context.Context, plan *models.WorkoutPlan) (string, error)
	// ListForOwner returns every plan of userID, or only those linked to
	// goalID when it is not empty.
	ListForOwner(ctx context.Context, userID, goalID string) ([]*models.WorkoutPlan, error)
	GetByID(ctx context.Context, userID, id string) (*models.WorkoutPlan, error)
}
