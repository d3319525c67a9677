// Package sessions stores workout completion logs in the
// users/<id>/session_logs sub-collection.
package sessions

import (
	"context"

	"github.com/dmitrijs2005/fitplan/internal/server/models"
)

const SubCollection = "session_logs"

type Repository interface {
	Save(ctx context.Context, log *models.SessionLog) (string, error)
	// ListForOwner returns the logs of userID, narrowed to planID when set.
	ListForOwner(ctx context.Context, userID, planID string) ([]*models.SessionLog, error)
	GetByID(ctx context.Context, userID, id string) (*models.SessionLog, error)
}
