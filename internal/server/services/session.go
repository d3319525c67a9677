package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/fitplan/internal/common"
	"github.com/dmitrijs2005/fitplan/internal/server/models"
	"github.com/dmitrijs2005/fitplan/internal/server/repositories/repomanager"
)

type SessionService struct {
	repomanager repomanager.RepositoryManager
}

func NewSessionService(m repomanager.RepositoryManager) *SessionService {
	return &SessionService{repomanager: m}
}

// Log records a completed or skipped workout of one of the user's plans.
func (s *SessionService) Log(ctx context.Context, userID, planID string, completed bool, notes string) (string, error) {
	if planID == "" {
		return "", fmt.Errorf("%w: plan_id is required", common.ErrValidation)
	}
	if _, err := s.repomanager.Plans().GetByID(ctx, userID, planID); err != nil {
		return "", fmt.Errorf("error loading plan: %w", err)
	}

	id, err := s.repomanager.Sessions().Save(ctx, &models.SessionLog{
		UserID:    userID,
		PlanID:    planID,
		Completed: completed,
		Notes:     notes,
	})
	if err != nil {
		return "", fmt.Errorf("error saving session log: %w", err)
	}
	return id, nil
}

func (s *SessionService) List(ctx context.Context, userID, planID string) ([]*models.SessionLog, error) {
	return s.repomanager.Sessions().ListForOwner(ctx, userID, planID)
}

func (s *SessionService) Get(ctx context.Context, userID, id string) (*models.SessionLog, error) {
	return s.repomanager.Sessions().GetByID(ctx, userID, id)
}
