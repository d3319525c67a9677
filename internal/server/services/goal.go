package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/fitplan/internal/server/models"
	"github.com/dmitrijs2005/fitplan/internal/server/repositories/repomanager"
)

type GoalService struct {
	repomanager repomanager.RepositoryManager
}

func NewGoalService(m repomanager.RepositoryManager) *GoalService {
	return &GoalService{repomanager: m}
}

// Save stores a goal for userID. The goal context is kept as given.
func (s *GoalService) Save(ctx context.Context, userID, goalText string, goalContext map[string]any) (string, error) {
	id, err := s.repomanager.Goals().Save(ctx, &models.Goal{
		UserID:   userID,
		GoalText: goalText,
		Context:  goalContext,
		Status:   models.GoalStatusActive,
	})
	if err != nil {
		return "", fmt.Errorf("error saving goal: %w", err)
	}
	return id, nil
}

func (s *GoalService) List(ctx context.Context, userID string) ([]*models.Goal, error) {
	return s.repomanager.Goals().ListForOwner(ctx, userID)
}

func (s *GoalService) Get(ctx context.Context, userID, id string) (*models.Goal, error) {
	return s.repomanager.Goals().GetByID(ctx, userID, id)
}
