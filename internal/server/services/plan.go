package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/fitplan/internal/common"
	"github.com/dmitrijs2005/fitplan/internal/logging"
	"github.com/dmitrijs2005/fitplan/internal/server/models"
	"github.com/dmitrijs2005/fitplan/internal/server/planner"
	"github.com/dmitrijs2005/fitplan/internal/server/ratelimit"
	"github.com/dmitrijs2005/fitplan/internal/server/repositories/repomanager"
)

// UpstreamError carries the client-facing reason a plan could not be
// generated. It matches common.ErrUpstreamGenerationFailed.
type UpstreamError struct {
	Detail string
}

func (e *UpstreamError) Error() string { return e.Detail }

func (e *UpstreamError) Unwrap() error { return common.ErrUpstreamGenerationFailed }

type PlanService struct {
	repomanager repomanager.RepositoryManager
	generator   planner.Generator
	limiter     ratelimit.Limiter
	timeout     time.Duration
	logger      logging.Logger
}

func NewPlanService(m repomanager.RepositoryManager, g planner.Generator, l ratelimit.Limiter, timeout time.Duration, logger logging.Logger) *PlanService {
	if l == nil {
		l = ratelimit.Unlimited{}
	}
	return &PlanService{repomanager: m, generator: g, limiter: l, timeout: timeout, logger: logger}
}

// Generate asks the planner for a plan and stores it. When goalID is set it
// must name a goal of userID. Failed generations are never stored.
func (s *PlanService) Generate(ctx context.Context, userID, userInput, goalID string) (*models.WorkoutPlan, error) {
	if strings.TrimSpace(userInput) == "" {
		return nil, fmt.Errorf("%w: user_input is required", common.ErrValidation)
	}

	if goalID != "" {
		if _, err := s.repomanager.Goals().GetByID(ctx, userID, goalID); err != nil {
			return nil, fmt.Errorf("error loading goal: %w", err)
		}
	} else {
		goalID = common.UnlinkedGoalID
	}

	if err := s.limiter.Allow(ctx, userID); err != nil {
		return nil, err
	}

	genCtx := ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		genCtx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	result, err := s.generator.Generate(genCtx, userInput)
	if err != nil {
		s.logger.Warn(ctx, "plan generation failed", "user_id", userID, "error", err.Error())
		return nil, &UpstreamError{Detail: "AI generation failed: " + err.Error()}
	}

	if key, detail, failed := planner.Failure(result); failed {
		s.logger.Warn(ctx, "plan generation rejected", "user_id", userID, "reason", key)
		if key == planner.KeyRawText {
			return nil, &UpstreamError{Detail: "AI returned unexpected format"}
		}
		return nil, &UpstreamError{Detail: "AI generation failed: " + detail}
	}

	plan := &models.WorkoutPlan{UserID: userID, GoalID: goalID, Plan: result}
	id, err := s.repomanager.Plans().Save(ctx, plan)
	if err != nil {
		return nil, fmt.Errorf("error saving plan: %w", err)
	}
	plan.ID = id

	return plan, nil
}

func (s *PlanService) List(ctx context.Context, userID, goalID string) ([]*models.WorkoutPlan, error) {
	return s.repomanager.Plans().ListForOwner(ctx, userID, goalID)
}

func (s *PlanService) Get(ctx context.Context, userID, id string) (*models.WorkoutPlan, error) {
	return s.repomanager.Plans().GetByID(ctx, userID, id)
}
