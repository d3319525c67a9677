package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/fitplan/internal/common"
	"github.com/dmitrijs2005/fitplan/internal/logging"
	"github.com/dmitrijs2005/fitplan/internal/server/planner"
	"github.com/dmitrijs2005/fitplan/internal/server/ratelimit"
	"github.com/dmitrijs2005/fitplan/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedPlan(result map[string]any, err error) planner.GeneratorFunc {
	return func(ctx context.Context, goal string) (map[string]any, error) {
		return result, err
	}
}

type denyAll struct{}

func (denyAll) Allow(context.Context, string) error { return common.ErrRateLimited }

func newPlanService(t *testing.T, g planner.Generator, l ratelimit.Limiter) (*PlanService, *repomanager.DocRepositoryManager) {
	t.Helper()
	m := newMemoryManager(t)
	return NewPlanService(m, g, l, time.Minute, logging.Nop()), m
}

func TestGenerate_Success(t *testing.T) {
	var gotGoal string
	var hadDeadline bool
	gen := planner.GeneratorFunc(func(ctx context.Context, goal string) (map[string]any, error) {
		gotGoal = goal
		_, hadDeadline = ctx.Deadline()
		return map[string]any{"weeks": []any{}}, nil
	})
	s, m := newPlanService(t, gen, nil)
	ctx := context.Background()

	plan, err := s.Generate(ctx, "u1", "do a pull-up", "")
	require.NoError(t, err)
	assert.NotEmpty(t, plan.ID)
	assert.Equal(t, common.UnlinkedGoalID, plan.GoalID)
	assert.Equal(t, "do a pull-up", gotGoal)
	assert.True(t, hadDeadline)

	stored, err := m.Plans().GetByID(ctx, "u1", plan.ID)
	require.NoError(t, err)
	assert.Contains(t, stored.Plan, "weeks")
}

func TestGenerate_LinkedGoal(t *testing.T) {
	s, m := newPlanService(t, fixedPlan(map[string]any{"weeks": []any{}}, nil), nil)
	ctx := context.Background()

	goalID, err := NewGoalService(m).Save(ctx, "u1", "run 5k", nil)
	require.NoError(t, err)

	plan, err := s.Generate(ctx, "u1", "run 5k", goalID)
	require.NoError(t, err)
	assert.Equal(t, goalID, plan.GoalID)

	list, err := s.List(ctx, "u1", goalID)
	require.NoError(t, err)
	require.Len(t, list, 1)

	// a goal of another user is not visible
	_, err = s.Generate(ctx, "u2", "run 5k", goalID)
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestGenerate_Failures(t *testing.T) {
	tests := []struct {
		name       string
		gen        planner.Generator
		wantDetail string
	}{
		{
			name:       "in-band error",
			gen:        fixedPlan(map[string]any{"error": "x"}, nil),
			wantDetail: "AI generation failed: x",
		},
		{
			name:       "raw text",
			gen:        fixedPlan(map[string]any{"raw_text": "nope"}, nil),
			wantDetail: "AI returned unexpected format",
		},
		{
			name:       "generator error",
			gen:        fixedPlan(nil, errors.New("deadline")),
			wantDetail: "AI generation failed: deadline",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, m := newPlanService(t, tt.gen, nil)
			ctx := context.Background()

			_, err := s.Generate(ctx, "u1", "goal", "")
			require.Error(t, err)
			assert.ErrorIs(t, err, common.ErrUpstreamGenerationFailed)

			var ue *UpstreamError
			require.ErrorAs(t, err, &ue)
			assert.Equal(t, tt.wantDetail, ue.Detail)

			stored, err := m.Plans().ListForOwner(ctx, "u1", "")
			require.NoError(t, err)
			assert.Empty(t, stored)
		})
	}
}

func TestGenerate_RateLimited(t *testing.T) {
	called := false
	gen := planner.GeneratorFunc(func(ctx context.Context, goal string) (map[string]any, error) {
		called = true
		return map[string]any{}, nil
	})
	s, _ := newPlanService(t, gen, denyAll{})

	_, err := s.Generate(context.Background(), "u1", "goal", "")
	assert.ErrorIs(t, err, common.ErrRateLimited)
	assert.False(t, called)
}

func TestGenerate_EmptyInput(t *testing.T) {
	s, _ := newPlanService(t, fixedPlan(map[string]any{}, nil), nil)

	_, err := s.Generate(context.Background(), "u1", "  ", "")
	assert.ErrorIs(t, err, common.ErrValidation)
}

func TestGoalsAndSessions(t *testing.T) {
	m := newMemoryManager(t)
	ctx := context.Background()
	goalsSvc := NewGoalService(m)
	sessionsSvc := NewSessionService(m)
	plansSvc := NewPlanService(m, fixedPlan(map[string]any{"weeks": []any{}}, nil), nil, 0, logging.Nop())

	goalID, err := goalsSvc.Save(ctx, "u1", "get stronger", map[string]any{"level": "beginner"})
	require.NoError(t, err)

	g, err := goalsSvc.Get(ctx, "u1", goalID)
	require.NoError(t, err)
	assert.Equal(t, "get stronger", g.GoalText)
	assert.Equal(t, "beginner", g.Context["level"])

	_, err = goalsSvc.Get(ctx, "u2", goalID)
	assert.ErrorIs(t, err, common.ErrNotFound)

	plan, err := plansSvc.Generate(ctx, "u1", "get stronger", goalID)
	require.NoError(t, err)

	sessionID, err := sessionsSvc.Log(ctx, "u1", plan.ID, true, "felt good")
	require.NoError(t, err)

	log, err := sessionsSvc.Get(ctx, "u1", sessionID)
	require.NoError(t, err)
	assert.True(t, log.Completed)
	assert.Equal(t, "felt good", log.Notes)

	logs, err := sessionsSvc.List(ctx, "u1", plan.ID)
	require.NoError(t, err)
	assert.Len(t, logs, 1)

	_, err = sessionsSvc.Log(ctx, "u2", plan.ID, true, "")
	assert.ErrorIs(t, err, common.ErrNotFound)

	_, err = sessionsSvc.Log(ctx, "u1", "", true, "")
	assert.ErrorIs(t, err, common.ErrValidation)
}
