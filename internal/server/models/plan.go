package models

import "time"

// WorkoutPlan is an append-only generated plan. GoalID is either the id of a
// stored goal or common.UnlinkedGoalID.
type WorkoutPlan struct {
	ID        string         `json:"-"`
	UserID    string         `json:"user_id"`
	GoalID    string         `json:"goal_id"`
	Plan      map[string]any `json:"plan"`
	CreatedAt time.Time      `json:"-"`
}
