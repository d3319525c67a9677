package models

import "time"

type GoalStatus string

const (
	GoalStatusActive   GoalStatus = "active"
	GoalStatusArchived GoalStatus = "archived"
)

// Goal is a user's free-text fitness goal. Context is an opaque tree
// supplied by the client.
type Goal struct {
	ID        string         `json:"-"`
	UserID    string         `json:"user_id"`
	GoalText  string         `json:"goal_text"`
	Context   map[string]any `json:"context"`
	Status    GoalStatus     `json:"status"`
	CreatedAt time.Time      `json:"-"`
}
