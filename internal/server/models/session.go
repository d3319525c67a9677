package models

import "time"

// SessionLog records whether a planned workout was completed or skipped.
// Date is the server time of logging.
type SessionLog struct {
	ID        string    `json:"-"`
	UserID    string    `json:"user_id"`
	PlanID    string    `json:"plan_id"`
	Completed bool      `json:"completed"`
	Notes     string    `json:"notes,omitempty"`
	Date      time.Time `json:"-"`
}
