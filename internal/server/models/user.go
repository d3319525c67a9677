// Package models holds the records persisted by the repositories. JSON tags
// name the fields of the stored documents.
package models

import "time"

// User is created once at registration. Timestamps come from the store.
type User struct {
	ID           string    `json:"-"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"-"`
	UpdatedAt    time.Time `json:"-"`
}
