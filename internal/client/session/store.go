// Package session persists the access token of the logged-in CLI user.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/fitplan/internal/filex"
)

var ErrNotLoggedIn = errors.New("not logged in, run 'fitplan login' first")

type Token struct {
	AccessToken string    `json:"access_token"`
	UserID      string    `json:"user_id"`
	Username    string    `json:"username"`
	SavedAt     time.Time `json:"saved_at"`
}

// Store keeps one token in a file readable only by its owner.
type Store struct {
	path string
	now  func() time.Time
}

func NewStore(path string) *Store {
	return &Store{path: path, now: time.Now}
}

func (s *Store) Save(t Token) error {
	t.SavedAt = s.now().UTC()
	b, err := json.MarshalIndent(t, "", "  ")
	if err != nil {
		return err
	}
	if err := filex.WriteFileAtomic(s.path, b, 0o600); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}

func (s *Store) Load() (*Token, error) {
	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotLoggedIn
		}
		return nil, fmt.Errorf("read token: %w", err)
	}

	t := &Token{}
	if err := json.Unmarshal(b, t); err != nil {
		return nil, fmt.Errorf("parse token file %s: %w", s.path, err)
	}
	if t.AccessToken == "" {
		return nil, ErrNotLoggedIn
	}
	return t, nil
}

// Clear removes the token. Clearing an absent token is not an error.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
