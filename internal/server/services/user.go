// Package services contains server-side business logic: account
// registration and login, goals, plan generation, session logs and plan
// export. Services return sentinel errors from internal/common; the REST
// layer maps them to status codes.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dmitrijs2005/fitplan/internal/common"
	"github.com/dmitrijs2005/fitplan/internal/server/auth"
	"github.com/dmitrijs2005/fitplan/internal/server/models"
	"github.com/dmitrijs2005/fitplan/internal/server/repositories/repomanager"
)

// MaxUsernameLength bounds usernames in runes.
const MaxUsernameLength = 64

// TokenIssuer mints bearer tokens.
type TokenIssuer interface {
	Issue(id auth.Identity, ttl time.Duration) (string, time.Time, error)
}

// LoginResult is returned to a client after a successful login.
type LoginResult struct {
	AccessToken string
	TokenType   string
	UserID      string
	Username    string
	ExpiresAt   time.Time
}

// UserService registers accounts and exchanges credentials for tokens.
type UserService struct {
	repomanager repomanager.RepositoryManager
	hasher      auth.PasswordHasher
	tokens      TokenIssuer
	tokenTTL    time.Duration
}

func NewUserService(m repomanager.RepositoryManager, hasher auth.PasswordHasher, tokens TokenIssuer, tokenTTL time.Duration) *UserService {
	return &UserService{
		repomanager: m,
		hasher:      hasher,
		tokens:      tokens,
		tokenTTL:    tokenTTL,
	}
}

// PlaceholderEmail is stored for accounts created without an email address.
func PlaceholderEmail(username string) string {
	return username + "@placeholder.com"
}

// Register creates a user. A taken username yields common.ErrDuplicateUsername.
func (s *UserService) Register(ctx context.Context, username, password string) (*models.User, error) {
	if err := validateCredentials(username, password); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	u, err := s.repomanager.Users().Create(ctx, &models.User{
		Username:     username,
		Email:        PlaceholderEmail(username),
		PasswordHash: hash,
	})
	if err != nil {
		return nil, fmt.Errorf("error creating user: %w", err)
	}
	return u, nil
}

// Login distinguishes an unknown user (common.ErrUserNotFound) from a bad
// password (common.ErrWrongPassword).
func (s *UserService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.repomanager.Users().GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrUserNotFound
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, common.ErrWrongPassword
	}

	token, expiresAt, err := s.tokens.Issue(auth.Identity{UserID: user.ID, Username: user.Username}, s.tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("error issuing token: %w", err)
	}

	return &LoginResult{
		AccessToken: token,
		TokenType:   common.TokenType,
		UserID:      user.ID,
		Username:    user.Username,
		ExpiresAt:   expiresAt,
	}, nil
}

func validateCredentials(username, password string) error {
	switch {
	case strings.TrimSpace(username) == "":
		return fmt.Errorf("%w: username is required", common.ErrValidation)
	case utf8.RuneCountInString(username) > MaxUsernameLength:
		return fmt.Errorf("%w: username must be at most %d characters", common.ErrValidation, MaxUsernameLength)
	case password == "":
		return fmt.Errorf("%w: password is required", common.ErrValidation)
	}
	return nil
}
