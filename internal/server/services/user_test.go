package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/fitplan/internal/common"
	"github.com/dmitrijs2005/fitplan/internal/server/auth"
	"github.com/dmitrijs2005/fitplan/internal/server/models"
	"github.com/dmitrijs2005/fitplan/internal/server/repositories/goals"
	"github.com/dmitrijs2005/fitplan/internal/server/repositories/plans"
	"github.com/dmitrijs2005/fitplan/internal/server/repositories/sessions"
	"github.com/dmitrijs2005/fitplan/internal/server/repositories/users"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newUserService(t *testing.T) (*UserService, *auth.TokenService) {
	t.Helper()
	tokens := auth.NewTokenService([]byte("k"), time.Hour)
	return NewUserService(newMemoryManager(t), auth.NewBcryptHasher(bcrypt.MinCost), tokens, time.Hour), tokens
}

func TestRegister_Success(t *testing.T) {
	s, _ := newUserService(t)

	u, err := s.Register(context.Background(), "alice", "pw1")
	require.NoError(t, err)
	assert.NotEmpty(t, u.ID)
	assert.Equal(t, "alice", u.Username)
	assert.Equal(t, "alice@placeholder.com", u.Email)
	assert.NotEqual(t, "pw1", u.PasswordHash)
}

func TestRegister_Duplicate(t *testing.T) {
	s, _ := newUserService(t)
	ctx := context.Background()

	_, err := s.Register(ctx, "alice", "pw1")
	require.NoError(t, err)

	_, err = s.Register(ctx, "alice", "other")
	assert.ErrorIs(t, err, common.ErrDuplicateUsername)
}

func TestRegister_Validation(t *testing.T) {
	s, _ := newUserService(t)

	tests := []struct {
		name     string
		username string
		password string
	}{
		{name: "empty username", username: "", password: "pw"},
		{name: "blank username", username: "   ", password: "pw"},
		{name: "long username", username: strings.Repeat("a", MaxUsernameLength+1), password: "pw"},
		{name: "empty password", username: "bob", password: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.Register(context.Background(), tt.username, tt.password)
			assert.ErrorIs(t, err, common.ErrValidation)
		})
	}
}

func TestLogin(t *testing.T) {
	s, tokens := newUserService(t)
	ctx := context.Background()

	u, err := s.Register(ctx, "alice", "pw1")
	require.NoError(t, err)

	res, err := s.Login(ctx, "alice", "pw1")
	require.NoError(t, err)
	assert.Equal(t, "bearer", res.TokenType)
	assert.Equal(t, u.ID, res.UserID)
	assert.Equal(t, "alice", res.Username)

	id, err := tokens.Validate(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID, id.UserID)
	assert.Equal(t, "alice", id.Username)

	_, err = s.Login(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, common.ErrWrongPassword)

	_, err = s.Login(ctx, "nobody", "pw1")
	assert.ErrorIs(t, err, common.ErrUserNotFound)
}

type failingUsers struct{ users.Repository }

func (failingUsers) GetByUsername(context.Context, string) (*models.User, error) {
	return nil, errBoom{}
}

type fakeManager struct {
	users    users.Repository
	goals    goals.Repository
	plans    plans.Repository
	sessions sessions.Repository
}

func (m *fakeManager) Users() users.Repository       { return m.users }
func (m *fakeManager) Goals() goals.Repository       { return m.goals }
func (m *fakeManager) Plans() plans.Repository       { return m.plans }
func (m *fakeManager) Sessions() sessions.Repository { return m.sessions }

func TestLogin_StoreError(t *testing.T) {
	s := NewUserService(&fakeManager{users: failingUsers{}}, auth.NewBcryptHasher(bcrypt.MinCost), auth.NewTokenService([]byte("k"), 0), 0)

	_, err := s.Login(context.Background(), "alice", "pw")
	require.Error(t, err)
	assert.ErrorIs(t, err, errBoom{})
	assert.NotErrorIs(t, err, common.ErrUserNotFound)
}
