// Package repomanager vends the repositories of the service, all bound to one
// shared document-store handle, and opens that handle from a DSN.
package repomanager

import (
	"github.com/dmitrijs2005/fitplan/internal/server/docstore"
	"github.com/dmitrijs2005/fitplan/internal/server/repositories/goals"
	"github.com/dmitrijs2005/fitplan/internal/server/repositories/plans"
	"github.com/dmitrijs2005/fitplan/internal/server/repositories/sessions"
	"github.com/dmitrijs2005/fitplan/internal/server/repositories/users"
)

type RepositoryManager interface {
	Users() users.Repository
	Goals() goals.Repository
	Plans() plans.Repository
	Sessions() sessions.Repository
}

// DocRepositoryManager builds docstore-backed repositories. The store handle
// is created once at startup and shared by reference.
type DocRepositoryManager struct {
	users    *users.DocRepository
	goals    *goals.DocRepository
	plans    *plans.DocRepository
	sessions *sessions.DocRepository
}

func NewDocRepositoryManager(store docstore.Store) *DocRepositoryManager {
	return &DocRepositoryManager{
		users:    users.NewDocRepository(store),
		goals:    goals.NewDocRepository(store),
		plans:    plans.NewDocRepository(store),
		sessions: sessions.NewDocRepository(store),
	}
}

func (m *DocRepositoryManager) Users() users.Repository       { return m.users }
func (m *DocRepositoryManager) Goals() goals.Repository       { return m.goals }
func (m *DocRepositoryManager) Plans() plans.Repository       { return m.plans }
func (m *DocRepositoryManager) Sessions() sessions.Repository { return m.sessions }
