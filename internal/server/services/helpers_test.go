package services

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/fitplan/internal/server/docstore"
	"github.com/dmitrijs2005/fitplan/internal/server/repositories/repomanager"
)

type errBoom struct{}

func (errBoom) Error() string { return "boom" }

func newMemoryManager(t *testing.T) *repomanager.DocRepositoryManager {
	t.Helper()
	store := docstore.NewMemory()
	t.Cleanup(func() { _ = store.Close(context.Background()) })
	return repomanager.NewDocRepositoryManager(store)
}
