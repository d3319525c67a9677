package goals

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/fitplan/internal/common"
	"github.com/dmitrijs2005/fitplan/internal/server/docstore"
	"github.com/dmitrijs2005/fitplan/internal/server/models"
	"github.com/dmitrijs2005/fitplan/internal/server/repositories/users"
)

type DocRepository struct {
	store docstore.Store
}

func NewDocRepository(store docstore.Store) *DocRepository {
	return &DocRepository{store: store}
}

func collection(userID string) string {
	return docstore.Sub(users.Collection, userID, SubCollection)
}

// Save appends goal under its owner. Status defaults to active.
func (r *DocRepository) Save(ctx context.Context, goal *models.Goal) (string, error) {
	if goal.UserID == "" {
		return "", fmt.Errorf("%w: goal owner is required", common.ErrValidation)
	}

	rec := *goal
	if rec.Status == "" {
		rec.Status = models.GoalStatusActive
	}

	data, err := docstore.Marshal(&rec)
	if err != nil {
		return "", err
	}
	doc, err := r.store.Create(ctx, collection(goal.UserID), data)
	if err != nil {
		return "", err
	}
	return doc.ID, nil
}

func (r *DocRepository) ListForOwner(ctx context.Context, userID string) ([]*models.Goal, error) {
	docs, err := r.store.Find(ctx, collection(userID), docstore.Query{})
	if err != nil {
		return nil, err
	}

	out := make([]*models.Goal, 0, len(docs))
	for _, doc := range docs {
		g, err := fromDocument(doc)
		if err != nil {
			return nil, err
		}
		if g.UserID != userID {
			continue
		}
		out = append(out, g)
	}
	return out, nil
}

// GetByID returns common.ErrNotFound for goals owned by another user.
func (r *DocRepository) GetByID(ctx context.Context, userID, id string) (*models.Goal, error) {
	doc, err := r.store.Get(ctx, collection(userID), id)
	if err != nil {
		return nil, err
	}
	g, err := fromDocument(doc)
	if err != nil {
		return nil, err
	}
	if g.UserID != userID {
		return nil, common.ErrNotFound
	}
	return g, nil
}

func fromDocument(doc *docstore.Document) (*models.Goal, error) {
	g := &models.Goal{}
	if err := docstore.Unmarshal(doc.Data, g); err != nil {
		return nil, err
	}
	g.ID = doc.ID
	g.CreatedAt = doc.CreatedAt
	return g, nil
}
