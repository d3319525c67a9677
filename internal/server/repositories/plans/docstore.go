package plans

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

func (r *DocRepository) Save(ctx context.Context, plan *models.WorkoutPlan) (string, error) {
	if plan.UserID == "" {
		return "", fmt.Errorf("%w: plan owner is required", common.ErrValidation)
	}

	rec := *plan
	if rec.GoalID == "" {
		rec.GoalID = common.UnlinkedGoalID
	}

	data, err := docstore.Marshal(&rec)
	if err != nil {
		return "", err
	}
	doc, err := r.store.Create(ctx, collection(plan.UserID), data)
	if err != nil {
		return "", err
	}
	return doc.ID, nil
}

func (r *DocRepository) ListForOwner(ctx context.Context, userID, goalID string) ([]*models.WorkoutPlan, error) {
	q := docstore.Query{}
	if goalID != "" {
		q = docstore.Where("goal_id", goalID)
	}

	docs, err := r.store.Find(ctx, collection(userID), q)
	if err != nil {
		return nil, err
	}

	out := make([]*models.WorkoutPlan, 0, len(docs))
	for _, doc := range docs {
		p, err := fromDocument(doc)
		if err != nil {
			return nil, err
		}
		if p.UserID != userID {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *DocRepository) GetByID(ctx context.Context, userID, id string) (*models.WorkoutPlan, error) {
	doc, err := r.store.Get(ctx, collection(userID), id)
	if err != nil {
		return nil, err
	}
	p, err := fromDocument(doc)
	if err != nil {
		return nil, err
	}
	if p.UserID != userID {
		return nil, common.ErrNotFound
	}
	return p, nil
}

func fromDocument(doc *docstore.Document) (*models.WorkoutPlan, error) {
	p := &models.WorkoutPlan{}
	if err := docstore.Unmarshal(doc.Data, p); err != nil {
		return nil, err
	}
	p.ID = doc.ID
	p.CreatedAt = doc.CreatedAt
	return p, nil
}
