package sessions

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

func (r *DocRepository) Save(ctx context.Context, log *models.SessionLog) (string, error) {
	if log.UserID == "" {
		return "", fmt.Errorf("%w: session owner is required", common.ErrValidation)
	}

	data, err := docstore.Marshal(log)
	if err != nil {
		return "", err
	}
	doc, err := r.store.Create(ctx, collection(log.UserID), data)
	if err != nil {
		return "", err
	}
	return doc.ID, nil
}

func (r *DocRepository) ListForOwner(ctx context.Context, userID, planID string) ([]*models.SessionLog, error) {
	q := docstore.Query{}
	if planID != "" {
		q = docstore.Where("plan_id", planID)
	}

	docs, err := r.store.Find(ctx, collection(userID), q)
	if err != nil {
		return nil, err
	}

	out := make([]*models.SessionLog, 0, len(docs))
	for _, doc := range docs {
		s, err := fromDocument(doc)
		if err != nil {
			return nil, err
		}
		if s.UserID != userID {
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (r *DocRepository) GetByID(ctx context.Context, userID, id string) (*models.SessionLog, error) {
	doc, err := r.store.Get(ctx, collection(userID), id)
	if err != nil {
		return nil, err
	}
	s, err := fromDocument(doc)
	if err != nil {
		return nil, err
	}
	if s.UserID != userID {
		return nil, common.ErrNotFound
	}
	return s, nil
}

func fromDocument(doc *docstore.Document) (*models.SessionLog, error) {
	s := &models.SessionLog{}
	if err := docstore.Unmarshal(doc.Data, s); err != nil {
		return nil, err
	}
	s.ID = doc.ID
	s.Date = doc.CreatedAt
	return s, nil
}
