package users

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/fitplan/internal/common"
	"github.com/dmitrijs2005/fitplan/internal/server/docstore"
	"github.com/dmitrijs2005/fitplan/internal/server/models"
)

type DocRepository struct {
	store docstore.Store
}

func NewDocRepository(store docstore.Store) *DocRepository {
	return &DocRepository{store: store}
}

// Create rejects a taken username up front and then inserts through the
// store's atomic CreateUnique, which also catches registrations racing
// past the pre-check.
func (r *DocRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	_, err := r.GetByUsername(ctx, user.Username)
	switch {
	case err == nil:
		return nil, common.ErrDuplicateUsername
	case !errors.Is(err, common.ErrNotFound):
		return nil, err
	}

	data, err := docstore.Marshal(user)
	if err != nil {
		return nil, err
	}

	doc, err := r.store.CreateUnique(ctx, Collection, "username", data)
	if err != nil {
		if errors.Is(err, docstore.ErrAlreadyExists) {
			return nil, common.ErrDuplicateUsername
		}
		return nil, err
	}

	created := *user
	created.ID = doc.ID
	created.CreatedAt = doc.CreatedAt
	created.UpdatedAt = doc.CreatedAt
	return &created, nil
}

func (r *DocRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findOne(ctx, "username", username)
}

func (r *DocRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, "email", email)
}

func (r *DocRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	doc, err := r.store.Get(ctx, Collection, id)
	if err != nil {
		return nil, err
	}
	return fromDocument(doc)
}

// findOne returns the first match; duplicates are not expected.
func (r *DocRepository) findOne(ctx context.Context, field, value string) (*models.User, error) {
	docs, err := r.store.Find(ctx, Collection, docstore.Query{
		Filters: []docstore.Filter{{Field: field, Value: value}},
		Limit:   1,
	})
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, common.ErrNotFound
	}
	return fromDocument(docs[0])
}

func fromDocument(doc *docstore.Document) (*models.User, error) {
	u := &models.User{}
	if err := docstore.Unmarshal(doc.Data, u); err != nil {
		return nil, err
	}
	u.ID = doc.ID
	u.CreatedAt = doc.CreatedAt
	u.UpdatedAt = doc.CreatedAt
	return u, nil
}
