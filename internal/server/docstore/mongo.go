package docstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/fitplan/internal/common"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const mongoCollection = "documents"

type mongoDocument struct {
	ID         string    `bson:"_id"`
	Collection string    `bson:"collection"`
	Data       bson.Raw  `bson:"data"`
	CreatedAt  time.Time `bson:"created_at"`
	Seq        int64     `bson:"seq"`
}

// Mongo stores every collection in one MongoDB collection, tagged with its
// path. Uniqueness for CreateUnique is enforced by partial unique indexes
// created on first use.
type Mongo struct {
	client  *mongo.Client
	coll    *mongo.Collection
	now     func() time.Time
	lastSeq atomic.Int64
	indexes sync.Map
}

func NewMongo(client *mongo.Client, database string) *Mongo {
	return &Mongo{
		client: client,
		coll:   client.Database(database).Collection(mongoCollection),
		now:    time.Now,
	}
}

// EnsureIndexes creates the ordering index used by Find.
func (m *Mongo) EnsureIndexes(ctx context.Context) error {
	_, err := m.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "collection", Value: 1},
			{Key: "created_at", Value: -1},
			{Key: "seq", Value: -1},
		},
		Options: options.Index().SetName("collection_created_at"),
	})
	if err != nil {
		return unavailable("create indexes", err)
	}
	return nil
}

func (m *Mongo) Create(ctx context.Context, collection string, data map[string]any) (*Document, error) {
	if err := validatePath(collection); err != nil {
		return nil, err
	}
	return m.insert(ctx, collection, data)
}

func (m *Mongo) CreateUnique(ctx context.Context, collection, field string, data map[string]any) (*Document, error) {
	if err := validatePath(collection); err != nil {
		return nil, err
	}
	if _, err := uniqueValue(field, data); err != nil {
		return nil, err
	}
	if err := m.ensureUnique(ctx, collection, field); err != nil {
		return nil, err
	}
	return m.insert(ctx, collection, data)
}

func (m *Mongo) ensureUnique(ctx context.Context, collection, field string) error {
	name := "unique_" + strings.ReplaceAll(collection, "/", "_") + "_" + field
	if _, done := m.indexes.Load(name); done {
		return nil
	}

	_, err := m.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "collection", Value: 1},
			{Key: "data." + field, Value: 1},
		},
		Options: options.Index().
			SetName(name).
			SetUnique(true).
			SetPartialFilterExpression(bson.D{{Key: "collection", Value: collection}}),
	})
	if err != nil {
		return unavailable("create unique index", err)
	}
	m.indexes.Store(name, struct{}{})
	return nil
}

func (m *Mongo) insert(ctx context.Context, collection string, data map[string]any) (*Document, error) {
	norm, err := normalize(data)
	if err != nil {
		return nil, err
	}
	raw, err := bson.Marshal(norm)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}

	now := m.now().UTC().Truncate(time.Millisecond)
	rec := mongoDocument{
		ID:         uuid.NewString(),
		Collection: collection,
		Data:       raw,
		CreatedAt:  now,
		Seq:        m.nextSeq(now),
	}

	if _, err := m.coll.InsertOne(ctx, rec); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrAlreadyExists
		}
		return nil, unavailable("insert", err)
	}

	return &Document{ID: rec.ID, CreatedAt: now, Data: norm}, nil
}

// nextSeq returns a strictly increasing sequence seeded from the clock so
// that ordering survives restarts.
func (m *Mongo) nextSeq(now time.Time) int64 {
	for {
		last := m.lastSeq.Load()
		next := now.UnixNano()
		if next <= last {
			next = last + 1
		}
		if m.lastSeq.CompareAndSwap(last, next) {
			return next
		}
	}
}

func (m *Mongo) Get(ctx context.Context, collection, id string) (*Document, error) {
	var rec mongoDocument
	err := m.coll.FindOne(ctx, bson.D{
		{Key: "_id", Value: id},
		{Key: "collection", Value: collection},
	}).Decode(&rec)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, common.ErrNotFound
		}
		return nil, unavailable("get", err)
	}
	return rec.export()
}

func (m *Mongo) Find(ctx context.Context, collection string, q Query) ([]*Document, error) {
	filter := bson.D{{Key: "collection", Value: collection}}
	for _, f := range q.Filters {
		filter = append(filter, bson.E{Key: "data." + f.Field, Value: f.Value})
	}

	opts := options.Find().SetSort(bson.D{
		{Key: "created_at", Value: -1},
		{Key: "seq", Value: -1},
	})
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
	}

	cursor, err := m.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, unavailable("find", err)
	}

	var recs []mongoDocument
	if err := cursor.All(ctx, &recs); err != nil {
		return nil, unavailable("find", err)
	}

	out := make([]*Document, 0, len(recs))
	for i := range recs {
		doc, err := recs[i].export()
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, nil
}

func (m *Mongo) Ping(ctx context.Context) error {
	if err := m.client.Ping(ctx, nil); err != nil {
		return unavailable("ping", err)
	}
	return nil
}

func (m *Mongo) Close(ctx context.Context) error {
	return m.client.Disconnect(ctx)
}

// export converts the BSON body back into the JSON value space through
// relaxed extended JSON.
func (r *mongoDocument) export() (*Document, error) {
	b, err := bson.MarshalExtJSON(r.Data, false, false)
	if err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	data, err := decode(b)
	if err != nil {
		return nil, err
	}
	return &Document{ID: r.ID, CreatedAt: r.CreatedAt.UTC(), Data: data}, nil
}

var _ Store = (*Mongo)(nil)
