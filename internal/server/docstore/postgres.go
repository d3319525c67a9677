package docstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/fitplan/internal/common"
	"github.com/dmitrijs2005/fitplan/internal/dbx"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

const pgUniqueViolation = "23505"

// Postgres keeps every collection in the single documents table created by
// the embedded migrations, with the document body in a JSONB column.
type Postgres struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *Postgres {
	return &Postgres{db: db}
}

func (p *Postgres) Create(ctx context.Context, collection string, data map[string]any) (*Document, error) {
	if err := validatePath(collection); err != nil {
		return nil, err
	}
	doc, body, err := newDocument(data)
	if err != nil {
		return nil, err
	}
	if err := p.insert(ctx, p.db, collection, doc, body); err != nil {
		return nil, err
	}
	return doc, nil
}

// CreateUnique serialises writers for the same (collection, field, value)
// with a transaction-scoped advisory lock, then checks and inserts.
func (p *Postgres) CreateUnique(ctx context.Context, collection, field string, data map[string]any) (*Document, error) {
	if err := validatePath(collection); err != nil {
		return nil, err
	}
	value, err := uniqueValue(field, data)
	if err != nil {
		return nil, err
	}
	doc, body, err := newDocument(data)
	if err != nil {
		return nil, err
	}
	probe, err := containment([]Filter{{Field: field, Value: value}})
	if err != nil {
		return nil, err
	}

	err = dbx.WithTx(ctx, p.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		lockKey := collection + "\x00" + field + "\x00" + value
		if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, lockKey); err != nil {
			return unavailable("lock", err)
		}

		var exists bool
		query :=
			`SELECT EXISTS (
				SELECT 1 FROM documents WHERE collection = $1 AND data @> $2::jsonb
			)`
		if err := tx.QueryRowContext(ctx, query, collection, probe).Scan(&exists); err != nil {
			return unavailable("check unique", err)
		}
		if exists {
			return ErrAlreadyExists
		}

		return p.insert(ctx, tx, collection, doc, body)
	})
	switch {
	case err == nil:
	case errors.Is(err, ErrAlreadyExists), errors.Is(err, common.ErrStoreUnavailable):
		return nil, err
	default:
		return nil, unavailable("create unique", err)
	}
	return doc, nil
}

func (p *Postgres) insert(ctx context.Context, db dbx.DBTX, collection string, doc *Document, body string) error {
	query :=
		`INSERT INTO documents (id, collection, data)
		 VALUES ($1, $2, $3::jsonb)
		 RETURNING created_at`

	if err := db.QueryRowContext(ctx, query, doc.ID, collection, body).Scan(&doc.CreatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return ErrAlreadyExists
		}
		return unavailable("insert", err)
	}
	doc.CreatedAt = doc.CreatedAt.UTC()
	return nil
}

func (p *Postgres) Get(ctx context.Context, collection, id string) (*Document, error) {
	query :=
		`SELECT id, data, created_at FROM documents
		 WHERE collection = $1 AND id = $2`

	doc, err := scanDocument(p.db.QueryRowContext(ctx, query, collection, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, unavailable("get", err)
	}
	return doc, nil
}

func (p *Postgres) Find(ctx context.Context, collection string, q Query) ([]*Document, error) {
	probe, err := containment(q.Filters)
	if err != nil {
		return nil, err
	}

	query :=
		`SELECT id, data, created_at FROM documents
		 WHERE collection = $1 AND data @> $2::jsonb
		 ORDER BY created_at DESC, seq DESC`
	args := []any{collection, probe}
	if q.Limit > 0 {
		query += ` LIMIT $3`
		args = append(args, q.Limit)
	}

	rows, err := p.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, unavailable("find", err)
	}
	defer rows.Close()

	out := make([]*Document, 0)
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, unavailable("scan", err)
		}
		out = append(out, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable("find", err)
	}
	return out, nil
}

func (p *Postgres) Ping(ctx context.Context) error {
	if err := p.db.PingContext(ctx); err != nil {
		return unavailable("ping", err)
	}
	return nil
}

func (p *Postgres) Close(ctx context.Context) error {
	return p.db.Close()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*Document, error) {
	var (
		doc  Document
		body []byte
	)
	if err := row.Scan(&doc.ID, &body, &doc.CreatedAt); err != nil {
		return nil, err
	}
	data, err := decode(body)
	if err != nil {
		return nil, err
	}
	doc.Data = data
	doc.CreatedAt = doc.CreatedAt.UTC()
	return &doc, nil
}

// newDocument assigns an id and encodes data for insertion. The timestamp is
// filled in by the database.
func newDocument(data map[string]any) (*Document, string, error) {
	norm, err := normalize(data)
	if err != nil {
		return nil, "", err
	}
	body, err := json.Marshal(norm)
	if err != nil {
		return nil, "", fmt.Errorf("encode document: %w", err)
	}
	return &Document{ID: uuid.NewString(), Data: norm}, string(body), nil
}

// containment renders filters as a JSONB containment probe ({"field": "value"}).
func containment(filters []Filter) (string, error) {
	probe := make(map[string]string, len(filters))
	for _, f := range filters {
		probe[f.Field] = f.Value
	}
	b, err := json.Marshal(probe)
	if err != nil {
		return "", fmt.Errorf("encode filters: %w", err)
	}
	return string(b), nil
}

var _ Store = (*Postgres)(nil)
var _ Store = (*Memory)(nil)
