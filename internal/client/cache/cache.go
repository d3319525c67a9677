// Package cache keeps a local SQLite copy of generated plans so they can be
// browsed without reaching the server.
package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/fitplan/internal/client/api"
	"github.com/dmitrijs2005/fitplan/internal/dbx"
	_ "modernc.org/sqlite"
)

var ErrNotCached = errors.New("plan is not cached")

// timeLayout is fixed-width so that created_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

var schema = []string{
	`CREATE TABLE IF NOT EXISTS plans (
		user_id    TEXT NOT NULL,
		plan_id    TEXT NOT NULL,
		goal_id    TEXT NOT NULL,
		body       TEXT NOT NULL,
		created_at TEXT NOT NULL,
		PRIMARY KEY (user_id, plan_id)
	)`,
	`CREATE INDEX IF NOT EXISTS plans_user_created ON plans (user_id, created_at DESC)`,
}

type PlanCache struct {
	db *sql.DB
}

// Open opens (creating if needed) the cache database at path.
func Open(ctx context.Context, path string) (*PlanCache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := dbx.ExecAll(ctx, db, schema...); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init cache schema: %w", err)
	}
	return &PlanCache{db: db}, nil
}

func (c *PlanCache) Close() error {
	return c.db.Close()
}

func (c *PlanCache) Put(ctx context.Context, userID string, p api.Plan) error {
	return put(ctx, c.db, userID, p)
}

// PutAll stores plans in a single transaction.
func (c *PlanCache) PutAll(ctx context.Context, userID string, plans []api.Plan) error {
	return dbx.WithTx(ctx, c.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		for _, p := range plans {
			if err := put(ctx, tx, userID, p); err != nil {
				return err
			}
		}
		return nil
	})
}

func put(ctx context.Context, db dbx.DBTX, userID string, p api.Plan) error {
	body, err := json.Marshal(p.Plan)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `
		INSERT INTO plans (user_id, plan_id, goal_id, body, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (user_id, plan_id) DO UPDATE
		SET goal_id = excluded.goal_id, body = excluded.body, created_at = excluded.created_at`,
		userID, p.PlanID, p.GoalID, string(body), p.CreatedAt.UTC().Format(timeLayout))
	return err
}

// List returns cached plans, newest first. An empty goalID matches all plans.
func (c *PlanCache) List(ctx context.Context, userID, goalID string) ([]api.Plan, error) {
	q := `SELECT plan_id, goal_id, body, created_at FROM plans WHERE user_id = ?`
	args := []any{userID}
	if goalID != "" {
		q += ` AND goal_id = ?`
		args = append(args, goalID)
	}
	q += ` ORDER BY created_at DESC`

	rows, err := c.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []api.Plan
	for rows.Next() {
		p, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (c *PlanCache) Get(ctx context.Context, userID, planID string) (api.Plan, error) {
	row := c.db.QueryRowContext(ctx,
		`SELECT plan_id, goal_id, body, created_at FROM plans WHERE user_id = ? AND plan_id = ?`,
		userID, planID)

	p, err := scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return api.Plan{}, ErrNotCached
	}
	return p, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scan(s scanner) (api.Plan, error) {
	var (
		p       api.Plan
		body    string
		created string
	)
	if err := s.Scan(&p.PlanID, &p.GoalID, &body, &created); err != nil {
		return api.Plan{}, err
	}
	if err := json.Unmarshal([]byte(body), &p.Plan); err != nil {
		return api.Plan{}, fmt.Errorf("decode cached plan %s: %w", p.PlanID, err)
	}
	t, err := time.Parse(timeLayout, created)
	if err != nil {
		return api.Plan{}, err
	}
	p.CreatedAt = t
	return p, nil
}
