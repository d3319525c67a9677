package cache

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/fitplan/internal/client/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) *PlanCache {
	t.Helper()
	c, err := Open(context.Background(), filepath.Join(t.TempDir(), "plans.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func plan(id, goal string, created time.Time) api.Plan {
	return api.Plan{
		PlanID:    id,
		GoalID:    goal,
		Plan:      map[string]any{"title": "plan " + id},
		CreatedAt: created,
	}
}

func TestPlanCache_PutGet(t *testing.T) {
	c := openTemp(t)
	ctx := context.Background()
	created := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, c.Put(ctx, "u1", plan("p1", "g1", created)))

	got, err := c.Get(ctx, "u1", "p1")
	require.NoError(t, err)
	assert.Equal(t, "g1", got.GoalID)
	assert.Equal(t, "plan p1", got.Plan["title"])
	assert.True(t, created.Equal(got.CreatedAt))

	_, err = c.Get(ctx, "u2", "p1")
	assert.ErrorIs(t, err, ErrNotCached)
}

func TestPlanCache_PutOverwrites(t *testing.T) {
	c := openTemp(t)
	ctx := context.Background()
	now := time.Now().UTC()

	require.NoError(t, c.Put(ctx, "u1", plan("p1", "g1", now)))
	updated := plan("p1", "g2", now)
	updated.Plan = map[string]any{"title": "changed"}
	require.NoError(t, c.Put(ctx, "u1", updated))

	got, err := c.Get(ctx, "u1", "p1")
	require.NoError(t, err)
	assert.Equal(t, "g2", got.GoalID)
	assert.Equal(t, "changed", got.Plan["title"])
}

func TestPlanCache_ListOrderAndFilter(t *testing.T) {
	c := openTemp(t)
	ctx := context.Background()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, c.PutAll(ctx, "u1", []api.Plan{
		plan("old", "g1", base),
		plan("new", "g1", base.Add(time.Hour)),
		plan("other", "g2", base.Add(30*time.Minute)),
	}))
	require.NoError(t, c.Put(ctx, "u2", plan("foreign", "g1", base)))

	all, err := c.List(ctx, "u1", "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"new", "other", "old"}, ids(all))

	g1, err := c.List(ctx, "u1", "g1")
	require.NoError(t, err)
	assert.Equal(t, []string{"new", "old"}, ids(g1))

	none, err := c.List(ctx, "u3", "")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestPlanCache_PutAllRollsBack(t *testing.T) {
	c := openTemp(t)
	ctx := context.Background()

	bad := plan("bad", "g1", time.Now())
	bad.Plan = map[string]any{"fn": func() {}}

	err := c.PutAll(ctx, "u1", []api.Plan{plan("ok", "g1", time.Now()), bad})
	require.Error(t, err)

	_, err = c.Get(ctx, "u1", "ok")
	assert.ErrorIs(t, err, ErrNotCached)
}

func ids(plans []api.Plan) []string {
	out := make([]string, 0, len(plans))
	for _, p := range plans {
		out = append(out, p.PlanID)
	}
	return out
}
