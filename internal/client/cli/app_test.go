package cli

import (
	"bytes"
	"context"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/fitplan/internal/client/cache"
	"github.com/dmitrijs2005/fitplan/internal/client/config"
	"github.com/dmitrijs2005/fitplan/internal/logging"
	"github.com/dmitrijs2005/fitplan/internal/server/auth"
	sc "github.com/dmitrijs2005/fitplan/internal/server/config"
	"github.com/dmitrijs2005/fitplan/internal/server/docstore"
	"github.com/dmitrijs2005/fitplan/internal/server/planner"
	"github.com/dmitrijs2005/fitplan/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/fitplan/internal/server/rest"
	"github.com/dmitrijs2005/fitplan/internal/server/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type cliEnv struct {
	cfg    *config.Config
	server *httptest.Server
}

func newCLIEnv(t *testing.T) *cliEnv {
	t.Helper()

	store := docstore.NewMemory()
	t.Cleanup(func() { _ = store.Close(context.Background()) })

	m := repomanager.NewDocRepositoryManager(store)
	tokens := auth.NewTokenService([]byte("secret"), time.Hour)
	deps := rest.Dependencies{
		Users:    services.NewUserService(m, auth.NewBcryptHasher(bcrypt.MinCost), tokens, time.Hour),
		Goals:    services.NewGoalService(m),
		Plans:    services.NewPlanService(m, planner.Static{Weeks: 2}, nil, time.Minute, logging.Nop()),
		Sessions: services.NewSessionService(m),
		Export:   services.NewExportService(m, &sc.Config{}),
		Tokens:   tokens,
	}

	ts := httptest.NewServer(rest.NewServer("127.0.0.1:0", logging.Nop(), deps, time.Second).Handler())
	t.Cleanup(ts.Close)

	dir := t.TempDir()
	return &cliEnv{
		cfg: &config.Config{
			ServerURL: ts.URL + "/api",
			TokenFile: filepath.Join(dir, "token.json"),
			CacheFile: filepath.Join(dir, "plans.db"),
			Timeout:   5 * time.Second,
		},
		server: ts,
	}
}

func (e *cliEnv) run(t *testing.T, stdin string, args ...string) (string, int) {
	t.Helper()
	var out bytes.Buffer
	code := NewApp(e.cfg, strings.NewReader(stdin), &out).Run(context.Background(), args)
	return out.String(), code
}

func TestCLI_EndToEnd(t *testing.T) {
	e := newCLIEnv(t)

	out, code := e.run(t, "pw123\n", "register", "alice")
	require.Equal(t, 0, code, out)
	assert.Contains(t, out, "User created successfully")

	out, code = e.run(t, "pw123\n", "register", "alice")
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "Username already exists")

	out, code = e.run(t, "", "goals")
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "not logged in")

	out, code = e.run(t, "wrong\n", "login", "alice")
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "Incorrect password")

	out, code = e.run(t, "alice\npw123\n", "login")
	require.Equal(t, 0, code, out)
	assert.Contains(t, out, "Logged in as alice")

	out, code = e.run(t, "", "status")
	require.Equal(t, 0, code, out)
	assert.Contains(t, out, "Workout API is running!")
	assert.Contains(t, out, "Logged in as alice")

	out, code = e.run(t, "", "goal", "Run", "a", "5k", "--context", "days=3")
	require.Equal(t, 0, code, out)
	assert.Contains(t, out, "Goal saved")

	out, code = e.run(t, "", "goals")
	require.Equal(t, 0, code, out)
	assert.Contains(t, out, "Run a 5k")
	assert.Contains(t, out, "days: 3")

	out, code = e.run(t, "", "plan", "I", "want", "to", "run")
	require.Equal(t, 0, code, out)
	assert.Contains(t, out, "Week 2")
	assert.Contains(t, out, "Easy run")

	c, err := cache.Open(context.Background(), e.cfg.CacheFile)
	require.NoError(t, err)
	cached, err := c.List(context.Background(), userIDOf(t, e), "")
	require.NoError(t, err)
	require.NoError(t, c.Close())
	require.Len(t, cached, 1)
	planID := cached[0].PlanID

	out, code = e.run(t, "", "plans")
	require.Equal(t, 0, code, out)
	assert.Contains(t, out, planID)
	assert.Contains(t, out, "2 week(s)")

	out, code = e.run(t, "", "log", planID, "--notes", "felt good")
	require.Equal(t, 0, code, out)
	assert.Contains(t, out, "Session logged")

	out, code = e.run(t, "", "sessions", "--plan", planID)
	require.Equal(t, 0, code, out)
	assert.Contains(t, out, "felt good")

	out, code = e.run(t, "", "log", "missing-plan")
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "Not Found")

	out, code = e.run(t, "", "export", planID)
	assert.Equal(t, 1, code)
	assert.Contains(t, out, "Plan export is not configured")

	// The server goes away; cached plans stay readable.
	e.server.Close()

	out, code = e.run(t, "", "plans", "--offline")
	require.Equal(t, 0, code, out)
	assert.Contains(t, out, planID)

	out, code = e.run(t, "", "show", planID)
	require.Equal(t, 0, code, out)
	assert.Contains(t, out, "showing cached copy")
	assert.Contains(t, out, "Week 1")

	out, code = e.run(t, "", "logout")
	require.Equal(t, 0, code, out)

	_, code = e.run(t, "", "plans", "--offline")
	assert.Equal(t, 1, code)
}

func userIDOf(t *testing.T, e *cliEnv) string {
	t.Helper()
	tok, err := NewApp(e.cfg, strings.NewReader(""), &bytes.Buffer{}).tokens.Load()
	require.NoError(t, err)
	return tok.UserID
}
