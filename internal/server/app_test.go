package server

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/fitplan/internal/common"
	"github.com/dmitrijs2005/fitplan/internal/server/auth"
	"github.com/dmitrijs2005/fitplan/internal/server/config"
	"github.com/dmitrijs2005/fitplan/internal/server/planner"
	"github.com/dmitrijs2005/fitplan/internal/server/ratelimit"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	c := &config.Config{}
	c.LoadDefaults()
	c.EndpointAddr = "127.0.0.1:0"
	c.HealthAddr = "127.0.0.1:0"
	c.DatabaseDSN = "memory://"
	c.SecretKey = "secret"
	c.PlannerBackend = config.PlannerStatic
	c.ShutdownTimeout = time.Second
	return c
}

func TestNewApp_ServesRequests(t *testing.T) {
	var logs bytes.Buffer
	app, err := NewApp(context.Background(), testConfig(), &logs)
	require.NoError(t, err)
	t.Cleanup(func() { app.Close(context.Background()) })

	rec := httptest.NewRecorder()
	app.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, logs.String(), `"path":"/api/"`)
}

func TestNewApp_Errors(t *testing.T) {
	ctx := context.Background()

	c := testConfig()
	c.LogBackend = "stdout"
	_, err := NewApp(ctx, c, &bytes.Buffer{})
	assert.ErrorContains(t, err, "logger init error")

	c = testConfig()
	c.DatabaseDSN = "cassandra://x"
	_, err = NewApp(ctx, c, &bytes.Buffer{})
	assert.ErrorContains(t, err, "db init error")

	origGen := newGenerator
	t.Cleanup(func() { newGenerator = origGen })
	newGenerator = func(context.Context, *config.Config) (planner.Generator, error) {
		return nil, errors.New("no key")
	}
	_, err = NewApp(ctx, testConfig(), &bytes.Buffer{})
	assert.ErrorContains(t, err, "planner init error: no key")
}

func TestNewApp_RedisLimiter(t *testing.T) {
	origDial := dialRedis
	t.Cleanup(func() { dialRedis = origDial })

	var dialed string
	dialRedis = func(ctx context.Context, addr, password string) (*redis.Client, error) {
		dialed = addr
		return redis.NewClient(&redis.Options{Addr: addr}), nil
	}

	c := testConfig()
	c.RedisAddr = "127.0.0.1:6390"
	app, err := NewApp(context.Background(), c, &bytes.Buffer{})
	require.NoError(t, err)
	app.Close(context.Background())
	assert.Equal(t, "127.0.0.1:6390", dialed)

	dialRedis = func(context.Context, string, string) (*redis.Client, error) {
		return nil, errors.New("refused")
	}
	_, err = NewApp(context.Background(), c, &bytes.Buffer{})
	assert.ErrorContains(t, err, "rate limiter init error: refused")
}

func TestNewLimiter_Kinds(t *testing.T) {
	app := &App{config: testConfig()}

	app.config.GenerationLimit = 0
	l, err := app.newLimiter(context.Background())
	require.NoError(t, err)
	assert.IsType(t, ratelimit.Unlimited{}, l)

	app.config.GenerationLimit = 5
	l, err = app.newLimiter(context.Background())
	require.NoError(t, err)
	assert.IsType(t, &ratelimit.Memory{}, l)
}

func TestNewHasher(t *testing.T) {
	c := testConfig()
	assert.IsType(t, &auth.BcryptHasher{}, newHasher(c))

	c.PasswordHash = config.HashArgon2
	assert.IsType(t, &auth.Argon2Hasher{}, newHasher(c))
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	app, err := NewApp(context.Background(), testConfig(), &bytes.Buffer{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	time.Sleep(150 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("app did not stop")
	}

	assert.ErrorIs(t, app.store.Ping(context.Background()), common.ErrStoreUnavailable)
}

func TestRun_ReportsServerFailure(t *testing.T) {
	c := testConfig()
	c.HealthAddr = "127.0.0.1:99999"
	app, err := NewApp(context.Background(), c, &bytes.Buffer{})
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- app.Run(context.Background()) }()

	select {
	case err := <-done:
		assert.ErrorContains(t, err, "health server")
	case <-time.After(3 * time.Second):
		t.Fatal("app did not stop")
	}
}
