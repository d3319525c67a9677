// Package server wires configuration, storage, services and the HTTP and
// health servers of the workout API, and runs them until a termination
// signal arrives.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/fitplan/internal/logging"
	"github.com/dmitrijs2005/fitplan/internal/server/auth"
	"github.com/dmitrijs2005/fitplan/internal/server/config"
	"github.com/dmitrijs2005/fitplan/internal/server/docstore"
	"github.com/dmitrijs2005/fitplan/internal/server/planner"
	"github.com/dmitrijs2005/fitplan/internal/server/ratelimit"
	"github.com/dmitrijs2005/fitplan/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/fitplan/internal/server/rest"
	"github.com/dmitrijs2005/fitplan/internal/server/services"
	"golang.org/x/crypto/bcrypt"

	gs "github.com/dmitrijs2005/fitplan/internal/server/grpc"
)

var (
	openStore    = repomanager.Open
	newGenerator = defaultGenerator
	dialRedis    = ratelimit.Dial
)

type App struct {
	config  *config.Config
	logger  logging.Logger
	store   docstore.Store
	rest    *rest.Server
	health  *gs.HealthServer
	closers []func() error
}

// NewApp builds every component from c. The document store is opened once
// here and shared by all repositories.
func NewApp(ctx context.Context, c *config.Config, logOutput io.Writer) (*App, error) {
	logger, err := logging.New(logOutput, c.LogBackend, c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	app := &App{config: c, logger: logger}

	if z, ok := logger.(*logging.ZapLogger); ok {
		app.closers = append(app.closers, z.Sync)
	}

	store, err := openStore(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	app.store = store

	generator, err := newGenerator(ctx, c)
	if err != nil {
		app.Close(ctx)
		return nil, fmt.Errorf("planner init error: %w", err)
	}

	limiter, err := app.newLimiter(ctx)
	if err != nil {
		app.Close(ctx)
		return nil, fmt.Errorf("rate limiter init error: %w", err)
	}

	repos := repomanager.NewDocRepositoryManager(store)
	tokens := auth.NewTokenService([]byte(c.SecretKey), c.TokenTTL)

	deps := rest.Dependencies{
		Users:    services.NewUserService(repos, newHasher(c), tokens, c.TokenTTL),
		Goals:    services.NewGoalService(repos),
		Plans:    services.NewPlanService(repos, generator, limiter, c.GenerationTimeout, logger.With("module", "planner")),
		Sessions: services.NewSessionService(repos),
		Export:   services.NewExportService(repos, c),
		Tokens:   tokens,
	}

	app.rest = rest.NewServer(c.EndpointAddr, logger, deps, c.ShutdownTimeout)
	app.health = gs.NewHealthServer(c.HealthAddr, logger, store, 0)

	return app, nil
}

func newHasher(c *config.Config) auth.PasswordHasher {
	if c.PasswordHash == config.HashArgon2 {
		return auth.NewArgon2Hasher()
	}
	return auth.NewBcryptHasher(bcrypt.DefaultCost)
}

func defaultGenerator(ctx context.Context, c *config.Config) (planner.Generator, error) {
	switch c.PlannerBackend {
	case config.PlannerStatic:
		return planner.Static{}, nil
	case config.PlannerGemini:
		return planner.NewGemini(ctx, c.GeminiAPIKey, c.GeminiModel)
	default:
		return nil, fmt.Errorf("unknown planner backend %q", c.PlannerBackend)
	}
}

func (app *App) newLimiter(ctx context.Context) (ratelimit.Limiter, error) {
	c := app.config

	switch {
	case c.GenerationLimit == 0:
		return ratelimit.Unlimited{}, nil
	case c.RedisAddr != "":
		client, err := dialRedis(ctx, c.RedisAddr, c.RedisPassword)
		if err != nil {
			return nil, err
		}
		app.closers = append(app.closers, client.Close)
		return ratelimit.NewRedis(client, c.GenerationLimit, c.GenerationWindow), nil
	default:
		return ratelimit.NewMemory(c.GenerationLimit, c.GenerationWindow), nil
	}
}

// Handler exposes the HTTP handler, e.g. for serverless adapters.
func (app *App) Handler() http.Handler {
	return app.rest.Handler()
}

func (app *App) Logger() logging.Logger {
	return app.logger
}

// Close releases the store and other connections. It is safe to call once
// after Run returns.
func (app *App) Close(ctx context.Context) {
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), app.config.ShutdownTimeout)
	defer cancel()

	if app.store != nil {
		if err := app.store.Close(shutdownCtx); err != nil {
			app.logger.Error(ctx, "error closing store", "error", err.Error())
		}
	}
	for i := len(app.closers) - 1; i >= 0; i-- {
		_ = app.closers[i]()
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// Run serves HTTP and health traffic until ctx is cancelled, a termination
// signal arrives or either server fails.
func (app *App) Run(ctx context.Context) error {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)

	run := func(name string, fn func(context.Context) error) {
		defer wg.Done()
		if err := fn(ctx); err != nil {
			app.logger.Error(ctx, name+" failed", "error", err.Error())
			mu.Lock()
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
			mu.Unlock()
			cancelFunc()
		}
	}

	wg.Add(2)
	go run("http server", app.rest.Run)
	go run("health server", app.health.Run)

	wg.Wait()

	app.Close(ctx)
	app.logger.Info(ctx, "App stopped")

	return errors.Join(errs...)
}
