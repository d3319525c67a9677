package repomanager

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"

	"github.com/dmitrijs2005/fitplan/internal/server/docstore"
	"github.com/dmitrijs2005/fitplan/internal/server/migrations"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const defaultMongoDatabase = "fitplan"

// Seams for tests.
var (
	sqlOpen = sql.Open

	gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
		return goose.UpContext(ctx, db, dir, opts...)
	}

	mongoConnect = func(ctx context.Context, uri string) (*mongo.Client, error) {
		return mongo.Connect(ctx, options.Client().ApplyURI(uri))
	}
)

// Open connects to the document store named by dsn. The scheme picks the
// backend: postgres:// or postgresql:// (migrated on open), mongodb:// or
// mongodb+srv://, and memory:// for an in-process store.
func Open(ctx context.Context, dsn string) (docstore.Store, error) {
	scheme, _, ok := strings.Cut(dsn, "://")
	if !ok {
		return nil, fmt.Errorf("database DSN %q has no scheme", redact(dsn))
	}

	switch scheme {
	case "memory":
		return docstore.NewMemory(), nil
	case "postgres", "postgresql":
		return openPostgres(ctx, dsn)
	case "mongodb", "mongodb+srv":
		return openMongo(ctx, dsn)
	default:
		return nil, fmt.Errorf("unsupported database scheme %q", scheme)
	}
}

func openPostgres(ctx context.Context, dsn string) (docstore.Store, error) {
	db, err := sqlOpen("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate postgres: %w", err)
	}
	return docstore.NewPostgres(db), nil
}

// RunMigrations applies the embedded goose migrations to db.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, ".")
}

func openMongo(ctx context.Context, dsn string) (docstore.Store, error) {
	client, err := mongoConnect(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	store := docstore.NewMongo(client, mongoDatabase(dsn))
	if err := store.EnsureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return store, nil
}

// mongoDatabase takes the database name from the DSN path.
func mongoDatabase(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil {
		return defaultMongoDatabase
	}
	if name := strings.Trim(u.Path, "/"); name != "" {
		return name
	}
	return defaultMongoDatabase
}

func redact(dsn string) string {
	u, err := url.Parse(dsn)
	if err != nil {
		return "<unparseable>"
	}
	return u.Redacted()
}
