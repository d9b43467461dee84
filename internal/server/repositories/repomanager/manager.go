// Package repomanager opens the configured user store and owns its
// lifecycle: schema migrations at startup and connection teardown.
package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/gophauth/internal/server/repositories/users"
	_ "github.com/jackc/pgx/v5/stdlib"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	_ "modernc.org/sqlite"
)

// Supported store drivers.
const (
	DriverMongo    = "mongo"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
	DriverMemory   = "memory"
)

type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	Users() users.Repository
	Close(ctx context.Context) error
}

// Options selects and locates the backing store.
type Options struct {
	Driver        string
	DSN           string
	MongoDatabase string
}

// sqlOpen and mongoConnect are seams for tests.
var (
	sqlOpen      = sql.Open
	mongoConnect = func(ctx context.Context, uri string) (*mongo.Client, error) {
		return mongo.Connect(ctx, options.Client().ApplyURI(uri))
	}
)

// Open connects to the store named by opts.Driver and returns its manager.
// Migrations are not run; call RunMigrations once the manager is open.
func Open(ctx context.Context, opts Options) (RepositoryManager, error) {
	switch opts.Driver {
	case DriverMemory:
		return NewInMemoryRepositoryManager(), nil

	case DriverPostgres:
		db, err := openSQL(ctx, "pgx", opts.DSN)
		if err != nil {
			return nil, err
		}
		return NewPostgresRepositoryManager(db), nil

	case DriverSQLite:
		db, err := openSQL(ctx, "sqlite", opts.DSN)
		if err != nil {
			return nil, err
		}
		// single writer; also keeps a :memory: database on one connection
		db.SetMaxOpenConns(1)
		return NewSQLiteRepositoryManager(db), nil

	case DriverMongo:
		client, err := mongoConnect(ctx, opts.DSN)
		if err != nil {
			return nil, fmt.Errorf("mongo connect: %w", err)
		}
		if err := client.Ping(ctx, readpref.Primary()); err != nil {
			_ = client.Disconnect(ctx)
			return nil, fmt.Errorf("mongo ping: %w", err)
		}
		return NewMongoRepositoryManager(client, opts.MongoDatabase), nil
	}

	return nil, fmt.Errorf("unknown store driver %q", opts.Driver)
}

func openSQL(ctx context.Context, driverName, dsn string) (*sql.DB, error) {
	db, err := sqlOpen(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("%s open: %w", driverName, err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s ping: %w", driverName, err)
	}
	return db, nil
}
