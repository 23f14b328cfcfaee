package dbx

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/socialnet/internal/common"
	"github.com/dmitrijs2005/socialnet/internal/logging"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// DefaultConnectTimeout bounds connection acquisition when no timeout is configured.
const DefaultConnectTimeout = 5 * time.Second

// Opener returns a fresh, independent database handle. The Gateway closes the
// handle after every operation.
type Opener func(ctx context.Context) (*sql.DB, error)

// PgxOpener opens a single-connection handle to the PostgreSQL server at dsn
// using the pgx stdlib driver.
func PgxOpener(dsn string) Opener {
	return func(ctx context.Context) (*sql.DB, error) {
		db, err := sql.Open("pgx", dsn)
		if err != nil {
			return nil, fmt.Errorf("db open error: %w", err)
		}
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
		return db, nil
	}
}

// Operation is run against the connection acquired by WithConnection.
type Operation func(ctx context.Context, conn DBTX) error

// DBOperation is run against the raw handle acquired by WithDB. Used by
// tooling such as migrations that needs *sql.DB itself.
type DBOperation func(ctx context.Context, db *sql.DB) error

// Gateway opens one connection per call, runs a single operation against it
// and closes it afterwards. There is no pooling and no retry.
type Gateway struct {
	open    Opener
	timeout time.Duration
	logger  logging.Logger
}

// NewGateway builds a Gateway. A non-positive timeout falls back to
// DefaultConnectTimeout.
func NewGateway(open Opener, timeout time.Duration, l logging.Logger) *Gateway {
	if timeout <= 0 {
		timeout = DefaultConnectTimeout
	}
	return &Gateway{
		open:    open,
		timeout: timeout,
		logger:  l.With("module", "dbx"),
	}
}

// WithConnection acquires a connection, invokes op and releases the
// connection on every exit path, a panic inside op included.
//
// A connect failure (open error, failed ping or timeout) is logged once and
// reported as common.ErrNoConnection. A panic in op is recovered after the
// connection is closed and returned wrapped in common.ErrQuery. Any error
// returned by op is passed through unchanged.
func (g *Gateway) WithConnection(ctx context.Context, op Operation) error {
	return g.WithDB(ctx, func(ctx context.Context, db *sql.DB) error {
		return op(ctx, db)
	})
}

// WithDB is WithConnection for operations that need the *sql.DB handle.
func (g *Gateway) WithDB(ctx context.Context, op DBOperation) (err error) {
	db, err := g.connect(ctx)
	if err != nil {
		g.logger.Error(ctx, "Unable to connect to the database", "error", err)
		return common.ErrNoConnection
	}

	defer func() {
		if p := recover(); p != nil {
			g.logger.Error(ctx, "Database operation panicked", "panic", p)
			err = fmt.Errorf("%w: operation panicked: %v", common.ErrQuery, p)
		}
		if cerr := db.Close(); cerr != nil {
			g.logger.Warn(ctx, "Unable to close the database connection", "error", cerr)
		}
	}()

	return op(ctx, db)
}

func (g *Gateway) connect(ctx context.Context) (*sql.DB, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	db, err := g.open(ctx)
	if err != nil {
		return nil, err
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	return db, nil
}
