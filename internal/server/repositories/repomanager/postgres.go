// Package repomanager wires the PostgreSQL-backed repositories to a shared
// connection gateway and runs the embedded schema migrations (via goose).
package repomanager

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/socialnet/internal/dbx"
	"github.com/dmitrijs2005/socialnet/internal/logging"
	"github.com/dmitrijs2005/socialnet/internal/server/migrations"
	"github.com/dmitrijs2005/socialnet/internal/server/repositories/documents"
	"github.com/dmitrijs2005/socialnet/internal/server/repositories/users"
	"github.com/pressly/goose/v3"
)

// Gateway is the part of *dbx.Gateway the manager depends on.
type Gateway interface {
	WithConnection(ctx context.Context, op dbx.Operation) error
	WithDB(ctx context.Context, op dbx.DBOperation) error
}

// PostgresRepositoryManager vends repositories that share one gateway.
type PostgresRepositoryManager struct {
	gateway   Gateway
	documents documents.Repository
	users     users.Repository
}

var _ RepositoryManager = (*PostgresRepositoryManager)(nil)

// NewPostgresRepositoryManager constructs a PostgreSQL-backed RepositoryManager.
func NewPostgresRepositoryManager(g Gateway, l logging.Logger) *PostgresRepositoryManager {
	docs := documents.NewPostgresRepository(g, l)
	return &PostgresRepositoryManager{
		gateway:   g,
		documents: docs,
		users:     users.NewDocumentRepository(docs, l),
	}
}

func (m *PostgresRepositoryManager) Documents() documents.Repository {
	return m.documents
}

func (m *PostgresRepositoryManager) Users() users.Repository {
	return m.users
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunMigrations applies the embedded migrations over a dedicated connection.
func (m *PostgresRepositoryManager) RunMigrations(ctx context.Context) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}

	return m.gateway.WithDB(ctx, func(ctx context.Context, db *sql.DB) error {
		if err := gooseUpContext(ctx, db, "."); err != nil {
			return fmt.Errorf("migration error: %w", err)
		}
		return nil
	})
}
