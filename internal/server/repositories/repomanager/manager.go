package repomanager

import (
	"context"

	"github.com/dmitrijs2005/socialnet/internal/server/repositories/documents"
	"github.com/dmitrijs2005/socialnet/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(ctx context.Context) error
	Documents() documents.Repository
	Users() users.Repository
}
