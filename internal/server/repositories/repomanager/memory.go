package repomanager

import (
	"context"

	"github.com/dmitrijs2005/socialnet/internal/common"
	"github.com/dmitrijs2005/socialnet/internal/logging"
	"github.com/dmitrijs2005/socialnet/internal/server/repositories/documents"
	"github.com/dmitrijs2005/socialnet/internal/server/repositories/users"
)

// InMemoryRepositoryManager keeps everything in process memory. The users
// collection enforces e-mail uniqueness like the PostgreSQL schema does.
type InMemoryRepositoryManager struct {
	documents *documents.MemoryRepository
	users     users.Repository
}

var _ RepositoryManager = (*InMemoryRepositoryManager)(nil)

func NewInMemoryRepositoryManager(l logging.Logger) *InMemoryRepositoryManager {
	docs := documents.NewMemoryRepository(map[string]string{common.UsersCollection: "email"})
	return &InMemoryRepositoryManager{
		documents: docs,
		users:     users.NewDocumentRepository(docs, l),
	}
}

// RunMigrations is a no-op: there is no schema to create.
func (m *InMemoryRepositoryManager) RunMigrations(ctx context.Context) error {
	return nil
}

func (m *InMemoryRepositoryManager) Documents() documents.Repository {
	return m.documents
}

func (m *InMemoryRepositoryManager) Users() users.Repository {
	return m.users
}
