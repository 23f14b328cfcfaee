package repomanager

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/socialnet/internal/common"
	"github.com/dmitrijs2005/socialnet/internal/logging"
	"github.com/dmitrijs2005/socialnet/internal/server/models"
	"github.com/dmitrijs2005/socialnet/internal/server/repositories/documents"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInMemoryRepositoryManager_SharesStore(t *testing.T) {
	ctx := context.Background()
	m := NewInMemoryRepositoryManager(logging.NewNopLogger())
	require.NoError(t, m.RunMigrations(ctx))

	_, err := m.Users().InsertUser(ctx, &models.User{Name: "Ann", Surname: "Lee", Email: "a@x.com", PasswordHash: "h"})
	require.NoError(t, err)

	_, err = m.Users().InsertUser(ctx, &models.User{Name: "Ann", Surname: "Lee", Email: "a@x.com", PasswordHash: "h"})
	require.ErrorIs(t, err, common.ErrDuplicate)

	require.NoError(t, m.Documents().Clear(ctx, common.UsersCollection))
	left, err := m.Documents().Get(ctx, common.UsersCollection, documents.Filter{})
	require.NoError(t, err)
	assert.Empty(t, left)
}
