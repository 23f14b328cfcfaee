package users

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/dmitrijs2005/socialnet/internal/common"
	"github.com/dmitrijs2005/socialnet/internal/logging"
	"github.com/dmitrijs2005/socialnet/internal/server/models"
	"github.com/dmitrijs2005/socialnet/internal/server/repositories/documents"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStore struct {
	err error
}

func (f *failingStore) Clear(context.Context, string) error { return f.err }
func (f *failingStore) Get(context.Context, string, documents.Filter) ([]documents.Document, error) {
	return nil, f.err
}
func (f *failingStore) GetAsync(context.Context, string, documents.Filter) <-chan documents.Result {
	ch := make(chan documents.Result, 1)
	ch <- documents.Result{Err: f.err}
	close(ch)
	return ch
}
func (f *failingStore) Insert(context.Context, string, documents.Document) (string, error) {
	return "", f.err
}

func newRepo(t *testing.T) (*DocumentRepository, *documents.MemoryRepository, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	l := logging.NewSlogLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	store := documents.NewMemoryRepository(map[string]string{common.UsersCollection: "email"})
	return NewDocumentRepository(store, l), store, &buf
}

func TestInsertUser_ThenGetUsersByEmail(t *testing.T) {
	repo, _, logs := newRepo(t)
	ctx := context.Background()

	u := &models.User{Name: "Ann", Surname: "Lee", Email: "a@x.com", PasswordHash: "hash-of-pw1"}
	id, err := repo.InsertUser(ctx, u)
	require.NoError(t, err)
	require.NotEmpty(t, id)
	assert.Equal(t, id, u.ID)
	assert.Contains(t, logs.String(), "New user inserted in the database")
	assert.Contains(t, logs.String(), "a@x.com")
	assert.Contains(t, logs.String(), id)

	got, err := repo.GetUsers(ctx, Criteria{Email: "a@x.com"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, &models.User{
		ID: id, Name: "Ann", Surname: "Lee", Email: "a@x.com",
		PasswordHash: "hash-of-pw1", Friends: []string{},
	}, got[0])
}

func TestInsertUser_Duplicate(t *testing.T) {
	repo, _, logs := newRepo(t)
	ctx := context.Background()

	_, err := repo.InsertUser(ctx, &models.User{Email: "a@x.com", PasswordHash: "h"})
	require.NoError(t, err)

	id, err := repo.InsertUser(ctx, &models.User{Email: "a@x.com", PasswordHash: "h"})
	require.ErrorIs(t, err, common.ErrDuplicate)
	assert.Empty(t, id)
	assert.Contains(t, logs.String(), "Unable to insert user")
}

func TestInsertUser_StoreFailure(t *testing.T) {
	repo := NewDocumentRepository(&failingStore{err: common.ErrNoConnection}, logging.NewNopLogger())

	u := &models.User{Email: "a@x.com"}
	id, err := repo.InsertUser(context.Background(), u)
	require.ErrorIs(t, err, common.ErrNoConnection)
	assert.Empty(t, id)
	assert.Empty(t, u.ID)
}

func TestGetUsers_Criteria(t *testing.T) {
	repo, _, _ := newRepo(t)
	ctx := context.Background()

	for _, u := range []*models.User{
		{Email: "a@x.com", PasswordHash: "h1"},
		{Email: "b@x.com", PasswordHash: "h2", Role: common.RoleAdmin, Friends: []string{"x"}},
	} {
		_, err := repo.InsertUser(ctx, u)
		require.NoError(t, err)
	}

	all, err := repo.GetUsers(ctx, Criteria{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, common.RoleAdmin, all[1].Role)
	assert.Equal(t, []string{"x"}, all[1].Friends)

	match, err := repo.GetUsers(ctx, Criteria{Email: "a@x.com", PasswordHash: "h1"})
	require.NoError(t, err)
	assert.Len(t, match, 1)

	wrong, err := repo.GetUsers(ctx, Criteria{Email: "a@x.com", PasswordHash: "h2"})
	require.NoError(t, err)
	assert.Empty(t, wrong)
}

func TestGetUsers_FailureIsNotEmpty(t *testing.T) {
	boom := errors.New("boom")
	repo := NewDocumentRepository(&failingStore{err: boom}, logging.NewNopLogger())

	got, err := repo.GetUsers(context.Background(), Criteria{Email: "a@x.com"})
	require.ErrorIs(t, err, boom)
	assert.Nil(t, got)

	res := <-repo.GetUsersAsync(context.Background(), Criteria{Email: "a@x.com"})
	require.ErrorIs(t, res.Err, boom)
	assert.Nil(t, res.Users)
}

func TestGetUsersAsync(t *testing.T) {
	repo, _, _ := newRepo(t)
	ctx := context.Background()

	_, err := repo.InsertUser(ctx, &models.User{Email: "a@x.com", PasswordHash: "h"})
	require.NoError(t, err)

	res := <-repo.GetUsersAsync(ctx, Criteria{Email: "a@x.com"})
	require.NoError(t, res.Err)
	require.Len(t, res.Users, 1)
	assert.Equal(t, "a@x.com", res.Users[0].Email)
}

func TestListVisibleUsers_ExcludesCurrentAndAdmins(t *testing.T) {
	repo, _, _ := newRepo(t)
	ctx := context.Background()

	for _, u := range []*models.User{
		{Email: "me@x.com", PasswordHash: "h"},
		{Email: "root@x.com", PasswordHash: "h", Role: common.RoleAdmin},
		{Email: "bob@x.com", PasswordHash: "h"},
		{Email: "eve@x.com", PasswordHash: "h"},
	} {
		_, err := repo.InsertUser(ctx, u)
		require.NoError(t, err)
	}

	got, err := repo.ListVisibleUsers(ctx, "me@x.com")
	require.NoError(t, err)
	emails := make([]string, 0, len(got))
	for _, u := range got {
		emails = append(emails, u.Email)
	}
	assert.Equal(t, []string{"bob@x.com", "eve@x.com"}, emails)
}
