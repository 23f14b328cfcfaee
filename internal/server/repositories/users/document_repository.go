package users

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/socialnet/internal/common"
	"github.com/dmitrijs2005/socialnet/internal/logging"
	"github.com/dmitrijs2005/socialnet/internal/server/models"
	"github.com/dmitrijs2005/socialnet/internal/server/repositories/documents"
)

// Document field names of a stored user.
const (
	fieldName     = "name"
	fieldSurname  = "surname"
	fieldEmail    = "email"
	fieldPassword = "password"
	fieldFriends  = "friends"
	fieldRole     = "role"
)

type DocumentRepository struct {
	store  documents.Repository
	logger logging.Logger
}

var _ Repository = (*DocumentRepository)(nil)

func NewDocumentRepository(store documents.Repository, l logging.Logger) *DocumentRepository {
	return &DocumentRepository{store: store, logger: l.With("module", "users")}
}

// InsertUser stores user and sets its ID. It does not check e-mail
// uniqueness itself; a clash with the storage index yields common.ErrDuplicate.
func (r *DocumentRepository) InsertUser(ctx context.Context, user *models.User) (string, error) {
	id, err := r.store.Insert(ctx, common.UsersCollection, toDocument(user))
	if err != nil {
		r.logger.Error(ctx, "Unable to insert user", "email", user.Email, "error", err)
		return "", fmt.Errorf("insert user: %w", err)
	}

	user.ID = id
	r.logger.Info(ctx, "New user inserted in the database", "email", user.Email, "id", id)
	return id, nil
}

func (r *DocumentRepository) GetUsers(ctx context.Context, criteria Criteria) ([]*models.User, error) {
	docs, err := r.store.Get(ctx, common.UsersCollection, criteria.filter())
	if err != nil {
		return nil, fmt.Errorf("get users: %w", err)
	}
	return fromDocuments(docs), nil
}

func (r *DocumentRepository) GetUsersAsync(ctx context.Context, criteria Criteria) <-chan Result {
	ch := make(chan Result, 1)
	pending := r.store.GetAsync(ctx, common.UsersCollection, criteria.filter())
	go func() {
		defer close(ch)
		res := <-pending
		if res.Err != nil {
			ch <- Result{Err: fmt.Errorf("get users: %w", res.Err)}
			return
		}
		ch <- Result{Users: fromDocuments(res.Documents)}
	}()
	return ch
}

// ListVisibleUsers returns every user except currentEmail and administrators.
func (r *DocumentRepository) ListVisibleUsers(ctx context.Context, currentEmail string) ([]*models.User, error) {
	filter := documents.Filter{Ne: map[string]string{
		fieldEmail: currentEmail,
		fieldRole:  common.RoleAdmin,
	}}
	docs, err := r.store.Get(ctx, common.UsersCollection, filter)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return fromDocuments(docs), nil
}

func (c Criteria) filter() documents.Filter {
	eq := map[string]any{}
	if c.Email != "" {
		eq[fieldEmail] = c.Email
	}
	if c.PasswordHash != "" {
		eq[fieldPassword] = c.PasswordHash
	}
	return documents.Filter{Eq: eq}
}

func toDocument(u *models.User) documents.Document {
	friends := u.Friends
	if friends == nil {
		friends = []string{}
	}
	doc := documents.Document{
		fieldName:     u.Name,
		fieldSurname:  u.Surname,
		fieldEmail:    u.Email,
		fieldPassword: u.PasswordHash,
		fieldFriends:  friends,
	}
	if u.Role != "" {
		doc[fieldRole] = u.Role
	}
	return doc
}

func fromDocuments(docs []documents.Document) []*models.User {
	out := make([]*models.User, 0, len(docs))
	for _, d := range docs {
		out = append(out, fromDocument(d))
	}
	return out
}

func fromDocument(d documents.Document) *models.User {
	u := &models.User{
		ID:           d.ID(),
		Name:         stringField(d, fieldName),
		Surname:      stringField(d, fieldSurname),
		Email:        stringField(d, fieldEmail),
		PasswordHash: stringField(d, fieldPassword),
		Role:         stringField(d, fieldRole),
		Friends:      []string{},
	}
	if list, ok := d[fieldFriends].([]any); ok {
		for _, f := range list {
			if s, ok := f.(string); ok {
				u.Friends = append(u.Friends, s)
			}
		}
	}
	return u
}

func stringField(d documents.Document, key string) string {
	s, _ := d[key].(string)
	return s
}
