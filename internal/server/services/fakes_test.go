package services

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/socialnet/internal/logging"
	"github.com/dmitrijs2005/socialnet/internal/server/models"
	"github.com/dmitrijs2005/socialnet/internal/server/repositories/users"
)

type fakeUsersRepo struct {
	mu sync.Mutex

	getOut []*models.User
	getErr error
	// release, when set, delays GetUsersAsync delivery until closed
	release chan struct{}

	insertErr func(u *models.User) error
	inserted  []*models.User
	criteria  []users.Criteria

	listOut []*models.User
	listErr error
}

var _ users.Repository = (*fakeUsersRepo)(nil)

func (f *fakeUsersRepo) InsertUser(ctx context.Context, u *models.User) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		if err := f.insertErr(u); err != nil {
			return "", err
		}
	}
	u.ID = "id-" + u.Email
	f.inserted = append(f.inserted, u)
	return u.ID, nil
}

func (f *fakeUsersRepo) GetUsers(ctx context.Context, c users.Criteria) ([]*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.criteria = append(f.criteria, c)
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeUsersRepo) GetUsersAsync(ctx context.Context, c users.Criteria) <-chan users.Result {
	ch := make(chan users.Result, 1)
	go func() {
		defer close(ch)
		if f.release != nil {
			<-f.release
		}
		u, err := f.GetUsers(ctx, c)
		ch <- users.Result{Users: u, Err: err}
	}()
	return ch
}

func (f *fakeUsersRepo) ListVisibleUsers(ctx context.Context, currentEmail string) ([]*models.User, error) {
	return f.listOut, f.listErr
}

func (f *fakeUsersRepo) calls() []users.Criteria {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]users.Criteria(nil), f.criteria...)
}

// recordingLogger keeps messages per level.
type recordingLogger struct {
	mu     sync.Mutex
	infos  []string
	errors []string
}

func (l *recordingLogger) Debug(ctx context.Context, msg string, args ...any) {}
func (l *recordingLogger) Warn(ctx context.Context, msg string, args ...any)  {}

func (l *recordingLogger) Info(ctx context.Context, msg string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.infos = append(l.infos, msg)
}

func (l *recordingLogger) Error(ctx context.Context, msg string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errors = append(l.errors, msg)
}

func (l *recordingLogger) With(args ...any) logging.Logger { return l }

func testHasher(s string) string { return "hash(" + s + ")" }
