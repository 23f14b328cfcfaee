package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/socialnet/internal/common"
	"github.com/dmitrijs2005/socialnet/internal/cryptox"
	"github.com/dmitrijs2005/socialnet/internal/logging"
	"github.com/dmitrijs2005/socialnet/internal/server/models"
	"github.com/dmitrijs2005/socialnet/internal/server/repositories/documents"
	"github.com/dmitrijs2005/socialnet/internal/server/repositories/users"
	"github.com/dmitrijs2005/socialnet/internal/server/seed"
	"golang.org/x/sync/errgroup"
)

// maxParallelInserts bounds the seed inserts in flight during a reset.
const maxParallelInserts = 8

// ResetService restores the users collection to the seed state.
type ResetService struct {
	store  documents.Repository
	users  users.Repository
	source seed.Source
	hash   cryptox.Hasher
	logger logging.Logger
}

func NewResetService(store documents.Repository, repo users.Repository, src seed.Source, hash cryptox.Hasher, l logging.Logger) *ResetService {
	return &ResetService{
		store:  store,
		users:  repo,
		source: src,
		hash:   hash,
		logger: l.With("module", "reset"),
	}
}

// Reset clears the users collection and inserts every seed user with a hashed
// password. It returns once every insert has settled; failed inserts are
// joined into the returned error. Seed data is loaded before anything is
// cleared, so a malformed seed leaves the collection untouched.
// Clearing and re-inserting is not atomic.
func (s *ResetService) Reset(ctx context.Context) error {
	s.logger.Info(ctx, "Reset of the database invoked")

	data, err := s.source.Load(ctx)
	if err != nil {
		s.logger.Error(ctx, "Unable to load seed data", "error", err)
		return fmt.Errorf("load seed: %w", err)
	}

	if err := s.store.Clear(ctx, common.UsersCollection); err != nil {
		return fmt.Errorf("clear users: %w", err)
	}

	var (
		mu   sync.Mutex
		errs []error
		g    errgroup.Group
	)
	g.SetLimit(maxParallelInserts)

	for _, su := range data.Users {
		user := s.fromSeed(su)
		g.Go(func() error {
			if _, err := s.users.InsertUser(ctx, user); err != nil {
				mu.Lock()
				errs = append(errs, err)
				mu.Unlock()
			}
			return nil
		})
	}
	// closures never fail the group; insert errors are collected in errs
	_ = g.Wait()

	if len(errs) > 0 {
		return fmt.Errorf("reset: %d of %d users not inserted: %w", len(errs), len(data.Users), errors.Join(errs...))
	}

	s.logger.Info(ctx, "Reset of the database completed", "users", len(data.Users))
	return nil
}

func (s *ResetService) fromSeed(su seed.User) *models.User {
	friends := su.Friends
	if friends == nil {
		friends = []string{}
	}
	return &models.User{
		Name:         su.Name,
		Surname:      su.Surname,
		Email:        su.Email,
		PasswordHash: s.hash(su.Password),
		Friends:      friends,
		Role:         su.Role,
	}
}
