// Package services contains server-side business logic. This file implements
// UserService, which handles registration, login and issuing session tokens.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/socialnet/internal/common"
	"github.com/dmitrijs2005/socialnet/internal/cryptox"
	"github.com/dmitrijs2005/socialnet/internal/logging"
	"github.com/dmitrijs2005/socialnet/internal/server/auth"
	"github.com/dmitrijs2005/socialnet/internal/server/config"
	"github.com/dmitrijs2005/socialnet/internal/server/models"
	"github.com/dmitrijs2005/socialnet/internal/server/repositories/users"
)

// UserService provides authentication-related operations:
// - Register: validate a sign-up form and create the user
// - Login: verify credentials
// - IssueSession/ParseSession: mint and verify session tokens
type UserService struct {
	users                        users.Repository
	validator                    *RegistrationValidator
	hash                         cryptox.Hasher
	logger                       logging.Logger
	jwtSecret                    []byte
	sessionTokenValidityDuration time.Duration
}

// NewUserService constructs a UserService over the users repository and server config.
func NewUserService(repo users.Repository, hash cryptox.Hasher, cfg *config.Config, l logging.Logger) *UserService {
	return &UserService{
		users:                        repo,
		validator:                    NewRegistrationValidator(repo, l),
		hash:                         hash,
		logger:                       l.With("module", "user_service"),
		jwtSecret:                    []byte(cfg.SecretKey),
		sessionTokenValidityDuration: cfg.SessionTokenValidityDuration,
	}
}

// Login looks the account up by e-mail and hashed password. No match, an
// empty e-mail and a failed lookup all yield common.ErrAuthFailure.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, error) {
	// an empty Criteria field is ignored, which would match on the hash alone
	if email == "" {
		return nil, common.ErrAuthFailure
	}

	found, err := s.users.GetUsers(ctx, users.Criteria{Email: email, PasswordHash: s.hash(password)})
	if err != nil {
		return nil, common.ErrAuthFailure
	}

	switch len(found) {
	case 0:
		return nil, common.ErrAuthFailure
	case 1:
		return found[0], nil
	default:
		s.logger.Error(ctx, "invariant violation: several users share an email", "email", email, "count", len(found))
		return nil, common.ErrAuthFailure
	}
}

// Register validates form and, when it is valid, stores a new user with a
// hashed password and no friends. Validation problems are returned as the
// second value with a nil user. A duplicate reported by the store is turned
// into the MsgEmailInUse validation error.
func (s *UserService) Register(ctx context.Context, form RegistrationForm) (*models.User, []ValidationError, error) {
	if errs := s.validator.Validate(ctx, form); len(errs) > 0 {
		return nil, errs, nil
	}

	user := &models.User{
		Name:         form.Name,
		Surname:      form.Surname,
		Email:        form.Email,
		PasswordHash: s.hash(form.Password),
		Friends:      []string{},
	}

	if _, err := s.users.InsertUser(ctx, user); err != nil {
		if errors.Is(err, common.ErrDuplicate) {
			return nil, []ValidationError{{Severity: SeverityWarning, Message: MsgEmailInUse}}, nil
		}
		return nil, nil, fmt.Errorf("error creating user: %w", err)
	}

	return user, nil, nil
}

// IssueSession returns a signed session token carrying the user's identity.
func (s *UserService) IssueSession(user *models.User) (string, error) {
	token, err := auth.GenerateToken(user.ID, user.Email, s.jwtSecret, s.sessionTokenValidityDuration)
	if err != nil {
		return "", common.ErrorInternal
	}
	return token, nil
}

// ParseSession verifies a token minted by IssueSession and returns its claims.
func (s *UserService) ParseSession(token string) (*auth.Claims, error) {
	return auth.ParseToken(token, s.jwtSecret)
}

// ListUsers returns the accounts visible to currentEmail.
func (s *UserService) ListUsers(ctx context.Context, currentEmail string) ([]*models.User, error) {
	return s.users.ListVisibleUsers(ctx, currentEmail)
}
