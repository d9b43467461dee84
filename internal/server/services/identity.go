// Package services holds the identity and authentication use cases. Both
// return models.PublicUser; stored records with password hashes stay inside
// this package and the stores.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/users"
)

// PasswordHasher is satisfied by hasher.BcryptHasher.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) bool
}

type IdentityService struct {
	users  users.Repository
	hasher PasswordHasher
	logger logging.Logger
}

func NewIdentityService(repo users.Repository, h PasswordHasher, l logging.Logger) *IdentityService {
	return &IdentityService{
		users:  repo,
		hasher: h,
		logger: l.With("module", "identity_service"),
	}
}

// Register creates a user from f. The email must not be held by another user
// in any letter case.
func (s *IdentityService) Register(ctx context.Context, f models.UserFields) (*models.PublicUser, error) {
	email := strings.TrimSpace(f.Email)
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(f.Password); err != nil {
		return nil, err
	}

	_, err := s.users.FindByEmail(ctx, email)
	if err == nil {
		return nil, common.ErrConflict
	}
	if !errors.Is(err, common.ErrorNotFound) {
		s.logger.Error(ctx, "user lookup failed", "error", err)
		return nil, fmt.Errorf("find user: %w", err)
	}

	hash, err := s.hasher.Hash(f.Password)
	if err != nil {
		return nil, err
	}

	u, err := s.users.Create(ctx, &models.User{
		Email:        email,
		PasswordHash: hash,
		Username:     f.Username,
		FirstName:    f.FirstName,
		LastName:     f.LastName,
		Address:      f.Address,
		Phone:        f.Phone,
	})
	if err != nil {
		if errors.Is(err, common.ErrConflict) {
			return nil, common.ErrConflict
		}
		s.logger.Error(ctx, "user create failed", "error", err)
		return nil, fmt.Errorf("create user: %w", err)
	}

	s.logger.Info(ctx, "user registered", "user_id", u.ID)
	return models.NewPublicUser(u), nil
}

func (s *IdentityService) GetPublicProfile(ctx context.Context, id string) (*models.PublicUser, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return models.NewPublicUser(u), nil
}

func (s *IdentityService) ListPublicProfiles(ctx context.Context) ([]*models.PublicUser, error) {
	list, err := s.users.ListAll(ctx)
	if err != nil {
		s.logger.Error(ctx, "user list failed", "error", err)
		return nil, err
	}
	return models.NewPublicUsers(list), nil
}

// UpdateProfile applies patch to the user with the given id. A plaintext
// password in the patch is validated and hashed before it reaches the store.
func (s *IdentityService) UpdateProfile(ctx context.Context, id string, patch models.UserPatch) (*models.PublicUser, error) {
	if patch.Email != nil {
		email := strings.TrimSpace(*patch.Email)
		if err := validateEmail(email); err != nil {
			return nil, err
		}
		patch.Email = &email
	}

	if patch.Password != nil {
		if err := validatePassword(*patch.Password); err != nil {
			return nil, err
		}
		hash, err := s.hasher.Hash(*patch.Password)
		if err != nil {
			return nil, err
		}
		patch.PasswordHash = &hash
		patch.Password = nil
	}

	u, err := s.users.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "user updated", "user_id", id)
	return models.NewPublicUser(u), nil
}

// DeleteProfile removes the user. Removing an unknown id is
// common.ErrorNotFound, not a no-op.
func (s *IdentityService) DeleteProfile(ctx context.Context, id string) error {
	if err := s.users.Remove(ctx, id); err != nil {
		return err
	}
	s.logger.Info(ctx, "user deleted", "user_id", id)
	return nil
}
