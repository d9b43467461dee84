package services

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/users"
)

// TokenIssuer is satisfied by auth.TokenManager.
type TokenIssuer interface {
	Issue(userID, email string) (string, error)
	Verify(token string) (*auth.Claims, error)
}

// LoginResult is returned on a successful login.
type LoginResult struct {
	AccessToken string             `json:"access_token"`
	User        *models.PublicUser `json:"user"`
}

// dummyPassword is hashed once and compared against when the login email is
// unknown, so both rejection paths pay for a bcrypt comparison.
const dummyPassword = "gophauth-dummy-password"

type AuthService struct {
	users    users.Repository
	identity *IdentityService
	hasher   PasswordHasher
	tokens   TokenIssuer
	logger   logging.Logger

	dummyOnce sync.Once
	dummyHash string
}

func NewAuthService(repo users.Repository, identity *IdentityService, h PasswordHasher, t TokenIssuer, l logging.Logger) *AuthService {
	return &AuthService{
		users:    repo,
		identity: identity,
		hasher:   h,
		tokens:   t,
		logger:   l.With("module", "auth_service"),
	}
}

func (s *AuthService) burnCompare(password string) {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.hasher.Hash(dummyPassword)
	})
	s.hasher.Verify(password, s.dummyHash)
}

// Login checks the credentials and issues an access token. An unknown email
// and a wrong password both return common.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.burnCompare(password)
			s.logger.Warn(ctx, "login rejected")
			return nil, common.ErrInvalidCredentials
		}
		s.logger.Error(ctx, "user lookup failed", "error", err)
		return nil, fmt.Errorf("find user: %w", err)
	}

	if !s.hasher.Verify(password, u.PasswordHash) {
		s.logger.Warn(ctx, "login rejected")
		return nil, common.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(u.ID, u.Email)
	if err != nil {
		s.logger.Error(ctx, "token issue failed", "error", err)
		return nil, err
	}

	return &LoginResult{AccessToken: token, User: models.NewPublicUser(u)}, nil
}

// Register creates the account without issuing a token. A taken email is
// reported as common.ErrAlreadyRegistered.
func (s *AuthService) Register(ctx context.Context, f models.UserFields) (*models.PublicUser, error) {
	u, err := s.identity.Register(ctx, f)
	if err != nil {
		if errors.Is(err, common.ErrConflict) {
			return nil, common.ErrAlreadyRegistered
		}
		return nil, err
	}
	return u, nil
}

// Authenticate verifies a bearer token and returns its claims.
func (s *AuthService) Authenticate(token string) (*auth.Claims, error) {
	return s.tokens.Verify(token)
}
