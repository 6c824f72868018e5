// Package users contains the account business logic: registration, login,
// and credential verification. Tokens are minted by the auth codec; the
// service never stores or logs a plaintext password.
package users

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/jhontaff/JWT-Authentication/internal/common"
	"github.com/jhontaff/JWT-Authentication/internal/logging"
	"github.com/jhontaff/JWT-Authentication/internal/server/accounts"
	"github.com/jhontaff/JWT-Authentication/internal/server/auth"
	"github.com/jhontaff/JWT-Authentication/internal/server/config"
	"github.com/jhontaff/JWT-Authentication/internal/server/models"
	"github.com/jhontaff/JWT-Authentication/internal/server/roles"
)

// RegisterRequest is a new-account submission.
type RegisterRequest struct {
	Email           string
	Username        string
	Lastname        string
	Address         string
	Password        string
	ConfirmPassword string
	Roles           []string
}

type Service struct {
	accounts   accounts.Repository
	roles      roles.Repository
	codec      *auth.Codec
	bcryptCost int
	logger     logging.Logger
}

func NewService(accountRepo accounts.Repository, roleRepo roles.Repository, codec *auth.Codec, cfg *config.Config, logger logging.Logger) *Service {
	return &Service{
		accounts:   accountRepo,
		roles:      roleRepo,
		codec:      codec,
		bcryptCost: cfg.BcryptCost,
		logger:     logger.With("module", "users"),
	}
}

// Register validates the submission, hashes the password, attaches the
// default role when none is named, persists the account, and issues a
// session token for the new identity.
//
// The existence pre-check is advisory; a concurrent duplicate insert is
// caught by the storage unique constraint and surfaces the same
// common.ErrDuplicateEmail.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (string, error) {

	if req.Password != req.ConfirmPassword {
		return "", common.ErrPasswordMismatch
	}

	exists, err := s.accounts.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return "", fmt.Errorf("error checking email: %w", err)
	}
	if exists {
		return "", common.ErrDuplicateEmail
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return "", fmt.Errorf("error hashing password: %w", err)
	}

	roleList, err := s.resolveRoles(ctx, req.Roles)
	if err != nil {
		return "", err
	}

	account := &models.Account{
		Email:        req.Email,
		Username:     req.Username,
		Lastname:     req.Lastname,
		Address:      req.Address,
		PasswordHash: string(hash),
		Roles:        roleList,
	}

	if _, err := s.accounts.Create(ctx, account); err != nil {
		if errors.Is(err, common.ErrDuplicateEmail) {
			return "", common.ErrDuplicateEmail
		}
		return "", fmt.Errorf("error creating account: %w", err)
	}

	s.logger.Info(ctx, "account registered", "email", account.Email)

	return s.issueToken(account)
}

// Verify checks the presented credentials and returns the matching account.
// Unknown email and wrong password both come back as
// common.ErrAuthenticationFailed so callers cannot tell which half failed.
func (s *Service) Verify(ctx context.Context, email, password string) (*models.Account, error) {
	account, err := s.accounts.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrAuthenticationFailed
		}
		return nil, common.ErrInternal
	}

	if bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) != nil {
		return nil, common.ErrAuthenticationFailed
	}

	return account, nil
}

// Login authenticates the credentials and issues a session token.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	account, err := s.Verify(ctx, email, password)
	if err != nil {
		return "", err
	}

	s.logger.Info(ctx, "login", "email", account.Email)

	return s.issueToken(account)
}

// issueToken mints a token with subject = email and no extra claims.
// Roles are not embedded: the authentication filter re-reads them from the
// store on each request, so register and login stay consistent.
func (s *Service) issueToken(account *models.Account) (string, error) {
	token, err := s.codec.Issue(account.Email, nil)
	if err != nil {
		return "", fmt.Errorf("error issuing token: %w", err)
	}
	return token, nil
}

// resolveRoles maps submitted role names to stored roles, defaulting to
// exactly one USER role. An unknown role name means the role table was not
// seeded and is a fatal consistency error, not a validation failure.
func (s *Service) resolveRoles(ctx context.Context, names []string) ([]models.Role, error) {
	if len(names) == 0 {
		names = []string{models.RoleUser}
	}

	roleList := make([]models.Role, 0, len(names))
	for _, name := range names {
		role, err := s.roles.GetByName(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("role %q is not configured: %w", name, err)
		}
		roleList = append(roleList, *role)
	}

	return roleList, nil
}
