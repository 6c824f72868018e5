// Package accounts persists customer accounts and their role assignments.
package accounts

import (
	"context"

	"github.com/jhontaff/JWT-Authentication/internal/server/models"
)

type Repository interface {
	// Create inserts the account and its role links. A duplicate email
	// surfaces as common.ErrDuplicateEmail via the unique constraint.
	Create(ctx context.Context, account *models.Account) (*models.Account, error)

	// GetByEmail loads an account with its roles, or common.ErrNotFound.
	GetByEmail(ctx context.Context, email string) (*models.Account, error)

	// ExistsByEmail is an indexed existence probe. It is advisory only:
	// the unique constraint is what actually guarantees uniqueness.
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
