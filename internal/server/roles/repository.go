// Package roles reads the fixed role enumeration from storage.
package roles

import (
	"context"

	"github.com/jhontaff/JWT-Authentication/internal/server/models"
)

type Repository interface {
	// GetByName returns the role with the given name, or common.ErrNotFound.
	GetByName(ctx context.Context, name string) (*models.Role, error)
}
