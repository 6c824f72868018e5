package roles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jhontaff/JWT-Authentication/internal/common"
	"github.com/jhontaff/JWT-Authentication/internal/server/models"
)

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetByName(ctx context.Context, name string) (*models.Role, error) {
	query :=
		`SELECT id, name FROM roles
		 WHERE name = $1
		 `

	role := &models.Role{}
	err := r.db.QueryRowContext(ctx, query, name).Scan(&role.ID, &role.Name)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return role, nil
}
