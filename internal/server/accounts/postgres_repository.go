package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jhontaff/JWT-Authentication/internal/common"
	"github.com/jhontaff/JWT-Authentication/internal/dbx"
	"github.com/jhontaff/JWT-Authentication/internal/server/models"
)

// uniqueViolation is the PostgreSQL error code for a unique constraint hit.
const uniqueViolation = "23505"

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts the account row and its role links in one transaction.
// The unique index on email turns a concurrent duplicate registration into
// common.ErrDuplicateEmail instead of a second account.
func (r *PostgresRepository) Create(ctx context.Context, account *models.Account) (*models.Account, error) {
	if account.ID == "" {
		account.ID = uuid.NewString()
	}

	err := dbx.WithTx(ctx, r.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		query :=
			`INSERT INTO accounts (id, email, username, lastname, address, password_hash)
			 VALUES ($1, $2, $3, $4, $5, $6)
			 RETURNING created_at
			 `

		err := tx.QueryRowContext(ctx, query,
			account.ID, account.Email, account.Username, account.Lastname,
			account.Address, account.PasswordHash).Scan(&account.CreatedAt)

		if err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
				return common.ErrDuplicateEmail
			}
			return fmt.Errorf("db error: %w", err)
		}

		for _, role := range account.Roles {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO account_roles (account_id, role_id) VALUES ($1, $2)`,
				account.ID, role.ID)
			if err != nil {
				return fmt.Errorf("db error: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return account, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.Account, error) {
	query :=
		`SELECT id, email, username, lastname, address, password_hash, created_at
		 FROM accounts
		 WHERE email = $1
		 `

	account := &models.Account{}
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&account.ID, &account.Email, &account.Username, &account.Lastname,
		&account.Address, &account.PasswordHash, &account.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	roles, err := r.rolesFor(ctx, account.ID)
	if err != nil {
		return nil, err
	}
	account.Roles = roles

	return account, nil
}

func (r *PostgresRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM accounts WHERE email = $1)`, email).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}
	return exists, nil
}

func (r *PostgresRepository) rolesFor(ctx context.Context, accountID string) ([]models.Role, error) {
	query :=
		`SELECT r.id, r.name
		 FROM roles r
		 JOIN account_roles ar ON ar.role_id = r.id
		 WHERE ar.account_id = $1
		 ORDER BY r.id
		 `

	rows, err := r.db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var roles []models.Role
	for rows.Next() {
		var role models.Role
		if err := rows.Scan(&role.ID, &role.Name); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		roles = append(roles, role)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return roles, nil
}
