// Package db wires the repositories to a concrete database and runs the
// schema migrations.
package db

import (
	"context"
	"database/sql"

	"github.com/jhontaff/JWT-Authentication/internal/server/accounts"
	"github.com/jhontaff/JWT-Authentication/internal/server/roles"
)

type RepositoryManager interface {
	Conn() *sql.DB
	Accounts() accounts.Repository
	Roles() roles.Repository
	RunMigrations(ctx context.Context) error
	Close() error
}
