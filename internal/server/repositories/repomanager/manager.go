package repomanager

import (
	"context"
	"database/sql"

	"github.com/snaplist/snaplist/internal/dbx"
	"github.com/snaplist/snaplist/internal/server/repositories/tasks"
	"github.com/snaplist/snaplist/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a plain connection or to a
// transaction, and exposes a schema migration hook.
type RepositoryManager interface {
	RunMigrations(ctx context.Context, db *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Tasks(db dbx.DBTX) tasks.Repository
}
