package repomanager

import (
	"context"
	"database/sql"

	"github.com/avolkov/authgate/internal/dbx"
	"github.com/avolkov/authgate/internal/server/repositories/sessions"
	"github.com/avolkov/authgate/internal/server/repositories/users"
)

// RepositoryManager vends repository implementations bound to a database
// handle and exposes a schema migration hook.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Sessions(db dbx.DBTX) sessions.Repository
}
