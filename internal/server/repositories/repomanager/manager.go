package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/todoapi/internal/dbx"
	"github.com/dmitrijs2005/todoapi/internal/server/repositories/categories"
	"github.com/dmitrijs2005/todoapi/internal/server/repositories/priorities"
	"github.com/dmitrijs2005/todoapi/internal/server/repositories/tasks"
	"github.com/dmitrijs2005/todoapi/internal/server/repositories/tokens"
	"github.com/dmitrijs2005/todoapi/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DBTX, so a service can
// run several of them inside one transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Tokens(db dbx.DBTX) tokens.Repository
	Priorities(db dbx.DBTX) priorities.Repository
	Categories(db dbx.DBTX) categories.Repository
	Tasks(db dbx.DBTX) tasks.Repository
}
