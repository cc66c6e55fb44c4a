// Package repomanager vends ledger repository implementations bound to a
// shared database handle or transaction.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/mzarins/filedepot/internal/dbx"
	"github.com/mzarins/filedepot/internal/server/repositories/files"
	"github.com/mzarins/filedepot/internal/server/repositories/shares"
	"github.com/mzarins/filedepot/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Files(db dbx.DBTX) files.Repository
	Shares(db dbx.DBTX) shares.Repository
}
