package repomanager

import (
	"context"
	"database/sql"

	"github.com/kuba1e/food-delivery/internal/dbx"
	"github.com/kuba1e/food-delivery/internal/server/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Directory
}
