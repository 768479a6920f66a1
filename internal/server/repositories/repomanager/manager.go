package repomanager

import (
	"context"
	"database/sql"

	"github.com/growthpods/growthpods/internal/dbx"
	"github.com/growthpods/growthpods/internal/server/repositories/resets"
	"github.com/growthpods/growthpods/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Resets(db dbx.DBTX) resets.Repository
}
