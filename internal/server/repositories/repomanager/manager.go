// Package repomanager vends repository implementations bound to a database
// handle (either the pool or an open transaction) and runs schema migrations.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/portfolio/internal/dbx"
	"github.com/dmitrijs2005/portfolio/internal/server/repositories/admins"
	"github.com/dmitrijs2005/portfolio/internal/server/repositories/messages"
	"github.com/dmitrijs2005/portfolio/internal/server/repositories/projects"
	"github.com/dmitrijs2005/portfolio/internal/server/repositories/settings"
	"github.com/dmitrijs2005/portfolio/internal/server/repositories/tags"
)

type RepositoryManager interface {
	RunMigrations(ctx context.Context, db *sql.DB) error
	Admins(db dbx.DBTX) admins.Repository
	Projects(db dbx.DBTX) projects.Repository
	Tags(db dbx.DBTX) tags.Repository
	Messages(db dbx.DBTX) messages.Repository
	Settings(db dbx.DBTX) settings.Repository
}
