package catalog

import (
	"context"
	"database/sql"
	"time"

	"github.com/sqlls/sqlls"
	"github.com/sqlls/sqlls/pull"
)

// Postgres is the live Catalog adapter for a connected PostgreSQL database,
// backed by pull.PostgreSQLExtractor (jackc/pgx v5 under database/sql).
type Postgres struct {
	*live
}

// NewPostgres builds a Postgres catalog over an already-open connection.
// queryTimeout bounds every extraction call; zero disables the bound.
func NewPostgres(db *sql.DB, queryTimeout time.Duration) *Postgres {
	return &Postgres{live: newLive(sqlls.DialectPostgres, db, pull.NewPostgreSQLExtractor(), queryTimeout)}
}

func (p *Postgres) ListTables(ctx context.Context) ([]TableMetadata, error) {
	return p.listTables(ctx)
}

func (p *Postgres) GetColumns(ctx context.Context, table string) ([]ColumnMetadata, error) {
	return p.getColumns(ctx, table)
}

func (p *Postgres) ListFunctions(ctx context.Context) ([]FunctionMetadata, error) {
	return p.listFunctions(ctx)
}
