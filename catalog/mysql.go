package catalog

import (
	"context"
	"database/sql"
	"time"

	"github.com/sqlls/sqlls"
	"github.com/sqlls/sqlls/pull"
)

// MySQL is the live Catalog adapter for a connected MySQL/MariaDB database,
// backed by pull.MySQLExtractor (go-sql-driver/mysql under database/sql).
type MySQL struct {
	*live
}

// NewMySQL builds a MySQL catalog over an already-open connection.
// queryTimeout bounds every extraction call; zero disables the bound.
func NewMySQL(db *sql.DB, queryTimeout time.Duration) *MySQL {
	return &MySQL{live: newLive(sqlls.DialectMySQL, db, pull.NewMySQLExtractor(), queryTimeout)}
}

func (m *MySQL) ListTables(ctx context.Context) ([]TableMetadata, error) {
	return m.listTables(ctx)
}

func (m *MySQL) GetColumns(ctx context.Context, table string) ([]ColumnMetadata, error) {
	return m.getColumns(ctx, table)
}

func (m *MySQL) ListFunctions(ctx context.Context) ([]FunctionMetadata, error) {
	return m.listFunctions(ctx)
}
