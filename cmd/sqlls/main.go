package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/sqlls/sqlls"
	"github.com/sqlls/sqlls/catalog"
	"github.com/sqlls/sqlls/completion"
	"github.com/sqlls/sqlls/document"
	"github.com/sqlls/sqlls/internal/logging"
	"github.com/sqlls/sqlls/lspserver"
)

// Context carries global flags into every command's Run method.
type Context struct {
	Config string
}

// ServeCmd starts the language server over stdio, the only transport §6
// of the design names.
type ServeCmd struct{}

// Run loads configuration, builds a catalog (live if a connection string
// is configured, static/degraded otherwise), and blocks serving LSP
// requests over stdin/stdout until the connection closes.
func (cmd *ServeCmd) Run(appCtx *Context) error {
	cfg, err := sqlls.LoadConfig(appCtx.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger := logging.New(cfg.LogLevel)

	dialect := sqlls.Dialect(cfg.Dialect)
	if dialect == "" {
		dialect = sqlls.DialectPostgres
	}

	cat, err := buildCatalog(dialect, cfg)
	if err != nil {
		return err
	}

	engine := completion.New(cat, dialect)
	engine.Logger = logger

	docs := document.NewStore(dialect)
	server := lspserver.New(docs, engine, logger)

	banner(dialect, cfg.Database.ConnectionString != "")

	return server.Serve(context.Background(), stdio{})
}

// buildCatalog returns a live Postgres/MySQL catalog when the config
// carries a connection string, and a Static catalog (empty schema,
// keyword/table-only completion) otherwise — the degraded mode §5
// expects when no database is reachable.
func buildCatalog(dialect sqlls.Dialect, cfg *sqlls.Config) (catalog.Catalog, error) {
	if cfg.Database.ConnectionString == "" {
		return catalog.NewStatic(dialect, sqlls.DatabaseSchema{}), nil
	}

	db, err := sql.Open(driverName(dialect), cfg.Database.ConnectionString)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	db.SetMaxOpenConns(cfg.Database.PoolSize)

	switch dialect {
	case sqlls.DialectMySQL, sqlls.DialectMariaDB:
		return catalog.NewMySQL(db, cfg.Database.QueryTimeout), nil
	default:
		return catalog.NewPostgres(db, cfg.Database.QueryTimeout), nil
	}
}

func driverName(dialect sqlls.Dialect) string {
	switch dialect {
	case sqlls.DialectMySQL, sqlls.DialectMariaDB:
		return "mysql"
	default:
		return "pgx"
	}
}

// banner writes a short startup notice to stderr, never stdout, which is
// reserved for the JSON-RPC stream — colorized the way the teacher's own
// CLI colorizes its feedback.
func banner(dialect sqlls.Dialect, live bool) {
	mode := "static catalog (no database configured)"
	if live {
		mode = "live catalog"
	}

	color.New(color.FgBlue).Fprintf(os.Stderr, "sqlls: serving %s over stdio, %s\n", dialect, mode)
}

// VersionCmd prints the server's version and exits.
type VersionCmd struct{}

// Run executes the version command.
func (cmd *VersionCmd) Run(_ *Context) error {
	fmt.Println("sqlls v0.1.0")

	return nil
}

// CLI is the root kong command set.
var CLI struct {
	Config  string     `help:"Configuration file path" default:"sqlls.yaml"`
	Serve   ServeCmd   `cmd:"" help:"Start the language server over stdio"`
	Version VersionCmd `cmd:"" help:"Show version information"`
}

func main() {
	ctx := kong.Parse(&CLI)

	appCtx := &Context{Config: CLI.Config}

	if err := ctx.Run(appCtx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
