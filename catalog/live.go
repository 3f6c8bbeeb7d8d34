package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/sqlls/sqlls"
	"github.com/sqlls/sqlls/pull"
)

// live is the shared implementation behind Postgres and MySQL: both are a
// pull.Extractor plus a *sql.DB plus a query timeout, differing only in
// which extractor and dialect they carry. ListTables/GetColumns share one
// cached schema snapshot, refreshed lazily, since per §4.3 "the core
// assumes list_tables and list_functions are cheap to call per request" —
// the real cost is the initial extraction, not repeated lookups against it.
type live struct {
	dialect      sqlls.Dialect
	db           *sql.DB
	extractor    pull.Extractor
	queryTimeout time.Duration

	mu     sync.RWMutex
	schema *sqlls.DatabaseSchema
}

func newLive(dialect sqlls.Dialect, db *sql.DB, extractor pull.Extractor, queryTimeout time.Duration) *live {
	return &live{dialect: dialect, db: db, extractor: extractor, queryTimeout: queryTimeout}
}

// Refresh forces a re-extraction of the schema on the next catalog call.
func (l *live) Refresh() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.schema = nil
}

func (l *live) boundedContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if l.queryTimeout <= 0 {
		return ctx, func() {}
	}

	return context.WithTimeout(ctx, l.queryTimeout)
}

func (l *live) currentSchema(ctx context.Context) (*sqlls.DatabaseSchema, error) {
	l.mu.RLock()
	cached := l.schema
	l.mu.RUnlock()

	if cached != nil {
		return cached, nil
	}

	bounded, cancel := l.boundedContext(ctx)
	defer cancel()

	schemas, err := l.extractor.ExtractSchemas(bounded, l.db, pull.ExtractConfig{IncludeViews: true, IncludeIndexes: true})
	if err != nil {
		return nil, fmt.Errorf("catalog: schema extraction failed: %w", err)
	}

	if len(schemas) == 0 {
		empty := &sqlls.DatabaseSchema{}

		l.mu.Lock()
		l.schema = empty
		l.mu.Unlock()

		return empty, nil
	}

	merged := mergeSchemas(schemas)

	l.mu.Lock()
	l.schema = merged
	l.mu.Unlock()

	return merged, nil
}

// mergeSchemas flattens every extracted schema's tables into one, since the
// catalog interface (§4.3) has no notion of multiple schemas — callers that
// care about schema qualification read TableInfo.Schema off the result.
func mergeSchemas(schemas []sqlls.DatabaseSchema) *sqlls.DatabaseSchema {
	merged := &sqlls.DatabaseSchema{Name: schemas[0].Name, DatabaseInfo: schemas[0].DatabaseInfo}

	for _, s := range schemas {
		merged.Tables = append(merged.Tables, s.Tables...)
		merged.Views = append(merged.Views, s.Views...)
	}

	return merged
}

func (l *live) listTables(ctx context.Context) ([]TableMetadata, error) {
	schema, err := l.currentSchema(ctx)
	if err != nil {
		return nil, err
	}

	tables := make([]TableMetadata, 0, len(schema.Tables))
	for _, t := range schema.Tables {
		tables = append(tables, TableMetadata{Name: t.Name, Schema: t.Schema})
	}

	return tables, nil
}

func (l *live) getColumns(ctx context.Context, table string) ([]ColumnMetadata, error) {
	schema, err := l.currentSchema(ctx)
	if err != nil {
		return nil, err
	}

	info, err := schema.Table("", table)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrTableNotFound, table)
	}

	return columnsOf(info), nil
}

func (l *live) listFunctions(_ context.Context) ([]FunctionMetadata, error) {
	return DefaultFunctions(l.dialect), nil
}
