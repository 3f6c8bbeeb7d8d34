package catalog

import (
	"context"
	"fmt"
	"sort"

	"github.com/sqlls/sqlls"
)

// Static is an in-memory Catalog built from an already-loaded
// sqlls.DatabaseSchema. It backs tests, the ephemeral SQLite fixtures, and
// the server's degraded mode when no live database connection is
// configured (there it is built over an empty schema, so completion
// falls back to keywords).
type Static struct {
	dialect sqlls.Dialect
	schema  sqlls.DatabaseSchema
}

// NewStatic builds a Static catalog from schema.
func NewStatic(dialect sqlls.Dialect, schema sqlls.DatabaseSchema) *Static {
	return &Static{dialect: dialect, schema: schema}
}

func (s *Static) ListTables(ctx context.Context) ([]TableMetadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tables := make([]TableMetadata, 0, len(s.schema.Tables))
	for _, t := range s.schema.Tables {
		tables = append(tables, TableMetadata{Name: t.Name, Schema: t.Schema})
	}

	sort.Slice(tables, func(i, j int) bool { return tables[i].Name < tables[j].Name })

	return tables, nil
}

func (s *Static) GetColumns(ctx context.Context, table string) ([]ColumnMetadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	info, err := s.schema.Table("", table)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrTableNotFound, table)
	}

	return columnsOf(info), nil
}

func (s *Static) ListFunctions(ctx context.Context) ([]FunctionMetadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return DefaultFunctions(s.dialect), nil
}

// columnsOf flattens a TableInfo's columns into ColumnMetadata, resolving
// IsForeignKey from the table's FOREIGN_KEY constraints since ColumnInfo
// itself only tracks IsPrimaryKey.
func columnsOf(info *sqlls.TableInfo) []ColumnMetadata {
	foreignKeys := make(map[string]bool)

	for _, c := range info.Constraints {
		if c.Type != "FOREIGN_KEY" {
			continue
		}

		for _, col := range c.Columns {
			foreignKeys[col] = true
		}
	}

	columns := make([]ColumnMetadata, 0, len(info.Columns))
	for name, col := range info.Columns {
		columns = append(columns, ColumnMetadata{
			Name:         name,
			DataType:     col.DataType,
			IsPrimaryKey: col.IsPrimaryKey,
			IsForeignKey: foreignKeys[name],
		})
	}

	sort.Slice(columns, func(i, j int) bool { return columns[i].Name < columns[j].Name })

	return columns
}
