package sqlls

import "fmt"

// ColumnInfo is a unified column definition shared by the catalog adapters
// and the completion renderer.
type ColumnInfo struct {
	Name         string // Column name
	DataType     string // Normalized type name
	Nullable     bool   // Is nullable
	DefaultValue string // Default value (optional)
	Comment      string // Comment (optional)
	IsPrimaryKey bool   // Is primary key (optional)
	MaxLength    *int   // For string types (optional)
	Precision    *int   // For numeric types (optional)
	Scale        *int   // For numeric types (optional)
}

// TableInfo is a unified table definition
type TableInfo struct {
	Name        string                 // Table name
	Schema      string                 // Schema name (optional)
	Columns     map[string]*ColumnInfo // Columns by name
	Constraints []ConstraintInfo       // Constraints (optional)
	Indexes     []IndexInfo            // Indexes (optional)
	Comment     string                 // Table comment (optional)
}

// DatabaseSchema is a unified database schema definition
type DatabaseSchema struct {
	Name         string       // Schema/database name
	Tables       []*TableInfo // Tables
	Views        []*ViewInfo  // Views (optional)
	DatabaseInfo DatabaseInfo // DB info
}

type ConstraintInfo struct {
	Name              string
	Type              string // PRIMARY_KEY, FOREIGN_KEY, UNIQUE, CHECK
	Columns           []string
	ReferencedTable   string
	ReferencedColumns []string
	Definition        string
}

type IndexInfo struct {
	Name     string
	Columns  []string
	IsUnique bool
	Type     string
}

type ViewInfo struct {
	Name       string
	Schema     string
	Definition string
	Comment    string
}

type DatabaseInfo struct {
	Type    string
	Version string
	Name    string
	Charset string
}

// Table returns the named table, searching the given schema first when it
// is non-empty and falling back to an unqualified match. Used by the
// catalog adapters to resolve a FROM-clause reference to its metadata.
func (s *DatabaseSchema) Table(schema, name string) (*TableInfo, error) {
	var fallback *TableInfo

	for _, t := range s.Tables {
		if t.Name != name {
			continue
		}

		if schema == "" || t.Schema == schema {
			return t, nil
		}

		fallback = t
	}

	if fallback != nil {
		return fallback, nil
	}

	return nil, fmt.Errorf("%w: %q", ErrTableNotFoundInSchema, name)
}

// Column returns the named column, or ErrColumnDoesNotExist if the table
// has no column by that name.
func (t *TableInfo) Column(name string) (*ColumnInfo, error) {
	col, ok := t.Columns[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q.%q", ErrColumnDoesNotExist, t.Name, name)
	}

	return col, nil
}
