package pull

import "errors"

// Connection errors
var (
	ErrConnectionFailed    = errors.New("failed to connect to database")
	ErrUnsupportedDatabase = errors.New("unsupported database type")
)

// Schema extraction errors
var (
	ErrSchemaNotFound = errors.New("schema not found")
	ErrTableNotFound  = errors.New("table not found")
)

// Configuration errors
var (
	ErrEmptyDatabaseType        = errors.New("database type cannot be empty")
	ErrConflictingSchemaFilters = errors.New("conflicting schema filters: same schema in both include and exclude lists")
	ErrConflictingTableFilters  = errors.New("conflicting table filters: same table in both include and exclude lists")
)
