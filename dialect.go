package sqlls

// Dialect identifies a supported SQL dialect. Shared across tokenizer,
// catalog, and keyword packages so they agree on a single representation.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectMySQL    Dialect = "mysql"
	DialectSQLite   Dialect = "sqlite"
	DialectMariaDB  Dialect = "mariadb"
)

// Feature flags a dialect-specific SQL capability the keyword provider and
// function-signature tables branch on.
type Feature int

const (
	FeatureConcat         Feature = iota + 1
	FeatureConcatOperator         // ||
	FeatureConcatFunction         // CONCAT()
	FeatureJSON                   // JSON/JSONB operators and functions
	FeatureArray                  // ARRAY constructors and operators
)
