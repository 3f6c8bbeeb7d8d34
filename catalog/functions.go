package catalog

import "github.com/sqlls/sqlls"

// DefaultFunctions returns the built-in function metadata for dialect. Used
// by Static directly and by the live adapters as a fallback when a
// database-specific function catalog query is not worth the round trip —
// built-in SQL functions rarely vary enough across a server's lifetime to
// need a live lookup.
func DefaultFunctions(dialect sqlls.Dialect) []FunctionMetadata {
	common := []FunctionMetadata{
		{Name: "COUNT", ReturnType: "bigint", Kind: FunctionAggregate, Description: "row count"},
		{Name: "SUM", ReturnType: "numeric", Kind: FunctionAggregate, Description: "sum of argument"},
		{Name: "AVG", ReturnType: "numeric", Kind: FunctionAggregate, Description: "average of argument"},
		{Name: "MIN", ReturnType: "numeric", Kind: FunctionAggregate, Description: "minimum of argument"},
		{Name: "MAX", ReturnType: "numeric", Kind: FunctionAggregate, Description: "maximum of argument"},

		{Name: "ROW_NUMBER", ReturnType: "bigint", Kind: FunctionWindow, Description: "row number within partition"},
		{Name: "RANK", ReturnType: "bigint", Kind: FunctionWindow, Description: "rank with gaps"},
		{Name: "DENSE_RANK", ReturnType: "bigint", Kind: FunctionWindow, Description: "rank without gaps"},
		{Name: "FIRST_VALUE", ReturnType: "any", Kind: FunctionWindow, Description: "first value in window frame"},
		{Name: "LAST_VALUE", ReturnType: "any", Kind: FunctionWindow, Description: "last value in window frame"},
		{Name: "LEAD", ReturnType: "any", Kind: FunctionWindow, Description: "value from a following row"},
		{Name: "LAG", ReturnType: "any", Kind: FunctionWindow, Description: "value from a preceding row"},

		{Name: "LENGTH", ReturnType: "int", Kind: FunctionScalar, Description: "string length"},
		{Name: "UPPER", ReturnType: "string", Kind: FunctionScalar, Description: "uppercase"},
		{Name: "LOWER", ReturnType: "string", Kind: FunctionScalar, Description: "lowercase"},
		{Name: "TRIM", ReturnType: "string", Kind: FunctionScalar, Description: "strip leading/trailing whitespace"},
		{Name: "SUBSTRING", ReturnType: "string", Kind: FunctionScalar, Description: "extract a substring"},
		{Name: "COALESCE", ReturnType: "any", Kind: FunctionScalar, Description: "first non-null argument"},
		{Name: "CAST", ReturnType: "any", Kind: FunctionScalar, Description: "convert to the given type"},
		{Name: "NOW", ReturnType: "timestamp", Kind: FunctionScalar, Description: "current timestamp"},
	}

	switch dialect {
	case sqlls.DialectMySQL, sqlls.DialectMariaDB:
		return append(common, []FunctionMetadata{
			{Name: "IFNULL", ReturnType: "any", Kind: FunctionScalar, Description: "value or fallback if null"},
			{Name: "DATE_ADD", ReturnType: "datetime", Kind: FunctionScalar, Description: "add an interval to a date"},
			{Name: "CONCAT", ReturnType: "string", Kind: FunctionScalar, Description: "concatenate arguments"},
		}...)
	case sqlls.DialectSQLite:
		return append(common, []FunctionMetadata{
			{Name: "IFNULL", ReturnType: "any", Kind: FunctionScalar, Description: "value or fallback if null"},
			{Name: "DATETIME", ReturnType: "datetime", Kind: FunctionScalar, Description: "format a date/time value"},
		}...)
	default: // Postgres
		return append(common, []FunctionMetadata{
			{Name: "DATE_ADD", ReturnType: "timestamp", Kind: FunctionScalar, Description: "add an interval to a date"},
			{Name: "ARRAY_AGG", ReturnType: "array", Kind: FunctionAggregate, Description: "aggregate into an array"},
			{Name: "JSONB_BUILD_OBJECT", ReturnType: "jsonb", Kind: FunctionScalar, Description: "build a jsonb object"},
		}...)
	}
}
