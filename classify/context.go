// Package classify implements the Context Classifier (C6): given a parsed
// document (or just its text) and a cursor position, it decides what kind
// of completion applies — which clause the cursor sits in, what tables are
// already in scope (by name, not yet resolved), and what qualifier (if any)
// precedes the cursor.
package classify

// Kind tags which CompletionContext variant was produced.
type Kind int

const (
	Unknown Kind = iota
	SelectProjection
	FromClause
	WhereClause
	JoinCondition
	OrderByClause
	GroupByClause
	HavingClause
	LimitClause
	CteDefinition
	WindowFunctionClause
	ReturningClause
	Keywords
)

// WindowPart distinguishes where inside an OVER(...) the cursor sits.
type WindowPart int

const (
	OverStart WindowPart = iota
	PartitionBy
	OrderBy
	WindowFrame
)

// Context is the classifier's single output type: a Kind discriminator
// plus every variant's payload as optional fields, per §9's "sealed class
// hierarchy or explicit discriminator + union" guidance for languages
// without native sum types. Only the fields relevant to Kind are
// meaningful; callers switch on Kind first.
type Context struct {
	Kind Kind

	// Tables is the text-derived list of names/aliases currently visible
	// (e.g. ["users", "u", "orders", "o"]); the completion engine resolves
	// these into TableSymbols, preferring a CST-built scope when available.
	Tables []string

	// Qualifier is the identifier immediately to the left of a `.` right
	// before the cursor, or "" when none applies.
	Qualifier string

	// ExcludeTables holds tables already present in a FROM clause (real
	// names, not aliases) so FromClause completion does not re-suggest
	// them.
	ExcludeTables []string

	// LeftTable/RightTable are the two sides of a JOIN condition.
	LeftTable  string
	RightTable string

	// UsingClause is true when the join uses USING(...) rather than ON,
	// which changes qualification rules in the renderer.
	UsingClause bool

	// AvailableTables belongs to CteDefinition. No path of this package's
	// classifier sets it, so it is always empty.
	AvailableTables []string
	// DefinedCTEs holds CTE names already declared earlier in the WITH list.
	DefinedCTEs []string

	// WindowPartKind is meaningful only for WindowFunctionClause.
	WindowPartKind WindowPart

	// StatementType and ExistingClauses are meaningful only for Keywords:
	// the statement kind ("SELECT", "INSERT", "UPDATE", "DELETE", "UNION",
	// "CREATE", "ALTER", "DROP", "") and the clauses already present, to exclude from
	// suggestion.
	StatementType   string
	ExistingClauses []string

	// AfterCase is true when the cursor immediately follows a CASE keyword
	// inside a SelectProjection, triggering CASE-expression keywords.
	AfterCase bool
}
