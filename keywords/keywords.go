// Package keywords implements the Keyword Provider (C7): dialect-specific
// ordered keyword sets for each statement type and clause position, with an
// exclude operation so the engine never re-suggests a clause already
// present in the document.
package keywords

import "github.com/sqlls/sqlls"

// Provider returns keyword sets for one dialect.
type Provider struct {
	dialect sqlls.Dialect
}

// New returns a Provider for dialect.
func New(dialect sqlls.Dialect) *Provider {
	return &Provider{dialect: dialect}
}

// Exclude returns a copy of set with every keyword in used removed,
// case-insensitively, so a clause already present in the document is
// never suggested twice (§8's "no duplicate clauses" invariant).
func Exclude(set []string, used []string) []string {
	if len(used) == 0 {
		return set
	}

	seen := make(map[string]bool, len(used))
	for _, u := range used {
		seen[upper(u)] = true
	}

	out := make([]string, 0, len(set))

	for _, kw := range set {
		if !seen[upper(kw)] {
			out = append(out, kw)
		}
	}

	return out
}

func upper(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			b[i] = c - ('a' - 'A')
		}
	}

	return string(b)
}

// ClauseSequence is the ordered list of top-level SELECT clause keywords.
// No other package calls it.
func (p *Provider) ClauseSequence() []string {
	return []string{"SELECT", "FROM", "WHERE", "GROUP BY", "HAVING", "ORDER BY", "LIMIT"}
}

// StatementKeywords returns the keyword suggested right at the start of a
// new statement/batch.
func (p *Provider) StatementKeywords() []string {
	return []string{"SELECT", "INSERT INTO", "UPDATE", "DELETE FROM", "WITH"}
}

// ProjectionKeywords returns keywords valid just after SELECT, before any
// column has been typed.
func (p *Provider) ProjectionKeywords() []string {
	return []string{"DISTINCT", "ALL", "CASE"}
}

// CaseExpressionKeywords returns keywords for building a CASE expression,
// offered when the cursor immediately follows CASE in a projection.
func (p *Provider) CaseExpressionKeywords() []string {
	return []string{"WHEN", "THEN", "ELSE", "END"}
}

// BooleanOperators are suggested in WHERE/HAVING/JOIN ON once at least one
// operand is present.
func (p *Provider) BooleanOperators() []string {
	return []string{"AND", "OR", "NOT", "IS NULL", "IS NOT NULL", "IN", "BETWEEN", "LIKE", "EXISTS"}
}

// PostWhereClauses are the clauses that may legally follow WHERE.
func (p *Provider) PostWhereClauses() []string {
	return []string{"GROUP BY", "ORDER BY", "LIMIT"}
}

// OrderByKeywords are suggested after an ORDER BY expression.
func (p *Provider) OrderByKeywords() []string {
	return []string{"ASC", "DESC", "NULLS FIRST", "NULLS LAST"}
}

// PostGroupByClauses are the clauses that may legally follow GROUP BY.
func (p *Provider) PostGroupByClauses() []string {
	return []string{"HAVING", "ORDER BY", "LIMIT"}
}

// LimitKeywords returns the clause-level keyword(s) valid after a LIMIT
// count, honoring the MySQL `LIMIT offset, count` vs PostgreSQL
// `OFFSET` split: MySQL/MariaDB accept a bare comma before the row count
// in addition to OFFSET, PostgreSQL and SQLite only accept OFFSET.
func (p *Provider) LimitKeywords() []string {
	if p.dialect == sqlls.DialectMySQL || p.dialect == sqlls.DialectMariaDB {
		return []string{",", "OFFSET"}
	}

	return []string{"OFFSET"}
}

// LimitSampleValues returns small illustrative numbers for a LIMIT clause.
func (p *Provider) LimitSampleValues() []string {
	return []string{"10", "25", "50", "100"}
}

// WindowStartKeywords are suggested right after `OVER (`.
func (p *Provider) WindowStartKeywords() []string {
	return []string{"PARTITION BY", "ORDER BY"}
}

// WindowFrameKeywords are suggested once PARTITION BY/ORDER BY have been
// typed, for the frame clause.
func (p *Provider) WindowFrameKeywords() []string {
	return []string{"ROWS", "RANGE", "GROUPS", "UNBOUNDED PRECEDING", "CURRENT ROW", "UNBOUNDED FOLLOWING"}
}

// JoinKeywords are the join-qualifier keywords offered after FROM/a prior
// table, before the table name that follows JOIN is typed.
func (p *Provider) JoinKeywords() []string {
	base := []string{"JOIN", "LEFT JOIN", "RIGHT JOIN", "INNER JOIN", "FULL JOIN", "CROSS JOIN"}
	if p.dialect == sqlls.DialectMySQL || p.dialect == sqlls.DialectMariaDB {
		// MySQL/MariaDB do not support FULL [OUTER] JOIN.
		return []string{"JOIN", "LEFT JOIN", "RIGHT JOIN", "INNER JOIN", "CROSS JOIN"}
	}

	return base
}

// ReturningSupported reports whether the dialect has a RETURNING clause
// (PostgreSQL/SQLite do; MySQL/MariaDB do not).
func (p *Provider) ReturningSupported() bool {
	switch p.dialect {
	case sqlls.DialectMySQL, sqlls.DialectMariaDB:
		return false
	default:
		return true
	}
}

// StatementTypeKeywords returns follow-on keywords specific to one
// statement type, used by the Keywords variant's dispatch (§4.9: "for
// UPDATE/DELETE also include table names").
func (p *Provider) StatementTypeKeywords(statementType string) []string {
	switch statementType {
	case "UPDATE":
		return []string{"SET", "WHERE"}
	case "DELETE":
		return []string{"FROM", "WHERE"}
	case "INSERT":
		return []string{"INTO", "VALUES", "SELECT"}
	case "UNION":
		return []string{"ALL", "SELECT"}
	case "CREATE":
		return []string{"TABLE", "VIEW", "INDEX"}
	case "ALTER":
		return []string{"TABLE"}
	case "DROP":
		return []string{"TABLE", "VIEW", "INDEX"}
	default:
		return nil
	}
}
