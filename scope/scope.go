// Package scope implements the Scope Builder (C5): it walks the CST of a
// SELECT to produce the chain of scopes visible at any point in the
// statement — the primary query, each CTE, and nested subqueries — so the
// context classifier and completion engine can answer "what tables (and
// their columns) are visible here".
package scope

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/sqlls/sqlls/cst"
	"github.com/sqlls/sqlls/resolver"
)

// ErrNoFromClause is returned when a select_statement has no identifiable
// FROM clause to build a scope from.
var ErrNoFromClause = errors.New("scope: no FROM clause found")

// Kind distinguishes how a scope came to exist.
type Kind int

const (
	// KindQuery is the top-level SELECT (or one arm of a set operation).
	KindQuery Kind = iota
	// KindCTE is a `WITH name AS (...)` definition's own body.
	KindCTE
	// KindSubquery is a FROM-clause or scalar subquery nested in a parent
	// query. The builder skips a subquery in FROM with a Warning (the CST
	// does not expand them, per §4.5), so no scope of this kind is produced.
	KindSubquery
)

// Scope is one level of name visibility: an id, an optional parent, a kind,
// and the tables visible at this level. Invariant (§3): within a single
// scope every (table name, alias) pair is unique — self-joins are only
// valid when their aliases differ.
type Scope struct {
	ID       string
	ParentID *string
	Kind     Kind
	Tables   []resolver.TableSymbol
}

// Warning is a non-fatal problem noticed while building a scope: unlike
// ErrNoFromClause, a warning does not stop the rest of the scope from being
// usable (§4.5 — "warnings on a failed JOIN parse ... do not abort scope
// building").
type Warning struct {
	Message string
}

// Builder builds Scopes from a CST, resolving table references against a
// Resolver to populate each TableSymbol's columns.
type Builder struct {
	resolver *resolver.Resolver
}

// New returns a Builder that resolves table references via res.
func New(res *resolver.Resolver) *Builder {
	return &Builder{resolver: res}
}

// Build locates stmt's FROM clause (stmt must be a select_statement node)
// and resolves each table_reference/join_clause into the returned Scope.
// parentID is nil for a top-level query, or the enclosing scope's ID for a
// CTE body or subquery.
func (b *Builder) Build(ctx context.Context, stmt *cst.Node, parentID *string, kind Kind) (Scope, []Warning, error) {
	if stmt == nil {
		return Scope{}, nil, ErrNoFromClause
	}

	from := findChild(stmt, cst.KindFromClause)
	if from == nil {
		return Scope{}, nil, ErrNoFromClause
	}

	scope := Scope{ID: uuid.NewString(), ParentID: parentID, Kind: kind}

	var warnings []Warning

	seen := make(map[string]bool)

	for _, child := range from.Children {
		if child.Kind != cst.KindTableReference && child.Kind != cst.KindJoinClause {
			continue
		}

		ref, ok := cst.ParseTableRef(child)
		if !ok {
			warnings = append(warnings, Warning{Message: "scope: could not parse a " + child.Kind})

			continue
		}

		if ref.IsSubquery {
			warnings = append(warnings, Warning{Message: "scope: subquery in FROM is not expanded by the CST"})

			continue
		}

		sym, err := b.resolver.Resolve(ctx, ref.Table)
		if err != nil {
			warnings = append(warnings, Warning{Message: "scope: " + err.Error()})

			continue
		}

		sym.Alias = ref.Alias

		key := sym.Name + "\x00" + sym.Alias
		if seen[key] {
			warnings = append(warnings, Warning{Message: "scope: duplicate table/alias pair " + key})

			continue
		}

		seen[key] = true
		scope.Tables = append(scope.Tables, sym)
	}

	return scope, warnings, nil
}

// BuildCTEChain builds a scope for every CTE definition wrapped by node (a
// common_table_expression node per statement.go's layout: zero or more CTE
// definition children followed by the main query), each one parented to the
// previous CTE so a later CTE can see an earlier one (standard, non-mutual
// WITH visibility), and finally the scope for the main query, parented to
// the last CTE. The returned slice is ordered CTEs-first, main query last.
func (b *Builder) BuildCTEChain(ctx context.Context, wrapper *cst.Node) ([]Scope, []Warning, error) {
	if wrapper == nil || wrapper.Kind != cst.KindCTE {
		return nil, nil, ErrNoFromClause
	}

	var (
		scopes   []Scope
		warnings []Warning
		parent   *string
	)

	for i, child := range wrapper.Children {
		isLast := i == len(wrapper.Children)-1

		inner := findStatementKind(child)
		if inner == nil {
			continue
		}

		kind := KindCTE
		if isLast && child.Kind != cst.KindCTE {
			kind = KindQuery
		}

		sc, warns, err := b.Build(ctx, inner, parent, kind)
		if err != nil {
			warnings = append(warnings, warns...)

			continue
		}

		warnings = append(warnings, warns...)
		scopes = append(scopes, sc)

		id := sc.ID
		parent = &id
	}

	return scopes, warnings, nil
}

// findChild returns the first direct child of n with the given kind.
func findChild(n *cst.Node, kind string) *cst.Node {
	for _, c := range n.Children {
		if c.Kind == kind {
			return c
		}
	}

	return nil
}

// findStatementKind returns n itself if it is a select_statement, or its
// first select_statement child (a CTE definition node's body, per
// statement.go's splitCTEs, or a set_operation's first arm).
func findStatementKind(n *cst.Node) *cst.Node {
	if n == nil {
		return nil
	}

	if n.Kind == cst.KindSelectStatement {
		return n
	}

	for _, c := range n.Children {
		if c.Kind == cst.KindSelectStatement {
			return c
		}
	}

	return nil
}

// Lookup walks scopes (the chain from the innermost scope up through its
// parents, innermost first) and returns the first TableSymbol whose name or
// alias matches name case-insensitively (§3's "walk the scope then its
// parents, first match wins").
func Lookup(chain []Scope, name string) (resolver.TableSymbol, bool) {
	for _, sc := range chain {
		for _, t := range sc.Tables {
			if strings.EqualFold(t.Alias, name) || strings.EqualFold(t.Name, name) {
				return t, true
			}
		}
	}

	return resolver.TableSymbol{}, false
}
