package completion

import (
	"context"
	"strings"

	"github.com/sqlls/sqlls/catalog"
	"github.com/sqlls/sqlls/classify"
	"github.com/sqlls/sqlls/document"
	"github.com/sqlls/sqlls/keywords"
	"github.com/sqlls/sqlls/render"
	"github.com/sqlls/sqlls/resolver"
)

// completeSelectProjection implements §4.9's SelectProjection dispatch:
// columns from the visible tables (CST scope when present, else the
// text-derived list via C4), minus columns already typed in the SELECT
// list, plus the wildcard, plus projection/CASE keywords.
func (e *Engine) completeSelectProjection(ctx context.Context, snap document.Snapshot, offset int, cc classify.Context) []render.CompletionItem {
	tables := e.tablesForContext(ctx, snap.Tree, offset, cc.Tables)

	items := render.Columns(tables, false, false)
	items = excludeAlreadyTyped(items, typedProjectionColumns(snap.Text, offset))
	items = append(items, render.Wildcard())
	items = append(items, render.Keywords(e.keywords.ProjectionKeywords())...)

	if cc.AfterCase {
		items = append(items, render.Keywords(e.keywords.CaseExpressionKeywords())...)
	}

	return items
}

// completeClauseColumns handles WhereClause/OrderByClause/GroupByClause/
// HavingClause/ReturningClause: all resolve the same tables and columns,
// differing only in the qualifier-filter behavior and the trailing
// keyword set each contributes.
func (e *Engine) completeClauseColumns(ctx context.Context, snap document.Snapshot, offset int, cc classify.Context) []render.CompletionItem {
	tables := e.tablesForContext(ctx, snap.Tree, offset, cc.Tables)
	items := render.Columns(tables, false, false)

	if cc.Kind == classify.ReturningClause {
		items = append(items, render.Wildcard())
	}

	if cc.Qualifier != "" {
		// Invalid/empty qualifier match returns an empty (not absent) list,
		// per §4.9's error policy, and suppresses keywords/functions.
		return render.FilterByQualifier(items, cc.Qualifier)
	}

	switch cc.Kind {
	case classify.WhereClause, classify.HavingClause:
		items = append(items, render.Keywords(e.keywords.BooleanOperators())...)
		items = append(items, render.Keywords(e.keywords.PostWhereClauses())...)
	case classify.GroupByClause:
		items = append(items, render.Keywords(e.keywords.PostGroupByClauses())...)
	case classify.OrderByClause:
		items = append(items, render.Keywords(e.keywords.OrderByKeywords())...)
	}

	return items
}

// completeFromClause lists catalog tables, drops already-present ones, and
// narrows by whatever identifier prefix the user is mid-typing.
func (e *Engine) completeFromClause(ctx context.Context, snap document.Snapshot, offset int, cc classify.Context) ([]render.CompletionItem, bool) {
	tables, err := e.catalog.ListTables(ctx)
	if err != nil {
		e.logCatalogError(err)
		return nil, false
	}

	excluded := make(map[string]bool, len(cc.ExcludeTables))
	for _, t := range cc.ExcludeTables {
		excluded[strings.ToLower(t)] = true
	}

	filtered := tables[:0:0]

	for _, t := range tables {
		if !excluded[strings.ToLower(t.Name)] {
			filtered = append(filtered, t)
		}
	}

	items := render.Tables(filtered)
	items = render.FilterByPrefix(items, typedIdentifierPrefix(snap.Text, offset))
	items = append(items, render.Keywords(e.keywords.JoinKeywords())...)

	return items, true
}

// completeJoinCondition resolves both sides of the join and renders their
// columns PK/FK-first, forcing qualification unless USING(...) is present
// (USING columns are unqualified by SQL syntax itself).
func (e *Engine) completeJoinCondition(ctx context.Context, cc classify.Context) ([]render.CompletionItem, bool) {
	left, leftErr := e.resolver.Resolve(ctx, cc.LeftTable)
	right, rightErr := e.resolver.Resolve(ctx, cc.RightTable)

	resolved := make([]resolver.TableSymbol, 0, 2)
	if leftErr == nil {
		resolved = append(resolved, left)
	}

	if rightErr == nil {
		resolved = append(resolved, right)
	}

	if len(resolved) == 0 {
		return nil, false
	}

	forceQualifier := !cc.UsingClause && len(resolved) > 1

	items := render.Columns(resolved, forceQualifier, true)

	functions, err := e.catalog.ListFunctions(ctx)
	if err == nil {
		items = append(items, render.Functions(scalarOnly(functions))...)
	}

	return items, true
}

// completeLimitClause suggests small illustrative row counts plus the
// dialect's trailing keyword(s) (OFFSET, and MySQL's comma form).
func (e *Engine) completeLimitClause() []render.CompletionItem {
	items := render.Keywords(e.keywords.LimitKeywords())

	for _, v := range e.keywords.LimitSampleValues() {
		items = append(items, render.CompletionItem{
			Label:      v,
			Kind:       render.ItemKeyword,
			InsertText: v,
			Detail:     "row count",
			SortKey:    "2" + v,
		})
	}

	return items
}

// completeCteDefinition lists catalog tables (excluding already-defined
// CTE names) when no available-tables list is already known, and always
// emits already-defined CTEs as references (so a later CTE can reuse an
// earlier one, and the main query can reference any of them).
func (e *Engine) completeCteDefinition(ctx context.Context, cc classify.Context) ([]render.CompletionItem, bool) {
	var items []render.CompletionItem

	if len(cc.AvailableTables) == 0 {
		tables, err := e.catalog.ListTables(ctx)
		if err != nil {
			e.logCatalogError(err)
			return nil, false
		}

		defined := make(map[string]bool, len(cc.DefinedCTEs))
		for _, n := range cc.DefinedCTEs {
			defined[strings.ToLower(n)] = true
		}

		filtered := tables[:0:0]

		for _, t := range tables {
			if !defined[strings.ToLower(t.Name)] {
				filtered = append(filtered, t)
			}
		}

		items = render.Tables(filtered)
	}

	items = append(items, render.CTEReferences(cc.DefinedCTEs)...)

	return items, true
}

// completeWindowFunction dispatches on which part of OVER(...) the cursor
// sits in: function keywords at the start, columns for PARTITION
// BY/ORDER BY, and frame keywords for the frame clause.
func (e *Engine) completeWindowFunction(ctx context.Context, snap document.Snapshot, offset int, cc classify.Context) ([]render.CompletionItem, bool) {
	switch cc.WindowPartKind {
	case classify.OverStart:
		return render.Keywords(e.keywords.WindowStartKeywords()), true
	case classify.PartitionBy, classify.OrderBy:
		tables := e.tablesForContext(ctx, snap.Tree, offset, cc.Tables)
		return render.Columns(tables, false, false), true
	case classify.WindowFrame:
		return render.Keywords(e.keywords.WindowFrameKeywords()), true
	default:
		return nil, false
	}
}

// completeKeywords returns the statement type's follow-on keywords, minus
// any clause already present; for UPDATE/DELETE, catalog table names are
// prepended so they sort ahead of the trailing keyword.
func (e *Engine) completeKeywords(ctx context.Context, cc classify.Context) []render.CompletionItem {
	set := keywords.Exclude(e.keywords.StatementTypeKeywords(cc.StatementType), cc.ExistingClauses)
	items := render.Keywords(set)

	if cc.StatementType == "UPDATE" || cc.StatementType == "DELETE" {
		if tables, err := e.catalog.ListTables(ctx); err == nil {
			items = append(render.Tables(tables), items...)
		} else {
			e.logCatalogError(err)
		}
	}

	return items
}

func scalarOnly(functions []catalog.FunctionMetadata) []catalog.FunctionMetadata {
	out := functions[:0:0]

	for _, f := range functions {
		if f.Kind == catalog.FunctionScalar {
			out = append(out, f)
		}
	}

	return out
}

// excludeAlreadyTyped drops items whose bare (unqualified) label matches a
// name already present earlier in the same clause, so retyping a comma
// boundary never re-suggests a column the user already picked.
func excludeAlreadyTyped(items []render.CompletionItem, used []string) []render.CompletionItem {
	if len(used) == 0 {
		return items
	}

	seen := make(map[string]bool, len(used))
	for _, u := range used {
		seen[strings.ToLower(u)] = true
	}

	out := items[:0:0]

	for _, it := range items {
		bare := it.Label
		if idx := strings.LastIndex(bare, "."); idx >= 0 {
			bare = bare[idx+1:]
		}

		if seen[strings.ToLower(bare)] {
			continue
		}

		out = append(out, it)
	}

	return out
}
