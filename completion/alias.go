package completion

import (
	"context"
	"sort"
	"strings"

	"github.com/sqlls/sqlls/cst"
	"github.com/sqlls/sqlls/resolver"
	"github.com/sqlls/sqlls/scope"
)

// tablesForContext resolves the tables visible at offset, preferring a
// CST-built scope (exact columns, explicit aliases) and falling back to
// resolving the classifier's text-derived name list via the alias
// resolver when no select_statement ancestor is found, or its scope fails
// to build (§4.9 step 3: "on failure, keep the text-derived tables list").
func (e *Engine) tablesForContext(ctx context.Context, tree *cst.Node, offset int, textTables []string) []resolver.TableSymbol {
	if stmt := findSelectStatement(tree, offset); stmt != nil {
		if sc, _, err := e.scope.Build(ctx, stmt, nil, scope.KindQuery); err == nil {
			return sc.Tables
		}
	}

	return e.resolveTextTables(ctx, textTables)
}

// findSelectStatement returns the nearest select_statement ancestor of the
// node at offset (or the node itself if it is one), or nil when the tree
// is unavailable or no such ancestor exists.
func findSelectStatement(tree *cst.Node, offset int) *cst.Node {
	if tree == nil {
		return nil
	}

	leaf := cst.NodeAt(tree, offset)
	if leaf == nil {
		return nil
	}

	if leaf.Kind == cst.KindSelectStatement {
		return leaf
	}

	for _, a := range leaf.Ancestors() {
		if a.Kind == cst.KindSelectStatement {
			return a
		}
	}

	return nil
}

// aliasPair is one disambiguated (full table name, detected alias) guess.
type aliasPair struct {
	full  string
	alias string
}

// resolveTextTables resolves a flat name list that may mix full table
// names and aliases (e.g. ["users", "u", "orders", "o"]) by disambiguating
// aliases from full names first, then resolving only the full names via
// C4 and attaching the detected alias to the result (§4.9).
func (e *Engine) resolveTextTables(ctx context.Context, names []string) []resolver.TableSymbol {
	var out []resolver.TableSymbol

	for _, p := range disambiguate(names) {
		sym, err := e.resolver.Resolve(ctx, p.full)
		if err != nil {
			continue
		}

		if p.alias != "" {
			sym.Alias = p.alias
		}

		out = append(out, sym)
	}

	return out
}

// disambiguate sorts names by descending length and marks any shorter name
// that is a case-insensitive prefix of a longer, not-yet-claimed one as its
// alias (§4.9's literal rule).
func disambiguate(names []string) []aliasPair {
	sorted := append([]string(nil), names...)
	sort.SliceStable(sorted, func(i, j int) bool { return len(sorted[i]) > len(sorted[j]) })

	claimed := make(map[int]bool, len(sorted))

	var pairs []aliasPair

	for i, full := range sorted {
		if claimed[i] {
			continue
		}

		claimed[i] = true
		alias := ""

		for j := i + 1; j < len(sorted); j++ {
			if claimed[j] {
				continue
			}

			short := sorted[j]
			if len(short) < len(full) && strings.EqualFold(full[:len(short)], short) {
				alias = short
				claimed[j] = true

				break
			}
		}

		pairs = append(pairs, aliasPair{full: full, alias: alias})
	}

	return pairs
}
