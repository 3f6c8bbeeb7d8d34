package classify

import (
	"strings"

	"github.com/sqlls/sqlls/cst"
)

// fromCST runs the primary algorithm: walk the CST upward from the node at
// offset and emit the variant matching the first recognized clause
// ancestor. ok is false when no usable clause ancestor was found (only
// source_file, or the tree is nil), signaling the caller to fall back to
// the text-based classifier.
func fromCST(root *cst.Node, text string, offset int) (Context, bool) {
	if root == nil {
		return Context{}, false
	}

	leaf := cst.NodeAt(root, offset)
	if leaf == nil {
		return Context{}, false
	}

	// §4.6: OVER-detection takes precedence over FromClause/SelectProjection,
	// including when the OVER's parens are not yet closed and so never
	// produced a window_specification node at all.
	if part, ok := insideUnmatchedOver(text[:offset]); ok {
		return Context{Kind: WindowFunctionClause, WindowPartKind: part, Tables: tablesInStatement(leaf)}, true
	}

	if part, ok := windowPartFromCST(leaf, text, offset); ok {
		return Context{Kind: WindowFunctionClause, WindowPartKind: part, Tables: tablesInStatement(leaf)}, true
	}

	chain := append([]*cst.Node{leaf}, leaf.Ancestors()...)

	for _, n := range chain {
		switch n.Kind {
		case cst.KindWhereClause:
			return whereLikeContext(WhereClause, n, text, offset), true
		case cst.KindGroupByClause:
			return whereLikeContext(GroupByClause, n, text, offset), true
		case cst.KindHavingClause:
			return whereLikeContext(HavingClause, n, text, offset), true
		case cst.KindOrderByClause:
			return whereLikeContext(OrderByClause, n, text, offset), true
		case cst.KindReturningClause:
			return whereLikeContext(ReturningClause, n, text, offset), true
		case cst.KindLimitClause:
			return Context{Kind: LimitClause}, true
		case cst.KindJoinClause:
			return joinConditionContext(n, text, offset), true
		case cst.KindFromClause:
			return fromClauseContext(n), true
		case cst.KindCTE:
			return cteDefinitionContext(n), true
		case cst.KindSelectStatement:
			qualifier, hasQualifier := extractQualifier(text[:offset])
			ctx := Context{Kind: SelectProjection, Tables: tablesInStatement(n)}

			if hasQualifier {
				ctx.Qualifier = qualifier
			}

			ctx.AfterCase = afterCaseKeyword(text[:offset])

			return ctx, true
		}
	}

	return Context{}, false
}

// windowPartFromCST reports whether leaf (or its nearest window_specification
// ancestor) contains offset, and which part of the OVER(...) it is.
func windowPartFromCST(leaf *cst.Node, text string, offset int) (WindowPart, bool) {
	n := leaf
	for n != nil && n.Kind != cst.KindWindowSpec {
		n = n.Parent
	}

	if n == nil {
		return 0, false
	}

	return classifyWindowSegment(text[n.Start:offset]), true
}

// classifyWindowSegment inspects the text from just after "OVER(" (or the
// window_specification's start) up to the cursor and decides which part of
// the window clause the cursor is in.
func classifyWindowSegment(segment string) WindowPart {
	upper := strings.ToUpper(segment)

	partitionIdx := strings.LastIndex(upper, "PARTITION BY")
	orderIdx := strings.LastIndex(upper, "ORDER BY")
	frameIdx := lastFrameKeywordIndex(upper)

	switch {
	case frameIdx >= 0 && frameIdx > partitionIdx && frameIdx > orderIdx:
		return WindowFrame
	case orderIdx >= 0 && orderIdx > partitionIdx:
		return OrderBy
	case partitionIdx >= 0:
		return PartitionBy
	default:
		return OverStart
	}
}

func lastFrameKeywordIndex(upper string) int {
	best := -1
	for _, kw := range []string{"ROWS", "RANGE", "GROUPS"} {
		if idx := strings.LastIndex(upper, kw); idx > best {
			best = idx
		}
	}

	return best
}

func afterCaseKeyword(prefix string) bool {
	trimmed := strings.TrimRight(prefix, " \t\n\r")

	return strings.HasSuffix(strings.ToUpper(trimmed), "CASE")
}

// tablesInStatement finds the select_statement ancestor (or n itself) and
// returns every table name/alias its from_clause children expose.
func tablesInStatement(n *cst.Node) []string {
	stmt := n
	for stmt != nil && stmt.Kind != cst.KindSelectStatement {
		stmt = stmt.Parent
	}

	if stmt == nil {
		return nil
	}

	var from *cst.Node
	for _, c := range stmt.Children {
		if c.Kind == cst.KindFromClause {
			from = c
			break
		}
	}

	if from == nil {
		return nil
	}

	return tableNamesFrom(from)
}

func tableNamesFrom(from *cst.Node) []string {
	var names []string

	for _, c := range from.Children {
		if c.Kind != cst.KindTableReference && c.Kind != cst.KindJoinClause {
			continue
		}

		ref, ok := cst.ParseTableRef(c)
		if !ok || ref.IsSubquery {
			continue
		}

		names = append(names, ref.Table)

		if ref.Alias != "" && ref.Alias != ref.Table {
			names = append(names, ref.Alias)
		}
	}

	return names
}

func whereLikeContext(kind Kind, n *cst.Node, text string, offset int) Context {
	ctx := Context{Kind: kind, Tables: tablesInStatement(n)}

	if q, ok := extractQualifier(text[:offset]); ok {
		ctx.Qualifier = q
	}

	return ctx
}

func joinConditionContext(n *cst.Node, text string, offset int) Context {
	ref, _ := cst.ParseTableRef(n)

	stmt := n
	for stmt != nil && stmt.Kind != cst.KindFromClause {
		stmt = stmt.Parent
	}

	var left string

	if stmt != nil {
		for _, c := range stmt.Children {
			if c == n {
				break
			}

			if r, ok := cst.ParseTableRef(c); ok && !r.IsSubquery {
				left = displayName(r)
			}
		}
	}

	ctx := Context{
		Kind:        JoinCondition,
		LeftTable:   left,
		RightTable:  displayName(ref),
		UsingClause: strings.Contains(strings.ToUpper(n.Text(text)), "USING"),
	}

	if q, ok := extractQualifier(text[:offset]); ok {
		ctx.Qualifier = q
	}

	return ctx
}

func displayName(ref cst.TableRef) string {
	if ref.Alias != "" {
		return ref.Alias
	}

	return ref.Table
}

func fromClauseContext(n *cst.Node) Context {
	return Context{Kind: FromClause, ExcludeTables: tableNamesFrom(n)}
}

func cteDefinitionContext(wrapper *cst.Node) Context {
	var defined []string

	for _, c := range wrapper.Children {
		if c.Kind == cst.KindCTE && len(c.Tokens) > 0 {
			defined = append(defined, c.Tokens[0].Value)
		}
	}

	return Context{Kind: CteDefinition, DefinedCTEs: defined}
}
