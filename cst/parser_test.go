package cst

import (
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/sqlls/sqlls"
)

func mustParse(t *testing.T, sql string) *Node {
	t.Helper()

	p := NewParser(sqlls.DialectPostgres)
	result := p.Parse(sql, nil, nil)
	assert.True(t, result.Status != Failed, "expected a tree, got Failed: %v", result.Errors)
	assert.NotZero(t, result.Tree)

	return result.Tree
}

func TestParse_SimpleSelect(t *testing.T) {
	tree := mustParse(t, "SELECT id, name FROM users WHERE id = 1")

	assert.Equal(t, KindSourceFile, tree.Kind)
	assert.Equal(t, 1, len(tree.Children))

	stmt := tree.Children[0]
	assert.Equal(t, KindSelectStatement, stmt.Kind)

	var kinds []string
	for _, c := range stmt.Children {
		kinds = append(kinds, c.Kind)
	}

	assert.Contains(t, kinds, KindSelectProjection)
	assert.Contains(t, kinds, KindFromClause)
	assert.Contains(t, kinds, KindWhereClause)
}

func TestParse_FromClauseWithJoin(t *testing.T) {
	tree := mustParse(t, "SELECT * FROM orders o LEFT JOIN customers c ON o.customer_id = c.id")

	stmt := tree.Children[0]

	var from *Node
	for _, c := range stmt.Children {
		if c.Kind == KindFromClause {
			from = c
		}
	}

	assert.NotZero(t, from)
	assert.Equal(t, 2, len(from.Children))
	assert.Equal(t, KindTableReference, from.Children[0].Kind)
	assert.Equal(t, KindJoinClause, from.Children[1].Kind)

	ref, ok := ParseTableRef(from.Children[0])
	assert.True(t, ok)
	assert.Equal(t, "orders", ref.Table)
	assert.Equal(t, "o", ref.Alias)

	joinRef, ok := ParseTableRef(from.Children[1])
	assert.True(t, ok)
	assert.Equal(t, "customers", joinRef.Table)
	assert.Equal(t, "c", joinRef.Alias)
}

func TestParse_MultipleTablesCommaSeparated(t *testing.T) {
	tree := mustParse(t, "SELECT * FROM a, b, c")
	stmt := tree.Children[0]

	var from *Node
	for _, c := range stmt.Children {
		if c.Kind == KindFromClause {
			from = c
		}
	}

	assert.Equal(t, 3, len(from.Children))
}

func TestParse_CTE(t *testing.T) {
	tree := mustParse(t, "WITH recent AS (SELECT id FROM orders) SELECT * FROM recent")

	cte := tree.Children[0]
	assert.Equal(t, KindCTE, cte.Kind)
	assert.True(t, len(cte.Children) >= 2)

	var mainSelect *Node
	for _, c := range cte.Children {
		if c.Kind == KindSelectStatement {
			mainSelect = c
		}
	}

	assert.NotZero(t, mainSelect)
}

func TestParse_WindowSpecification(t *testing.T) {
	tree := mustParse(t, "SELECT ROW_NUMBER() OVER (PARTITION BY dept ORDER BY salary) FROM emp")

	stmt := tree.Children[0]

	var found bool
	for _, c := range stmt.Children {
		if c.Kind == KindWindowSpec {
			found = true
		}
	}

	assert.True(t, found)
}

func TestParse_UnionSplitsIntoSetOperation(t *testing.T) {
	tree := mustParse(t, "SELECT id FROM a UNION SELECT id FROM b")

	stmt := tree.Children[0]
	assert.Equal(t, KindSetOperation, stmt.Kind)
	assert.Equal(t, 2, len(stmt.Children))
}

func TestParse_MultipleStatementsSplitOnSemicolon(t *testing.T) {
	tree := mustParse(t, "SELECT 1; SELECT 2;")
	assert.Equal(t, 2, len(tree.Children))
}

func TestNodeAt_FindsDeepestMatchingNode(t *testing.T) {
	sql := "SELECT id FROM users WHERE id = 1"
	tree := mustParse(t, sql)

	whereOffset := len(sql) - 1
	node := NodeAt(tree, whereOffset)
	assert.NotZero(t, node)
	assert.Equal(t, KindWhereClause, node.Kind)

	ancestorKinds := map[string]bool{}
	for _, a := range node.Ancestors() {
		ancestorKinds[a.Kind] = true
	}

	assert.True(t, ancestorKinds[KindSelectStatement])
	assert.True(t, ancestorKinds[KindSourceFile])
}

func TestParse_SubqueryInFromIsNotExpanded(t *testing.T) {
	tree := mustParse(t, "SELECT * FROM (SELECT id FROM inner_table) AS sub")
	stmt := tree.Children[0]

	var from *Node
	for _, c := range stmt.Children {
		if c.Kind == KindFromClause {
			from = c
		}
	}

	assert.Equal(t, 1, len(from.Children))

	ref, ok := ParseTableRef(from.Children[0])
	assert.True(t, ok)
	assert.True(t, ref.IsSubquery)
}
