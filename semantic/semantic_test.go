package semantic

import (
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/sqlls/sqlls"
	"github.com/sqlls/sqlls/cst"
)

func mustParse(t *testing.T, sql string) *cst.Node {
	t.Helper()

	p := cst.NewParser(sqlls.DialectPostgres)
	result := p.Parse(sql, nil, nil)
	assert.True(t, result.Status != cst.Failed, "expected a tree, got Failed: %v", result.Errors)

	return result.Tree
}

func firstCTE(t *testing.T, sql string) *cst.Node {
	t.Helper()

	tree := mustParse(t, sql)
	wrapper := tree.Children[0]
	assert.Equal(t, cst.KindCTE, wrapper.Kind)

	for _, c := range wrapper.Children {
		if c.Kind == cst.KindCTE {
			return c
		}
	}

	t.Fatal("no CTE child found")

	return nil
}

func TestInferCTESchema_BareColumnUsesOwnName(t *testing.T) {
	sql := "WITH recent AS (SELECT id, status FROM orders) SELECT * FROM recent"
	cte := firstCTE(t, sql)

	schema := InferCTESchema(cte, sql)
	assert.Equal(t, "recent", schema.Name)
	assert.Equal(t, []string{"id", "status"}, schema.Columns)
}

func TestInferCTESchema_ExplicitAliasNamesColumn(t *testing.T) {
	sql := "WITH recent AS (SELECT id AS order_id, status FROM orders) SELECT * FROM recent"
	cte := firstCTE(t, sql)

	schema := InferCTESchema(cte, sql)
	assert.Equal(t, []string{"order_id", "status"}, schema.Columns)
}

func TestInferCTESchema_BareExpressionGetsGeneratedName(t *testing.T) {
	sql := "WITH totals AS (SELECT COUNT(*), SUM(amount) FROM orders) SELECT * FROM totals"
	cte := firstCTE(t, sql)

	schema := InferCTESchema(cte, sql)
	assert.Equal(t, []string{"col_1", "col_2"}, schema.Columns)
}

func TestInferCTESchema_WildcardReportedAsAsterisk(t *testing.T) {
	sql := "WITH all_orders AS (SELECT * FROM orders) SELECT * FROM all_orders"
	cte := firstCTE(t, sql)

	schema := InferCTESchema(cte, sql)
	assert.Equal(t, []string{"*"}, schema.Columns)
}

func TestInferCTESchema_DottedColumnUsesTrailingName(t *testing.T) {
	sql := "WITH recent AS (SELECT o.id, o.status FROM orders o) SELECT * FROM recent"
	cte := firstCTE(t, sql)

	schema := InferCTESchema(cte, sql)
	assert.Equal(t, []string{"id", "status"}, schema.Columns)
}

func TestCheckExplicitCTEColumnCounts_MatchingCountIsClean(t *testing.T) {
	sql := "WITH recent(order_id, order_status) AS (SELECT id, status FROM orders) SELECT * FROM recent"

	errs := CheckExplicitCTEColumnCounts(sql)
	assert.Equal(t, 0, len(errs))
}

func TestCheckExplicitCTEColumnCounts_MismatchIsReported(t *testing.T) {
	sql := "WITH recent(order_id) AS (SELECT id, status FROM orders) SELECT * FROM recent"

	errs := CheckExplicitCTEColumnCounts(sql)
	assert.Equal(t, 1, len(errs))
	assert.True(t, errors.Is(errs[0], ErrCteColumnCountMismatch))
}

func TestCheckExplicitCTEColumnCounts_NoExplicitListIsClean(t *testing.T) {
	sql := "WITH recent AS (SELECT id, status FROM orders) SELECT * FROM recent"

	errs := CheckExplicitCTEColumnCounts(sql)
	assert.Equal(t, 0, len(errs))
}

func TestCheckSetOperationColumnCounts_MatchingArmsAreClean(t *testing.T) {
	sql := "SELECT id, name FROM users UNION SELECT id, name FROM archived_users"
	tree := mustParse(t, sql)
	stmt := tree.Children[0]
	assert.Equal(t, cst.KindSetOperation, stmt.Kind)

	err := CheckSetOperationColumnCounts(stmt, sql)
	assert.NoError(t, err)
}

func TestCheckSetOperationColumnCounts_MismatchedArmsReported(t *testing.T) {
	sql := "SELECT id, name FROM users UNION SELECT id FROM archived_users"
	tree := mustParse(t, sql)
	stmt := tree.Children[0]
	assert.Equal(t, cst.KindSetOperation, stmt.Kind)

	err := CheckSetOperationColumnCounts(stmt, sql)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrSetOperationColumnCountMismatch))
}

func TestDetectCircularCTEs_AcyclicIsClean(t *testing.T) {
	sql := "WITH a AS (SELECT id FROM users), b AS (SELECT id FROM a) SELECT * FROM b"
	tree := mustParse(t, sql)
	wrapper := tree.Children[0]
	assert.Equal(t, cst.KindCTE, wrapper.Kind)

	err := DetectCircularCTEs(wrapper, sql)
	assert.NoError(t, err)
}

func TestDetectCircularCTEs_DirectCycleReported(t *testing.T) {
	sql := "WITH a AS (SELECT id FROM b), b AS (SELECT id FROM a) SELECT * FROM a"
	tree := mustParse(t, sql)
	wrapper := tree.Children[0]
	assert.Equal(t, cst.KindCTE, wrapper.Kind)

	err := DetectCircularCTEs(wrapper, sql)
	assert.Error(t, err)
	assert.True(t, errors.Is(err, ErrCircularCteDependency))
}

func TestAnalyzer_Diagnose_CleanDocumentHasNoDiagnostics(t *testing.T) {
	sql := "WITH recent AS (SELECT id FROM orders) SELECT * FROM recent"
	tree := mustParse(t, sql)

	diags := NewAnalyzer().Diagnose(tree, sql)
	assert.Equal(t, 0, len(diags))
}

func TestAnalyzer_Diagnose_FindsCircularCTEAndColumnMismatches(t *testing.T) {
	sql := "WITH a(x) AS (SELECT id, name FROM users) SELECT x FROM a; " +
		"WITH b AS (SELECT id FROM c), c AS (SELECT id FROM b) SELECT id, name FROM b UNION SELECT id FROM c"
	tree := mustParse(t, sql)

	diags := NewAnalyzer().Diagnose(tree, sql)
	assert.True(t, len(diags) >= 2)
}
