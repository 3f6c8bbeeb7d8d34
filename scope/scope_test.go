package scope

import (
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/sqlls/sqlls"
	"github.com/sqlls/sqlls/catalog"
	"github.com/sqlls/sqlls/cst"
	"github.com/sqlls/sqlls/resolver"
)

func testSchema() sqlls.DatabaseSchema {
	col := func(name string, pk bool) *sqlls.ColumnInfo {
		return &sqlls.ColumnInfo{Name: name, DataType: "text", IsPrimaryKey: pk}
	}

	return sqlls.DatabaseSchema{
		Tables: []*sqlls.TableInfo{
			{Name: "users", Columns: map[string]*sqlls.ColumnInfo{"id": col("id", true), "name": col("name", false)}},
			{Name: "orders", Columns: map[string]*sqlls.ColumnInfo{"id": col("id", true), "user_id": col("user_id", false)}},
		},
	}
}

func testBuilder() *Builder {
	cat := catalog.NewStatic(sqlls.DialectPostgres, testSchema())
	return New(resolver.New(cat))
}

func parseSelect(t *testing.T, sql string) *cst.Node {
	t.Helper()

	p := cst.NewParser(sqlls.DialectPostgres)
	result := p.Parse(sql, nil, nil)
	assert.True(t, result.Status != cst.Failed)

	return result.Tree.Children[0]
}

func TestBuild_SimpleFrom(t *testing.T) {
	stmt := parseSelect(t, "SELECT id FROM users")

	sc, warnings, err := testBuilder().Build(t.Context(), stmt, nil, KindQuery)
	assert.NoError(t, err)
	assert.Equal(t, 0, len(warnings))
	assert.Equal(t, 1, len(sc.Tables))
	assert.Equal(t, "users", sc.Tables[0].Name)
	assert.Zero(t, sc.ParentID)
}

func TestBuild_JoinWithAliases(t *testing.T) {
	stmt := parseSelect(t, "SELECT u.id FROM users u JOIN orders o ON u.id = o.user_id")

	sc, warnings, err := testBuilder().Build(t.Context(), stmt, nil, KindQuery)
	assert.NoError(t, err)
	assert.Equal(t, 0, len(warnings))
	assert.Equal(t, 2, len(sc.Tables))
	assert.Equal(t, "u", sc.Tables[0].Alias)
	assert.Equal(t, "o", sc.Tables[1].Alias)
}

func TestBuild_SelfJoinDistinctAliasesAllowed(t *testing.T) {
	stmt := parseSelect(t, "SELECT a.id FROM users a JOIN users b ON a.id = b.id")

	sc, warnings, err := testBuilder().Build(t.Context(), stmt, nil, KindQuery)
	assert.NoError(t, err)
	assert.Equal(t, 0, len(warnings))
	assert.Equal(t, 2, len(sc.Tables))
}

func TestBuild_NoFromClauseReturnsError(t *testing.T) {
	stmt := parseSelect(t, "SELECT 1")

	_, _, err := testBuilder().Build(t.Context(), stmt, nil, KindQuery)
	assert.Error(t, err)
}

func TestBuild_UnresolvableTableWarnsButDoesNotAbort(t *testing.T) {
	stmt := parseSelect(t, "SELECT * FROM users u, nonexistent_table n")

	sc, warnings, err := testBuilder().Build(t.Context(), stmt, nil, KindQuery)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(sc.Tables))
	assert.Equal(t, 1, len(warnings))
}

func TestBuild_SubqueryInFromSignalsWarningNotError(t *testing.T) {
	stmt := parseSelect(t, "SELECT * FROM (SELECT id FROM users) sub")

	sc, warnings, err := testBuilder().Build(t.Context(), stmt, nil, KindQuery)
	assert.NoError(t, err)
	assert.Equal(t, 0, len(sc.Tables))
	assert.Equal(t, 1, len(warnings))
}

func TestBuildCTEChain_ParentsCTEToMainQuery(t *testing.T) {
	p := cst.NewParser(sqlls.DialectPostgres)
	result := p.Parse("WITH recent AS (SELECT id FROM orders) SELECT * FROM recent", nil, nil)
	assert.True(t, result.Status != cst.Failed)

	wrapper := result.Tree.Children[0]
	assert.Equal(t, cst.KindCTE, wrapper.Kind)

	scopes, _, err := testBuilder().BuildCTEChain(t.Context(), wrapper)
	assert.NoError(t, err)
	assert.Equal(t, 2, len(scopes))
	assert.Equal(t, KindCTE, scopes[0].Kind)
	assert.Equal(t, "orders", scopes[0].Tables[0].Name)
	assert.Zero(t, scopes[0].ParentID)

	assert.NotZero(t, scopes[1].ParentID)
	assert.Equal(t, scopes[0].ID, *scopes[1].ParentID)
}

func TestLookup_WalksChainInnermostFirst(t *testing.T) {
	inner := Scope{ID: "inner", Tables: []resolver.TableSymbol{{Name: "orders", Alias: "o"}}}
	outer := Scope{ID: "outer", Tables: []resolver.TableSymbol{{Name: "users", Alias: "u"}}}

	sym, ok := Lookup([]Scope{inner, outer}, "o")
	assert.True(t, ok)
	assert.Equal(t, "orders", sym.Name)

	sym, ok = Lookup([]Scope{inner, outer}, "u")
	assert.True(t, ok)
	assert.Equal(t, "users", sym.Name)

	_, ok = Lookup([]Scope{inner, outer}, "missing")
	assert.False(t, ok)
}

func TestLookup_CaseInsensitive(t *testing.T) {
	sc := Scope{Tables: []resolver.TableSymbol{{Name: "Users", Alias: "U"}}}

	_, ok := Lookup([]Scope{sc}, "u")
	assert.True(t, ok)
}
