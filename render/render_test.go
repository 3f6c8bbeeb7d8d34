package render

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sqlls/sqlls/catalog"
	"github.com/sqlls/sqlls/resolver"
)

func TestColumns_QualifiesWhenMultipleTables(t *testing.T) {
	tables := []resolver.TableSymbol{
		{Name: "users", Alias: "u", Columns: []resolver.ColumnSymbol{{Name: "id", DataType: "int"}}},
		{Name: "orders", Alias: "o", Columns: []resolver.ColumnSymbol{{Name: "id", DataType: "int"}}},
	}

	items := Columns(tables, false, false)

	labels := labelsOf(items)
	assert.Contains(t, labels, "u.id")
	assert.Contains(t, labels, "o.id")
}

func TestColumns_SingleTableNoQualifierUnlessForced(t *testing.T) {
	tables := []resolver.TableSymbol{
		{Name: "users", Alias: "u", Columns: []resolver.ColumnSymbol{{Name: "id", DataType: "int"}}},
	}

	items := Columns(tables, false, false)
	assert.Equal(t, []string{"id"}, labelsOf(items))

	forced := Columns(tables, true, false)
	assert.Equal(t, []string{"u.id"}, labelsOf(forced))
}

func TestColumns_PKFKSortedFirst(t *testing.T) {
	tables := []resolver.TableSymbol{
		{Name: "orders", Alias: "o", Columns: []resolver.ColumnSymbol{
			{Name: "status", DataType: "text"},
			{Name: "id", DataType: "int", IsPrimaryKey: true},
			{Name: "user_id", DataType: "int", IsForeignKey: true},
		}},
	}

	items := Columns(tables, false, true)

	assert.Equal(t, []string{"id", "user_id", "status"}, labelsOf(items))
}

func TestTables_QualifiesWithSchemaWhenMultiplePresent(t *testing.T) {
	tables := []catalog.TableMetadata{
		{Name: "users", Schema: "public"},
		{Name: "accounts", Schema: "billing"},
	}

	items := Tables(tables)

	assert.Contains(t, labelsOf(items), "public.users")
	assert.Contains(t, labelsOf(items), "billing.accounts")
}

func TestTables_NoQualifierWithSingleSchema(t *testing.T) {
	tables := []catalog.TableMetadata{
		{Name: "users", Schema: "public"},
		{Name: "orders", Schema: "public"},
	}

	items := Tables(tables)

	assert.Contains(t, labelsOf(items), "users")
	assert.Contains(t, labelsOf(items), "orders")
}

func TestFunctions_InsertTextHasOpenParen(t *testing.T) {
	items := Functions([]catalog.FunctionMetadata{{Name: "COUNT", ReturnType: "bigint"}})

	assert.Equal(t, "COUNT(", items[0].InsertText)
}

func TestKeywords_InsertSelf(t *testing.T) {
	items := Keywords([]string{"WHERE", "LIMIT"})

	assert.Equal(t, "WHERE", items[0].InsertText)
	assert.Equal(t, "LIMIT", items[1].InsertText)
}

func TestWildcard_InsertsAsterisk(t *testing.T) {
	item := Wildcard()
	assert.Equal(t, "*", item.InsertText)
	assert.Equal(t, ItemColumn, item.Kind)
}

func TestFilterByPrefix_CaseInsensitive(t *testing.T) {
	items := []CompletionItem{{Label: "Users"}, {Label: "orders"}}

	got := FilterByPrefix(items, "us")

	assert.Len(t, got, 1)
	assert.Equal(t, "Users", got[0].Label)
}

func TestFilterByPrefix_EmptyReturnsAll(t *testing.T) {
	items := []CompletionItem{{Label: "Users"}, {Label: "orders"}}
	assert.Equal(t, items, FilterByPrefix(items, ""))
}

func TestFilterByQualifier_KeepsMatchingTable(t *testing.T) {
	items := []CompletionItem{{Label: "u.id"}, {Label: "o.id"}}

	got := FilterByQualifier(items, "u")

	assert.Len(t, got, 1)
	assert.Equal(t, "u.id", got[0].Label)
}

func TestCTEReferences_RenderAsCTEKind(t *testing.T) {
	items := CTEReferences([]string{"recent_orders"})

	assert.Equal(t, ItemCTE, items[0].Kind)
	assert.Equal(t, "recent_orders", items[0].InsertText)
}

func labelsOf(items []CompletionItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Label
	}

	return out
}
