// Package render implements the Completion Renderer (C8): it turns
// resolved tables, columns, functions, and keywords into ranked
// CompletionItems with insert text, kinds, and qualification, but never
// talks to the catalog or the CST directly — everything it needs arrives
// as already-resolved data from resolver/catalog/keywords.
package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sqlls/sqlls/catalog"
	"github.com/sqlls/sqlls/resolver"
)

// ItemKind classifies a CompletionItem the way the LSP client distinguishes
// icons/behavior; lspserver maps these onto protocol.CompletionItemKind.
type ItemKind int

const (
	ItemColumn ItemKind = iota
	ItemTable
	ItemFunction
	ItemKeyword
	ItemCTE
)

// CompletionItem is the domain-level output of the renderer (§3's
// CompletionItem type), independent of any wire protocol.
type CompletionItem struct {
	Label         string
	Kind          ItemKind
	InsertText    string
	Detail        string
	Documentation string
	SortKey       string
}

// sortPrefix values place categories in the order §4.8 specifies: columns
// and tables before keywords, PK/FK columns before plain ones.
const (
	prefixPriority = "0"
	prefixNormal   = "1"
	prefixKeyword  = "2"
)

// Wildcard renders the `*` item. Per §9's fix to the source's
// inconsistent filtering, callers must only call this for SelectProjection
// and ReturningClause contexts.
func Wildcard() CompletionItem {
	return CompletionItem{
		Label:      "*",
		Kind:       ItemColumn,
		InsertText: "*",
		Detail:     "all columns",
		SortKey:    prefixPriority + "*",
	}
}

// Columns renders one item per column across tables. forceQualifier, or
// more than one table being present, qualifies the label as
// `alias_or_name.column`. prioritizePKFK sorts primary/foreign-key columns
// ahead of the rest (used for JOIN ON condition rendering); otherwise the
// order is alphabetical by label.
func Columns(tables []resolver.TableSymbol, forceQualifier, prioritizePKFK bool) []CompletionItem {
	qualify := forceQualifier || len(tables) > 1

	var items []CompletionItem

	for _, t := range tables {
		display := t.DisplayName()

		for _, c := range t.Columns {
			label := c.Name
			if qualify {
				label = display + "." + c.Name
			}

			item := CompletionItem{
				Label:      label,
				Kind:       ItemColumn,
				InsertText: label,
				Detail:     fmt.Sprintf("%s.%s %s", t.Name, c.Name, c.DataType),
			}

			priority := prefixNormal
			if prioritizePKFK && (c.IsPrimaryKey || c.IsForeignKey) {
				priority = prefixPriority
			}

			item.SortKey = priority + label

			items = append(items, item)
		}
	}

	sort.SliceStable(items, func(i, j int) bool { return items[i].SortKey < items[j].SortKey })

	return items
}

// Tables renders one item per table for FROM-clause completion, qualifying
// the label with schema when more than one distinct schema is present.
func Tables(tables []catalog.TableMetadata) []CompletionItem {
	schemas := make(map[string]bool)
	for _, t := range tables {
		if t.Schema != "" {
			schemas[t.Schema] = true
		}
	}

	qualify := len(schemas) > 1

	items := make([]CompletionItem, 0, len(tables))

	for _, t := range tables {
		label := t.Name
		if qualify && t.Schema != "" {
			label = t.Schema + "." + t.Name
		}

		items = append(items, CompletionItem{
			Label:      label,
			Kind:       ItemTable,
			InsertText: label,
			Detail:     "table",
			SortKey:    prefixNormal + label,
		})
	}

	sort.SliceStable(items, func(i, j int) bool { return items[i].SortKey < items[j].SortKey })

	return items
}

// Functions renders one item per function. Functions insert `NAME(` so the
// cursor lands inside the argument list.
func Functions(functions []catalog.FunctionMetadata) []CompletionItem {
	items := make([]CompletionItem, 0, len(functions))

	for _, f := range functions {
		items = append(items, CompletionItem{
			Label:         f.Name,
			Kind:          ItemFunction,
			InsertText:    f.Name + "(",
			Detail:        f.ReturnType,
			Documentation: f.Description,
			SortKey:       prefixNormal + f.Name,
		})
	}

	sort.SliceStable(items, func(i, j int) bool { return items[i].SortKey < items[j].SortKey })

	return items
}

// Keywords renders one item per keyword; keywords insert themselves and
// always sort after columns/tables.
func Keywords(keywords []string) []CompletionItem {
	items := make([]CompletionItem, 0, len(keywords))

	for _, kw := range keywords {
		items = append(items, CompletionItem{
			Label:      kw,
			Kind:       ItemKeyword,
			InsertText: kw,
			SortKey:    prefixKeyword + kw,
		})
	}

	return items
}

// CTEReferences renders already-defined CTE names as table-like items, for
// the main query's FROM clause and for CteDefinition completion.
func CTEReferences(names []string) []CompletionItem {
	items := make([]CompletionItem, 0, len(names))

	for _, n := range names {
		items = append(items, CompletionItem{
			Label:      n,
			Kind:       ItemCTE,
			InsertText: n,
			Detail:     "CTE",
			SortKey:    prefixNormal + n,
		})
	}

	return items
}

// FilterByPrefix keeps only items whose label starts with prefix,
// case-insensitively. Used to narrow FROM/column suggestions to what the
// user has typed so far.
func FilterByPrefix(items []CompletionItem, prefix string) []CompletionItem {
	if prefix == "" {
		return items
	}

	lower := strings.ToLower(prefix)

	out := items[:0:0]

	for _, it := range items {
		if strings.HasPrefix(strings.ToLower(it.Label), lower) {
			out = append(out, it)
		}
	}

	return out
}

// FilterByQualifier keeps only column items whose label starts with
// `qualifier.`, used when the user has typed `alias.` and wants only that
// table's columns.
func FilterByQualifier(items []CompletionItem, qualifier string) []CompletionItem {
	want := strings.ToLower(qualifier) + "."

	out := items[:0:0]

	for _, it := range items {
		if strings.HasPrefix(strings.ToLower(it.Label), want) {
			out = append(out, it)
		}
	}

	return out
}
