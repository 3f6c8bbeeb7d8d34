// Package resolver implements the Alias Resolver (C4): given a name typed
// by the user that may be a real table name, an alias, or a shortened
// form, it returns a TableSymbol with columns populated from the catalog.
package resolver

import (
	"context"
	"errors"
	"regexp"
	"sort"
	"strings"

	"github.com/sqlls/sqlls/catalog"
)

// ErrNoMatch is returned when none of the four resolution strategies
// produces a table.
var ErrNoMatch = errors.New("resolver: no matching table")

// ColumnSymbol is a column as seen by completion: its catalog metadata
// plus the owning table's name.
type ColumnSymbol struct {
	Name         string
	DataType     string
	Table        string
	IsPrimaryKey bool
	IsForeignKey bool
}

// TableSymbol is a resolved table: its canonical name, the alias (or
// shortened form) the user actually typed, and its columns.
type TableSymbol struct {
	Name    string
	Alias   string
	Columns []ColumnSymbol
}

// DisplayName is the alias if present, else the table name (§3).
func (t TableSymbol) DisplayName() string {
	if t.Alias != "" {
		return t.Alias
	}

	return t.Name
}

// Resolver resolves names against a Catalog.
type Resolver struct {
	catalog catalog.Catalog
}

// New returns a Resolver backed by cat.
func New(cat catalog.Catalog) *Resolver {
	return &Resolver{catalog: cat}
}

// Resolve tries each strategy from §4.4 in order, stopping at the first
// that produces a table with columns.
func (r *Resolver) Resolve(ctx context.Context, name string) (TableSymbol, error) {
	if name == "" {
		return TableSymbol{}, ErrNoMatch
	}

	// 1. Exact match.
	if sym, ok := r.buildSymbol(ctx, name, name); ok {
		return sym, nil
	}

	tables, err := r.catalog.ListTables(ctx)
	if err != nil {
		return TableSymbol{}, err
	}

	// 2. Starts-with.
	if table, ok := bestStartsWithMatch(name, tables); ok {
		if sym, ok := r.buildSymbol(ctx, table, name); ok {
			return sym, nil
		}
	}

	// 3. First-letter + numeric (e.g. "e1").
	if table, ok := firstLetterNumericMatch(name, tables); ok {
		if sym, ok := r.buildSymbol(ctx, table, name); ok {
			return sym, nil
		}
	}

	// 4. Single-table fallback (self-joins).
	if len(tables) == 1 {
		if sym, ok := r.buildSymbol(ctx, tables[0].Name, name); ok {
			return sym, nil
		}
	}

	return TableSymbol{}, ErrNoMatch
}

// ResolveMultiple resolves each name independently and drops failures
// silently; callers decide whether an omission is user-visible.
func (r *Resolver) ResolveMultiple(ctx context.Context, names []string) []TableSymbol {
	symbols := make([]TableSymbol, 0, len(names))

	for _, name := range names {
		if sym, err := r.Resolve(ctx, name); err == nil {
			symbols = append(symbols, sym)
		}
	}

	return symbols
}

func (r *Resolver) buildSymbol(ctx context.Context, tableName, userTyped string) (TableSymbol, bool) {
	columns, err := r.catalog.GetColumns(ctx, tableName)
	if err != nil || len(columns) == 0 {
		return TableSymbol{}, false
	}

	symbol := TableSymbol{Name: tableName, Alias: userTyped, Columns: make([]ColumnSymbol, 0, len(columns))}

	for _, c := range columns {
		symbol.Columns = append(symbol.Columns, ColumnSymbol{
			Name:         c.Name,
			DataType:     c.DataType,
			Table:        tableName,
			IsPrimaryKey: c.IsPrimaryKey,
			IsForeignKey: c.IsForeignKey,
		})
	}

	return symbol, true
}

var numericSuffixName = regexp.MustCompile(`^([A-Za-z])\d+$`)

// firstLetterNumericMatch implements strategy 3: a name like "e1" picks the
// shortest table whose first letter matches case-insensitively.
func firstLetterNumericMatch(name string, tables []catalog.TableMetadata) (string, bool) {
	m := numericSuffixName.FindStringSubmatch(name)
	if m == nil {
		return "", false
	}

	letter := strings.ToLower(m[1])

	var candidates []string

	for _, t := range tables {
		if t.Name == "" {
			continue
		}

		if strings.ToLower(t.Name[:1]) == letter {
			candidates = append(candidates, t.Name)
		}
	}

	if len(candidates) == 0 {
		return "", false
	}

	return shortestOf(candidates), true
}

// bestStartsWithMatch implements strategy 2's ordered preference: exact
// case-insensitive equality, then a prefix match at a word boundary
// (end-of-name or followed by `_`), then the shortest prefix match of any
// kind. Ties within a tier are broken by shortest table name.
func bestStartsWithMatch(name string, tables []catalog.TableMetadata) (string, bool) {
	lowerName := strings.ToLower(name)

	for _, t := range tables {
		if strings.EqualFold(t.Name, name) {
			return t.Name, true
		}
	}

	var boundary []string

	for _, t := range tables {
		lowerTable := strings.ToLower(t.Name)
		if !strings.HasPrefix(lowerTable, lowerName) {
			continue
		}

		rest := lowerTable[len(lowerName):]
		if rest == "" || strings.HasPrefix(rest, "_") {
			boundary = append(boundary, t.Name)
		}
	}

	if len(boundary) > 0 {
		return shortestOf(boundary), true
	}

	var prefix []string

	for _, t := range tables {
		if strings.HasPrefix(strings.ToLower(t.Name), lowerName) {
			prefix = append(prefix, t.Name)
		}
	}

	if len(prefix) > 0 {
		return shortestOf(prefix), true
	}

	return "", false
}

func shortestOf(names []string) string {
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) < len(names[j])
		}

		return names[i] < names[j]
	})

	return names[0]
}
