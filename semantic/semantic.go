// Package semantic implements the narrow slice of the Semantic Analyzer
// (C10) this module implements: CTE output-schema
// inference, explicit CTE column-count checking, set-operation
// column-count checking, and circular-CTE detection (§4.10). Everything
// else a full semantic analyzer would do (type checking, full column
// resolution) belongs to the diagnostics pathway, outside this core.
package semantic

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/sqlls/sqlls/cst"
)

// Sentinel errors for the three checks this package performs.
var (
	ErrCteColumnCountMismatch          = errors.New("semantic: CTE explicit column list does not match its body's projection count")
	ErrSetOperationColumnCountMismatch = errors.New("semantic: set operation arms project different numbers of columns")
	ErrCircularCteDependency           = errors.New("semantic: circular CTE dependency")
)

// CTESchema is the inferred output schema of one CTE.
type CTESchema struct {
	Name    string
	Columns []string
}

// InferCTESchema derives cte's output schema from its body's projection,
// per §4.10: an explicit alias names the column; a bare column reference
// uses the column's own name; a bare function/expression gets a generated
// col_N; a wildcard is reported as "*" (expanding it against the body's
// own scope is the caller's job, once it has resolved that scope).
func InferCTESchema(cte *cst.Node, text string) CTESchema {
	name := ""
	if len(cte.Tokens) > 0 {
		name = cte.Tokens[0].Value
	}

	body := bodyStatement(cte)
	if body == nil {
		return CTESchema{Name: name}
	}

	return CTESchema{Name: name, Columns: projectionColumns(body, text)}
}

// bodyStatement returns cte's select_statement child (its query body).
func bodyStatement(cte *cst.Node) *cst.Node {
	for _, c := range cte.Children {
		if c.Kind == cst.KindSelectStatement {
			return c
		}
	}

	return nil
}

// projectionColumns infers one output name per top-level, comma-separated
// item of stmt's select_projection.
func projectionColumns(stmt *cst.Node, text string) []string {
	var proj *cst.Node

	for _, c := range stmt.Children {
		if c.Kind == cst.KindSelectProjection {
			proj = c
			break
		}
	}

	if proj == nil {
		return nil
	}

	items := splitTopLevel(proj.Text(text), ',')
	names := make([]string, 0, len(items))

	for i, item := range items {
		names = append(names, projectionItemName(item, i))
	}

	return names
}

func projectionItemName(item string, index int) string {
	item = strings.TrimSpace(item)

	if item == "*" || strings.HasSuffix(item, ".*") {
		return "*"
	}

	if idx := lastIndexFold(item, " AS "); idx >= 0 {
		return strings.TrimSpace(item[idx+4:])
	}

	fields := strings.Fields(item)
	if len(fields) >= 2 && isPlainIdent(fields[len(fields)-1]) && !isPlainIdent(strings.Join(fields[:len(fields)-1], " ")) {
		// `expr alias` with no AS: a trailing bare identifier after a
		// non-identifier expression is the alias.
		return fields[len(fields)-1]
	}

	if isPlainIdent(item) {
		if dot := strings.LastIndex(item, "."); dot >= 0 {
			return item[dot+1:]
		}

		return item
	}

	return fmt.Sprintf("col_%d", index+1)
}

func lastIndexFold(s, sub string) int {
	upper := strings.ToUpper(s)
	return strings.LastIndex(upper, strings.ToUpper(sub))
}

// isPlainIdent reports whether s is a single identifier, optionally
// dotted (e.g. "orders.id"), with no operators, parens, or whitespace.
func isPlainIdent(s string) bool {
	if s == "" {
		return false
	}

	for i := 0; i < len(s); i++ {
		b := s[i]

		switch {
		case b == '_' || b == '.':
		case b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z':
		case b >= '0' && b <= '9' && i > 0:
		default:
			return false
		}
	}

	return true
}

// splitTopLevel splits s on sep, ignoring occurrences inside parentheses.
func splitTopLevel(s string, sep byte) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	var parts []string

	depth := 0
	start := 0

	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		case sep:
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}

	parts = append(parts, s[start:])

	return parts
}
