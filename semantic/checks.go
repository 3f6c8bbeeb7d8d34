package semantic

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/sqlls/sqlls/cst"
)

// explicitCTERe finds "name(col1, col2) AS (" forms directly in the raw
// document text. The CST cannot represent this form at all: splitCTEs
// (cst/statement.go) requires AS to immediately follow a CTE's name token,
// so "WITH cte(a, b) AS (...)" fails to parse into the tree in the first
// place. This check therefore runs purely textually, independent of the
// CST, for the one construct the tree can never carry.
var explicitCTERe = regexp.MustCompile(`(?is)\b(\w+)\s*\(([^()]*)\)\s*AS\s*\(`)

// selectPrefixRe strips the leading SELECT (and DISTINCT/ALL) off a CTE
// body so only its projection list remains to be compared.
var selectPrefixRe = regexp.MustCompile(`(?is)^\s*SELECT\s+(?:DISTINCT\s+|ALL\s+)?`)

// CheckExplicitCTEColumnCounts scans text for every "WITH name(cols) AS (
// body )" occurrence and reports a mismatch when the explicit column list's
// arity differs from the body's own projection arity.
func CheckExplicitCTEColumnCounts(text string) []error {
	var errs []error

	for _, m := range explicitCTERe.FindAllStringSubmatchIndex(text, -1) {
		name := text[m[2]:m[3]]
		colList := text[m[4]:m[5]]
		openParen := m[1] - 1 // index of the body's opening "("

		close := matchingParen(text, openParen)
		if close == -1 {
			continue
		}

		body := text[openParen+1 : close]

		proj := firstProjection(body)
		if proj == "" {
			continue
		}

		explicitCount := len(splitTopLevel(colList, ','))
		projCount := len(splitTopLevel(proj, ','))

		if explicitCount != projCount {
			errs = append(errs, fmt.Errorf("%w: CTE %q declares %d column(s), body projects %d",
				ErrCteColumnCountMismatch, name, explicitCount, projCount))
		}
	}

	return errs
}

// matchingParen returns the index of the ")" matching the "(" at openIdx,
// or -1 if unbalanced.
func matchingParen(text string, openIdx int) int {
	depth := 0

	for i := openIdx; i < len(text); i++ {
		switch text[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}

	return -1
}

// firstProjection extracts the SELECT list text of body, stopping at the
// body's first top-level FROM keyword. Returns "" if body isn't a SELECT.
func firstProjection(body string) string {
	loc := selectPrefixRe.FindStringIndex(body)
	if loc == nil {
		return ""
	}

	rest := body[loc[1]:]
	upper := strings.ToUpper(rest)

	depth := 0
	for i := 0; i < len(rest); i++ {
		switch rest[i] {
		case '(':
			depth++
		case ')':
			depth--
		}

		if depth == 0 && strings.HasPrefix(upper[i:], "FROM") && isWordBoundary(rest, i, i+4) {
			return rest[:i]
		}
	}

	return rest
}

// isWordBoundary reports whether rest[start:end] is not glued to an
// adjacent identifier character on either side.
func isWordBoundary(s string, start, end int) bool {
	if start > 0 && isIdentByte(s[start-1]) {
		return false
	}

	if end < len(s) && isIdentByte(s[end]) {
		return false
	}

	return true
}

func isIdentByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

// CheckSetOperationColumnCounts reports a mismatch when the arms of a
// UNION/INTERSECT/EXCEPT set operation project different numbers of
// columns, per §4.10.
func CheckSetOperationColumnCounts(node *cst.Node, text string) error {
	var counts []int

	for _, c := range node.Children {
		if c.Kind != cst.KindSelectStatement {
			continue
		}

		counts = append(counts, len(projectionColumns(c, text)))
	}

	if len(counts) == 0 {
		return nil
	}

	first := counts[0]
	for i, n := range counts {
		if n != first {
			return fmt.Errorf("%w: arm %d projects %d column(s), arm 1 projects %d",
				ErrSetOperationColumnCountMismatch, i+1, n, first)
		}
	}

	return nil
}

// DetectCircularCTEs reports the first CTE name found to participate in a
// cycle of textual self-reference within wrapper's direct CTE children.
func DetectCircularCTEs(wrapper *cst.Node, text string) error {
	names := make([]string, 0, len(wrapper.Children))
	bodies := make(map[string]string, len(wrapper.Children))

	for _, c := range wrapper.Children {
		if c.Kind != cst.KindCTE {
			continue
		}

		name := ""
		if len(c.Tokens) > 0 {
			name = c.Tokens[0].Value
		}

		if name == "" {
			continue
		}

		names = append(names, name)
		bodies[strings.ToLower(name)] = c.Text(text)
	}

	refs := make(map[string][]string, len(names))

	for _, n := range names {
		body := bodies[strings.ToLower(n)]

		var deps []string

		for _, other := range names {
			if strings.EqualFold(other, n) {
				continue
			}

			if mentionsWord(body, other) {
				deps = append(deps, strings.ToLower(other))
			}
		}

		refs[strings.ToLower(n)] = deps
	}

	visiting := make(map[string]bool, len(names))
	visited := make(map[string]bool, len(names))

	var visit func(n string) error
	visit = func(n string) error {
		if visited[n] {
			return nil
		}

		if visiting[n] {
			return fmt.Errorf("%w: %s", ErrCircularCteDependency, n)
		}

		visiting[n] = true

		for _, dep := range refs[n] {
			if err := visit(dep); err != nil {
				return err
			}
		}

		visiting[n] = false
		visited[n] = true

		return nil
	}

	for _, n := range names {
		if err := visit(strings.ToLower(n)); err != nil {
			return err
		}
	}

	return nil
}

// mentionsWord reports whether body references word as a whole identifier
// (not as a substring of a longer one).
func mentionsWord(body, word string) bool {
	lowerBody := strings.ToLower(body)
	lowerWord := strings.ToLower(word)

	start := 0

	for {
		idx := strings.Index(lowerBody[start:], lowerWord)
		if idx == -1 {
			return false
		}

		abs := start + idx
		if isWordBoundary(lowerBody, abs, abs+len(lowerWord)) {
			return true
		}

		start = abs + 1
	}
}
