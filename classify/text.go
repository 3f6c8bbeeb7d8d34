package classify

import (
	"regexp"
	"strings"
)

// fromText is the fallback classifier (§4.6): it inspects the text
// preceding the cursor with ordered pattern tests, used whenever the CST
// path only reaches source_file or finds no usable clause ancestor.
func fromText(text string, offset int) Context {
	if offset < 0 {
		offset = 0
	}

	if offset > len(text) {
		offset = len(text)
	}

	prefix := lastStatement(text[:offset])

	if ctx, ok := bareStatementKeyword(prefix); ok {
		return ctx
	}

	if ctx, ok := ctePattern(prefix); ok {
		return ctx
	}

	if ctx, ok := windowFunctionText(prefix); ok {
		return ctx
	}

	if ctx, ok := fromJoinPartial(prefix); ok {
		return ctx
	}

	if ctx, ok := selectNoFrom(text, offset, prefix); ok {
		return ctx
	}

	if ctx, ok := trailingClauseKeyword(prefix); ok {
		return ctx
	}

	if ctx, ok := ddlKeyword(prefix); ok {
		return ctx
	}

	if strings.TrimSpace(prefix) == "" {
		return Context{Kind: Unknown}
	}

	return Context{Kind: Keywords}
}

// lastStatement returns the portion of s after the last semicolon, so a
// completed earlier statement never leaks into the classification of the
// one the cursor is in. Semicolons inside parens or string literals are
// not told apart from statement separators.
func lastStatement(s string) string {
	if idx := strings.LastIndex(s, ";"); idx >= 0 {
		return s[idx+1:]
	}

	return s
}

var bareStatementRe = regexp.MustCompile(`(?i)^\s*(UPDATE|INSERT|DELETE|UNION(\s+ALL)?)\s+$`)

func bareStatementKeyword(prefix string) (Context, bool) {
	m := bareStatementRe.FindStringSubmatch(prefix)
	if m == nil {
		return Context{}, false
	}

	return Context{Kind: Keywords, StatementType: strings.ToUpper(strings.Fields(m[1])[0])}, true
}

var (
	bareWithRe = regexp.MustCompile(`(?i)^\s*WITH\s+(RECURSIVE\s+)?$`)
	cteBodyRe  = regexp.MustCompile(`(?i)WITH\s+(RECURSIVE\s+)?(\w+)\s+AS\s*\(\s*$`)
)

func ctePattern(prefix string) (Context, bool) {
	if bareWithRe.MatchString(prefix) {
		return Context{Kind: CteDefinition}, true
	}

	if cteBodyRe.MatchString(prefix) {
		return Context{Kind: SelectProjection}, true
	}

	return Context{}, false
}

func windowFunctionText(prefix string) (Context, bool) {
	part, ok := insideUnmatchedOver(prefix)
	if !ok {
		return Context{}, false
	}

	return Context{Kind: WindowFunctionClause, WindowPartKind: part}, true
}

var overOpenRe = regexp.MustCompile(`(?i)OVER\s*\(`)

// insideUnmatchedOver scans prefix for the last `OVER(` and reports whether
// its parens are still open at the end of prefix — §4.6's "scanning
// unmatched-paren count after the last OVER(" rule, shared by both the CST
// and text-based paths since an in-progress OVER(...) may not yet have
// produced a window_specification node.
func insideUnmatchedOver(prefix string) (WindowPart, bool) {
	matches := overOpenRe.FindAllStringIndex(prefix, -1)
	if len(matches) == 0 {
		return 0, false
	}

	last := matches[len(matches)-1]
	segment := prefix[last[1]:]

	depth := 1
	for _, r := range segment {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
		}
	}

	if depth <= 0 {
		return 0, false
	}

	return classifyWindowSegment(segment), true
}

var fromJoinRe = regexp.MustCompile(`(?i)\b(FROM|JOIN)\b`)

func fromJoinPartial(prefix string) (Context, bool) {
	matches := fromJoinRe.FindAllStringIndex(prefix, -1)
	if len(matches) == 0 {
		return Context{}, false
	}

	last := matches[len(matches)-1]
	remainder := prefix[last[1]:]

	trimmedRight := strings.TrimRight(remainder, " \t\r\n")

	switch {
	case strings.HasSuffix(trimmedRight, ","):
		return Context{Kind: FromClause, ExcludeTables: extractFromNames(remainder)}, true
	case remainder != "" && isIdentByte(remainder[len(remainder)-1]):
		return Context{Kind: FromClause, ExcludeTables: extractFromNames(remainder)}, true
	case trimmedRight != "" && remainder != trimmedRight:
		// A complete identifier followed by trailing whitespace, no comma:
		// §4.6's "space-terminated FROM becomes Keywords" tie-break.
		return Context{Kind: Keywords, StatementType: "SELECT", ExistingClauses: []string{"SELECT", "FROM"}}, true
	default:
		return Context{Kind: FromClause, ExcludeTables: extractFromNames(remainder)}, true
	}
}

// extractFromNames pulls the real table name out of every comma-separated
// group in remainder except a still-being-typed trailing group (a single
// bare identifier with nothing after it). A group whose alias ends in a
// digit is not excluded, allowing a self-join (`users u1 JOIN users u2`).
func extractFromNames(remainder string) []string {
	parts := strings.Split(remainder, ",")

	var names []string

	for i, p := range parts {
		fields := strings.Fields(p)
		if len(fields) == 0 {
			continue
		}

		isLast := i == len(parts)-1
		if isLast && len(fields) <= 1 {
			continue
		}

		alias := ""

		switch {
		case len(fields) >= 3 && strings.EqualFold(fields[1], "AS"):
			alias = fields[2]
		case len(fields) >= 2:
			alias = fields[1]
		}

		if alias != "" && endsWithDigit(alias) {
			continue
		}

		names = append(names, fields[0])
	}

	return names
}

func endsWithDigit(s string) bool {
	if s == "" {
		return false
	}

	c := s[len(s)-1]

	return c >= '0' && c <= '9'
}

var selectKeywordRe = regexp.MustCompile(`(?i)\bSELECT\b`)

func selectNoFrom(text string, offset int, prefix string) (Context, bool) {
	matches := selectKeywordRe.FindAllStringIndex(prefix, -1)
	if len(matches) == 0 {
		return Context{}, false
	}

	last := matches[len(matches)-1]
	afterSelect := prefix[last[1]:]

	if fromJoinRe.MatchString(afterSelect) {
		return Context{}, false
	}

	ctx := Context{Kind: SelectProjection, AfterCase: afterCaseKeyword(prefix)}

	if q, ok := extractQualifier(prefix); ok {
		ctx.Qualifier = q
	}

	if tables := subqueryLookaheadTables(text, offset); len(tables) > 0 {
		ctx.Tables = tables
	}

	return ctx, true
}

// subqueryLookaheadTables handles "(SELECT | FROM orders)": when the
// cursor sits in a subquery's projection, its own FROM clause (written
// after the cursor) supplies the visible tables.
func subqueryLookaheadTables(text string, offset int) []string {
	depth := 0
	openIdx := -1

	for i := offset - 1; i >= 0; i-- {
		switch text[i] {
		case ')':
			depth++
		case '(':
			if depth == 0 {
				openIdx = i
			} else {
				depth--
			}
		}
		if openIdx != -1 {
			break
		}
	}

	if openIdx == -1 {
		return nil
	}

	depth = 0
	closeIdx := len(text)

	for i := offset; i < len(text); i++ {
		switch text[i] {
		case '(':
			depth++
		case ')':
			if depth == 0 {
				closeIdx = i
			} else {
				depth--
			}
		}
		if closeIdx != len(text) {
			break
		}
	}

	after := text[offset:closeIdx]

	m := subqueryFromRe.FindStringSubmatch(after)
	if m == nil {
		return nil
	}

	return []string{m[1]}
}

var subqueryFromRe = regexp.MustCompile(`(?i)\bFROM\s+([A-Za-z_][A-Za-z0-9_]*)`)

var trailingClauseRe = regexp.MustCompile(`(?i)\b(WHERE|GROUP BY|HAVING|ORDER BY|LIMIT)\b`)

func trailingClauseKeyword(prefix string) (Context, bool) {
	matches := trailingClauseRe.FindAllStringIndex(prefix, -1)
	if len(matches) == 0 {
		return Context{}, false
	}

	last := matches[len(matches)-1]
	keyword := strings.ToUpper(strings.Join(strings.Fields(prefix[last[0]:last[1]]), " "))

	var kind Kind

	switch keyword {
	case "WHERE":
		kind = WhereClause
	case "GROUP BY":
		kind = GroupByClause
	case "HAVING":
		kind = HavingClause
	case "ORDER BY":
		kind = OrderByClause
	case "LIMIT":
		kind = LimitClause
	}

	ctx := Context{Kind: kind}

	if q, ok := extractQualifier(prefix); ok {
		ctx.Qualifier = q
	}

	return ctx, true
}

var ddlRe = regexp.MustCompile(`(?i)^\s*(CREATE|ALTER|DROP)\s+`)

func ddlKeyword(prefix string) (Context, bool) {
	m := ddlRe.FindStringSubmatch(prefix)
	if m == nil {
		return Context{}, false
	}

	return Context{Kind: Keywords, StatementType: strings.ToUpper(m[1])}, true
}
