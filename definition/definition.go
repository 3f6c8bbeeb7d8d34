// Package definition implements go-to-definition for SQL: jumping from a
// table or column reference (in WHERE, ORDER BY, a JOIN condition, and so
// on) to where that table or column is declared (the FROM clause's
// table_reference, or the SELECT projection item that names the column).
// spec.md §1 names go-to-definition as a planned LSP capability but keeps
// it outside the completion-pipeline core; this package stands on its own,
// consumed only by lspserver and its own tests.
package definition

import (
	"strings"

	"github.com/sqlls/sqlls/cst"
)

// Kind distinguishes what a Result points at.
type Kind int

const (
	KindTable Kind = iota
	KindColumn
)

// Result is one go-to-definition hit: the kind of symbol found, its name,
// and the byte span of its declaring node in the document text. Start/End
// are a document-local byte span, not an LSP Location — converting that
// span (plus the request's own URI) to a wire Location is lspserver's job,
// the same domain/transport split as render.CompletionItem.
type Result struct {
	Kind  Kind
	Name  string
	Table string // owning table, for a Column result with a qualifier
	Start int
	End   int
}

// FindAt locates the definition of the table or column reference at
// offset within text, given tree (the document's parse tree). It reports
// false when there is no identifier at offset, or no matching declaration
// can be found (cursor on a keyword, literal, or an unresolvable name).
func FindAt(tree *cst.Node, text string, offset int) (Result, bool) {
	leaf := cst.NodeAt(tree, offset)
	if leaf == nil {
		return Result{}, false
	}

	qualifier, name, end := identifierAt(text, offset)
	if name == "" {
		return Result{}, false
	}

	// A name immediately followed by "." is itself a table qualifier (the
	// "u" of "u.id"), regardless of which clause it sits in; this CST has
	// no identifier-level node kind to distinguish that from the column
	// that follows it, so the dot is the only signal available.
	isQualifier := end < len(text) && text[end] == '.'

	if isQualifier || inTableContext(leaf, offset) {
		if res, ok := resolveTable(leaf, name); ok {
			return res, true
		}

		return Result{}, false
	}

	return resolveColumn(leaf, text, qualifier, name)
}

// inTableContext reports whether offset, inside leaf (or one of its
// ancestors up to the nearest select_statement), names a table rather than
// a column. A plain table_reference (comma-form FROM) is always table
// context; a join_clause is table context only before its own ON/USING
// keyword — past that point the same node's span covers the join
// condition's column references, which this CST does not break out into
// their own node kind.
func inTableContext(leaf *cst.Node, offset int) bool {
	for n := leaf; n != nil; n = n.Parent {
		switch n.Kind {
		case cst.KindTableReference:
			return true
		case cst.KindJoinClause:
			return offset < joinConditionStart(n)
		case cst.KindFromClause:
			return true
		case cst.KindSelectStatement:
			return false
		}
	}

	return false
}

// joinConditionStart returns the byte offset where n's ON/USING condition
// begins, or n.End when the join carries no condition (e.g. CROSS JOIN,
// NATURAL JOIN).
func joinConditionStart(n *cst.Node) int {
	for _, t := range n.Tokens {
		if strings.EqualFold(t.Value, "ON") || strings.EqualFold(t.Value, "USING") {
			return t.Position.Offset
		}
	}

	return n.End
}

// resolveTable finds the select_statement enclosing leaf, then the
// matching table_reference (by table name or alias) in its FROM clause.
func resolveTable(leaf *cst.Node, name string) (Result, bool) {
	stmt := enclosingSelect(leaf)
	if stmt == nil {
		return Result{}, false
	}

	from := childOfKind(stmt, cst.KindFromClause)
	if from == nil {
		return Result{}, false
	}

	for _, ref := range from.Children {
		parsed, ok := cst.ParseTableRef(ref)
		if !ok || parsed.IsSubquery {
			continue
		}

		if strings.EqualFold(parsed.Table, name) || (parsed.Alias != "" && strings.EqualFold(parsed.Alias, name)) {
			return Result{Kind: KindTable, Name: parsed.Table, Start: ref.Start, End: ref.End}, true
		}
	}

	return Result{}, false
}

// resolveColumn finds the select_statement enclosing leaf, then the
// projection item that declares name (an explicit alias, a bare column of
// the same name, or an unaliased expression's trailing bare identifier),
// honoring qualifier when the reference was itself qualified.
func resolveColumn(leaf *cst.Node, text string, qualifier, name string) (Result, bool) {
	stmt := enclosingSelect(leaf)
	if stmt == nil {
		return Result{}, false
	}

	proj := childOfKind(stmt, cst.KindSelectProjection)
	if proj == nil {
		return Result{}, false
	}

	for _, raw := range splitProjectionSpans(proj.Text(text), proj.Start) {
		item := trimSpan(raw)
		trimmed := item.text

		if trimmed == "" {
			continue
		}

		if alias, ok := explicitAlias(trimmed); ok {
			if strings.EqualFold(alias, name) {
				return Result{Kind: KindColumn, Name: alias, Start: item.start, End: item.end}, true
			}

			continue
		}

		if col, tbl, ok := qualifiedColumn(trimmed); ok {
			if strings.EqualFold(col, name) && (qualifier == "" || strings.EqualFold(tbl, qualifier)) {
				return Result{Kind: KindColumn, Name: col, Table: tbl, Start: item.start, End: item.end}, true
			}

			continue
		}

		if alias, ok := trailingBareAlias(trimmed); ok && strings.EqualFold(alias, name) {
			return Result{Kind: KindColumn, Name: alias, Start: item.start, End: item.end}, true
		}
	}

	return Result{}, false
}

func enclosingSelect(leaf *cst.Node) *cst.Node {
	if leaf.Kind == cst.KindSelectStatement {
		return leaf
	}

	for _, a := range leaf.Ancestors() {
		if a.Kind == cst.KindSelectStatement {
			return a
		}
	}

	return nil
}

func childOfKind(n *cst.Node, kind string) *cst.Node {
	for _, c := range n.Children {
		if c.Kind == kind {
			return c
		}
	}

	return nil
}

// explicitAlias returns the alias of an "expr AS alias" projection item.
func explicitAlias(item string) (string, bool) {
	upper := strings.ToUpper(item)

	idx := strings.LastIndex(upper, " AS ")
	if idx < 0 {
		return "", false
	}

	return strings.TrimSpace(item[idx+4:]), true
}

// qualifiedColumn splits a bare "table.column" or "column" projection item
// into its column and (possibly empty) table qualifier; ok is false when
// item is not a plain identifier (i.e. it is an expression).
func qualifiedColumn(item string) (col, table string, ok bool) {
	if !isPlainIdent(item) {
		return "", "", false
	}

	if dot := strings.LastIndex(item, "."); dot >= 0 {
		return item[dot+1:], item[:dot], true
	}

	return item, "", true
}

// trailingBareAlias returns the trailing bare identifier of an "expr
// alias" projection item with no AS keyword.
func trailingBareAlias(item string) (string, bool) {
	fields := strings.Fields(item)
	if len(fields) < 2 {
		return "", false
	}

	last := fields[len(fields)-1]
	rest := strings.Join(fields[:len(fields)-1], " ")

	if isPlainIdent(last) && !isPlainIdent(rest) {
		return last, true
	}

	return "", false
}

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

type projectionSpan struct {
	text       string
	start, end int
}

// trimSpan trims leading/trailing whitespace off s.text, adjusting start
// and end so they keep pointing at exactly the trimmed text's own span.
func trimSpan(s projectionSpan) projectionSpan {
	for len(s.text) > 0 && isSpaceByte(s.text[0]) {
		s.text = s.text[1:]
		s.start++
	}

	for len(s.text) > 0 && isSpaceByte(s.text[len(s.text)-1]) {
		s.text = s.text[:len(s.text)-1]
		s.end--
	}

	return s
}

func isSpaceByte(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

// splitProjectionSpans splits s (a select_projection node's own text) on
// top-level commas, pairing each item with its absolute byte span in the
// document (base is the node's own start offset).
func splitProjectionSpans(s string, base int) []projectionSpan {
	var spans []projectionSpan

	depth := 0
	start := 0

	emit := func(end int) {
		spans = append(spans, projectionSpan{text: s[start:end], start: base + start, end: base + end})
	}

	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				emit(i)
				start = i + 1
			}
		}
	}

	emit(len(s))

	return spans
}

// identifierAt returns the (optional qualifier, name) identifier run that
// contains offset, plus the run's own end offset, e.g. for "u.id" with
// offset inside "id" it returns ("u", "id", end); for an unqualified
// identifier it returns ("", name, end).
func identifierAt(text string, offset int) (qualifier, name string, end int) {
	if offset < 0 || offset > len(text) {
		return "", "", 0
	}

	start := offset
	end = offset

	for start > 0 && isIdentByte(text[start-1]) {
		start--
	}

	for end < len(text) && isIdentByte(text[end]) {
		end++
	}

	if start == end {
		return "", "", 0
	}

	name = text[start:end]

	if start > 0 && text[start-1] == '.' {
		qStart := start - 1

		for qStart > 0 && isIdentByte(text[qStart-1]) {
			qStart--
		}

		qualifier = text[qStart : start-1]
	}

	return qualifier, name, end
}

func isIdentByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}
