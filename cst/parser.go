package cst

import (
	"strings"
	"time"

	"github.com/sqlls/sqlls"
	"github.com/sqlls/sqlls/tokenizer"
)

// Status classifies a parse outcome.
type Status int

const (
	// Success means the whole input parsed with no unrecognized statements.
	Success Status = iota
	// Partial means a tree was produced but one or more statements or
	// clauses could not be fully delimited (error nodes / opaque spans).
	Partial
	// Failed means no tree could be produced at all (tokenizer failure).
	Failed
)

// Result is what Parse returns: always check Status before trusting Tree
// is complete, but Tree is non-nil on both Success and Partial.
type Result struct {
	Status    Status
	Tree      *Node
	Errors    []error
	ParseTime time.Duration
}

// Parser wraps the tokenizer for a single dialect and produces a Node tree.
// One Parser per open document's dialect is enough; it carries no mutable
// state between calls.
type Parser struct {
	dialect tokenizer.SqlDialect
}

// NewParser returns a Parser for the given sqlls dialect.
func NewParser(dialect sqlls.Dialect) *Parser {
	var d tokenizer.SqlDialect

	switch dialect {
	case sqlls.DialectMySQL, sqlls.DialectMariaDB:
		d = tokenizer.NewMySQLDialect()
	case sqlls.DialectSQLite:
		d = tokenizer.NewSQLiteDialect()
	default:
		d = tokenizer.NewPostgresDialect()
	}

	return &Parser{dialect: d}
}

// Parse tokenizes text and builds a tree. previous is accepted for the
// incremental-reparse contract (§4.2) but is currently only used to copy
// over statements whose token span is untouched by changedRange; when
// changedRange is zero-valued (full-text replace) every statement is
// rebuilt.
func (p *Parser) Parse(text string, previous *Result, changedRange *Range) Result {
	start := time.Now()

	tk := tokenizer.NewSqlTokenizer(text, p.dialect, tokenizer.TokenizerOptions{PreserveCase: true})
	tokens, tokErr := tk.AllTokens()

	if len(tokens) == 0 {
		return Result{Status: Failed, Errors: []error{tokErr}, ParseTime: time.Since(start)}
	}

	significant := filterSignificant(tokens)
	statementSpans := splitStatements(significant)

	root := &Node{Kind: KindSourceFile, Start: 0, End: len(text)}

	var errs []error
	if tokErr != nil {
		errs = append(errs, tokErr)
	}

	for i, span := range statementSpans {
		if reused := reuseStatement(previous, i, span, changedRange); reused != nil {
			reused.Parent = root
			root.Children = append(root.Children, reused)

			continue
		}

		stmt, stmtErrs := buildStatement(span)
		root.AddChild(stmt)
		errs = append(errs, stmtErrs...)
	}

	status := Success
	if len(errs) > 0 {
		status = Partial
	}

	return Result{Status: status, Tree: root, Errors: errs, ParseTime: time.Since(start)}
}

// Range is a half-open byte offset span within the document text, used to
// describe the edit that triggered a reparse.
type Range struct {
	Start int
	End   int
}

func reuseStatement(previous *Result, index int, span []tokenizer.Token, changed *Range) *Node {
	if previous == nil || previous.Tree == nil || changed == nil {
		return nil
	}

	if index >= len(previous.Tree.Children) {
		return nil
	}

	if len(span) == 0 {
		return nil
	}

	stmtStart, stmtEnd := span[0].Position.Offset, span[len(span)-1].Position.Offset+len(span[len(span)-1].Value)

	old := previous.Tree.Children[index]
	if old.Start != stmtStart || old.End != stmtEnd {
		return nil
	}

	// The edit overlaps this statement's span: it must be rebuilt.
	if changed.Start < stmtEnd && changed.End > stmtStart {
		return nil
	}

	return old
}

func filterSignificant(tokens []tokenizer.Token) []tokenizer.Token {
	out := make([]tokenizer.Token, 0, len(tokens))

	for _, t := range tokens {
		switch t.Type {
		case tokenizer.WHITESPACE, tokenizer.LINE_COMMENT, tokenizer.BLOCK_COMMENT, tokenizer.EOF:
			continue
		default:
			out = append(out, t)
		}
	}

	return out
}

// splitStatements divides a significant-token stream into top-level
// statements at SEMICOLON tokens, respecting paren depth.
func splitStatements(tokens []tokenizer.Token) [][]tokenizer.Token {
	var statements [][]tokenizer.Token

	depth := 0
	start := 0

	for i, t := range tokens {
		switch t.Type {
		case tokenizer.OPENED_PARENS:
			depth++
		case tokenizer.CLOSED_PARENS:
			if depth > 0 {
				depth--
			}
		case tokenizer.SEMICOLON:
			if depth == 0 {
				if i > start {
					statements = append(statements, tokens[start:i])
				}

				start = i + 1
			}
		}
	}

	if start < len(tokens) {
		statements = append(statements, tokens[start:])
	}

	return statements
}

func wordIs(t tokenizer.Token, kw string) bool {
	return t.Type == tokenizer.WORD && strings.EqualFold(t.Value, kw)
}

func spanRange(tokens []tokenizer.Token) (int, int) {
	if len(tokens) == 0 {
		return 0, 0
	}

	last := tokens[len(tokens)-1]

	return tokens[0].Position.Offset, last.Position.Offset + len(last.Value)
}
