package cst

import "github.com/sqlls/sqlls/tokenizer"

// buildSetOperation splits on top-level UNION keywords (UNION / UNION ALL)
// and wraps two or more SELECTs in a set_operation node; a lone SELECT is
// returned unwrapped.
func buildSetOperation(tokens []tokenizer.Token) (*Node, []error) {
	depth := 0
	var splits []int

	for i, t := range tokens {
		switch t.Type {
		case tokenizer.OPENED_PARENS:
			depth++
		case tokenizer.CLOSED_PARENS:
			if depth > 0 {
				depth--
			}
		case tokenizer.UNION:
			if depth == 0 {
				splits = append(splits, i)
			}
		}
	}

	if len(splits) == 0 {
		return buildSelectStatement(tokens)
	}

	start, end := spanRange(tokens)
	setOp := &Node{Kind: KindSetOperation, Start: start, End: end, Tokens: tokens}

	var errs []error
	from := 0

	for _, idx := range append(splits, len(tokens)) {
		part := tokens[from:idx]
		// Skip a leading ALL/DISTINCT qualifier right after UNION.
		for len(part) > 0 && (part[0].Type == tokenizer.ALL || part[0].Type == tokenizer.DISTINCT) {
			part = part[1:]
		}

		if len(part) > 0 && part[0].Type == tokenizer.SELECT {
			child, childErrs := buildSelectStatement(part)
			setOp.AddChild(child)
			errs = append(errs, childErrs...)
		}

		if idx < len(tokens) {
			from = idx + 1
		}
	}

	return setOp, errs
}

// buildSelectStatement splits a SELECT statement's significant tokens into
// its top-level clauses. Only paren-depth-0 keyword occurrences count as
// clause boundaries, so a FROM/WHERE inside a subquery's parens never
// splits the outer statement.
func buildSelectStatement(tokens []tokenizer.Token) (*Node, []error) {
	start, end := spanRange(tokens)
	stmt := &Node{Kind: KindSelectStatement, Start: start, End: end, Tokens: tokens}

	bounds := topLevelClauseBounds(tokens)

	if len(bounds.from) > 0 || bounds.whereIdx >= 0 || bounds.projectionEnd > 0 {
		projEnd := bounds.projectionEnd
		if projEnd == 0 {
			projEnd = len(tokens)
		}

		if projEnd > 1 {
			pStart, pEnd := spanRange(tokens[1:projEnd])
			stmt.AddChild(&Node{Kind: KindSelectProjection, Start: pStart, End: pEnd, Tokens: tokens[1:projEnd]})
		}
	}

	if len(bounds.from) > 0 {
		stmt.AddChild(buildFromClause(bounds.from))
	}

	addSimpleClause(stmt, KindWhereClause, tokens, bounds.whereIdx, bounds.nextAfter(bounds.whereIdx))
	addSimpleClause(stmt, KindGroupByClause, tokens, bounds.groupIdx, bounds.nextAfter(bounds.groupIdx))
	addSimpleClause(stmt, KindHavingClause, tokens, bounds.havingIdx, bounds.nextAfter(bounds.havingIdx))
	addSimpleClause(stmt, KindOrderByClause, tokens, bounds.orderIdx, bounds.nextAfter(bounds.orderIdx))
	addSimpleClause(stmt, KindLimitClause, tokens, bounds.limitIdx, bounds.nextAfter(bounds.limitIdx))
	addSimpleClause(stmt, KindReturningClause, tokens, bounds.returningIdx, bounds.nextAfter(bounds.returningIdx))

	for _, w := range windowSpecifications(tokens) {
		stmt.AddChild(w)
	}

	return stmt, nil
}

// clauseBounds holds the paren-depth-0 token index of each clause keyword
// (or -1 when absent) plus the token slice spanning FROM up to the next
// clause, which needs its own internal splitting.
type clauseBounds struct {
	projectionEnd int // exclusive index where FROM (or statement end) begins
	from          []tokenizer.Token
	whereIdx      int
	groupIdx      int
	havingIdx     int
	orderIdx      int
	limitIdx      int
	returningIdx  int
	order         []int // clause start indices in source order, for nextAfter
}

func (b clauseBounds) nextAfter(idx int) int {
	if idx < 0 {
		return -1
	}

	next := -1

	for _, candidate := range b.order {
		if candidate > idx && (next == -1 || candidate < next) {
			next = candidate
		}
	}

	return next
}

func topLevelClauseBounds(tokens []tokenizer.Token) clauseBounds {
	b := clauseBounds{whereIdx: -1, groupIdx: -1, havingIdx: -1, orderIdx: -1, limitIdx: -1, returningIdx: -1}

	depth := 0
	fromStart, fromEnd := -1, -1

	for i, t := range tokens {
		switch t.Type {
		case tokenizer.OPENED_PARENS:
			depth++

			continue
		case tokenizer.CLOSED_PARENS:
			if depth > 0 {
				depth--
			}

			continue
		}

		if depth != 0 {
			continue
		}

		switch {
		case t.Type == tokenizer.FROM && fromStart < 0:
			fromStart = i
			b.projectionEnd = i
		case t.Type == tokenizer.WHERE:
			b.whereIdx = i
			b.order = append(b.order, i)

			if fromStart >= 0 && fromEnd < 0 {
				fromEnd = i
			}
		case t.Type == tokenizer.GROUP:
			b.groupIdx = i
			b.order = append(b.order, i)

			if fromStart >= 0 && fromEnd < 0 {
				fromEnd = i
			}
		case t.Type == tokenizer.HAVING:
			b.havingIdx = i
			b.order = append(b.order, i)

			if fromStart >= 0 && fromEnd < 0 {
				fromEnd = i
			}
		case t.Type == tokenizer.ORDER:
			b.orderIdx = i
			b.order = append(b.order, i)

			if fromStart >= 0 && fromEnd < 0 {
				fromEnd = i
			}
		case wordIs(t, "LIMIT"):
			b.limitIdx = i
			b.order = append(b.order, i)

			if fromStart >= 0 && fromEnd < 0 {
				fromEnd = i
			}
		case wordIs(t, "RETURNING"):
			b.returningIdx = i
			b.order = append(b.order, i)

			if fromStart >= 0 && fromEnd < 0 {
				fromEnd = i
			}
		}
	}

	if fromStart >= 0 {
		if fromEnd < 0 {
			fromEnd = len(tokens)
		}

		b.from = tokens[fromStart+1 : fromEnd]
		if b.projectionEnd == 0 {
			b.projectionEnd = fromStart
		}
	}

	return b
}

func addSimpleClause(parent *Node, kind string, tokens []tokenizer.Token, idx, nextIdx int) {
	if idx < 0 {
		return
	}

	end := len(tokens)
	if nextIdx >= 0 {
		end = nextIdx
	}

	if idx+1 >= end {
		return
	}

	body := tokens[idx+1 : end]
	start, finish := spanRange(body)
	parent.AddChild(&Node{Kind: kind, Start: start, End: finish, Tokens: body})
}

// windowSpecifications scans for `OVER (` … `)` spans anywhere in the
// statement and returns one window_specification node per occurrence. They
// are attached as direct children of the statement rather than nested under
// whichever clause contains them — good enough for the classifier, which
// only needs to know "the cursor is inside some OVER(...)".
func windowSpecifications(tokens []tokenizer.Token) []*Node {
	var windows []*Node

	for i := 0; i < len(tokens); i++ {
		if !(tokens[i].Type == tokenizer.OVER) {
			continue
		}

		if i+1 >= len(tokens) || tokens[i+1].Type != tokenizer.OPENED_PARENS {
			continue
		}

		depth := 0
		closeIdx := -1

		for j := i + 1; j < len(tokens); j++ {
			switch tokens[j].Type {
			case tokenizer.OPENED_PARENS:
				depth++
			case tokenizer.CLOSED_PARENS:
				depth--
				if depth == 0 {
					closeIdx = j

					break
				}
			}

			if closeIdx != -1 {
				break
			}
		}

		if closeIdx == -1 {
			continue
		}

		body := tokens[i+1 : closeIdx+1]
		start, end := spanRange(body)
		windows = append(windows, &Node{Kind: KindWindowSpec, Start: start, End: end, Tokens: body})
		i = closeIdx
	}

	return windows
}
