package cst

import (
	"strings"

	"github.com/sqlls/sqlls/tokenizer"
)

var joinQualifiers = map[string]bool{
	"NATURAL": true, "LEFT": true, "RIGHT": true, "FULL": true,
	"INNER": true, "OUTER": true, "CROSS": true, "JOIN": true,
}

// buildFromClause splits a FROM clause's tokens into table_reference and
// join_clause children. A subquery table reference (`(SELECT ...)`) is
// recognized by its opening paren but its interior is not parsed further —
// per §4.5, an incomplete subquery CST is a known limitation and the scope
// builder is expected to fall back to text analysis rather than guess.
func buildFromClause(tokens []tokenizer.Token) *Node {
	start, end := spanRange(tokens)
	clause := &Node{Kind: KindFromClause, Start: start, End: end, Tokens: tokens}

	segments := splitFromSegments(tokens)

	for _, seg := range segments {
		clause.AddChild(buildTableOrJoin(seg))
	}

	return clause
}

// fromSegment is one comma- or JOIN-delimited piece of the FROM clause: the
// join keywords that introduced it (nil for the first table) plus the body
// tokens (table reference, optional alias, optional ON/USING condition).
type fromSegment struct {
	joinKeywords []tokenizer.Token
	body         []tokenizer.Token
}

func splitFromSegments(tokens []tokenizer.Token) []fromSegment {
	var segments []fromSegment

	depth := 0
	bodyStart := 0
	var pendingJoin []tokenizer.Token

	flush := func(end int) {
		if end > bodyStart {
			segments = append(segments, fromSegment{joinKeywords: pendingJoin, body: tokens[bodyStart:end]})
		}

		pendingJoin = nil
	}

	i := 0
	for i < len(tokens) {
		t := tokens[i]

		switch t.Type {
		case tokenizer.OPENED_PARENS:
			depth++
			i++

			continue
		case tokenizer.CLOSED_PARENS:
			if depth > 0 {
				depth--
			}

			i++

			continue
		}

		if depth != 0 {
			i++
			continue
		}

		if t.Type == tokenizer.COMMA {
			flush(i)
			bodyStart = i + 1
			i++

			continue
		}

		if t.Type == tokenizer.WORD && joinQualifiers[strings.ToUpper(t.Value)] {
			joinStart := i
			for i < len(tokens) && tokens[i].Type == tokenizer.WORD && joinQualifiers[strings.ToUpper(tokens[i].Value)] {
				i++
			}

			flush(joinStart)
			pendingJoin = tokens[joinStart:i]
			bodyStart = i

			continue
		}

		i++
	}

	flush(len(tokens))

	return segments
}

func buildTableOrJoin(seg fromSegment) *Node {
	kind := KindTableReference
	if len(seg.joinKeywords) > 0 {
		kind = KindJoinClause
	}

	full := append(append([]tokenizer.Token{}, seg.joinKeywords...), seg.body...)
	start, end := spanRange(full)

	node := &Node{Kind: kind, Start: start, End: end, Tokens: seg.body}

	if len(seg.body) > 0 && seg.body[0].Type == tokenizer.OPENED_PARENS {
		// Subquery table reference: interior deliberately left unparsed.
		return node
	}

	return node
}
