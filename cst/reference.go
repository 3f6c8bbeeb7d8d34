package cst

import "github.com/sqlls/sqlls/tokenizer"

// TableRef is the parsed shape of a table_reference or join_clause node's
// body: an optional schema-qualified table name plus an optional alias.
// IsSubquery is true when the body opens with a paren the builder did not
// descend into (§4.5) — callers should treat this reference as unresolved.
type TableRef struct {
	Schema     string
	Table      string
	Alias      string
	IsSubquery bool
}

// ParseTableRef extracts the table name/alias from a table_reference or
// join_clause node. ok is false when the body is empty or does not start
// with a table name. A body that opens with a paren yields ok=true with
// only IsSubquery set, since the tree did not expand the subquery.
func ParseTableRef(n *Node) (ref TableRef, ok bool) {
	body := n.Tokens
	if len(body) == 0 {
		return TableRef{}, false
	}

	if body[0].Type == tokenizer.OPENED_PARENS {
		return TableRef{IsSubquery: true}, true
	}

	// Strip a trailing ON/USING condition: it belongs to the join, not the
	// table name/alias.
	condIdx := len(body)

	for i, t := range body {
		if wordIs(t, "ON") || wordIs(t, "USING") {
			condIdx = i
			break
		}
	}

	body = body[:condIdx]
	if len(body) == 0 {
		return TableRef{}, false
	}

	// schema.table
	if len(body) >= 3 && body[0].Type == tokenizer.WORD && body[1].Type == tokenizer.DOT && body[2].Type == tokenizer.WORD {
		ref.Schema = body[0].Value
		ref.Table = body[2].Value
		body = body[3:]
	} else if body[0].Type == tokenizer.WORD {
		ref.Table = body[0].Value
		body = body[1:]
	} else {
		return TableRef{}, false
	}

	switch {
	case len(body) >= 2 && body[0].Type == tokenizer.AS && body[1].Type == tokenizer.WORD:
		ref.Alias = body[1].Value
	case len(body) >= 1 && body[0].Type == tokenizer.WORD:
		ref.Alias = body[0].Value
	}

	if ref.Alias == "" {
		ref.Alias = ref.Table
	}

	return ref, true
}
