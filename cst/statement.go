package cst

import (
	"fmt"

	"github.com/sqlls/sqlls/tokenizer"
)

// buildStatement classifies one top-level statement and builds its subtree.
// Unrecognized leading keywords produce an opaque other_statement node
// rather than an error — CREATE/ALTER/DROP and friends are legitimately out
// of scope for this tree (completion does not need their internal shape).
func buildStatement(tokens []tokenizer.Token) (*Node, []error) {
	if len(tokens) == 0 {
		start, end := spanRange(tokens)
		return &Node{Kind: KindOtherStatement, Start: start, End: end}, nil
	}

	body := tokens
	var ctes []*Node

	if tokens[0].Type == tokenizer.WITH {
		cteNodes, rest, err := splitCTEs(tokens)
		if err != nil {
			start, end := spanRange(tokens)
			return &Node{Kind: KindOtherStatement, Start: start, End: end, Tokens: tokens}, []error{err}
		}

		ctes = cteNodes
		body = rest
	}

	if len(body) == 0 {
		start, end := spanRange(tokens)
		node := &Node{Kind: KindOtherStatement, Start: start, End: end, Tokens: tokens}

		for _, c := range ctes {
			node.AddChild(c)
		}

		return node, nil
	}

	head := body[0]

	var (
		stmt *Node
		errs []error
	)

	switch {
	case head.Type == tokenizer.SELECT:
		stmt, errs = buildSetOperation(body)
	case head.Type == tokenizer.INSERT:
		start, end := spanRange(body)
		stmt = &Node{Kind: KindInsertStatement, Start: start, End: end, Tokens: body}
	case head.Type == tokenizer.UPDATE:
		start, end := spanRange(body)
		stmt = &Node{Kind: KindUpdateStatement, Start: start, End: end, Tokens: body}
	case head.Type == tokenizer.DELETE:
		start, end := spanRange(body)
		stmt = &Node{Kind: KindDeleteStatement, Start: start, End: end, Tokens: body}
	default:
		start, end := spanRange(body)
		stmt = &Node{Kind: KindOtherStatement, Start: start, End: end, Tokens: body}
	}

	start, end := spanRange(tokens)
	wrapper := stmt

	if len(ctes) > 0 {
		wrapper = &Node{Kind: KindCTE, Start: start, End: end}
		for _, c := range ctes {
			wrapper.AddChild(c)
		}

		wrapper.AddChild(stmt)
	}

	return wrapper, errs
}

// splitCTEs parses `WITH name AS ( ... ), name2 AS ( ... )` and returns one
// common_table_expression node per definition plus the remaining tokens
// (the main query that follows).
func splitCTEs(tokens []tokenizer.Token) ([]*Node, []tokenizer.Token, error) {
	i := 1 // skip WITH
	if i < len(tokens) && wordIs(tokens[i], "RECURSIVE") {
		i++
	}

	var ctes []*Node

	for i < len(tokens) {
		if tokens[i].Type != tokenizer.WORD {
			return nil, nil, fmt.Errorf("cst: expected CTE name at line %d, column %d", tokens[i].Position.Line, tokens[i].Position.Column)
		}

		nameTok := tokens[i]
		i++

		if i >= len(tokens) || tokens[i].Type != tokenizer.AS {
			return nil, nil, fmt.Errorf("cst: expected AS after CTE name %q", nameTok.Value)
		}

		i++

		if i >= len(tokens) || tokens[i].Type != tokenizer.OPENED_PARENS {
			return nil, nil, fmt.Errorf("cst: expected ( after AS in CTE %q", nameTok.Value)
		}

		openIdx := i
		depth := 0
		closeIdx := -1

		for j := openIdx; j < len(tokens); j++ {
			switch tokens[j].Type {
			case tokenizer.OPENED_PARENS:
				depth++
			case tokenizer.CLOSED_PARENS:
				depth--
				if depth == 0 {
					closeIdx = j
				}
			}

			if closeIdx != -1 {
				break
			}
		}

		if closeIdx == -1 {
			return nil, nil, fmt.Errorf("cst: unterminated CTE body for %q", nameTok.Value)
		}

		body := tokens[openIdx+1 : closeIdx]
		start, end := nameTok.Position.Offset, tokens[closeIdx].Position.Offset+len(tokens[closeIdx].Value)
		cte := &Node{Kind: KindCTE, Start: start, End: end, Tokens: append([]tokenizer.Token{nameTok}, body...)}

		if len(body) > 0 && body[0].Type == tokenizer.SELECT {
			inner, _ := buildSelectStatement(body)
			cte.AddChild(inner)
		}

		ctes = append(ctes, cte)

		i = closeIdx + 1

		if i < len(tokens) && tokens[i].Type == tokenizer.COMMA {
			i++
			continue
		}

		break
	}

	return ctes, tokens[i:], nil
}
