// Package cst builds a concrete syntax tree from a token stream for the
// clauses completion cares about. It never attempts to be a full SQL
// grammar: clauses it cannot confidently delimit are left out of the tree
// rather than guessed at, so callers can fall back to text-based analysis.
package cst

import "github.com/sqlls/sqlls/tokenizer"

// Node kinds the tree may contain. Downstream packages (scope, classify)
// switch on these string constants the way a tree-sitter consumer would
// switch on a grammar's node kind names.
const (
	KindSourceFile      = "source_file"
	KindSelectStatement = "select_statement"
	KindInsertStatement = "insert_statement"
	KindUpdateStatement = "update_statement"
	KindDeleteStatement = "delete_statement"
	KindOtherStatement  = "other_statement"

	KindCTE              = "common_table_expression"
	KindSelectProjection = "select_projection"
	KindFromClause       = "from_clause"
	KindTableReference   = "table_reference"
	KindJoinClause       = "join_clause"
	KindWhereClause      = "where_clause"
	KindGroupByClause    = "group_by_clause"
	KindHavingClause     = "having_clause"
	KindOrderByClause    = "order_by_clause"
	KindLimitClause      = "limit_clause"
	KindReturningClause  = "returning_clause"
	KindWindowSpec       = "window_specification"
	KindSetOperation     = "set_operation"
)

// Node is one element of the tree: a kind, a byte range into the document's
// text, its children, and a parent pointer so C6 (context classifier) can
// walk upward from the node at the cursor without keeping a separate stack.
type Node struct {
	Kind     string
	Start    int
	End      int
	Parent   *Node
	Children []*Node

	// Tokens are the significant (non-whitespace, non-comment) tokens this
	// node spans. Leaf-ish nodes (table_reference, join_clause) use these
	// directly instead of re-slicing the source text.
	Tokens []tokenizer.Token
}

// AddChild appends child to n's children and sets child's parent.
func (n *Node) AddChild(child *Node) {
	child.Parent = n
	n.Children = append(n.Children, child)
}

// Text returns the node's source slice given the full document text.
func (n *Node) Text(source string) string {
	if n.Start < 0 || n.End > len(source) || n.Start > n.End {
		return ""
	}

	return source[n.Start:n.End]
}

// Ancestors returns the chain from n's immediate parent up to the root,
// nearest first. Used by the context classifier's upward walk.
func (n *Node) Ancestors() []*Node {
	var chain []*Node
	for p := n.Parent; p != nil; p = p.Parent {
		chain = append(chain, p)
	}

	return chain
}

// NodeAt returns the deepest node in the subtree rooted at n whose range
// contains offset, preferring the last child when offset sits exactly on a
// boundary (so a cursor right after a clause keyword lands inside that
// clause, not its predecessor).
func NodeAt(root *Node, offset int) *Node {
	if root == nil || offset < root.Start || offset > root.End {
		return nil
	}

	best := root

	for _, child := range root.Children {
		if offset < child.Start || offset > child.End {
			continue
		}

		if found := NodeAt(child, offset); found != nil {
			best = found
		}
	}

	return best
}
