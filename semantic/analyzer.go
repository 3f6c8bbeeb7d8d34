package semantic

import (
	"github.com/sqlls/sqlls/cst"
)

// Severity classifies how serious a Diagnostic is.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

// Diagnostic is one semantic finding over a parsed document. It mirrors
// the shape a diagnostics publisher needs (message, span, severity)
// without depending on any LSP wire type — that conversion belongs to
// lspserver, same split as render.CompletionItem.
type Diagnostic struct {
	Message  string
	Start    int
	End      int
	Severity Severity
}

// Analyzer runs the full set of document-wide semantic checks this
// package knows about. It has no state of its own: every check is a pure
// function of the tree and its source text, so one Analyzer is reused
// across documents.
type Analyzer struct{}

// NewAnalyzer returns a ready-to-use Analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{}
}

// Diagnose walks tree (a source_file root) and text, collecting one
// Diagnostic per CTE column-count mismatch, set-operation column-count
// mismatch, and circular CTE dependency found anywhere in the document.
// Nothing here is wired into the LSP binding yet (§1 keeps diagnostics
// out of the completion core); it exists so a future diagnostics
// publisher has a real collaborator to call.
func (a *Analyzer) Diagnose(tree *cst.Node, text string) []Diagnostic {
	var diags []Diagnostic

	for _, err := range CheckExplicitCTEColumnCounts(text) {
		diags = append(diags, Diagnostic{Message: err.Error(), Severity: SeverityError})
	}

	if tree == nil {
		return diags
	}

	walk(tree, func(n *cst.Node) {
		switch n.Kind {
		case cst.KindCTE:
			if hasCTEDefinitionChildren(n) {
				if err := DetectCircularCTEs(n, text); err != nil {
					diags = append(diags, Diagnostic{Message: err.Error(), Start: n.Start, End: n.End, Severity: SeverityError})
				}
			}
		case cst.KindSetOperation:
			if err := CheckSetOperationColumnCounts(n, text); err != nil {
				diags = append(diags, Diagnostic{Message: err.Error(), Start: n.Start, End: n.End, Severity: SeverityError})
			}
		}
	})

	return diags
}

// hasCTEDefinitionChildren reports whether n (itself a KindCTE node) wraps
// one or more KindCTE definition children, distinguishing a CTE wrapper
// from a leaf CTE definition (both share the same Kind).
func hasCTEDefinitionChildren(n *cst.Node) bool {
	for _, c := range n.Children {
		if c.Kind == cst.KindCTE {
			return true
		}
	}

	return false
}

// walk calls visit on every node in the tree rooted at n, including n
// itself, depth-first.
func walk(n *cst.Node, visit func(*cst.Node)) {
	if n == nil {
		return
	}

	visit(n)

	for _, c := range n.Children {
		walk(c, visit)
	}
}
