package classify

import "github.com/sqlls/sqlls/cst"

// Classify decides the CompletionContext at offset within text. tree is the
// document's current parse tree (nil or incomplete trees are expected on
// every keystroke, per the CST's own contract); when the CST path finds no
// usable clause ancestor, Classify falls through to the text-based
// classifier so the engine always gets *some* variant (§4.6's invariant
// that the classifier never panics and always terminates with a variant).
func Classify(tree *cst.Node, text string, offset int) Context {
	if ctx, ok := fromCST(tree, text, offset); ok {
		return ctx
	}

	return fromText(text, offset)
}
