package lspserver

import (
	"github.com/sqlls/sqlls/definition"
	"github.com/sqlls/sqlls/document"
	"github.com/sqlls/sqlls/render"
	"go.lsp.dev/protocol"
)

// toDocumentChanges converts one didChange notification's content changes
// into document.Change values. A change with a nil Range is a full-text
// replace, matching document.Change's own convention.
func toDocumentChanges(changes []protocol.TextDocumentContentChangeEvent) []document.Change {
	out := make([]document.Change, 0, len(changes))

	for _, c := range changes {
		change := document.Change{Text: c.Text}

		if c.Range != nil {
			change.Range = &document.Range{
				Start: toDocumentPosition(c.Range.Start),
				End:   toDocumentPosition(c.Range.End),
			}
		}

		out = append(out, change)
	}

	return out
}

func toDocumentPosition(p protocol.Position) document.Position {
	return document.Position{Line: int(p.Line), Character: int(p.Character)}
}

func toProtocolPosition(p document.Position) protocol.Position {
	return protocol.Position{Line: uint32(p.Line), Character: uint32(p.Character)}
}

// toCompletionList renders the domain-level items the engine produced
// into the wire CompletionList the client expects. IsIncomplete is
// always false: the engine already returns its full ranked result for
// the given position, never a truncated page.
func toCompletionList(items []render.CompletionItem) protocol.CompletionList {
	out := make([]protocol.CompletionItem, 0, len(items))

	for _, item := range items {
		out = append(out, protocol.CompletionItem{
			Label:         item.Label,
			Kind:          toCompletionItemKind(item.Kind),
			Detail:        item.Detail,
			Documentation: item.Documentation,
			InsertText:    item.InsertText,
			SortText:      item.SortKey,
		})
	}

	return protocol.CompletionList{IsIncomplete: false, Items: out}
}

func toCompletionItemKind(kind render.ItemKind) protocol.CompletionItemKind {
	switch kind {
	case render.ItemColumn:
		return protocol.CompletionItemKindField
	case render.ItemTable:
		return protocol.CompletionItemKindStruct
	case render.ItemFunction:
		return protocol.CompletionItemKindFunction
	case render.ItemCTE:
		return protocol.CompletionItemKindClass
	case render.ItemKeyword:
		return protocol.CompletionItemKindKeyword
	default:
		return protocol.CompletionItemKindText
	}
}

// toLocation converts a definition.Result's byte span, plus the URI it
// was found in, into the wire Location a textDocument/definition
// response carries. snap supplies the byte-offset-to-Position conversion
// (document.Snapshot.PositionAt), so this package never needs to touch
// document's private line index itself.
func toLocation(uri protocol.DocumentURI, snap document.Snapshot, res definition.Result) protocol.Location {
	return protocol.Location{
		URI: uri,
		Range: protocol.Range{
			Start: toProtocolPosition(snap.PositionAt(res.Start)),
			End:   toProtocolPosition(snap.PositionAt(res.End)),
		},
	}
}
