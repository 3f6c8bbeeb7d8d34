package document

import "unicode/utf8"

// Position is a (line, character) location in a document, both zero-based.
// Character counts UTF-8 runes within the line rather than UTF-16 code
// units: the teacher's tokenizer and every downstream package already work
// in byte/rune terms, and a full UTF-16-accurate index is the kind of rope
// machinery this module's budget does not cover (see DESIGN.md).
type Position struct {
	Line      int
	Character int
}

// lineIndex maps byte offsets to (line, character) positions and back. It
// is rebuilt on every edit rather than maintained incrementally — a
// simplification of the B+-tree rope a production text engine would use,
// acceptable because completion requests rebuild it at most once per
// keystroke over documents that are, in practice, single SQL files.
type lineIndex struct {
	// lineStarts[i] is the byte offset where line i begins.
	lineStarts []int
	text       string
}

func newLineIndex(text string) *lineIndex {
	starts := []int{0}

	for i, b := range []byte(text) {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}

	return &lineIndex{lineStarts: starts, text: text}
}

// Offset converts a Position to a byte offset into the text, clamping
// gracefully when the position falls beyond the document's content.
func (idx *lineIndex) Offset(pos Position) int {
	if pos.Line < 0 {
		return 0
	}

	if pos.Line >= len(idx.lineStarts) {
		return len(idx.text)
	}

	lineStart := idx.lineStarts[pos.Line]
	lineEnd := len(idx.text)

	if pos.Line+1 < len(idx.lineStarts) {
		lineEnd = idx.lineStarts[pos.Line+1] - 1 // exclude the newline itself
		if lineEnd < lineStart {
			lineEnd = lineStart
		}
	}

	line := idx.text[lineStart:lineEnd]
	if pos.Character <= 0 {
		return lineStart
	}

	runeCount := 0
	for i := range line {
		if runeCount == pos.Character {
			return lineStart + i
		}

		runeCount++
	}

	return lineEnd
}

// Position converts a byte offset to a (line, character) Position,
// clamping to the end of the document when offset overruns it.
func (idx *lineIndex) Position(offset int) Position {
	if offset < 0 {
		offset = 0
	}

	if offset > len(idx.text) {
		offset = len(idx.text)
	}

	line := 0
	for i := len(idx.lineStarts) - 1; i >= 0; i-- {
		if idx.lineStarts[i] <= offset {
			line = i

			break
		}
	}

	lineStart := idx.lineStarts[line]
	character := utf8.RuneCountInString(idx.text[lineStart:offset])

	return Position{Line: line, Character: character}
}

// Valid reports whether pos addresses a real line in the document (used to
// reject malformed range edits rather than silently clamping them).
func (idx *lineIndex) Valid(pos Position) bool {
	return pos.Line >= 0 && pos.Line < len(idx.lineStarts) && pos.Character >= 0
}

// Offset converts pos to a byte offset into s.Text, clamping beyond-content
// positions to the end of the document. Completion (C9) uses this to turn
// the request's (line, character) position into the offset every other
// component (cst, classify, scope) works in.
func (s Snapshot) Offset(pos Position) int {
	return newLineIndex(s.Text).Offset(pos)
}

// PositionAt converts a byte offset into s.Text back to a (line, character)
// Position. lspserver uses this to turn a definition.Result's byte span
// back into the Range a Location response needs.
func (s Snapshot) PositionAt(offset int) Position {
	return newLineIndex(s.Text).Position(offset)
}
