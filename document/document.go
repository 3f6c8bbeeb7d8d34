// Package document owns open documents: their text, version, and current
// parse tree. It is the Document Store (C1): every edit is applied under
// the owning document's own lock so unrelated documents never contend, and
// a successful reparse is the only thing that replaces a document's tree —
// a failed one leaves the previous tree in place for completion to keep
// using.
package document

import (
	"errors"
	"sync"
	"time"

	"github.com/sqlls/sqlls"
	"github.com/sqlls/sqlls/cst"
)

// Sentinel errors returned by Store and Document operations.
var (
	ErrDocumentNotFound = errors.New("document: not found")
	ErrInvalidRange     = errors.New("document: invalid range")
	ErrAlreadyOpen      = errors.New("document: already open")
	ErrStaleVersion     = errors.New("document: stale version")
)

// Change is one content edit. A nil Range means "replace the whole
// document"; otherwise Start/End bound the text being replaced.
type Change struct {
	Range *Range
	Text  string
}

// Range is a half-open (Start, End) span expressed as Positions.
type Range struct {
	Start Position
	End   Position
}

// ParseMeta describes the most recent parse attempt for a document.
type ParseMeta struct {
	Dialect    sqlls.Dialect
	Status     cst.Status
	ParseTime  time.Duration
	ErrorCount int
}

// Snapshot is an immutable, request-owned view of a document at a point in
// time: safe to read without holding any lock, per §3's "nothing mutates
// shared state" ownership rule for per-request structures.
type Snapshot struct {
	URI        string
	LanguageID string
	Version    int
	Text       string
	Dialect    sqlls.Dialect
	Tree       *cst.Node
	Meta       ParseMeta
}

// Document is a single open file: its content, version, and tree, each
// guarded by the document's own RWMutex so completion (reader) and edits
// (writer) on one document never block progress on another.
type Document struct {
	mu sync.RWMutex

	uri        string
	languageID string
	version    int
	text       string
	dialect    sqlls.Dialect
	parser     *cst.Parser
	index      *lineIndex
	tree       *cst.Node
	lastResult *cst.Result
	meta       ParseMeta
}

func newDocument(uri, languageID string, version int, text string, dialect sqlls.Dialect) *Document {
	doc := &Document{
		uri:        uri,
		languageID: languageID,
		version:    version,
		text:       text,
		dialect:    dialect,
		parser:     cst.NewParser(dialect),
		index:      newLineIndex(text),
	}

	doc.reparse(nil)

	return doc
}

// Snapshot returns a read-only copy of the document's current state.
func (d *Document) Snapshot() Snapshot {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return Snapshot{
		URI:        d.uri,
		LanguageID: d.languageID,
		Version:    d.version,
		Text:       d.text,
		Dialect:    d.dialect,
		Tree:       d.tree,
		Meta:       d.meta,
	}
}

// ApplyChange applies one didChange notification's worth of edits under the
// document's exclusive lock. All edits are validated against a scratch copy
// of the current text before any of them is committed, so an invalid range
// anywhere in the batch leaves the document completely untouched. version
// must be greater than the document's current version; an equal or older
// one is rejected with ErrStaleVersion, also leaving the document untouched.
func (d *Document) ApplyChange(version int, changes []Change) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if version <= d.version {
		return ErrStaleVersion
	}

	text := d.text
	idx := d.index

	changedStart, changedEnd := len(text), 0
	fullReplace := false

	for _, change := range changes {
		if change.Range == nil {
			text = change.Text
			idx = newLineIndex(text)
			fullReplace = true
			changedStart, changedEnd = 0, len(text)

			continue
		}

		if !idx.Valid(change.Range.Start) || !idx.Valid(change.Range.End) {
			return ErrInvalidRange
		}

		startOff := idx.Offset(change.Range.Start)
		endOff := idx.Offset(change.Range.End)

		if startOff > endOff {
			return ErrInvalidRange
		}

		text = text[:startOff] + change.Text + text[endOff:]
		idx = newLineIndex(text)

		if startOff < changedStart {
			changedStart = startOff
		}

		replacedEnd := startOff + len(change.Text)
		if replacedEnd > changedEnd {
			changedEnd = replacedEnd
		}
	}

	d.text = text
	d.index = idx
	d.version = version

	var changedRange *cst.Range
	if !fullReplace {
		changedRange = &cst.Range{Start: changedStart, End: changedEnd}
	}

	d.reparse(changedRange)

	return nil
}

// reparse runs the document's parser over its current text, reusing the
// previous tree where changedRange allows. A Failed result never replaces
// the existing tree: the document keeps serving its last good parse until
// the next edit produces at least a Partial one.
func (d *Document) reparse(changedRange *cst.Range) {
	var previous *cst.Result
	if d.lastResult != nil {
		previous = d.lastResult
	}

	result := d.parser.Parse(d.text, previous, changedRange)

	d.meta = ParseMeta{
		Dialect:    d.dialect,
		Status:     result.Status,
		ParseTime:  result.ParseTime,
		ErrorCount: len(result.Errors),
	}

	if result.Status == cst.Failed {
		return
	}

	d.tree = result.Tree
	d.lastResult = &result
}
