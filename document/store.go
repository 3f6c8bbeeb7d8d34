package document

import (
	"strings"
	"sync"

	"github.com/sqlls/sqlls"
)

// Store owns every open document, keyed by URI. The map itself is guarded
// by its own lock, separate from each Document's lock, so opening or
// closing one document never blocks an edit in flight on another.
type Store struct {
	mu   sync.RWMutex
	docs map[string]*Document

	// DefaultDialect is used when a document's language id does not map to
	// a known dialect (e.g. a generic "sql" language id); set from server
	// configuration at startup.
	DefaultDialect sqlls.Dialect
}

// NewStore returns an empty Store defaulting unrecognized language ids to
// defaultDialect.
func NewStore(defaultDialect sqlls.Dialect) *Store {
	return &Store{
		docs:           make(map[string]*Document),
		DefaultDialect: defaultDialect,
	}
}

// Open registers a newly opened document and returns its initial snapshot.
// Reopening an already-open URI is rejected: didOpen/didClose are expected
// to be balanced by a well-behaved client.
func (s *Store) Open(uri, languageID string, version int, text string) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.docs[uri]; exists {
		return Snapshot{}, ErrAlreadyOpen
	}

	dialect := dialectForLanguageID(languageID, s.DefaultDialect)
	doc := newDocument(uri, languageID, version, text, dialect)
	s.docs[uri] = doc

	return doc.Snapshot(), nil
}

// ApplyChange applies a batch of edits to an already-open document.
func (s *Store) ApplyChange(uri string, version int, changes []Change) (Snapshot, error) {
	doc, err := s.lookup(uri)
	if err != nil {
		return Snapshot{}, err
	}

	if err := doc.ApplyChange(version, changes); err != nil {
		return Snapshot{}, err
	}

	return doc.Snapshot(), nil
}

// Close removes a document from the store. Closing an unknown URI is a
// no-op error, not a panic: a stray didClose should never crash the server.
func (s *Store) Close(uri string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.docs[uri]; !exists {
		return ErrDocumentNotFound
	}

	delete(s.docs, uri)

	return nil
}

// Get returns the current snapshot of an open document.
func (s *Store) Get(uri string) (Snapshot, error) {
	doc, err := s.lookup(uri)
	if err != nil {
		return Snapshot{}, err
	}

	return doc.Snapshot(), nil
}

func (s *Store) lookup(uri string) (*Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, exists := s.docs[uri]
	if !exists {
		return nil, ErrDocumentNotFound
	}

	return doc, nil
}

// dialectForLanguageID maps an LSP language id to a sqlls.Dialect,
// falling back to fallback when the id is generic ("sql") or unrecognized.
func dialectForLanguageID(languageID string, fallback sqlls.Dialect) sqlls.Dialect {
	switch strings.ToLower(languageID) {
	case "mysql":
		return sqlls.DialectMySQL
	case "mariadb":
		return sqlls.DialectMariaDB
	case "postgresql", "postgres", "pgsql":
		return sqlls.DialectPostgres
	case "sqlite", "sqlite3":
		return sqlls.DialectSQLite
	default:
		return fallback
	}
}
