// Package store holds every collection in one persisted document.
//
// Reads return an immutable snapshot and never block each other. Mutate is
// the only write path: it serializes writers behind one lock, applies the
// caller's closure to a private copy of the committed document, persists
// the copy in one atomic backend write and only then publishes it to
// readers. A failed write leaves both the persisted and the in-memory
// document untouched.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"

	"busops/internal/domain"
	"busops/internal/domain/models"
)

// ErrNoChange may be returned by a Mutate closure to finish without
// writing anything.
var ErrNoChange = errors.New("store: no change")

// Backend persists the serialized document. Load returns nil data when
// nothing has been persisted yet. Save must replace the previous document
// atomically.
type Backend interface {
	Load(ctx context.Context) ([]byte, error)
	Save(ctx context.Context, data []byte) error
}

type Store struct {
	backend Backend

	writeMu sync.Mutex

	mu      sync.RWMutex
	current *models.Document

	commits atomic.Uint64
}

func New(backend Backend) *Store {
	return &Store{backend: backend}
}

// Read returns the committed document. Callers must treat it as read-only;
// it is shared with every concurrent reader.
func (s *Store) Read(ctx context.Context) (*models.Document, error) {
	s.mu.RLock()
	doc := s.current
	s.mu.RUnlock()
	if doc != nil {
		return doc, nil
	}
	return s.load(ctx)
}

func (s *Store) load(ctx context.Context) (*models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != nil {
		return s.current, nil
	}
	data, err := s.backend.Load(ctx)
	if err != nil {
		return nil, domain.StoreIOError{Op: "load", Err: err}
	}
	doc, err := Decode(data)
	if err != nil {
		return nil, err
	}
	s.current = doc
	return doc, nil
}

// Mutate applies fn to a fresh copy of the document and commits the result.
// At most one Mutate runs at a time. Once fn has returned, the write is
// carried out even if ctx is cancelled, so a disconnecting client never
// leaves a half-applied change behind.
func (s *Store) Mutate(ctx context.Context, fn func(doc *models.Document) error) (*models.Document, error) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	base, err := s.Read(ctx)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	next := base.Clone()
	if err := fn(next); err != nil {
		if errors.Is(err, ErrNoChange) {
			return base, nil
		}
		return nil, err
	}
	next.Normalize()

	data, err := Encode(next)
	if err != nil {
		return nil, domain.StoreIOError{Op: "encode", Err: err}
	}
	if err := s.backend.Save(context.WithoutCancel(ctx), data); err != nil {
		return nil, domain.StoreIOError{Op: "save", Err: err}
	}

	s.mu.Lock()
	s.current = next
	s.mu.Unlock()
	s.commits.Add(1)
	return next, nil
}

// Commits counts successful writes since the store was created.
func (s *Store) Commits() uint64 {
	return s.commits.Load()
}

func Encode(doc *models.Document) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// Decode parses a persisted document. Empty input yields an empty document.
func Decode(data []byte) (*models.Document, error) {
	doc := models.NewDocument()
	if len(data) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, domain.StoreCorruptError{Err: err}
	}
	doc.Normalize()
	return doc, nil
}
