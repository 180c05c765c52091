package store

import (
	"context"
	"errors"
	"sync"

	"github.com/sirupsen/logrus"

	"pos_service/internal/domain"
)

// Store exclusively owns the in-memory document and mirrors it to a Backend.
// Mutations go through Update, which holds the write lock across the whole
// read, mutate and commit cycle; reads get deep copies under the read lock.
type Store struct {
	mu      sync.RWMutex
	backend Backend
	doc     domain.Document
	version uint64
	log     *logrus.Logger
}

func New(backend Backend, logger *logrus.Logger) *Store {
	return &Store{
		backend: backend,
		doc:     domain.NewDocument(),
		log:     logger,
	}
}

// Load reads the backend once. A missing, unreadable or malformed document
// yields an empty one; Load never fails.
func (s *Store) Load(ctx context.Context) domain.Document {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.doc = domain.NewDocument()
	s.version = 0

	data, err := s.backend.Read(ctx)
	switch {
	case errors.Is(err, ErrNoDocument):
		s.log.Infof("Store: No document in %s, starting empty", s.backend)
	case err != nil:
		s.log.Warnf("Store: Failed to read document from %s, starting empty: %v", s.backend, err)
	default:
		doc, decodeErr := Decode(data)
		if decodeErr != nil {
			s.log.Warnf("Store: Malformed document in %s, starting empty: %v", s.backend, decodeErr)
			break
		}
		s.doc = doc
		s.log.Infof("Store: Loaded document from %s (%d products, %d categories, %d sales)",
			s.backend, len(doc.Products), len(doc.Categories), len(doc.Sales))
	}
	return s.doc.Clone()
}

// Read returns a snapshot of the current in-memory document.
func (s *Store) Read() domain.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.doc.Clone()
}

// Commit makes doc the current document and overwrites the backend with it.
// If the write fails the in-memory document keeps the change and an
// *domain.IOError is returned; nothing is retried.
func (s *Store) Commit(ctx context.Context, doc domain.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commitLocked(ctx, Normalize(doc.Clone()))
}

// Update runs fn against a working copy of the current document. If fn fails
// nothing changes. Otherwise the copy becomes the current document and is
// committed before the lock is released.
func (s *Store) Update(ctx context.Context, fn func(doc *domain.Document) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	working := s.doc.Clone()
	if err := fn(&working); err != nil {
		return err
	}
	return s.commitLocked(ctx, Normalize(working))
}

func (s *Store) commitLocked(ctx context.Context, doc domain.Document) error {
	s.doc = doc

	data, err := Encode(doc)
	if err != nil {
		s.log.Errorf("Store: Failed to encode document: %v", err)
		return &domain.IOError{Op: "encode document", Err: err}
	}
	if err := s.backend.Write(ctx, data); err != nil {
		s.log.Errorf("Store: Commit to %s failed, change is not durable: %v", s.backend, err)
		return &domain.IOError{Op: "commit document", Err: err}
	}
	s.version++
	s.log.Debugf("Store: Committed document version %d to %s (%d bytes)", s.version, s.backend, len(data))
	return nil
}

// Version counts successful commits since the last Load.
func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

func (s *Store) Backend() Backend {
	return s.backend
}

func (s *Store) Close() error {
	return s.backend.Close()
}
