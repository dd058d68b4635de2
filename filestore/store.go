// Package filestore implements a persistent message store that keeps one
// UTF-8 text file per message id in a pre-existing working directory.
//
// A MessageStore writes through to an in-memory Cache on save and reads
// through it on read, and reports every step to an observability.Observer:
//
//	store, err := filestore.New("/var/lib/msgstore")
//	err = store.Save(ctx, 42, "hello")
//	msg, ok, err := store.Read(ctx, 42)
package filestore

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/tailored-agentic-units/msgstore/observability"
)

// MessageID identifies a message. Ids are chosen by the caller.
type MessageID uint64

// Option overrides a default collaborator of a MessageStore.
type Option func(*MessageStore)

// WithObserver sets the observer that receives store events. The default is
// a SlogObserver on slog.Default().
func WithObserver(o observability.Observer) Option {
	return func(s *MessageStore) { s.logger = NewLogger(o) }
}

// WithCache replaces the default unbounded cache.
func WithCache(c *Cache) Option {
	return func(s *MessageStore) { s.cache = c }
}

// WithBackend replaces the os-backed file backend.
func WithBackend(b Backend) Option {
	return func(s *MessageStore) { s.backend = b }
}

// MessageStore saves and reads messages as <id>.txt files under a working
// directory. Save and Read are not mutually exclusive: concurrent saves to
// the same id may interleave their file write and cache update.
type MessageStore struct {
	id      string
	dir     string
	cache   *Cache
	backend Backend
	logger  *Logger
}

// New creates a MessageStore rooted at dir, which must be an existing
// directory. Nothing is created on disk.
func New(dir string, opts ...Option) (*MessageStore, error) {
	info, err := os.Stat(dir)
	switch {
	case errors.Is(err, fs.ErrNotExist), err == nil && !info.IsDir():
		return nil, fmt.Errorf("%w: working directory '%s' does not exist", ErrDirectoryNotFound, absPath(dir))
	case err != nil:
		return nil, fmt.Errorf("working directory '%s': %w", absPath(dir), err)
	}

	s := &MessageStore{
		id:      uuid.Must(uuid.NewV7()).String(),
		dir:     dir,
		backend: NewFileBackend(),
		logger:  NewLogger(observability.NewSlogObserver(slog.Default())),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.cache == nil {
		c, err := NewCache()
		if err != nil {
			return nil, err
		}
		s.cache = c
	}

	return s, nil
}

func absPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	return abs
}

// ID returns the unique identifier of this store instance.
func (s *MessageStore) ID() string {
	return s.id
}

// WorkingDirectory returns the directory passed to New.
func (s *MessageStore) WorkingDirectory() string {
	return s.dir
}

// Cache returns the store's read cache.
func (s *MessageStore) Cache() *Cache {
	return s.cache
}

// FilePath returns the path of the file for id. It never touches the
// filesystem.
func (s *MessageStore) FilePath(id MessageID) string {
	return FilePath(s.dir, id)
}

// Save writes message to the file for id, replacing any previous content,
// then updates the cache. When the write fails the cache is not updated and
// no saved event is emitted.
func (s *MessageStore) Save(ctx context.Context, id MessageID, message string) error {
	s.logger.SavingMessage(ctx, id, message)

	path := s.FilePath(id)
	if err := s.backend.WriteAllText(path, message); err != nil {
		return fmt.Errorf("save message %d: %w", id, err)
	}

	s.cache.AddOrUpdate(id, message)
	s.logger.SavedMessage(ctx, id)
	return nil
}

// Read returns the message for id. The file's existence is checked before
// the cache is consulted, so a message whose file was removed outside the
// store reads as absent (ok == false, err == nil) even if it is cached.
func (s *MessageStore) Read(ctx context.Context, id MessageID) (string, bool, error) {
	s.logger.ReadingMessage(ctx, id)

	path := s.FilePath(id)
	exists, err := s.backend.Exists(path)
	if err != nil {
		return "", false, fmt.Errorf("read message %d: %w", id, err)
	}
	if !exists {
		s.logger.MessageNotFound(ctx, id)
		return "", false, nil
	}

	message, err := s.cache.GetOrAdd(id, path, s.backend.ReadAllText)
	if err != nil {
		return "", false, fmt.Errorf("read message %d: %w", id, err)
	}

	s.logger.ReturningMessage(ctx, id, message)
	return message, true, nil
}
