// Package file persists key-value pairs in a single JSON document.
//
// Writes replace the document atomically (temp file + rename), so a crash
// mid-write leaves either the old or the new document, never a torn one.
// The parsed document is cached in memory; Watch drops the cache whenever
// the file is changed by another process.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Store is a JSON-document key-value store. It satisfies
// ports.KeyValueStore and ports.HealthChecker.
type Store struct {
	path   string
	logger *slog.Logger

	mu    sync.Mutex
	cache map[string]string
}

// New creates a store backed by the document at path. The parent directory
// is created if needed; the document itself is created on first Set.
func New(path string, logger *slog.Logger) (*Store, error) {
	if path == "" {
		return nil, errors.New("file store: path is required")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("file store mkdir: %w", err)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &Store{
		path:   path,
		logger: logger.With(slog.String("component", "storage.file"), slog.String("path", path)),
	}, nil
}

// Get returns the value stored under key. An unreadable document is an error.
func (s *Store) Get(ctx context.Context, key string) (string, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.loadLocked()
	if err != nil {
		return "", false, err
	}

	v, ok := doc[key]

	return v, ok, nil
}

// Set stores value under key and rewrites the document.
// A corrupt document is replaced rather than blocking every write.
func (s *Store) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc, err := s.loadLocked()
	if err != nil {
		s.logger.WarnContext(ctx, "replacing unreadable state document", slog.Any("error", err))

		doc = make(map[string]string)
	}

	next := maps.Clone(doc)
	next[key] = value

	if err := s.writeLocked(next); err != nil {
		return err
	}

	s.cache = next

	return nil
}

func (s *Store) loadLocked() (map[string]string, error) {
	if s.cache != nil {
		return s.cache, nil
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		s.cache = make(map[string]string)
		return s.cache, nil
	}

	if err != nil {
		return nil, fmt.Errorf("reading state document: %w", err)
	}

	doc := make(map[string]string)
	if len(data) > 0 {
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decoding state document: %w", err)
		}
	}

	if doc == nil {
		doc = make(map[string]string)
	}

	s.cache = doc

	return doc, nil
}

func (s *Store) writeLocked(doc map[string]string) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding state document: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), "."+filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}

	tmpName := tmp.Name()
	defer func() {
		// No-op once the rename succeeded.
		_ = os.Remove(tmpName)
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("writing temp file: %w", err)
	}

	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("syncing temp file: %w", err)
	}

	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing temp file: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replacing state document: %w", err)
	}

	return nil
}

// Invalidate drops the cached document so the next access re-reads the file.
func (s *Store) Invalidate() {
	s.mu.Lock()
	s.cache = nil
	s.mu.Unlock()
}

// Watch starts watching the document's directory and invalidates the cache
// whenever the document changes. It returns once the watcher is installed;
// watching stops when ctx is cancelled.
func (s *Store) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}

	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		_ = watcher.Close()
		return fmt.Errorf("watching %s: %w", filepath.Dir(s.path), err)
	}

	go s.watchLoop(ctx, watcher)

	return nil
}

func (s *Store) watchLoop(ctx context.Context, watcher *fsnotify.Watcher) {
	defer watcher.Close()

	name := filepath.Base(s.path)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}

			if filepath.Base(event.Name) != name {
				continue
			}

			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}

			s.Invalidate()
			s.logger.DebugContext(ctx, "state document changed on disk", slog.String("op", event.Op.String()))
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}

			s.logger.WarnContext(ctx, "state document watcher error", slog.Any("error", err))
		}
	}
}

// Name implements ports.HealthChecker.
func (s *Store) Name() string { return "storage" }

// Check implements ports.HealthChecker. The document directory must exist.
func (s *Store) Check(context.Context) error {
	info, err := os.Stat(filepath.Dir(s.path))
	if err != nil {
		return fmt.Errorf("state directory: %w", err)
	}

	if !info.IsDir() {
		return fmt.Errorf("state directory: %s is not a directory", filepath.Dir(s.path))
	}

	return nil
}
