package content

import (
	"context"
	"path/filepath"
	"sync/atomic"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"

	"github.com/Zachkp/portfolio/internal/logger"
)

// Store holds the current content and swaps it atomically on reload.
type Store struct {
	current atomic.Pointer[Content]
	path    string
}

// NewStore loads path (or the embedded default when path is empty).
func NewStore(path string) (*Store, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}
	s := &Store{path: path}
	s.current.Store(c)
	return s, nil
}

// NewStaticStore wraps already-loaded content.
func NewStaticStore(c *Content) *Store {
	s := &Store{}
	s.current.Store(c)
	return s
}

// Get returns the current content. Callers must treat it as read-only.
func (s *Store) Get() *Content {
	return s.current.Load()
}

// Reload re-reads the content file. On failure the previous content stays.
func (s *Store) Reload() error {
	c, err := Load(s.path)
	if err != nil {
		return err
	}
	s.current.Store(c)
	return nil
}

// Watch reloads the content file whenever it is written, until ctx is done.
// The directory is watched rather than the file so editors that replace the
// file on save are picked up.
func (s *Store) Watch(ctx context.Context) error {
	if s.path == "" {
		return errors.New("content: nothing to watch, using embedded content")
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "create content watcher")
	}
	if err := w.Add(filepath.Dir(s.path)); err != nil {
		_ = w.Close()
		return errors.Wrapf(err, "watch %s", s.path)
	}

	log := logger.Named("content")
	target := filepath.Clean(s.path)

	go func() {
		defer w.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != target || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				if err := s.Reload(); err != nil {
					log.Warnw("content reload failed, keeping previous content",
						logger.FieldFile, s.path, logger.FieldError, err)
					continue
				}
				log.Infow("content reloaded", logger.FieldFile, s.path)
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Warnw("content watcher error", logger.FieldError, err)
			}
		}
	}()
	return nil
}
