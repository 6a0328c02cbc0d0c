// Package autosave writes the editor document to a store after content
// changes.
package autosave

import (
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/stateful/runpad/internal/store"
	"github.com/stateful/runpad/pkg/document"
	"github.com/stateful/runpad/pkg/document/editor"
)

type State int

const (
	StateIdle State = iota
	StateSerializing
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSerializing:
		return "serializing"
	default:
		return "unknown"
	}
}

// Saver serializes snapshots of the document into a store. Content changes
// are debounced; selection-only changes are ignored.
type Saver struct {
	store    store.Store
	key      string
	debounce time.Duration
	logger   *zap.Logger

	writeMu sync.Mutex

	mu      sync.Mutex
	state   State
	pending *document.Document
	timer   *time.Timer
}

// New creates a Saver writing to key in s. A zero debounce writes
// synchronously on every content change.
func New(s store.Store, key string, debounce time.Duration, logger *zap.Logger) *Saver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Saver{
		store:    s,
		key:      key,
		debounce: debounce,
		logger:   logger,
	}
}

// Observe is meant to be registered with [editor.Editor.OnChange].
func (s *Saver) Observe(change editor.Change) {
	if !change.IsContentChange() {
		return
	}

	s.mu.Lock()
	s.pending = change.Document
	if s.debounce <= 0 {
		s.mu.Unlock()
		_ = s.Flush()
		return
	}
	if s.timer == nil {
		s.timer = time.AfterFunc(s.debounce, func() { _ = s.Flush() })
	} else {
		s.timer.Reset(s.debounce)
	}
	s.mu.Unlock()
}

// Flush writes the pending snapshot, if any, right away. Errors are logged
// and also returned.
func (s *Saver) Flush() error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.mu.Lock()
	doc := s.pending
	s.pending = nil
	if s.timer != nil {
		s.timer.Stop()
	}
	if doc == nil {
		s.mu.Unlock()
		return nil
	}
	s.state = StateSerializing
	s.mu.Unlock()

	err := s.write(doc)

	s.mu.Lock()
	s.state = StateIdle
	s.mu.Unlock()

	return err
}

func (s *Saver) write(doc *document.Document) error {
	data, err := document.Encode(doc)
	if err != nil {
		s.logger.Error("failed to serialize document", zap.Error(err))
		return err
	}
	if err := s.store.Set(s.key, data); err != nil {
		s.logger.Error("failed to persist document", zap.String("key", s.key), zap.Error(err))
		return errors.WithMessage(err, "failed to persist document")
	}
	s.logger.Debug("persisted document", zap.String("key", s.key), zap.Int("size", len(data)))
	return nil
}

func (s *Saver) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Pending reports whether a snapshot waits to be written.
func (s *Saver) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending != nil
}

// Load restores the document stored under key. A missing or unreadable
// value yields [document.Default].
func Load(s store.Store, key string, logger *zap.Logger) *document.Document {
	if logger == nil {
		logger = zap.NewNop()
	}

	data, err := s.Get(key)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			logger.Info("no persisted document, using default", zap.String("key", key))
		} else {
			logger.Warn("failed to read persisted document, using default", zap.String("key", key), zap.Error(err))
		}
		return document.Default()
	}

	doc, err := document.Decode(data)
	if err != nil {
		logger.Warn("failed to decode persisted document, using default", zap.String("key", key), zap.Error(err))
		return document.Default()
	}
	return doc
}
