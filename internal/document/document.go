// Package document owns the editor's backing file: loading, saving, and
// change notification when the file is modified outside the editor.
package document

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Event describes an external change to the backing file.
type Event struct {
	Timestamp time.Time
	Path      string
	Removed   bool
}

// Service loads and saves a single markdown file and watches it for external
// writes. A Service constructed without a path is a scratch buffer: Load and
// Save report ErrNoBackingFile and no watcher runs.
type Service struct {
	ctx      context.Context
	cancel   context.CancelFunc
	logger   *slog.Logger
	watcher  *fsnotify.Watcher
	events   chan Event
	path     string
	writeMu  sync.Mutex
	lastSave time.Time
	saveMu   sync.Mutex
}

// ErrNoBackingFile is returned by Load and Save on a scratch buffer.
var ErrNoBackingFile = errors.New("document has no backing file")

// NewService sets up file access and, when path is non-empty, a watcher on
// the file's directory. Close must be called to release the watcher.
func NewService(parentCtx context.Context, path string, logger *slog.Logger) (*Service, error) {
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithCancel(parentCtx)
	svc := &Service{
		logger: logger.With("component", "document"),
		ctx:    ctx,
		cancel: cancel,
		events: make(chan Event, 8),
	}

	if strings.TrimSpace(path) == "" {
		return svc, nil
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("resolve document path: %w", err)
	}
	if !isMarkdownPath(abs) {
		cancel()
		return nil, fmt.Errorf("not a markdown file: %s", path)
	}
	svc.path = abs

	if err := svc.startWatcher(); err != nil {
		cancel()
		return nil, err
	}

	return svc, nil
}

// Path returns the absolute backing file path, or "" for a scratch buffer.
func (s *Service) Path() string {
	return s.path
}

// Close releases the watcher and stops event delivery.
func (s *Service) Close() error {
	s.cancel()
	if s.watcher != nil {
		return s.watcher.Close()
	}
	return nil
}

// Load reads the backing file.
func (s *Service) Load() (string, error) {
	if s.path == "" {
		return "", ErrNoBackingFile
	}
	raw, err := os.ReadFile(s.path)
	if err != nil {
		return "", fmt.Errorf("read document: %w", err)
	}
	return string(raw), nil
}

// Save writes text to the backing file. The editor's own write is remembered
// so the watcher does not echo it back as an external change.
func (s *Service) Save(text string) error {
	if s.path == "" {
		return ErrNoBackingFile
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil { //nolint:gosec // standard directory permissions
		return fmt.Errorf("ensure directory: %w", err)
	}
	if err := os.WriteFile(s.path, []byte(text), 0o644); err != nil { //nolint:gosec // standard file permissions
		return fmt.Errorf("write document: %w", err)
	}

	s.saveMu.Lock()
	s.lastSave = time.Now()
	s.saveMu.Unlock()
	return nil
}

// Events delivers external-change notifications. The channel closes when the
// service is closed. Events are dropped if the consumer lags.
func (s *Service) Events() <-chan Event {
	return s.events
}

func (s *Service) startWatcher() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	s.watcher = watcher

	// Watch the directory, not the file: editors that replace-on-save (vim,
	// most IDEs) would otherwise detach the watch with every write.
	if err := watcher.Add(filepath.Dir(s.path)); err != nil {
		return fmt.Errorf("watch directory: %w", err)
	}

	go s.runWatcher()
	return nil
}

func (s *Service) runWatcher() {
	defer close(s.events)
	for {
		select {
		case event, ok := <-s.watcher.Events:
			if !ok {
				return
			}
			s.handleEvent(event)
		case err, ok := <-s.watcher.Errors:
			if !ok {
				return
			}
			s.logger.Error("watcher error", slog.Any("err", err))
		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Service) handleEvent(event fsnotify.Event) {
	if event.Name == "" || filepath.Clean(event.Name) != s.path {
		return
	}
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return
	}

	// Skip the echo of our own save.
	s.saveMu.Lock()
	recent := !s.lastSave.IsZero() && time.Since(s.lastSave) < 500*time.Millisecond
	s.saveMu.Unlock()
	if recent && event.Op&(fsnotify.Write|fsnotify.Create) != 0 {
		return
	}

	s.logger.Debug("fsnotify event", slog.String("path", event.Name), slog.String("op", event.Op.String()))

	evt := Event{
		Timestamp: time.Now(),
		Path:      s.path,
		Removed:   event.Op&(fsnotify.Remove|fsnotify.Rename) != 0,
	}

	// Non-blocking send: a lagging consumer loses intermediate events, which
	// is fine — it only needs to learn that the file changed at all.
	select {
	case s.events <- evt:
	default:
	}
}

func isMarkdownPath(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".md" || ext == ".markdown"
}
