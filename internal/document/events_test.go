package document

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/fsnotify/fsnotify"
)

func TestHandleEventDropsWhenConsumerLags(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "doc.md")
	if err := os.WriteFile(path, []byte("# Doc\n"), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
	svc, err := NewService(context.Background(), path, logger)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	defer svc.Close()

	// Fill the buffer, then deliver more events than it can hold. handleEvent
	// must return instead of blocking on the unread channel.
	for i := 0; i < cap(svc.events)+5; i++ {
		svc.handleEvent(fsnotify.Event{Name: svc.path, Op: fsnotify.Write})
	}

	if len(svc.events) != cap(svc.events) {
		t.Fatalf("expected a full buffer, got %d of %d", len(svc.events), cap(svc.events))
	}
}
