package document_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/euforicio/mdpad/internal/document"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestScratchBuffer(t *testing.T) {
	t.Parallel()
	svc, err := document.NewService(context.Background(), "", testLogger())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	defer svc.Close()

	if svc.Path() != "" {
		t.Fatalf("expected empty path, got %q", svc.Path())
	}
	if _, err := svc.Load(); !errors.Is(err, document.ErrNoBackingFile) {
		t.Fatalf("expected ErrNoBackingFile on load, got %v", err)
	}
	if err := svc.Save("text"); !errors.Is(err, document.ErrNoBackingFile) {
		t.Fatalf("expected ErrNoBackingFile on save, got %v", err)
	}
}

func TestRejectsNonMarkdownPath(t *testing.T) {
	t.Parallel()
	_, err := document.NewService(context.Background(), filepath.Join(t.TempDir(), "notes.txt"), testLogger())
	if err == nil {
		t.Fatal("expected error for non-markdown path")
	}
}

func TestLoadSaveRoundtrip(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "doc.md")
	svc, err := document.NewService(context.Background(), path, testLogger())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	defer svc.Close()

	if err := svc.Save("# Saved\n"); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := svc.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != "# Saved\n" {
		t.Fatalf("roundtrip mismatch: %q", got)
	}
}

func TestExternalWriteDeliversEvent(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "doc.md")
	if err := os.WriteFile(path, []byte("# Original\n"), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	svc, err := document.NewService(context.Background(), path, testLogger())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	defer svc.Close()

	// Give the watcher a moment to attach before writing.
	time.Sleep(200 * time.Millisecond)

	if err := os.WriteFile(path, []byte("# Changed elsewhere\n"), 0o644); err != nil {
		t.Fatalf("external write: %v", err)
	}

	select {
	case evt := <-svc.Events():
		if evt.Removed {
			t.Fatalf("expected a write event, got removal: %+v", evt)
		}
		if evt.Path != svc.Path() {
			t.Fatalf("event path %q does not match service path %q", evt.Path, svc.Path())
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no event after external write")
	}
}

func TestRemovalDeliversRemovedEvent(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "doc.md")
	if err := os.WriteFile(path, []byte("# Doomed\n"), 0o644); err != nil {
		t.Fatalf("seed file: %v", err)
	}

	svc, err := document.NewService(context.Background(), path, testLogger())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	defer svc.Close()

	time.Sleep(200 * time.Millisecond)

	if err := os.Remove(path); err != nil {
		t.Fatalf("remove: %v", err)
	}

	deadline := time.After(2 * time.Second)
	for {
		select {
		case evt := <-svc.Events():
			if evt.Removed {
				return
			}
		case <-deadline:
			t.Fatal("no removal event")
		}
	}
}

func TestOwnSaveIsNotEchoed(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "doc.md")
	svc, err := document.NewService(context.Background(), path, testLogger())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	defer svc.Close()

	time.Sleep(200 * time.Millisecond)

	if err := svc.Save("# From the editor\n"); err != nil {
		t.Fatalf("save: %v", err)
	}

	select {
	case evt := <-svc.Events():
		t.Fatalf("own save echoed back as external change: %+v", evt)
	case <-time.After(700 * time.Millisecond):
	}
}

func TestCloseStopsEventDelivery(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "doc.md")
	svc, err := document.NewService(context.Background(), path, testLogger())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	if err := svc.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	select {
	case _, ok := <-svc.Events():
		if ok {
			t.Fatal("expected closed channel, got event")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("events channel not closed after Close")
	}
}
