//go:build linux

package clipboard

import (
	"errors"
	"testing"
)

func TestWriteRichWithoutWaylandDisplay(t *testing.T) {
	t.Setenv("WAYLAND_DISPLAY", "")

	err := System{}.WriteRich("<p>hi</p>", "hi")
	if !errors.Is(err, ErrRichUnsupported) {
		t.Fatalf("expected ErrRichUnsupported, got %v", err)
	}
}

func TestServeRejectsBadPayload(t *testing.T) {
	t.Parallel()

	if err := Serve([]byte("not json")); err == nil {
		t.Fatal("expected error for malformed payload")
	}
}
